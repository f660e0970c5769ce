// Package extract turns contract documents into model inputs: directory
// scanning, page rasterization via poppler, text conversion via LlamaParse
// and the extractors that tie a rendering step to a reasoning call.
package extract

// maxFullRender is the page count up to which every page is rendered.
const maxFullRender = 6

// SelectPages returns the zero-based page indices worth rendering for a
// document with total pages. Signature evidence concentrates at the start
// and the end of rental contracts, so long documents are sampled as the
// first three plus the last two pages. Short documents are rendered whole.
func SelectPages(total int) []int {
	if total <= 0 {
		return nil
	}
	if total <= maxFullRender {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i
		}
		return pages
	}
	return []int{0, 1, 2, total - 2, total - 1}
}
