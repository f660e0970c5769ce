package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Micos01/analise-locacao/internal/common"
)

// PopplerRenderer rasterizes PDF pages by shelling out to the poppler
// utilities pdfinfo and pdftoppm. Both must be on PATH (or configured
// explicitly) for the vision pipeline to work.
type PopplerRenderer struct {
	pdfinfoPath  string
	pdftoppmPath string
	dpi          int
}

// PopplerOption customizes a PopplerRenderer.
type PopplerOption func(*PopplerRenderer)

// WithDPI overrides the render resolution. The default of 150 keeps
// notary seals legible without inflating upload size.
func WithDPI(dpi int) PopplerOption {
	return func(r *PopplerRenderer) { r.dpi = dpi }
}

// WithToolPaths overrides the poppler binary locations.
func WithToolPaths(pdfinfo, pdftoppm string) PopplerOption {
	return func(r *PopplerRenderer) {
		r.pdfinfoPath = pdfinfo
		r.pdftoppmPath = pdftoppm
	}
}

// NewPopplerRenderer creates a renderer and verifies the poppler binaries
// are available.
func NewPopplerRenderer(opts ...PopplerOption) (*PopplerRenderer, error) {
	r := &PopplerRenderer{
		pdfinfoPath:  "pdfinfo",
		pdftoppmPath: "pdftoppm",
		dpi:          150,
	}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := exec.LookPath(r.pdfinfoPath); err != nil {
		return nil, fmt.Errorf("pdfinfo not found at %s: install poppler-utils", r.pdfinfoPath)
	}
	if _, err := exec.LookPath(r.pdftoppmPath); err != nil {
		return nil, fmt.Errorf("pdftoppm not found at %s: install poppler-utils", r.pdftoppmPath)
	}
	return r, nil
}

// CountPages returns the page count reported by pdfinfo.
func (r *PopplerRenderer) CountPages(ctx context.Context, path string) (int, error) {
	cmd := exec.CommandContext(ctx, r.pdfinfoPath, path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return 0, fmt.Errorf("%w: pdfinfo %s: %s", common.ErrRenderFailed, path, strings.TrimSpace(stderr.String()))
		}
		return 0, fmt.Errorf("%w: pdfinfo %s: %v", common.ErrRenderFailed, path, err)
	}

	for _, line := range strings.Split(stdout.String(), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
		if err != nil {
			return 0, fmt.Errorf("%w: unparseable page count in pdfinfo output: %q", common.ErrRenderFailed, line)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: no Pages line in pdfinfo output for %s", common.ErrRenderFailed, path)
}

// RenderPages rasterizes the given zero-based pages to JPEG, one pdftoppm
// invocation per page. Results are returned in the order requested.
func (r *PopplerRenderer) RenderPages(ctx context.Context, path string, pages []int) ([][]byte, error) {
	tmpDir, err := os.MkdirTemp("", "locaudit-render-")
	if err != nil {
		return nil, fmt.Errorf("creating render dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	images := make([][]byte, 0, len(pages))
	for _, page := range pages {
		img, err := r.renderPage(ctx, path, tmpDir, page)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (r *PopplerRenderer) renderPage(ctx context.Context, path, tmpDir string, page int) ([]byte, error) {
	// pdftoppm pages are one-based.
	num := strconv.Itoa(page + 1)
	prefix := filepath.Join(tmpDir, "page-"+num)

	cmd := exec.CommandContext(ctx, r.pdftoppmPath,
		"-jpeg",
		"-r", strconv.Itoa(r.dpi),
		"-f", num,
		"-l", num,
		path,
		prefix,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: pdftoppm page %s of %s: %s", common.ErrRenderFailed, num, path, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%w: pdftoppm page %s of %s: %v", common.ErrRenderFailed, num, path, err)
	}

	// pdftoppm zero-pads the page suffix based on the document length,
	// so glob rather than predict the exact name.
	matches, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("%w: pdftoppm produced no output for page %s of %s", common.ErrRenderFailed, num, path)
	}
	sort.Strings(matches)

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("reading rendered page: %w", err)
	}
	return data, nil
}
