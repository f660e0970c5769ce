package normalize

import (
	"strconv"
	"strings"
)

// ParseAmount converts a free-form monetary string into a float value.
// Currency symbols and whitespace are stripped first. Separator
// disambiguation: when both "," and "." are present, the one appearing
// earlier in the string is the thousands separator and the later one the
// decimal point; a lone "," is the decimal point.
//
// Empty or non-numeric input yields 0.0 rather than an error. This is the
// fail-open policy the downstream arithmetic depends on; it can mask
// data-quality problems, which is why it is pinned by tests.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0.0
	}

	comma := strings.Index(s, ",")
	dot := strings.Index(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if dot < comma {
			// 1.234,56 -> thousands ".", decimal ","
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56 -> thousands ","
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return v
}
