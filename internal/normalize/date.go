// Package normalize canonicalizes the loosely formatted fields returned by
// the extraction models into typed values. Its parsing functions never
// return errors: a field that cannot be normalized degrades to its absent
// or zero form so a single dirty field never discards the whole record.
package normalize

import (
	"strings"
	"time"
)

// datePatterns is the ordered list of accepted calendar layouts. The first
// successful parse wins. Day-first layouts come before year-first ones
// because the upstream extractors emit Brazilian DD/MM/YYYY dates.
var datePatterns = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
}

// ParseDate parses a free-form date string against the accepted layouts.
// Absent or unparseable input yields ok=false, never an error.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range datePatterns {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseDatePtr is ParseDate returning a *time.Time, nil when unparseable.
// Convenient for the optional date fields on ContractFacts.
func ParseDatePtr(raw string) *time.Time {
	t, ok := ParseDate(raw)
	if !ok {
		return nil
	}
	return &t
}
