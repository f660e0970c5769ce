package normalize

import (
	"regexp"
	"strings"

	"github.com/Micos01/analise-locacao/internal/model"
)

// evidenceDatePattern matches DD/MM/YYYY or DD-MM-YYYY inside free text,
// e.g. a notary seal description like "selo datado de 12/03/2024".
var evidenceDatePattern = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{4}`)

// RecoverProofDate fills a missing proof date from the free-text evidence
// description. The first date pattern found has its separators normalized
// to "/" and is adopted as the proof date; the record is flagged as
// auto-corrected. A record with no match is left untouched.
//
// Best effort only: callers must still tolerate an absent proof date.
func RecoverProofDate(facts *model.ContractFacts) bool {
	if facts == nil || facts.ProofDate != nil || facts.Evidence == "" {
		return false
	}

	match := evidenceDatePattern.FindString(facts.Evidence)
	if match == "" {
		return false
	}

	t, ok := ParseDate(strings.ReplaceAll(match, "-", "/"))
	if !ok {
		return false
	}

	facts.ProofDate = &t
	facts.AutoCorrected = true
	return true
}
