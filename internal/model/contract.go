package model

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"
	"time"
)

// SignatureStatus classifies how (and whether) a contract was signed.
type SignatureStatus string

// Signature status constants.
const (
	// SignatureDigitalCertified covers Gov.br, DocuSign, ICP-Brasil and other
	// digital certification. Carries legal date certainty.
	SignatureDigitalCertified SignatureStatus = "DIGITAL_CERTIFIED"
	// SignaturePhysicalCertified is a handwritten signature with a notarial
	// seal (firma reconhecida). Also carries date certainty.
	SignaturePhysicalCertified SignatureStatus = "PHYSICAL_CERTIFIED"
	// SignaturePhysicalUncertified is a handwritten signature with no seal.
	SignaturePhysicalUncertified SignatureStatus = "PHYSICAL_UNCERTIFIED"
	// SignatureUnsigned means no signature evidence at all.
	SignatureUnsigned SignatureStatus = "UNSIGNED"
	// SignatureReview marks an upstream label the parser did not recognize.
	// Routed to manual review, never coerced to a safer-looking default.
	SignatureReview SignatureStatus = "REVIEW"
)

// HasDateCertainty reports whether this signature class fixes the signing
// date against third parties (notarized or digitally certified).
func (s SignatureStatus) HasDateCertainty() bool {
	return s == SignatureDigitalCertified || s == SignaturePhysicalCertified
}

// ParseSignatureStatus maps the free-form labels produced by the extraction
// models onto the closed enum. The upstream models emit Portuguese category
// names such as "DIGITAL (GOV/ICP)" or "FÍSICA (COM FIRMA)". Empty input
// maps to SignatureUnsigned; anything else unrecognized maps to
// SignatureReview. No value is ever dropped silently.
func ParseSignatureStatus(raw string) SignatureStatus {
	s := strings.ToUpper(strings.TrimSpace(raw))

	// Exact enum names round-trip unchanged.
	switch SignatureStatus(s) {
	case SignatureDigitalCertified, SignaturePhysicalCertified,
		SignaturePhysicalUncertified, SignatureUnsigned, SignatureReview:
		return SignatureStatus(s)
	}

	switch {
	case s == "":
		return SignatureUnsigned
	case strings.Contains(s, "DIGITAL"):
		return SignatureDigitalCertified
	case strings.Contains(s, "COM FIRMA"):
		return SignaturePhysicalCertified
	case strings.Contains(s, "SEM FIRMA"):
		return SignaturePhysicalUncertified
	case strings.Contains(s, "NÃO ASSINADO"), strings.Contains(s, "NAO ASSINADO"):
		return SignatureUnsigned
	default:
		return SignatureReview
	}
}

// ContractFacts carries the fields extracted from a single rental contract.
// Fields may be incomplete or zero-valued; the decision engine must still
// classify the record. The struct is read-only to the engine except for
// evidence date recovery, which may fill a missing proof date in place.
type ContractFacts struct {
	ProofDate *time.Time
	StartDate *time.Time
	EndDate   *time.Time

	Signature SignatureStatus
	RawStatus string // upstream label before normalization, kept for audit

	Evidence string // free-text proof description from the extractor
	Landlord string
	Tenant   string
	Memo     string // extractor's calculation notes, carried to the report

	Currency    string
	MonthlyRent float64 // non-negative; 0 when absent or unparseable

	// AutoCorrected is set when the proof date was recovered from the
	// evidence text rather than extracted directly.
	AutoCorrected bool
}

// Document identifies one contract file in the input set.
type Document struct {
	ID   string // path relative to the scan root; stable ordering key
	Path string // absolute path on disk
	Name string // base file name
}

const rawArtifactSuffix = "_RAW"

// ArtifactKey derives the storage key for this document's raw extraction
// payload: the identifier without extension, unsafe runes replaced, plus
// a fixed suffix. The key is stable across runs; its existence in the
// artifact store is the resume signal.
//
// Keys must be unique per document. Two distinct identifiers may sanitize
// to the same string ("a/b.pdf" and "a_b.pdf"), so any identifier that
// needed sanitizing also carries a short hash of the original.
func (d Document) ArtifactKey() string {
	id := d.ID
	if id == "" {
		id = d.Name
	}
	base := strings.TrimSuffix(id, filepath.Ext(id))

	var b strings.Builder
	b.Grow(len(base) + len(rawArtifactSuffix))
	sanitized := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
			sanitized = true
		}
	}
	if sanitized {
		h := fnv.New32a()
		_, _ = h.Write([]byte(id))
		fmt.Fprintf(&b, "-%08x", h.Sum32())
	}
	return b.String() + rawArtifactSuffix
}
