// Package model defines the core domain records shared across the audit pipeline.
package model

import "time"

// Action is the recommended handling for an audited contract.
type Action string

// Action constants.
const (
	// ActionArchive means the contract is protected by a certified date
	// before the statutory cutoff; no registration needed.
	ActionArchive Action = "ARCHIVE"
	// ActionRegisterLate means the signature is valid but certified after
	// the cutoff; registration is still advisable.
	ActionRegisterLate Action = "REGISTER_LATE"
	// ActionRegisterNow flags an uncertified physical signature; register
	// immediately regardless of dates.
	ActionRegisterNow Action = "REGISTER_NOW"
	// ActionManualReview routes indeterminate records to a human.
	ActionManualReview Action = "MANUAL_REVIEW"
	// ActionNoAction means there is no valid evidence to act on.
	ActionNoAction Action = "NO_ACTION"
)

// RequiresRegistration reports whether the action implies a notary
// registration and therefore carries a fee.
func (a Action) RequiresRegistration() bool {
	return a == ActionRegisterNow || a == ActionRegisterLate
}

// DecisivePillar names the legal criterion that drove a decision.
type DecisivePillar string

// Decisive pillar constants.
const (
	PillarDateCertainty     DecisivePillar = "DateCertainty"
	PillarTaxTimeline       DecisivePillar = "TaxTimeline"
	PillarDocumentIntegrity DecisivePillar = "DocumentIntegrity"
)

// TimelineAdvice is the advisory outcome of the independent tax-timeline
// criterion. It never overrides the signature-tree action; it is recorded
// alongside it so both legal formulations stay auditable.
type TimelineAdvice string

// Timeline advice constants.
const (
	AdviceNone TimelineAdvice = ""
	// AdviceSkipRegistration: the contract ends before the new tax regime
	// applies, so registration would be economic waste.
	AdviceSkipRegistration TimelineAdvice = "NO_REGISTRATION"
	// AdviceRegisterLongTerm: exposure extends into the new regime.
	AdviceRegisterLongTerm TimelineAdvice = "REGISTER"
)

// Decision is the immutable outcome of auditing one contract. Every record
// gets exactly one action and a non-empty rationale sentence.
type Decision struct {
	Action    Action
	Rationale string
	Pillar    DecisivePillar
	Advice    TimelineAdvice
	Fee       *float64 // registration fee, set when the action implies registration
}

// RawExtraction is the persisted raw payload of one external extraction
// call, saved before any normalization so a crashed run can resume without
// repeating the call.
type RawExtraction struct {
	Timestamp  time.Time
	Key        string // artifact key, see Document.ArtifactKey
	DocumentID string
	Method     string // pipeline variant, e.g. "gemini-vision"
	Model      string
	Response   string // verbatim model output
}

// AuditRecord binds a document to its extracted facts and final decision.
// It carries every field the tabular export needs.
type AuditRecord struct {
	DecidedAt time.Time
	Document  Document
	Facts     ContractFacts
	Decision  Decision
	Method    string
}

// Failure records a document the batch could not process. The run continues
// past failures; they are kept for re-run triage.
type Failure struct {
	OccurredAt time.Time
	DocumentID string
	Stage      string // "extract", "parse" or "persist"
	Message    string
}
