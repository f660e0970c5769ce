// Package decision implements the legal decision tree that classifies each
// audited rental contract against the tax-law transition.
package decision

import (
	"fmt"
	"time"

	"github.com/Micos01/analise-locacao/internal/fees"
	"github.com/Micos01/analise-locacao/internal/model"
)

// Statutory dates of the transition.
var (
	// LawCutoff is the last day on which a date-certain contract is
	// presumptively protected against the new regime (LC 214, 16 Jan 2025).
	// The comparison is inclusive: a proof date exactly on the cutoff still
	// grants protection.
	LawCutoff = time.Date(2025, time.January, 16, 0, 0, 0, 0, time.UTC)

	// TaxTransition is the day the IBS/CBS regime replaces PIS/COFINS
	// entirely (1 Jan 2027).
	TaxTransition = time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
)

const dateLayout = "02/01/2006"

// Engine is the stateless decision procedure over extracted contract
// facts. The signature-status tree is authoritative for the action; the
// independent tax-timeline criterion is recorded as an advisory on every
// record rule 1 does not protect, so both legal formulations stay
// auditable without merging them.
type Engine struct {
	schedule *fees.Schedule
}

// New creates a decision engine backed by the given fee schedule.
func New(schedule *fees.Schedule) *Engine {
	return &Engine{schedule: schedule}
}

// Decide classifies one contract. It is a pure function of the facts:
// identical input always yields an identical decision, and every input
// yields exactly one action with a non-empty rationale.
func (e *Engine) Decide(facts model.ContractFacts) model.Decision {
	d := e.classify(facts)
	d.Advice = timelineAdvice(facts, d.Action)

	if d.Action.RequiresRegistration() {
		base := fees.Annualize(facts.MonthlyRent)
		if fee, err := e.schedule.Lookup(base); err == nil {
			d.Fee = &fee
		}
	}

	return d
}

// classify walks the signature-status tree. Rule order is the contract:
// the first matching rule wins.
func (e *Engine) classify(facts model.ContractFacts) model.Decision {
	status := facts.Signature

	switch {
	case status.HasDateCertainty() && facts.ProofDate != nil && !facts.ProofDate.After(LawCutoff):
		return model.Decision{
			Action: model.ActionArchive,
			Pillar: model.PillarDateCertainty,
			Rationale: fmt.Sprintf(
				"Certified date %s is on or before the %s statutory cutoff, so the contract is protected as a perfect legal act.",
				facts.ProofDate.Format(dateLayout), LawCutoff.Format(dateLayout)),
		}

	case status.HasDateCertainty() && facts.ProofDate != nil:
		return model.Decision{
			Action: model.ActionRegisterLate,
			Pillar: model.PillarDateCertainty,
			Rationale: fmt.Sprintf(
				"Signature is certified but the proof date %s falls after the %s cutoff, too late for automatic archive protection.",
				facts.ProofDate.Format(dateLayout), LawCutoff.Format(dateLayout)),
		}

	case status.HasDateCertainty():
		return model.Decision{
			Action:    model.ActionManualReview,
			Pillar:    model.PillarDocumentIntegrity,
			Rationale: "Signature class is certified but no legible proof date was found, so protection cannot be established automatically.",
		}

	case status == model.SignaturePhysicalUncertified:
		return model.Decision{
			Action:    model.ActionRegisterNow,
			Pillar:    model.PillarDocumentIntegrity,
			Rationale: "Handwritten signature without a notarial seal carries legal risk regardless of dates; register immediately.",
		}

	case status == model.SignatureUnsigned:
		return model.Decision{
			Action:    model.ActionNoAction,
			Pillar:    model.PillarDocumentIntegrity,
			Rationale: "Document carries no valid signature evidence to reason about.",
		}

	default:
		label := facts.RawStatus
		if label == "" {
			label = string(status)
		}
		return model.Decision{
			Action:    model.ActionManualReview,
			Pillar:    model.PillarDocumentIntegrity,
			Rationale: fmt.Sprintf("Signature status %q was not recognized; route to manual review.", label),
		}
	}
}

// timelineAdvice evaluates the independent tax-timeline criterion for any
// contract not already protected by the date-certainty rule. A contract
// ending before the transition never faces the new tax burden; one
// extending past it benefits from registration long-term.
func timelineAdvice(facts model.ContractFacts, action model.Action) model.TimelineAdvice {
	if action == model.ActionArchive || facts.EndDate == nil {
		return model.AdviceNone
	}
	if facts.EndDate.Before(TaxTransition) {
		return model.AdviceSkipRegistration
	}
	return model.AdviceRegisterLongTerm
}
