package normalize

import (
	"testing"
	"time"

	"github.com/Micos01/analise-locacao/internal/model"
)

func TestRecoverProofDate(t *testing.T) {
	t.Run("recovers slash date from evidence", func(t *testing.T) {
		facts := model.ContractFacts{
			Evidence: "selo de cartório datado de 12/03/2024",
		}
		if !RecoverProofDate(&facts) {
			t.Fatal("expected recovery")
		}
		want := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
		if facts.ProofDate == nil || !facts.ProofDate.Equal(want) {
			t.Errorf("proof date = %v, want %v", facts.ProofDate, want)
		}
		if !facts.AutoCorrected {
			t.Error("record must be flagged auto-corrected")
		}
	})

	t.Run("normalizes dash separators", func(t *testing.T) {
		facts := model.ContractFacts{
			Evidence: "Manifesto Gov.br na pág 10 datado de 15-07-2024",
		}
		if !RecoverProofDate(&facts) {
			t.Fatal("expected recovery")
		}
		want := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
		if !facts.ProofDate.Equal(want) {
			t.Errorf("proof date = %v, want %v", facts.ProofDate, want)
		}
	})

	t.Run("no date pattern leaves proof date absent", func(t *testing.T) {
		facts := model.ContractFacts{
			Evidence: "assinatura à caneta sem selo",
		}
		if RecoverProofDate(&facts) {
			t.Fatal("expected no recovery")
		}
		if facts.ProofDate != nil {
			t.Error("proof date must stay absent")
		}
		if facts.AutoCorrected {
			t.Error("record must not be flagged")
		}
	})

	t.Run("existing proof date is never overwritten", func(t *testing.T) {
		existing := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
		facts := model.ContractFacts{
			ProofDate: &existing,
			Evidence:  "carimbo de 12/03/2024",
		}
		if RecoverProofDate(&facts) {
			t.Fatal("expected no recovery")
		}
		if !facts.ProofDate.Equal(existing) {
			t.Error("existing proof date changed")
		}
	})

	t.Run("empty evidence is a no-op", func(t *testing.T) {
		facts := model.ContractFacts{}
		if RecoverProofDate(&facts) {
			t.Fatal("expected no recovery")
		}
	})
}
