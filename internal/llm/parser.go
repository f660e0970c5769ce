package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Micos01/analise-locacao/internal/common"
	"github.com/Micos01/analise-locacao/internal/model"
	"github.com/Micos01/analise-locacao/internal/normalize"
)

// jsonObjectPattern grabs the outermost {...} from a response that may be
// wrapped in prose or markdown.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// factsPayload mirrors the JSON schema the extraction prompt requests,
// plus the alternate field names older pipeline variants emit. Amount
// fields use RawMessage because models return them as numbers or as
// Brazilian-formatted strings interchangeably.
type factsPayload struct {
	Status          string          `json:"status"`
	StatusAlt       string          `json:"status_assinatura"`
	EvidenceDate    string          `json:"data_evidencia"`
	EvidenceDateAlt string          `json:"data_comprovada_str"`
	Evidence        string          `json:"descricao_prova"`
	EvidenceAlt     string          `json:"evidencia_encontrada"`
	Landlord        string          `json:"locador"`
	Tenant          string          `json:"locatario"`
	StartDate       string          `json:"data_inicio_contrato"`
	EndDate         string          `json:"data_fim_contrato"`
	Currency        string          `json:"moeda"`
	MonthlyRent     json.RawMessage `json:"valor_aluguel_mensal_float"`
	Memo            string          `json:"memoria_calculo"`
}

// cleanResponse strips markdown fences and surrounding prose, returning
// the first JSON object found in the raw model output.
func cleanResponse(raw string) (string, bool) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if match := jsonObjectPattern.FindString(s); match != "" {
		return match, true
	}
	return "", false
}

// ParseFacts maps a raw model response onto typed contract facts. Fields
// degrade individually: an unparseable date becomes absent, an
// unparseable amount becomes zero, an unknown status label becomes the
// review sentinel. An error is returned only when no JSON object can be
// located at all, in which case the document is recorded as a parse
// failure rather than silently classified from empty facts.
func ParseFacts(raw string) (model.ContractFacts, error) {
	cleaned, ok := cleanResponse(raw)
	if !ok {
		return model.ContractFacts{}, fmt.Errorf("%w: no JSON object in model output", common.ErrMalformedResponse)
	}

	var payload factsPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return model.ContractFacts{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	rawStatus := firstNonEmpty(payload.Status, payload.StatusAlt)
	evidence := firstNonEmpty(payload.Evidence, payload.EvidenceAlt)
	proofDate := firstNonEmpty(payload.EvidenceDate, payload.EvidenceDateAlt)

	currency := strings.TrimSpace(payload.Currency)
	if currency == "" {
		currency = "BRL"
	}

	facts := model.ContractFacts{
		Signature:   model.ParseSignatureStatus(rawStatus),
		RawStatus:   rawStatus,
		ProofDate:   normalize.ParseDatePtr(nullToEmpty(proofDate)),
		StartDate:   normalize.ParseDatePtr(nullToEmpty(payload.StartDate)),
		EndDate:     normalize.ParseDatePtr(nullToEmpty(payload.EndDate)),
		MonthlyRent: amountFromRaw(payload.MonthlyRent),
		Evidence:    nullToEmpty(evidence),
		Landlord:    nullToEmpty(payload.Landlord),
		Tenant:      nullToEmpty(payload.Tenant),
		Memo:        nullToEmpty(payload.Memo),
		Currency:    currency,
	}

	return facts, nil
}

// amountFromRaw accepts either a JSON number or a monetary string and
// degrades to zero on anything else.
func amountFromRaw(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0.0
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if num < 0 {
			return 0.0
		}
		return num
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return normalize.ParseAmount(str)
	}

	return 0.0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// nullToEmpty drops the literal "null" some models emit inside string fields.
func nullToEmpty(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "null") {
		return ""
	}
	return strings.TrimSpace(s)
}
