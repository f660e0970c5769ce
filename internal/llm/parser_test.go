package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Micos01/analise-locacao/internal/common"
	"github.com/Micos01/analise-locacao/internal/model"
)

func TestParseFacts_CleanPayload(t *testing.T) {
	raw := `{
		"status": "DIGITAL (GOV/ICP)",
		"data_evidencia": "15/01/2025",
		"descricao_prova": "Manifesto Gov.br na última página",
		"locador": "Maria da Silva",
		"locatario": "Comercial Andrade Ltda",
		"data_inicio_contrato": "01/02/2024",
		"data_fim_contrato": "31/01/2029",
		"moeda": "BRL",
		"valor_aluguel_mensal_float": 2500.00
	}`

	facts, err := ParseFacts(raw)
	require.NoError(t, err)

	assert.Equal(t, model.SignatureDigitalCertified, facts.Signature)
	assert.Equal(t, "DIGITAL (GOV/ICP)", facts.RawStatus)
	require.NotNil(t, facts.ProofDate)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), *facts.ProofDate)
	require.NotNil(t, facts.EndDate)
	assert.Equal(t, time.Date(2029, 1, 31, 0, 0, 0, 0, time.UTC), *facts.EndDate)
	assert.Equal(t, 2500.00, facts.MonthlyRent)
	assert.Equal(t, "Maria da Silva", facts.Landlord)
	assert.Equal(t, "Comercial Andrade Ltda", facts.Tenant)
	assert.Equal(t, "BRL", facts.Currency)
}

func TestParseFacts_MarkdownFencesAndProse(t *testing.T) {
	raw := "Segue a análise solicitada:\n```json\n" +
		`{"status": "FÍSICA (SEM FIRMA)", "valor_aluguel_mensal_float": 1800}` +
		"\n```\nEspero ter ajudado."

	facts, err := ParseFacts(raw)
	require.NoError(t, err)
	assert.Equal(t, model.SignaturePhysicalUncertified, facts.Signature)
	assert.Equal(t, 1800.0, facts.MonthlyRent)
}

func TestParseFacts_AmountAsString(t *testing.T) {
	raw := `{"status": "FÍSICA (COM FIRMA)", "valor_aluguel_mensal_float": "R$ 1.234,56"}`

	facts, err := ParseFacts(raw)
	require.NoError(t, err)
	assert.Equal(t, 1234.56, facts.MonthlyRent)
}

func TestParseFacts_FieldByFieldDegradation(t *testing.T) {
	raw := `{
		"status": "SELO ILEGÍVEL",
		"data_evidencia": "sem data visível",
		"data_fim_contrato": null,
		"valor_aluguel_mensal_float": "a combinar"
	}`

	facts, err := ParseFacts(raw)
	require.NoError(t, err, "dirty fields must not discard the record")

	assert.Equal(t, model.SignatureReview, facts.Signature)
	assert.Nil(t, facts.ProofDate)
	assert.Nil(t, facts.EndDate)
	assert.Equal(t, 0.0, facts.MonthlyRent)
}

func TestParseFacts_AlternateFieldNames(t *testing.T) {
	raw := `{
		"status_assinatura": "FÍSICA (COM FIRMA)",
		"data_comprovada_str": "10/11/2024",
		"evidencia_encontrada": "Selo do 2º Tabelionato"
	}`

	facts, err := ParseFacts(raw)
	require.NoError(t, err)
	assert.Equal(t, model.SignaturePhysicalCertified, facts.Signature)
	require.NotNil(t, facts.ProofDate)
	assert.Equal(t, time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC), *facts.ProofDate)
	assert.Equal(t, "Selo do 2º Tabelionato", facts.Evidence)
}

func TestParseFacts_NullStrings(t *testing.T) {
	raw := `{"status": "NÃO ASSINADO", "locador": "null", "data_evidencia": "null"}`

	facts, err := ParseFacts(raw)
	require.NoError(t, err)
	assert.Empty(t, facts.Landlord)
	assert.Nil(t, facts.ProofDate)
	assert.Equal(t, model.SignatureUnsigned, facts.Signature)
}

func TestParseFacts_DefaultCurrency(t *testing.T) {
	facts, err := ParseFacts(`{"status": "NÃO ASSINADO"}`)
	require.NoError(t, err)
	assert.Equal(t, "BRL", facts.Currency)
}

func TestParseFacts_NegativeRentClampedToZero(t *testing.T) {
	facts, err := ParseFacts(`{"status": "NÃO ASSINADO", "valor_aluguel_mensal_float": -500}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, facts.MonthlyRent)
}

func TestParseFacts_NoJSONObject(t *testing.T) {
	for _, raw := range []string{"", "desculpe, não consegui analisar o documento", "```json\n```"} {
		_, err := ParseFacts(raw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrMalformedResponse), "raw=%q", raw)
	}
}
