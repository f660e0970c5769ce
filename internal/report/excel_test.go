package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Micos01/analise-locacao/internal/model"
)

func record(name string, action model.Action, fee *float64) model.AuditRecord {
	proof := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	return model.AuditRecord{
		DecidedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		Document:  model.Document{ID: name, Path: "/data/" + name, Name: name},
		Facts: model.ContractFacts{
			ProofDate:   &proof,
			Signature:   model.SignatureDigitalCertified,
			Landlord:    "Maria da Silva",
			Tenant:      "Comercial Andrade Ltda",
			Currency:    "BRL",
			MonthlyRent: 2500,
		},
		Decision: model.Decision{
			Action:    action,
			Rationale: "Assinatura digital certificada após o marco legal.",
			Pillar:    model.PillarDateCertainty,
			Fee:       fee,
		},
		Method: "vision",
	}
}

func feePtr(v float64) *float64 { return &v }

func TestExcelWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "auditoria.xlsx")

	records := []model.AuditRecord{
		record("barato.pdf", model.ActionRegisterLate, feePtr(483.68)),
		record("arquivado.pdf", model.ActionArchive, nil),
		record("caro.pdf", model.ActionRegisterNow, feePtr(1550.52)),
	}

	require.NoError(t, NewExcelWriter(path).Write(context.Background(), records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Auditoria")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus three records")

	assert.Equal(t, "Arquivo", rows[0][0])
	assert.Equal(t, "Custo Registro", rows[0][13])

	// Sorted by fee descending, archive (no fee) last.
	assert.Equal(t, "caro.pdf", rows[1][0])
	assert.Equal(t, "barato.pdf", rows[2][0])
	assert.Equal(t, "arquivado.pdf", rows[3][0])

	assert.Equal(t, "REGISTER_NOW", rows[1][9])

	fee, err := f.GetCellValue("Auditoria", "N2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1550.52", fee)

	// Archive rows leave the fee cell empty rather than writing zero.
	fee, err = f.GetCellValue("Auditoria", "N4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Empty(t, fee)
}

func TestExcelWriterEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auditoria.xlsx")
	require.NoError(t, NewExcelWriter(path).Write(context.Background(), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Auditoria")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
