package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Micos01/analise-locacao/internal/common"
	"github.com/Micos01/analise-locacao/internal/model"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestRawExtractionRoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	exists, err := store.HasRawExtraction(ctx, "Contrato_A_RAW")
	require.NoError(t, err)
	assert.False(t, exists)

	raw := &model.RawExtraction{
		Timestamp:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Key:        "Contrato_A_RAW",
		DocumentID: "contratos/Contrato A.pdf",
		Method:     "vision",
		Model:      "gemini-2.5-flash",
		Response:   `{"status": "DIGITAL (GOV/ICP)"}`,
	}
	require.NoError(t, store.SaveRawExtraction(ctx, raw))

	exists, err = store.HasRawExtraction(ctx, "Contrato_A_RAW")
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := store.GetRawExtraction(ctx, "Contrato_A_RAW")
	require.NoError(t, err)
	assert.Equal(t, raw.DocumentID, loaded.DocumentID)
	assert.Equal(t, raw.Method, loaded.Method)
	assert.Equal(t, raw.Model, loaded.Model)
	assert.Equal(t, raw.Response, loaded.Response)
	assert.True(t, raw.Timestamp.Equal(loaded.Timestamp))
}

func TestGetRawExtractionNotFound(t *testing.T) {
	store := setupTestStorage(t)

	_, err := store.GetRawExtraction(context.Background(), "missing_RAW")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSaveRawExtractionOverwrites(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	first := &model.RawExtraction{
		Timestamp: time.Now(), Key: "k_RAW", DocumentID: "a.pdf",
		Method: "vision", Response: "first",
	}
	require.NoError(t, store.SaveRawExtraction(ctx, first))

	second := *first
	second.Response = "second"
	require.NoError(t, store.SaveRawExtraction(ctx, &second))

	loaded, err := store.GetRawExtraction(ctx, "k_RAW")
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Response)
}

func testRecord(id string) *model.AuditRecord {
	proof := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2029, 1, 31, 0, 0, 0, 0, time.UTC)
	fee := 723.98
	return &model.AuditRecord{
		DecidedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		Document:  model.Document{ID: id, Path: "/data/" + id, Name: filepath.Base(id)},
		Facts: model.ContractFacts{
			ProofDate:   &proof,
			EndDate:     &end,
			Signature:   model.SignatureDigitalCertified,
			RawStatus:   "DIGITAL (GOV/ICP)",
			Evidence:    "Manifesto Gov.br",
			Landlord:    "Maria da Silva",
			Tenant:      "Comercial Andrade Ltda",
			Currency:    "BRL",
			MonthlyRent: 2500,
		},
		Decision: model.Decision{
			Action:    model.ActionRegisterLate,
			Rationale: "Assinatura digital certificada em 20/01/2025, após o marco legal.",
			Pillar:    model.PillarDateCertainty,
			Advice:    model.AdviceRegisterLongTerm,
			Fee:       &fee,
		},
		Method: "vision",
	}
}

func TestAuditRecordRoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	rec := testRecord("contratos/Contrato A.pdf")
	require.NoError(t, store.SaveAuditRecord(ctx, rec))

	records, err := store.ListAuditRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, rec.Document, got.Document)
	assert.Equal(t, rec.Method, got.Method)
	assert.Equal(t, rec.Facts.Signature, got.Facts.Signature)
	assert.Equal(t, rec.Facts.RawStatus, got.Facts.RawStatus)
	assert.Equal(t, rec.Facts.Landlord, got.Facts.Landlord)
	assert.Equal(t, rec.Facts.MonthlyRent, got.Facts.MonthlyRent)
	require.NotNil(t, got.Facts.ProofDate)
	assert.True(t, rec.Facts.ProofDate.Equal(*got.Facts.ProofDate))
	assert.Nil(t, got.Facts.StartDate)
	assert.Equal(t, rec.Decision.Action, got.Decision.Action)
	assert.Equal(t, rec.Decision.Pillar, got.Decision.Pillar)
	assert.Equal(t, rec.Decision.Advice, got.Decision.Advice)
	require.NotNil(t, got.Decision.Fee)
	assert.Equal(t, *rec.Decision.Fee, *got.Decision.Fee)
}

func TestSaveAuditRecordReplacesPrevious(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	rec := testRecord("a.pdf")
	require.NoError(t, store.SaveAuditRecord(ctx, rec))

	rec.Decision.Action = model.ActionManualReview
	rec.Decision.Fee = nil
	require.NoError(t, store.SaveAuditRecord(ctx, rec))

	records, err := store.ListAuditRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.ActionManualReview, records[0].Decision.Action)
	assert.Nil(t, records[0].Decision.Fee)
}

func TestListAuditRecordsOrderedByDocumentID(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"c.pdf", "a.pdf", "b.pdf"} {
		require.NoError(t, store.SaveAuditRecord(ctx, testRecord(id)))
	}

	records, err := store.ListAuditRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a.pdf", records[0].Document.ID)
	assert.Equal(t, "b.pdf", records[1].Document.ID)
	assert.Equal(t, "c.pdf", records[2].Document.ID)
}

func TestFailures(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.RecordFailure(ctx, "a.pdf", "extract", "render failed"))
	require.NoError(t, store.RecordFailure(ctx, "b.pdf", "parse", "no JSON object"))

	failures, err := store.ListFailures(ctx)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, "b.pdf", failures[0].DocumentID)
	assert.Equal(t, "parse", failures[0].Stage)
	assert.Equal(t, "a.pdf", failures[1].DocumentID)
}

func TestRunAccounting(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	runID, err := store.StartRun(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	require.NoError(t, store.FinishRun(ctx, runID, 7, 1))

	err = store.FinishRun(ctx, "no-such-run", 0, 0)
	assert.Error(t, err)
}
