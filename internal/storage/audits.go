package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Micos01/analise-locacao/internal/model"
)

// SaveAuditRecord upserts the final audit outcome for a document. A
// document has at most one current record; re-auditing replaces it.
func (s *SQLiteStorage) SaveAuditRecord(ctx context.Context, rec *model.AuditRecord) error {
	if rec == nil || rec.Document.ID == "" {
		return fmt.Errorf("audit record requires a document id")
	}

	var fee any
	if rec.Decision.Fee != nil {
		fee = *rec.Decision.Fee
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_records (
			document_id, document_name, document_path, method, decided_at,
			signature_status, raw_status, proof_date, start_date, end_date,
			evidence, landlord, tenant, memo, currency, monthly_rent,
			auto_corrected, action, rationale, pillar, advice, fee
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			document_name = excluded.document_name,
			document_path = excluded.document_path,
			method = excluded.method,
			decided_at = excluded.decided_at,
			signature_status = excluded.signature_status,
			raw_status = excluded.raw_status,
			proof_date = excluded.proof_date,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			evidence = excluded.evidence,
			landlord = excluded.landlord,
			tenant = excluded.tenant,
			memo = excluded.memo,
			currency = excluded.currency,
			monthly_rent = excluded.monthly_rent,
			auto_corrected = excluded.auto_corrected,
			action = excluded.action,
			rationale = excluded.rationale,
			pillar = excluded.pillar,
			advice = excluded.advice,
			fee = excluded.fee`,
		rec.Document.ID, rec.Document.Name, rec.Document.Path, rec.Method, rec.DecidedAt,
		string(rec.Facts.Signature), rec.Facts.RawStatus,
		timePtr(rec.Facts.ProofDate), timePtr(rec.Facts.StartDate), timePtr(rec.Facts.EndDate),
		rec.Facts.Evidence, rec.Facts.Landlord, rec.Facts.Tenant, rec.Facts.Memo,
		rec.Facts.Currency, rec.Facts.MonthlyRent, rec.Facts.AutoCorrected,
		string(rec.Decision.Action), rec.Decision.Rationale,
		string(rec.Decision.Pillar), string(rec.Decision.Advice), fee)
	if err != nil {
		return fmt.Errorf("failed to save audit record for %s: %w", rec.Document.ID, err)
	}
	return nil
}

// ListAuditRecords returns every stored audit record ordered by document id.
func (s *SQLiteStorage) ListAuditRecords(ctx context.Context) ([]model.AuditRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, document_name, document_path, method, decided_at,
			signature_status, raw_status, proof_date, start_date, end_date,
			evidence, landlord, tenant, memo, currency, monthly_rent,
			auto_corrected, action, rationale, pillar, advice, fee
		FROM audit_records ORDER BY document_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.AuditRecord
	for rows.Next() {
		var (
			rec                           model.AuditRecord
			signature, action             string
			pillar, advice                string
			rawStatus, evidence, landlord sql.NullString
			tenant, memo, currency        sql.NullString
			rationale                     sql.NullString
			proofDate, startDate, endDate sql.NullTime
			fee                           sql.NullFloat64
		)

		err := rows.Scan(
			&rec.Document.ID, &rec.Document.Name, &rec.Document.Path, &rec.Method, &rec.DecidedAt,
			&signature, &rawStatus, &proofDate, &startDate, &endDate,
			&evidence, &landlord, &tenant, &memo, &currency, &rec.Facts.MonthlyRent,
			&rec.Facts.AutoCorrected, &action, &rationale, &pillar, &advice, &fee)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}

		rec.Facts.Signature = model.SignatureStatus(signature)
		rec.Facts.RawStatus = rawStatus.String
		rec.Facts.ProofDate = nullTimePtr(proofDate)
		rec.Facts.StartDate = nullTimePtr(startDate)
		rec.Facts.EndDate = nullTimePtr(endDate)
		rec.Facts.Evidence = evidence.String
		rec.Facts.Landlord = landlord.String
		rec.Facts.Tenant = tenant.String
		rec.Facts.Memo = memo.String
		rec.Facts.Currency = currency.String

		rec.Decision.Action = model.Action(action)
		rec.Decision.Rationale = rationale.String
		rec.Decision.Pillar = model.DecisivePillar(pillar)
		rec.Decision.Advice = model.TimelineAdvice(advice)
		if fee.Valid {
			f := fee.Float64
			rec.Decision.Fee = &f
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}
	return records, nil
}

func timePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
