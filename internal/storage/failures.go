package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Micos01/analise-locacao/internal/model"
)

// RecordFailure appends a failure row. Failures accumulate across runs;
// resolving one is a matter of the document succeeding on a later run.
func (s *SQLiteStorage) RecordFailure(ctx context.Context, documentID, stage, message string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO failures (occurred_at, document_id, stage, message)
		VALUES (?, ?, ?, ?)`,
		time.Now(), documentID, stage, message)
	if err != nil {
		return fmt.Errorf("failed to record failure for %s: %w", documentID, err)
	}
	return nil
}

// ListFailures returns all recorded failures, most recent first.
func (s *SQLiteStorage) ListFailures(ctx context.Context) ([]model.Failure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, document_id, stage, message
		FROM failures ORDER BY occurred_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var failures []model.Failure
	for rows.Next() {
		var f model.Failure
		if err := rows.Scan(&f.OccurredAt, &f.DocumentID, &f.Stage, &f.Message); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate failures: %w", err)
	}
	return failures, nil
}
