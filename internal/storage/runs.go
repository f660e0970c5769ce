package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StartRun opens a run accounting row and returns its id.
func (s *SQLiteStorage) StartRun(ctx context.Context, documentsTotal int) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, documents_total)
		VALUES (?, ?, ?)`,
		id, time.Now(), documentsTotal)
	if err != nil {
		return "", fmt.Errorf("failed to start run: %w", err)
	}
	return id, nil
}

// FinishRun closes a run accounting row with the final counters.
func (s *SQLiteStorage) FinishRun(ctx context.Context, runID string, callsMade, failed int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, calls_made = ?, failed = ?
		WHERE id = ?`,
		time.Now(), callsMade, failed, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to finish run %s: unknown run id", runID)
	}
	return nil
}
