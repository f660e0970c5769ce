package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Micos01/analise-locacao/internal/common"
	"github.com/Micos01/analise-locacao/internal/model"
)

// HasRawExtraction reports whether a raw payload exists for the key. This
// is the resume check: a present key means the external call already
// happened and must not be repeated.
func (s *SQLiteStorage) HasRawExtraction(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM raw_extractions WHERE key = ?", key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check raw extraction %s: %w", key, err)
	}
	return true, nil
}

// SaveRawExtraction persists a raw payload. Saving the same key again
// overwrites; the payload of a later attempt supersedes the earlier one.
func (s *SQLiteStorage) SaveRawExtraction(ctx context.Context, raw *model.RawExtraction) error {
	if raw == nil || raw.Key == "" {
		return fmt.Errorf("raw extraction requires a key")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO raw_extractions (key, document_id, method, model, response, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			document_id = excluded.document_id,
			method = excluded.method,
			model = excluded.model,
			response = excluded.response,
			created_at = excluded.created_at`,
		raw.Key, raw.DocumentID, raw.Method, raw.Model, raw.Response, raw.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save raw extraction %s: %w", raw.Key, err)
	}
	return nil
}

// GetRawExtraction loads the raw payload for the key.
func (s *SQLiteStorage) GetRawExtraction(ctx context.Context, key string) (*model.RawExtraction, error) {
	raw := &model.RawExtraction{Key: key}
	err := s.db.QueryRowContext(ctx, `
		SELECT document_id, method, model, response, created_at
		FROM raw_extractions WHERE key = ?`, key).
		Scan(&raw.DocumentID, &raw.Method, &raw.Model, &raw.Response, &raw.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("raw extraction %s: %w", key, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load raw extraction %s: %w", key, err)
	}
	return raw, nil
}
