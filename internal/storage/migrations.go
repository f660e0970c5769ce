package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application
// expects. A database that cannot reach it is a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS raw_extractions (
					key TEXT PRIMARY KEY,
					document_id TEXT NOT NULL,
					method TEXT NOT NULL,
					model TEXT,
					response TEXT NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_raw_extractions_document ON raw_extractions(document_id)`,

				`CREATE TABLE IF NOT EXISTS audit_records (
					document_id TEXT PRIMARY KEY,
					document_name TEXT NOT NULL,
					document_path TEXT NOT NULL,
					method TEXT NOT NULL,
					decided_at DATETIME NOT NULL,
					signature_status TEXT NOT NULL,
					raw_status TEXT,
					proof_date DATETIME,
					start_date DATETIME,
					end_date DATETIME,
					evidence TEXT,
					landlord TEXT,
					tenant TEXT,
					memo TEXT,
					currency TEXT,
					monthly_rent REAL NOT NULL DEFAULT 0,
					auto_corrected INTEGER NOT NULL DEFAULT 0,
					action TEXT NOT NULL,
					rationale TEXT,
					pillar TEXT,
					advice TEXT,
					fee REAL
				)`,
				`CREATE INDEX idx_audit_records_action ON audit_records(action)`,

				`CREATE TABLE IF NOT EXISTS failures (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					occurred_at DATETIME NOT NULL,
					document_id TEXT NOT NULL,
					stage TEXT NOT NULL,
					message TEXT NOT NULL
				)`,
				`CREATE INDEX idx_failures_document ON failures(document_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add run accounting",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					started_at DATETIME NOT NULL,
					finished_at DATETIME,
					documents_total INTEGER NOT NULL DEFAULT 0,
					calls_made INTEGER NOT NULL DEFAULT 0,
					failed INTEGER NOT NULL DEFAULT 0
				)`)
			if err != nil {
				return fmt.Errorf("failed to create runs table: %w", err)
			}
			return nil
		},
	},
}

// Migrate brings the database to the expected schema version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}
	return nil
}
