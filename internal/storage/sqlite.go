package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the ledger snapshot in a local SQLite database.
// Save replaces the table contents wholesale inside a transaction; a
// position column preserves the ledger's newest-first order.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the snapshot in ledger order. Rows that no longer satisfy the
// ledger invariants are skipped with a warning.
func (s *SQLiteStore) Load(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, category, date
		 FROM expenses ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			id, description, category, date string
			cents                           int64
		)
		if err := rows.Scan(&id, &description, &cents, &category, &date); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		e, err := decodeRecord(record{
			ID:          id,
			Description: description,
			Amount:      float64(cents) / 100.0,
			Category:    category,
			Date:        date,
		})
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid expense row", "id", id, "error", err)
			continue
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense rows: %w", err)
	}
	return expenses, nil
}

// Save replaces the stored snapshot with the given sequence.
func (s *SQLiteStore) Save(ctx context.Context, records []core.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (id, description, amount_cents, category, date, position)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range records {
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Description, e.Amount.Cents, e.Category.String(), e.Date.String(), i,
		); err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
