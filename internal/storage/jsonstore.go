// Package storage provides the durable-slot adapters the ledger snapshots
// into: a JSON file, a SQLite database, and a volatile in-process store.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"tracker/internal/core"
)

// record is the persisted wire form of an expense. Amounts are written as
// 2-decimal numbers and dates as YYYY-MM-DD strings.
type record struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// JSONStore keeps the full ledger snapshot in a single JSON file. Save
// replaces the file wholesale using a temp-file + rename so an interrupted
// write never corrupts the previous snapshot.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &JSONStore{path: path}, nil
}

// Load reads the snapshot file. An absent, unreadable, or unparseable file
// yields an empty sequence: load never fails the caller, it degrades.
func (s *JSONStore) Load(ctx context.Context) ([]core.Expense, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Snapshot unreadable, starting empty", "path", s.path, "error", err)
		}
		return nil, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		slog.WarnContext(ctx, "Snapshot unparseable, starting empty", "path", s.path, "error", err)
		return nil, nil
	}

	return decodeRecords(ctx, records), nil
}

// Save serializes the full sequence and atomically replaces the snapshot.
func (s *JSONStore) Save(ctx context.Context, expenses []core.Expense) error {
	records := encodeRecords(expenses)

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func encodeRecords(expenses []core.Expense) []record {
	records := make([]record, len(expenses))
	for i, e := range expenses {
		records[i] = record{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount.Dollars(),
			Category:    e.Category.String(),
			Date:        e.Date.String(),
		}
	}
	return records
}

// decodeRecords maps persisted records back to the domain, dropping any
// entry that no longer satisfies the ledger invariants.
func decodeRecords(ctx context.Context, records []record) []core.Expense {
	expenses := make([]core.Expense, 0, len(records))
	for _, r := range records {
		e, err := decodeRecord(r)
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid persisted record",
				"id", r.ID, "error", err)
			continue
		}
		expenses = append(expenses, e)
	}
	return expenses
}

func decodeRecord(r record) (core.Expense, error) {
	category, err := core.ParseCategory(r.Category)
	if err != nil {
		return core.Expense{}, fmt.Errorf("category %q: %w", r.Category, err)
	}
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("date %q: %w", r.Date, err)
	}
	cents := int64(math.Round(r.Amount * 100))
	e := core.Expense{
		ID:          r.ID,
		Description: r.Description,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
	}
	if e.ID == "" {
		return core.Expense{}, fmt.Errorf("missing id")
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
