// Package ledger owns the authoritative in-memory sequence of expense
// records: validated mutations, derived aggregates, and the persistence
// contract against a durable store.
package ledger

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tracker/internal/core"
)

// Store is the durable slot the ledger snapshots into. Save replaces the
// prior snapshot wholesale; Load yields the last saved sequence.
type Store interface {
	Load(ctx context.Context) ([]core.Expense, error)
	Save(ctx context.Context, records []core.Expense) error
}

// Ledger is the sole writer of the record sequence. Records are kept
// newest-first. Mutations are synchronous; the snapshot save after each
// mutation is best-effort and never fails the caller.
type Ledger struct {
	mu      sync.Mutex
	records []core.Expense
	store   Store
}

// New builds a ledger backed by store, seeded with the store's last
// snapshot. A load failure degrades to an empty ledger: availability is
// preferred over surfacing stale-state errors to the user.
func New(ctx context.Context, store Store) *Ledger {
	l := &Ledger{store: store}
	records, err := store.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Snapshot load failed, starting with empty ledger", "error", err)
		return l
	}
	l.records = records
	return l
}

// Add validates the draft and prepends a new record with a fresh id.
// The draft's description is trimmed and a zero date defaults to today.
// On validation failure the sequence is unchanged.
func (l *Ledger) Add(ctx context.Context, draft core.Expense) (core.Expense, error) {
	rec, err := normalize(draft)
	if err != nil {
		return core.Expense{}, err
	}
	rec.ID = uuid.NewString()

	l.mu.Lock()
	l.records = append([]core.Expense{rec}, l.records...)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persist(ctx, snapshot)

	slog.InfoContext(ctx, "Expense added",
		"id", rec.ID,
		"description", rec.Description,
		"amount_cents", rec.Amount.Cents,
		"category", rec.Category,
		"date", rec.Date.String())
	return rec, nil
}

// Update replaces the record with the given id in place, preserving its
// position and id. Returns core.ErrNotFound if no record matches.
func (l *Ledger) Update(ctx context.Context, id string, draft core.Expense) (core.Expense, error) {
	rec, err := normalize(draft)
	if err != nil {
		return core.Expense{}, err
	}
	rec.ID = id

	l.mu.Lock()
	idx := l.indexLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return core.Expense{}, core.ErrNotFound
	}
	l.records[idx] = rec
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persist(ctx, snapshot)

	slog.InfoContext(ctx, "Expense updated", "id", id, "amount_cents", rec.Amount.Cents)
	return rec, nil
}

// Remove deletes the record with the given id if present and reports
// whether a removal occurred. Removing a missing id is a no-op.
func (l *Ledger) Remove(ctx context.Context, id string) bool {
	l.mu.Lock()
	idx := l.indexLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	l.records = append(l.records[:idx], l.records[idx+1:]...)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persist(ctx, snapshot)

	slog.InfoContext(ctx, "Expense removed", "id", id)
	return true
}

// List returns a copy of the record sequence, newest-first.
func (l *Ledger) List() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Get returns the record with the given id, if present.
func (l *Ledger) Get(id string) (core.Expense, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx := l.indexLocked(id); idx >= 0 {
		return l.records[idx], true
	}
	return core.Expense{}, false
}

// TotalsByCategory returns the summed amount per category. Every fixed
// category is present, defaulting to zero.
func (l *Ledger) TotalsByCategory() map[core.Category]core.Money {
	summary := l.Summarize()
	totals := make(map[core.Category]core.Money, len(summary.ByCategory))
	for _, ct := range summary.ByCategory {
		totals[ct.Category] = ct.Amount
	}
	return totals
}

// OverallTotal returns the sum of all records' amounts.
func (l *Ledger) OverallTotal() core.Money {
	return l.Summarize().Overall
}

// Summarize computes the per-category and overall aggregates.
func (l *Ledger) Summarize() core.Summary {
	l.mu.Lock()
	records := l.snapshotLocked()
	l.mu.Unlock()
	return core.Summarize(records)
}

func (l *Ledger) indexLocked(id string) int {
	for i, rec := range l.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) snapshotLocked() []core.Expense {
	out := make([]core.Expense, len(l.records))
	copy(out, l.records)
	return out
}

// persist writes the snapshot to the durable store. Failures are logged,
// not surfaced: the in-memory mutation already succeeded and the user is
// not expected to retry on a disk hiccup.
func (l *Ledger) persist(ctx context.Context, records []core.Expense) {
	if err := l.store.Save(ctx, records); err != nil {
		slog.ErrorContext(ctx, "Failed to save ledger snapshot",
			"error", err, "records", len(records))
	}
}

// normalize trims and defaults a draft, then validates it.
func normalize(draft core.Expense) (core.Expense, error) {
	draft.Description = strings.TrimSpace(draft.Description)
	if draft.Date.IsZero() {
		draft.Date = core.Today()
	}
	if err := draft.Validate(); err != nil {
		return core.Expense{}, err
	}
	return draft, nil
}
