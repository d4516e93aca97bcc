package ledger

import (
	"context"
	"errors"
	"testing"

	"tracker/internal/core"
)

// recordingStore captures every snapshot the ledger saves.
type recordingStore struct {
	seed    []core.Expense
	loadErr error
	saveErr error
	saves   [][]core.Expense
}

func (s *recordingStore) Load(_ context.Context) ([]core.Expense, error) {
	return s.seed, s.loadErr
}

func (s *recordingStore) Save(_ context.Context, records []core.Expense) error {
	snapshot := make([]core.Expense, len(records))
	copy(snapshot, records)
	s.saves = append(s.saves, snapshot)
	return s.saveErr
}

func draft(desc string, cents int64, cat core.Category) core.Expense {
	return core.Expense{
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Category:    cat,
		Date:        core.NewDate(2024, 1, 1),
	}
}

func TestAddPrependsAndAssignsID(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{}
	l := New(ctx, store)

	first, err := l.Add(ctx, draft("Lunch", 1000, core.Food))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected assigned id")
	}

	second, err := l.Add(ctx, draft("Bus", 500, core.Transport))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("ids must be unique")
	}

	list := l.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	// Newest first
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest-first order: %+v", list)
	}

	if len(store.saves) != 2 {
		t.Fatalf("expected a save per mutation, got %d", len(store.saves))
	}
}

func TestAddTrimsAndDefaultsDate(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, &recordingStore{})

	rec, err := l.Add(ctx, core.Expense{
		Description: "  Coffee  ",
		Amount:      core.Money{Cents: 300},
		Category:    core.Food,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.Description != "Coffee" {
		t.Fatalf("description not trimmed: %q", rec.Description)
	}
	if rec.Date.String() != core.Today().String() {
		t.Fatalf("zero date should default to today, got %s", rec.Date)
	}
}

func TestAddRejectsInvalidWithoutMutating(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{}
	l := New(ctx, store)

	if _, err := l.Add(ctx, draft("Lunch", 1000, core.Food)); err != nil {
		t.Fatalf("seed add: %v", err)
	}
	before := l.List()

	cases := []struct {
		name string
		in   core.Expense
		want error
	}{
		{"empty description", draft("   ", 100, core.Food), core.ErrEmptyDescription},
		{"zero amount", draft("x", 0, core.Food), core.ErrInvalidAmount},
		{"negative amount", draft("x", -100, core.Food), core.ErrInvalidAmount},
		{"unknown category", draft("x", 100, "Groceries"), core.ErrInvalidCategory},
	}
	for _, tc := range cases {
		if _, err := l.Add(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	after := l.List()
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Fatalf("failed adds must not mutate the ledger")
	}
	if len(store.saves) != 1 {
		t.Fatalf("failed adds must not persist, saves=%d", len(store.saves))
	}
}

func TestUpdatePreservesPositionAndID(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, &recordingStore{})

	a, _ := l.Add(ctx, draft("A", 100, core.Food))
	b, _ := l.Add(ctx, draft("B", 200, core.Transport))
	c, _ := l.Add(ctx, draft("C", 300, core.Bills))

	updated, err := l.Update(ctx, b.ID, draft("B2", 250, core.Shopping))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != b.ID {
		t.Fatalf("id must be preserved")
	}

	list := l.List()
	if list[0].ID != c.ID || list[1].ID != b.ID || list[2].ID != a.ID {
		t.Fatalf("position must be preserved: %+v", list)
	}
	if list[1].Description != "B2" || list[1].Amount.Cents != 250 || list[1].Category != core.Shopping {
		t.Fatalf("fields not replaced: %+v", list[1])
	}
}

func TestUpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, &recordingStore{})
	l.Add(ctx, draft("A", 100, core.Food))
	before := l.List()

	if _, err := l.Update(ctx, "missing", draft("X", 100, core.Food)); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	after := l.List()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("failed update must not mutate the ledger")
	}
}

func TestRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, &recordingStore{})
	rec, _ := l.Add(ctx, draft("A", 100, core.Food))

	if !l.Remove(ctx, rec.ID) {
		t.Fatalf("first remove should report true")
	}
	if l.Remove(ctx, rec.ID) {
		t.Fatalf("second remove of same id should report false")
	}
	if l.Remove(ctx, "never-existed") {
		t.Fatalf("removing unknown id should report false")
	}
	if len(l.List()) != 0 {
		t.Fatalf("expected empty ledger")
	}
}

func TestTotalsInvariant(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, &recordingStore{})
	l.Add(ctx, draft("Lunch", 1235, core.Food))
	l.Add(ctx, draft("Bus", 500, core.Transport))
	l.Add(ctx, draft("Rent", 90000, core.Bills))

	totals := l.TotalsByCategory()
	if len(totals) != len(core.Categories()) {
		t.Fatalf("every fixed category must be present: %+v", totals)
	}
	var sum int64
	for _, m := range totals {
		sum += m.Cents
	}
	if overall := l.OverallTotal(); overall.Cents != sum {
		t.Fatalf("overall %d != sum of category totals %d", overall.Cents, sum)
	}
}

func TestLunchRoundingScenario(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, &recordingStore{})

	amount, err := core.ParseMoney("12.345")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	date, _ := core.ParseDate("2024-01-01")
	rec, err := l.Add(ctx, core.Expense{
		Description: "Lunch",
		Amount:      amount,
		Category:    core.Food,
		Date:        date,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if rec.Amount.Cents != 1235 {
		t.Fatalf("stored amount should round to 12.35, got %d cents", rec.Amount.Cents)
	}
	if got := l.TotalsByCategory()[core.Food]; got.Cents != 1235 {
		t.Fatalf("food total = %d, want 1235", got.Cents)
	}
	if got := l.OverallTotal(); got.Cents != 1235 {
		t.Fatalf("overall = %d, want 1235", got.Cents)
	}
}

func TestLoadFailureDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{loadErr: errors.New("disk on fire")}
	l := New(ctx, store)
	if len(l.List()) != 0 {
		t.Fatalf("load failure must yield an empty ledger")
	}
	// The ledger stays usable
	if _, err := l.Add(ctx, draft("A", 100, core.Food)); err != nil {
		t.Fatalf("add after degraded load: %v", err)
	}
}

func TestSaveFailureNotSurfaced(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{saveErr: errors.New("disk full")}
	l := New(ctx, store)

	rec, err := l.Add(ctx, draft("A", 100, core.Food))
	if err != nil {
		t.Fatalf("save failures must not surface through Add: %v", err)
	}
	if len(l.List()) != 1 || l.List()[0].ID != rec.ID {
		t.Fatalf("in-memory mutation must survive a failed save")
	}
}

func TestSeededFromStore(t *testing.T) {
	ctx := context.Background()
	seed := []core.Expense{
		{ID: "a", Description: "A", Amount: core.Money{Cents: 100}, Category: core.Food, Date: core.NewDate(2024, 1, 1)},
		{ID: "b", Description: "B", Amount: core.Money{Cents: 200}, Category: core.Bills, Date: core.NewDate(2024, 1, 2)},
	}
	l := New(ctx, &recordingStore{seed: seed})

	list := l.List()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("seed order must be preserved: %+v", list)
	}
}
