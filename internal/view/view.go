// Package view tracks the ephemeral display state: the active category
// filter and the inline-edit draft. It is never persisted.
package view

import (
	"context"
	"sync"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

// FilterAll shows every record regardless of category.
const FilterAll = "All"

// Filter restricts which records are displayed. The zero value means "All".
type Filter struct {
	category core.Category
	active   bool
}

// ParseFilter interprets a raw label as a filter. "All" (or empty) clears
// the restriction; anything else must be a member of the fixed category set.
func ParseFilter(s string) (Filter, error) {
	if s == "" || s == FilterAll {
		return Filter{}, nil
	}
	c, err := core.ParseCategory(s)
	if err != nil {
		return Filter{}, err
	}
	return Filter{category: c, active: true}, nil
}

// Matches reports whether the record passes the filter.
func (f Filter) Matches(e core.Expense) bool {
	return !f.active || e.Category == f.category
}

// Category returns the selected category and whether one is selected.
func (f Filter) Category() (core.Category, bool) {
	return f.category, f.active
}

func (f Filter) String() string {
	if !f.active {
		return FilterAll
	}
	return f.category.String()
}

// Draft holds the editable copy of a record while it is in inline-edit
// mode. The raw fields mirror form input so invalid entries survive a
// failed commit for correction.
type Draft struct {
	ID          string
	Description string
	Amount      string
	Category    core.Category
	Date        core.Date
}

// State is the filter plus the edit cursor. At most one record is in edit
// mode at a time.
type State struct {
	mu           sync.Mutex
	filter       Filter
	formCategory core.Category
	draft        *Draft
}

// NewState starts with the "All" filter and the first fixed category as
// the add-form default.
func NewState() *State {
	return &State{formCategory: core.Categories()[0]}
}

// SetFilter sets the active filter. When a specific category is selected
// the add-form default follows it, so consecutive entries in the same
// category need no re-selection.
func (s *State) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	if c, ok := f.Category(); ok {
		s.formCategory = c
	}
}

// Filter returns the active filter.
func (s *State) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// FormCategory returns the add-form's current default category.
func (s *State) FormCategory() core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formCategory
}

// Filtered returns the records passing the active filter, preserving
// ledger order.
func (s *State) Filtered(records []core.Expense) []core.Expense {
	f := s.Filter()
	out := make([]core.Expense, 0, len(records))
	for _, e := range records {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// BeginEdit copies the record's current values into a draft bound to its
// id, replacing any previous draft.
func (s *State) BeginEdit(rec core.Expense) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = &Draft{
		ID:          rec.ID,
		Description: rec.Description,
		Amount:      rec.Amount.String(),
		Category:    rec.Category,
		Date:        rec.Date,
	}
	return s.draft
}

// Editing returns the current draft, or nil when no record is in edit mode.
func (s *State) Editing() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// EditingID returns the id of the record in edit mode, if any.
func (s *State) EditingID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return "", false
	}
	return s.draft.ID, true
}

// CommitEdit applies the draft through the ledger. On success edit mode
// ends; on failure the draft is retained so the user can correct input.
func (s *State) CommitEdit(ctx context.Context, l *ledger.Ledger, draft Draft) (core.Expense, error) {
	amount, err := core.ParseMoney(draft.Amount)
	if err != nil {
		s.retain(draft)
		return core.Expense{}, err
	}

	rec, err := l.Update(ctx, draft.ID, core.Expense{
		Description: draft.Description,
		Amount:      amount,
		Category:    draft.Category,
		Date:        draft.Date,
	})
	if err != nil {
		s.retain(draft)
		return core.Expense{}, err
	}

	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()
	return rec, nil
}

// CancelEdit discards the draft without touching the ledger.
func (s *State) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

func (s *State) retain(draft Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = &draft
}
