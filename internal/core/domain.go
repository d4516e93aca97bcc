package core

import (
	"errors"
	"strings"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrNotFound         = errors.New("expense not found")
)

// Expense is a single recorded expense. ID is assigned by the ledger at
// creation and never changes afterwards.
type Expense struct {
	ID          string
	Description string
	Amount      Money
	Category    Category
	Date        Date
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return nil
}
