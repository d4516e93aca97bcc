package http

import (
	"strings"

	"tracker/internal/core"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// expenseForm is the raw add/edit form input before validation.
type expenseForm struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// toDraft parses the form into a ledger draft. Amount and category errors
// come back as the core sentinel errors; an empty date defaults at the
// ledger, an unparseable one is rejected here.
func (f expenseForm) toDraft() (core.Expense, error) {
	amount, err := core.ParseMoney(f.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	category, err := core.ParseCategory(f.Category)
	if err != nil {
		return core.Expense{}, err
	}
	draft := core.Expense{
		Description: f.Description,
		Amount:      amount,
		Category:    category,
	}
	if f.Date != "" {
		date, err := core.ParseDate(f.Date)
		if err != nil {
			return core.Expense{}, err
		}
		draft.Date = date
	}
	return draft, nil
}
