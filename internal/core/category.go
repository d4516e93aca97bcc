package core

import "strings"

// Category is the closed set of expense categories. Arbitrary strings are
// rejected at the boundary so the ledger can never hold an unknown label.
type Category string

const (
	Food      Category = "Food"
	Transport Category = "Transport"
	Bills     Category = "Bills"
	Shopping  Category = "Shopping"
	Other     Category = "Other"
)

// Categories returns the fixed category set in canonical display order.
func Categories() []Category {
	return []Category{Food, Transport, Bills, Shopping, Other}
}

// ParseCategory maps a raw label to a Category, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
