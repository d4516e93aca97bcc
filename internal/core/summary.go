package core

// CategoryTotal represents an amount aggregated by category.
type CategoryTotal struct {
	Category Category
	Amount   Money
}

// Summary is the derived aggregate view over a record set: per-category
// totals (every fixed category present, zero-defaulted, canonical order)
// plus the overall total.
type Summary struct {
	ByCategory []CategoryTotal
	Overall    Money
}

// Summarize computes the aggregates for the given records. Sums are over
// stored cents, so rounding error never compounds across records.
func Summarize(records []Expense) Summary {
	totals := make(map[Category]int64, len(Categories()))
	var overall int64
	for _, e := range records {
		totals[e.Category] += e.Amount.Cents
		overall += e.Amount.Cents
	}

	s := Summary{Overall: Money{Cents: overall}}
	for _, c := range Categories() {
		s.ByCategory = append(s.ByCategory, CategoryTotal{
			Category: c,
			Amount:   Money{Cents: totals[c]},
		})
	}
	return s
}
