package core

// CategoryAmount is an absolute amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Rupiah
}

// Summary holds the running totals of a transaction set. Expense keeps
// its internal negative sign; display uses Expense.Abs().
type Summary struct {
	Income  Rupiah
	Expense Rupiah
	Balance Rupiah
}

// Totals sums a transaction set: income is the sum of positive
// amounts, expense the sum of negative amounts, balance their sum.
// Pure and total, no failure modes.
func Totals(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		if t.Amount > 0 {
			s.Income += t.Amount
		} else {
			s.Expense += t.Amount
		}
	}
	s.Balance = s.Income + s.Expense
	return s
}

// ExpenseBreakdown aggregates outflows by category in first-seen
// order, with amounts as magnitudes ready for display.
func ExpenseBreakdown(txs []Transaction) []CategoryAmount {
	sums := map[string]Rupiah{}
	var order []string
	for _, t := range txs {
		if t.Amount >= 0 {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = "Lainnya"
		}
		if _, seen := sums[cat]; !seen {
			order = append(order, cat)
		}
		sums[cat] += t.Amount.Abs()
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: sums[name]})
	}
	return out
}
