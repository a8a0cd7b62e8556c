package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"cuzdan/internal/core"
)

// Aggregation is the derived view of one period.
type Aggregation struct {
	PeriodLabel      string                            `json:"periodLabel"`
	StartDate        core.Date                         `json:"startDate"`
	EndDate          core.Date                         `json:"endDate"`
	TotalIncome      decimal.Decimal                   `json:"totalIncome"`
	TotalExpense     decimal.Decimal                   `json:"totalExpense"`
	Balance          decimal.Decimal                   `json:"balance"`
	IncomeByCategory map[core.Category]decimal.Decimal `json:"incomeByCategory"`
	ExpenseByTitle   map[string]core.TitleAmount       `json:"expenseByTitle"`
	TransactionCount int                               `json:"transactionCount"`
}

// Aggregate sums the transactions of period p. Transactions outside p are ignored.
func Aggregate(transactions []core.Transaction, p Period) Aggregation {
	agg := Aggregation{
		PeriodLabel:      p.Label,
		StartDate:        p.Start,
		EndDate:          p.End,
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		IncomeByCategory: make(map[core.Category]decimal.Decimal),
		ExpenseByTitle:   make(map[string]core.TitleAmount),
	}
	for _, t := range p.Filter(transactions) {
		agg.TransactionCount++
		switch t.Type {
		case core.Income:
			agg.TotalIncome = agg.TotalIncome.Add(t.Amount)
			agg.IncomeByCategory[t.Category] = agg.IncomeByCategory[t.Category].Add(t.Amount)
		case core.Expense:
			agg.TotalExpense = agg.TotalExpense.Add(t.Amount)
			bucket, ok := agg.ExpenseByTitle[t.Title]
			if !ok {
				bucket = core.TitleAmount{Title: t.Title, Amount: decimal.Zero}
			}
			bucket.Amount = bucket.Amount.Add(t.Amount)
			// last merged transaction names the bucket's category
			bucket.Category = t.Category
			agg.ExpenseByTitle[t.Title] = bucket
		}
	}
	agg.Balance = agg.TotalIncome.Sub(agg.TotalExpense)
	return agg
}

// IncomeCategories returns income buckets, largest first, ties by category name.
func (a Aggregation) IncomeCategories() []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(a.IncomeByCategory))
	for c, amount := range a.IncomeByCategory {
		out = append(out, core.CategoryAmount{Category: c, Label: c.Label(), Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ExpenseTitles returns expense buckets, largest first, ties by title.
func (a Aggregation) ExpenseTitles() []core.TitleAmount {
	out := make([]core.TitleAmount, 0, len(a.ExpenseByTitle))
	for _, b := range a.ExpenseByTitle {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Title < out[j].Title
	})
	return out
}
