package report

import (
	"github.com/shopspring/decimal"

	"cuzdan/internal/core"
)

var hundred = decimal.NewFromInt(100)

// KPIs extends a Summary with per-transaction and per-day figures.
type KPIs struct {
	core.Summary
	AverageTransaction  decimal.Decimal `json:"averageTransaction"`
	DailyAverageExpense decimal.Decimal `json:"dailyAverageExpense"`
	// SavingsRate is a percentage of income; zero when there is no income.
	SavingsRate decimal.Decimal `json:"savingsRate"`
}

// Summarize totals transactions by type. Empty input yields zeros.
func Summarize(transactions []core.Transaction) core.Summary {
	s := core.Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range transactions {
		switch t.Type {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
		s.TransactionCount++
	}
	s.TotalBalance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// ComputeKPIs returns the summary of transactions plus derived averages.
func ComputeKPIs(transactions []core.Transaction) KPIs {
	k := KPIs{
		Summary:             Summarize(transactions),
		AverageTransaction:  decimal.Zero,
		DailyAverageExpense: decimal.Zero,
		SavingsRate:         decimal.Zero,
	}
	if k.TransactionCount > 0 {
		k.AverageTransaction = k.TotalIncome.Add(k.TotalExpense).
			Div(decimal.NewFromInt(int64(k.TransactionCount))).Round(2)
	}

	days := make(map[core.Date]struct{})
	for _, t := range transactions {
		days[t.Date] = struct{}{}
	}
	if len(days) > 0 {
		k.DailyAverageExpense = k.TotalExpense.Div(decimal.NewFromInt(int64(len(days)))).Round(2)
	}

	if k.TotalIncome.IsPositive() {
		k.SavingsRate = k.TotalBalance.Div(k.TotalIncome).Mul(hundred).Round(2)
	}
	return k
}
