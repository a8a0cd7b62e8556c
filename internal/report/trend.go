package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"cuzdan/internal/core"
)

// DefaultTrendMonths is the length of the dashboard trend.
const DefaultTrendMonths = 12

// TrendPoint is the monthly total of one trend bucket.
type TrendPoint struct {
	Label   string          `json:"label"`
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Trend returns n monthly points ending with (year, month), oldest first.
// A non-positive n uses DefaultTrendMonths.
//
// Retention prunes one-off transactions outside the current month, so older
// points only reflect recurring transactions that survived cleanups.
func Trend(transactions []core.Transaction, year, month, n int) []TrendPoint {
	if n <= 0 {
		n = DefaultTrendMonths
	}
	points := make([]TrendPoint, n)
	index := make(map[[2]int]int, n)
	for i := 0; i < n; i++ {
		first := core.NewDate(year, month-(n-1-i), 1)
		points[i] = TrendPoint{
			Label:   fmt.Sprintf("%s %d", time.Month(first.Month()).String()[:3], first.Year()),
			Year:    first.Year(),
			Month:   first.Month(),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		index[[2]int{first.Year(), first.Month()}] = i
	}
	for _, t := range transactions {
		i, ok := index[[2]int{t.Date.Year(), t.Date.Month()}]
		if !ok {
			continue
		}
		switch t.Type {
		case core.Income:
			points[i].Income = points[i].Income.Add(t.Amount)
		case core.Expense:
			points[i].Expense = points[i].Expense.Add(t.Amount)
		}
	}
	for i := range points {
		points[i].Net = points[i].Income.Sub(points[i].Expense)
	}
	return points
}
