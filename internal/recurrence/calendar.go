package recurrence

import (
	"github.com/shopspring/decimal"

	"cuzdan/internal/core"
)

// CalendarDay is one cell of a month calendar.
type CalendarDay struct {
	Date         core.Date          `json:"date"`
	Transactions []core.Transaction `json:"transactions"`
	Income       decimal.Decimal    `json:"income"`
	Expense      decimal.Decimal    `json:"expense"`
}

// MonthCalendar lays transactions out on every day of (year, month), projecting
// recurring ones forward from their creation month.
func MonthCalendar(transactions []core.Transaction, year, month int) []CalendarDay {
	first := core.NewDate(year, month, 1)
	n := core.DaysInMonth(first.Year(), first.Month())
	days := make([]CalendarDay, n)
	for i := range days {
		date := first.AddDays(i)
		day := CalendarDay{Date: date, Income: decimal.Zero, Expense: decimal.Zero}
		for _, t := range transactions {
			if !OccursOn(t, date) {
				continue
			}
			day.Transactions = append(day.Transactions, t)
			if t.Type == core.Income {
				day.Income = day.Income.Add(t.Amount)
			} else {
				day.Expense = day.Expense.Add(t.Amount)
			}
		}
		days[i] = day
	}
	return days
}
