// Package recurrence projects recurring transactions onto calendar dates.
//
// A recurring transaction repeats every month on its RecurringDay. When that
// day does not exist in a month (31 in April, 29-31 in February) the occurrence
// falls on the month's last day. Recurrences only project forward from the
// month the transaction was created in, never backward.
package recurrence

import (
	"sort"

	"cuzdan/internal/core"
)

// DefaultHorizonDays is how far ahead the upcoming list looks.
const DefaultHorizonDays = 30

// Schedule is the strategy interface for a repeating transaction.
type Schedule interface {
	// Next returns the first occurrence on or after today.
	Next(today core.Date) core.Date
	// OccursOn reports whether the schedule produces an occurrence on date.
	OccursOn(date core.Date) bool
}

// MonthlySchedule repeats on Day of every month starting with the month of Start.
type MonthlySchedule struct {
	Day   int
	Start core.Date
}

// Next returns the next occurrence relative to today.
func (s MonthlySchedule) Next(today core.Date) core.Date {
	year, month := today.Year(), today.Month()
	// Candidate is this month unless the day has already passed
	if s.Day < today.Day() {
		month++
	}
	candidate := core.ClampedDate(year, month, s.Day)

	if !s.Start.IsEmpty() && candidate.MonthBefore(s.Start) {
		candidate = core.ClampedDate(s.Start.Year(), s.Start.Month(), s.Day)
	}
	return candidate
}

// OccursOn returns true if date falls exactly on the schedule's day in a month
// that is not earlier than the start month. Unlike Next, the day is not
// clamped, so a day-31 schedule has no calendar entry in 30-day months.
func (s MonthlySchedule) OccursOn(date core.Date) bool {
	if !s.Start.IsEmpty() && date.MonthBefore(s.Start) {
		return false
	}
	return date.Day() == s.Day
}

// ScheduleFor returns the schedule of a recurring transaction.
// Returns false for non-recurring transactions.
func ScheduleFor(t core.Transaction) (Schedule, bool) {
	if !t.IsRecurring || t.RecurringDay < 1 {
		return nil, false
	}
	return MonthlySchedule{Day: t.RecurringDay, Start: t.Date}, true
}

// NextOccurrence returns the next date, on or after today, a transaction
// recurring on recurringDay falls on.
func NextOccurrence(recurringDay int, today core.Date) core.Date {
	return MonthlySchedule{Day: recurringDay}.Next(today)
}

// DaysUntil returns the number of whole days from today to date.
// Dates carry no time of day, so the ceiling of the difference is exact.
func DaysUntil(today, date core.Date) int {
	return core.DaysBetween(today, date)
}

// OccursOn reports whether t shows up on date: either its own date is date,
// or it recurs and its schedule lands on date.
func OccursOn(t core.Transaction, date core.Date) bool {
	if t.Date.Equal(date) {
		return true
	}
	s, ok := ScheduleFor(t)
	if !ok {
		return false
	}
	return s.OccursOn(date)
}

// Occurrence is one entry of the upcoming-payments list.
type Occurrence struct {
	Transaction core.Transaction `json:"transaction"`
	DueDate     core.Date        `json:"dueDate"`
	DaysLeft    int              `json:"daysLeft"`
}

// Upcoming lists the recurring and future one-off transactions due within
// horizon days of today, soonest first. Recurring entries due today are
// included (daysLeft 0); one-off entries dated today are not.
func Upcoming(transactions []core.Transaction, today core.Date, horizon int) []Occurrence {
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}
	var out []Occurrence
	for _, t := range transactions {
		if s, ok := ScheduleFor(t); ok {
			due := s.Next(today)
			days := DaysUntil(today, due)
			if days >= 0 && days <= horizon {
				out = append(out, Occurrence{Transaction: t, DueDate: due, DaysLeft: days})
			}
			continue
		}
		days := DaysUntil(today, t.Date)
		if days > 0 && days <= horizon {
			out = append(out, Occurrence{Transaction: t, DueDate: t.Date, DaysLeft: days})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysLeft < out[j].DaysLeft
	})
	return out
}
