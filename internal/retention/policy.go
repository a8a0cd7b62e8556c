// Package retention implements the monthly pruning of one-off history.
package retention

import (
	"fmt"

	"cuzdan/internal/core"
)

// MonthKey returns the "YYYY-MM" key of the month date falls in.
func MonthKey(date core.Date) string {
	return fmt.Sprintf("%04d-%02d", date.Year(), date.Month())
}

// Due reports whether a cleanup has not yet run in today's month.
func Due(lastCleanupMonth string, today core.Date) bool {
	return lastCleanupMonth != MonthKey(today)
}

// Prune splits transactions into the ones kept and the ones removed.
// Recurring transactions are always kept; one-off transactions survive only
// if they fall in today's calendar month. Input order is preserved.
func Prune(transactions []core.Transaction, today core.Date) (kept, removed []core.Transaction) {
	kept = make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.IsRecurring || t.Date.SameMonth(today) {
			kept = append(kept, t)
			continue
		}
		removed = append(removed, t)
	}
	return kept, removed
}
