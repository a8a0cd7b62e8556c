// Package report aggregates transactions over calendar periods and computes
// the summary figures shown on dashboards and exported to sinks.
package report

import (
	"errors"
	"fmt"
	"time"

	"cuzdan/internal/core"
)

// PeriodType selects the span of a report.
type PeriodType string

const (
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodHalf    PeriodType = "half"
	PeriodYear    PeriodType = "year"
	PeriodCustom  PeriodType = "custom"
)

var (
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidRange  = errors.New("invalid date range")
)

// IsValid reports whether p is a known period type.
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodMonth, PeriodQuarter, PeriodHalf, PeriodYear, PeriodCustom:
		return true
	}
	return false
}

// Period is an inclusive date range with a display label.
type Period struct {
	Type  PeriodType `json:"type"`
	Start core.Date  `json:"startDate"`
	End   core.Date  `json:"endDate"`
	Label string     `json:"label"`
}

// NewPeriod returns the period of type pt containing (year, month).
// Month is 1-based. Custom periods are built with CustomPeriod.
func NewPeriod(pt PeriodType, year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month %d", core.ErrInvalidMonth, month)
	}
	switch pt {
	case PeriodMonth:
		return Period{
			Type:  pt,
			Start: core.NewDate(year, month, 1),
			End:   core.NewDate(year, month, core.DaysInMonth(year, month)),
			Label: fmt.Sprintf("%s %d", time.Month(month), year),
		}, nil
	case PeriodQuarter:
		q := (month - 1) / 3
		first := q*3 + 1
		return Period{
			Type:  pt,
			Start: core.NewDate(year, first, 1),
			End:   core.NewDate(year, first+2, core.DaysInMonth(year, first+2)),
			Label: fmt.Sprintf("Q%d %d", q+1, year),
		}, nil
	case PeriodHalf:
		first, half := 1, 1
		if month > 6 {
			first, half = 7, 2
		}
		return Period{
			Type:  pt,
			Start: core.NewDate(year, first, 1),
			End:   core.NewDate(year, first+5, core.DaysInMonth(year, first+5)),
			Label: fmt.Sprintf("H%d %d", half, year),
		}, nil
	case PeriodYear:
		return Period{
			Type:  pt,
			Start: core.NewDate(year, 1, 1),
			End:   core.NewDate(year, 12, 31),
			Label: fmt.Sprintf("%d", year),
		}, nil
	default:
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, pt)
	}
}

// CustomPeriod returns the inclusive range [start, end].
func CustomPeriod(start, end core.Date) (Period, error) {
	if start.IsEmpty() || end.IsEmpty() || end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s / %s", ErrInvalidRange, start, end)
	}
	return Period{
		Type:  PeriodCustom,
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s / %s", start, end),
	}, nil
}

// Contains reports whether date falls in the period, bounds included.
func (p Period) Contains(date core.Date) bool {
	return !date.Before(p.Start) && !date.After(p.End)
}

// Filter returns the transactions dated inside the period, in input order.
func (p Period) Filter(transactions []core.Transaction) []core.Transaction {
	var out []core.Transaction
	for _, t := range transactions {
		if p.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
