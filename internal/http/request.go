package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"cuzdan/internal/core"
	"cuzdan/internal/report"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON document from the request body into v.
// Domain decode failures such as bad dates keep their sentinel; anything
// else is reported as errBadRequest.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, core.ErrInvalidDate) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON body", errBadRequest)
	}
	return nil
}

// sanitizeInput trims s and removes control characters except tab, newline
// and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

type profileRequest struct {
	Name        string        `json:"name"`
	AvatarColor string        `json:"avatarColor"`
	Currency    core.Currency `json:"currency"`
}

func (p profileRequest) input() core.ProfileInput {
	return core.ProfileInput{
		Name:        sanitizeInput(p.Name),
		AvatarColor: sanitizeInput(p.AvatarColor),
		Currency:    core.Currency(strings.ToUpper(strings.TrimSpace(string(p.Currency)))),
	}
}

// selectRequest selects a profile; a null or missing id clears the selection.
type selectRequest struct {
	ID *string `json:"id"`
}

// transactionRequest accepts the amount as a JSON number or a string with
// either decimal separator.
type transactionRequest struct {
	Type         core.TransactionType `json:"type"`
	Amount       json.RawMessage      `json:"amount"`
	Category     core.Category        `json:"category"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Date         core.Date            `json:"date"`
	IsRecurring  bool                 `json:"isRecurring"`
	RecurringDay int                  `json:"recurringDay"`
}

func (t transactionRequest) input() (core.TransactionInput, error) {
	amount, err := parseAmountField(t.Amount)
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Type:         t.Type,
		Amount:       amount,
		Category:     t.Category,
		Title:        sanitizeInput(t.Title),
		Description:  sanitizeInput(t.Description),
		Date:         t.Date,
		IsRecurring:  t.IsRecurring,
		RecurringDay: t.RecurringDay,
	}, nil
}

func parseAmountField(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Decimal{}, fmt.Errorf("%w: missing", core.ErrInvalidAmount)
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %s", core.ErrInvalidAmount, raw)
		}
	}
	return core.ParseAmount(s)
}

// parseYearMonth reads year and month query parameters, defaulting each to
// today's value when absent.
func parseYearMonth(q url.Values, today core.Date) (year, month int, err error) {
	year, month = today.Year(), today.Month()
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, convErr := strconv.Atoi(v)
		if convErr != nil || y < 1 || y > 9999 {
			return 0, 0, fmt.Errorf("%w: year %q", errBadRequest, v)
		}
		year = y
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		m, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, 0, fmt.Errorf("%w: month %q", errBadRequest, v)
		}
		if m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("%w: %d", core.ErrInvalidMonth, m)
		}
		month = m
	}
	return year, month, nil
}

// parsePeriod resolves the report period named by period, year, month, start
// and end query parameters. The period defaults to the current month.
func parsePeriod(q url.Values, today core.Date) (report.Period, error) {
	pt := report.PeriodType(strings.ToLower(strings.TrimSpace(q.Get("period"))))
	if pt == "" {
		pt = report.PeriodMonth
	}
	if !pt.IsValid() {
		return report.Period{}, fmt.Errorf("%w: %q", report.ErrInvalidPeriod, pt)
	}
	if pt == report.PeriodCustom {
		start, err := core.ParseDate(q.Get("start"))
		if err != nil {
			return report.Period{}, err
		}
		end, err := core.ParseDate(q.Get("end"))
		if err != nil {
			return report.Period{}, err
		}
		return report.CustomPeriod(start, end)
	}
	year, month, err := parseYearMonth(q, today)
	if err != nil {
		return report.Period{}, err
	}
	return report.NewPeriod(pt, year, month)
}
