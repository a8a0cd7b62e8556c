package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cuzdan/internal/core"
	"cuzdan/internal/recurrence"
	"cuzdan/internal/report"
)

const maxTrendMonths = 60

type reportResponse struct {
	Period           report.Period         `json:"period"`
	Aggregation      report.Aggregation    `json:"aggregation"`
	IncomeCategories []core.CategoryAmount `json:"incomeCategories"`
	ExpenseTitles    []core.TitleAmount    `json:"expenseTitles"`
	KPIs             report.KPIs           `json:"kpis"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Summary(p.ID))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	period, err := parsePeriod(r.URL.Query(), s.store.Today())
	if err != nil {
		writeError(w, r, err)
		return
	}

	// a new store version invalidates every cached aggregation
	key := fmt.Sprintf("%s|%s|%s|%s|%d", p.ID, period.Type, period.Start, period.End, s.store.Version())
	resp, err := s.reports.GetOrLoad(key, func() (reportResponse, error) {
		txs := period.Filter(s.store.ProfileTransactions(p.ID))
		agg := report.Aggregate(txs, period)
		return reportResponse{
			Period:           period,
			Aggregation:      agg,
			IncomeCategories: agg.IncomeCategories(),
			ExpenseTitles:    agg.ExpenseTitles(),
			KPIs:             report.ComputeKPIs(txs),
		}, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	year, month, err := parseYearMonth(q, s.store.Today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	months, err := intParam(q.Get("months"), report.DefaultTrendMonths, 1, maxTrendMonths)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Trend(s.store.ProfileTransactions(p.ID), year, month, months))
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	days, err := intParam(r.URL.Query().Get("days"), s.horizon, 1, 366)
	if err != nil {
		writeError(w, r, err)
		return
	}
	upcoming := recurrence.Upcoming(s.store.ProfileTransactions(p.ID), s.store.Today(), days)
	if upcoming == nil {
		upcoming = []recurrence.Occurrence{}
	}
	writeJSON(w, http.StatusOK, upcoming)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, month, err := parseYearMonth(r.URL.Query(), s.store.Today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recurrence.MonthCalendar(s.store.ProfileTransactions(p.ID), year, month))
}

// intParam parses an optional integer query value within [min, max].
func intParam(raw string, def, min, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("%w: %q must be an integer between %d and %d", errBadRequest, raw, min, max)
	}
	return n, nil
}
