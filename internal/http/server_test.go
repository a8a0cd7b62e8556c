package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cuzdan/internal/core"
	"cuzdan/internal/log"
	"cuzdan/internal/recurrence"
	"cuzdan/internal/report"
	"cuzdan/internal/services"
	sheetsmem "cuzdan/internal/sheets/memory"
	"cuzdan/internal/storage"
	"cuzdan/internal/store"
)

var testNow = time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	srv   *Server
	store *store.Store
	sink  *sheetsmem.Sink
}

func newTestEnv(t *testing.T, withExports bool, opts Options) *testEnv {
	t.Helper()
	n := 0
	st := store.New(storage.NewMemoryPersister(core.State{}), core.State{},
		store.WithClock(func() time.Time { return testNow }),
		store.WithLocation(time.UTC),
		store.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }))

	env := &testEnv{store: st, sink: sheetsmem.New()}
	if withExports {
		opts.Exports = services.NewExportService(st, env.sink, nil)
	}
	opts.Logger = log.New(log.Config{Output: io.Discard})
	env.srv = NewServer(":0", st, opts)
	t.Cleanup(func() { _ = env.srv.Shutdown(context.Background()) })
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func (e *testEnv) createProfile(t *testing.T, name string) core.Profile {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/profiles", `{"name":"`+name+`","avatarColor":"#fff","currency":"TRY"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create profile: status=%d body=%s", rr.Code, rr.Body.String())
	}
	return decodeBody[core.Profile](t, rr)
}

func (e *testEnv) createTransaction(t *testing.T, profileID, body string) core.Transaction {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/profiles/"+profileID+"/transactions", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create transaction: status=%d body=%s", rr.Code, rr.Body.String())
	}
	return decodeBody[core.Transaction](t, rr)
}

func TestHealthReadyAndMetrics(t *testing.T) {
	env := newTestEnv(t, false, Options{ReadyCheck: func(context.Context) error { return nil }})

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rr := env.do(t, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
	rr := env.do(t, http.MethodGet, "/metrics", "")
	if !strings.Contains(rr.Body.String(), "http_requests_total") {
		t.Fatalf("metrics body missing counters: %s", rr.Body.String())
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("security headers not applied")
	}
}

func TestReadyReportsStorageFailure(t *testing.T) {
	env := newTestEnv(t, false, Options{ReadyCheck: func(context.Context) error { return fmt.Errorf("db locked") }})
	rr := env.do(t, http.MethodGet, "/readyz", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, false, Options{})
	rr := env.do(t, http.MethodGet, "/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	if decodeBody[errorResponse](t, rr).Error == "" {
		t.Fatal("expected JSON error body")
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	env := newTestEnv(t, false, Options{})

	tests := []struct {
		query string
		want  int
	}{
		{"", 12},
		{"?type=income", 4},
		{"?type=EXPENSE", 9},
	}
	for _, tt := range tests {
		t.Run("categories"+tt.query, func(t *testing.T) {
			got := decodeBody[[]core.CategoryDescriptor](t, env.do(t, http.MethodGet, "/api/categories"+tt.query, ""))
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
		})
	}

	if rr := env.do(t, http.MethodGet, "/api/categories?type=transfer", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown type status = %d", rr.Code)
	}
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t, false, Options{})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"empty name", `{"name":"  ","currency":"TRY"}`, http.StatusUnprocessableEntity},
		{"bad currency", `{"name":"Home","currency":"GBP"}`, http.StatusUnprocessableEntity},
		{"lowercase currency accepted", `{"name":"Home","currency":"eur"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/profiles", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tt.status, rr.Body.String())
			}
		})
	}

	work := env.createProfile(t, "Work")
	if got := decodeBody[[]core.Profile](t, env.do(t, http.MethodGet, "/api/profiles", "")); len(got) != 2 {
		t.Fatalf("profiles = %d, want 2", len(got))
	}

	if rr := env.do(t, http.MethodGet, "/api/profiles/active", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("active before select: %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/profiles/select", `{"id":"`+work.ID+`"}`); rr.Code != http.StatusNoContent {
		t.Fatalf("select: %d %s", rr.Code, rr.Body.String())
	}
	active := decodeBody[core.Profile](t, env.do(t, http.MethodGet, "/api/profiles/active", ""))
	if active.ID != work.ID {
		t.Fatalf("active = %q, want %q", active.ID, work.ID)
	}
	if rr := env.do(t, http.MethodPost, "/api/profiles/select", `{"id":"missing"}`); rr.Code != http.StatusNotFound {
		t.Fatalf("select unknown: %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/profiles/select", `{"id":null}`); rr.Code != http.StatusNoContent {
		t.Fatalf("clear selection: %d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/profiles/active", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("active after clear: %d", rr.Code)
	}
}

func TestDeleteProfileCascades(t *testing.T) {
	env := newTestEnv(t, false, Options{})
	p := env.createProfile(t, "Home")
	env.createTransaction(t, p.ID, `{"type":"expense","amount":"10","category":"food","title":"Lunch","date":"2025-03-10"}`)

	if rr := env.do(t, http.MethodDelete, "/api/profiles/"+p.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rr.Code)
	}
	if rr := env.do(t, http.MethodDelete, "/api/profiles/"+p.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("second delete: %d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/profiles/"+p.ID+"/transactions", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("transactions of deleted profile: %d", rr.Code)
	}
	if n := len(env.store.Snapshot().Transactions); n != 0 {
		t.Fatalf("transactions left = %d", n)
	}
}

func TestTransactionEndpoints(t *testing.T) {
	env := newTestEnv(t, false, Options{})
	p := env.createProfile(t, "Home")

	created := env.createTransaction(t, p.ID, `{"type":"expense","amount":"12,50","category":"food","title":" Lunch ","date":"2025-03-10"}`)
	if !created.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("amount = %s", created.Amount)
	}
	if created.Title != "Lunch" {
		t.Fatalf("title = %q, want trimmed", created.Title)
	}
	env.createTransaction(t, p.ID, `{"type":"income","amount":1000,"category":"salary","title":"Salary","date":"2025-03-12"}`)

	invalid := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown profile", "/api/profiles/missing/transactions", `{"type":"expense","amount":"1","category":"food","title":"x","date":"2025-03-10"}`, http.StatusNotFound},
		{"bad amount", "/api/profiles/" + p.ID + "/transactions", `{"type":"expense","amount":"-1","category":"food","title":"x","date":"2025-03-10"}`, http.StatusUnprocessableEntity},
		{"missing amount", "/api/profiles/" + p.ID + "/transactions", `{"type":"expense","category":"food","title":"x","date":"2025-03-10"}`, http.StatusUnprocessableEntity},
		{"bad category", "/api/profiles/" + p.ID + "/transactions", `{"type":"expense","amount":"1","category":"pets","title":"x","date":"2025-03-10"}`, http.StatusUnprocessableEntity},
		{"bad date", "/api/profiles/" + p.ID + "/transactions", `{"type":"expense","amount":"1","category":"food","title":"x","date":"10/03/2025"}`, http.StatusUnprocessableEntity},
		{"recurring day missing", "/api/profiles/" + p.ID + "/transactions", `{"type":"expense","amount":"1","category":"bills","title":"x","date":"2025-03-10","isRecurring":true}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, tt.path, tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tt.status, rr.Body.String())
			}
		})
	}

	list := decodeBody[[]core.Transaction](t, env.do(t, http.MethodGet, "/api/profiles/"+p.ID+"/transactions", ""))
	if len(list) != 2 || list[0].Title != "Salary" {
		t.Fatalf("list not sorted newest first: %+v", list)
	}

	rr := env.do(t, http.MethodPut, "/api/transactions/"+created.ID, `{"type":"expense","amount":"15","category":"food","title":"Dinner","date":"2025-03-11"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rr.Code, rr.Body.String())
	}
	updated := decodeBody[core.Transaction](t, rr)
	if updated.ID != created.ID || updated.ProfileID != p.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("identity changed on update: %+v", updated)
	}
	if rr := env.do(t, http.MethodPut, "/api/transactions/missing", `{"type":"expense","amount":"15","category":"food","title":"x","date":"2025-03-11"}`); rr.Code != http.StatusNotFound {
		t.Fatalf("update unknown: %d", rr.Code)
	}

	if rr := env.do(t, http.MethodDelete, "/api/transactions/"+created.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rr.Code)
	}
	summary := decodeBody[core.Summary](t, env.do(t, http.MethodGet, "/api/profiles/"+p.ID+"/summary", ""))
	if summary.TransactionCount != 1 || !summary.TotalBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestReportEndpoint(t *testing.T) {
	env := newTestEnv(t, false, Options{})
	p := env.createProfile(t, "Home")
	env.createTransaction(t, p.ID, `{"type":"income","amount":"1000","category":"salary","title":"Salary","date":"2025-03-01"}`)
	env.createTransaction(t, p.ID, `{"type":"expense","amount":"400","category":"rent","title":"Rent","date":"2025-03-05"}`)
	env.createTransaction(t, p.ID, `{"type":"expense","amount":"50","category":"food","title":"Groceries","date":"2025-04-02"}`)

	path := "/api/profiles/" + p.ID + "/report?period=month&year=2025&month=3"
	rr := env.do(t, http.MethodGet, path, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("report: %d %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[reportResponse](t, rr)
	if !resp.Aggregation.TotalIncome.Equal(decimal.NewFromInt(1000)) ||
		!resp.Aggregation.TotalExpense.Equal(decimal.NewFromInt(400)) ||
		!resp.Aggregation.Balance.Equal(decimal.NewFromInt(600)) ||
		resp.Aggregation.TransactionCount != 2 {
		t.Fatalf("aggregation = %+v", resp.Aggregation)
	}
	if resp.Period.Label != "March 2025" || resp.KPIs.TransactionCount != 2 {
		t.Fatalf("period/kpis = %+v / %+v", resp.Period, resp.KPIs)
	}

	env.do(t, http.MethodGet, path, "")
	if stats := env.srv.reports.Stats(); stats.Hits != 1 {
		t.Fatalf("second identical request should hit the cache: %+v", stats)
	}

	env.createTransaction(t, p.ID, `{"type":"expense","amount":"100","category":"food","title":"Dinner","date":"2025-03-20"}`)
	resp = decodeBody[reportResponse](t, env.do(t, http.MethodGet, path, ""))
	if !resp.Aggregation.TotalExpense.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("mutation must invalidate cached report, expense = %s", resp.Aggregation.TotalExpense)
	}

	yearly := decodeBody[reportResponse](t, env.do(t, http.MethodGet, "/api/profiles/"+p.ID+"/report?period=year&year=2025", ""))
	if yearly.Aggregation.TransactionCount != 4 {
		t.Fatalf("year count = %d", yearly.Aggregation.TransactionCount)
	}

	invalid := []struct {
		name  string
		query string
		want  int
	}{
		{"unknown period", "period=week", http.StatusUnprocessableEntity},
		{"month out of range", "period=month&month=13", http.StatusUnprocessableEntity},
		{"month not a number", "period=month&month=march", http.StatusBadRequest},
		{"custom without bounds", "period=custom", http.StatusUnprocessableEntity},
		{"custom reversed", "period=custom&start=2025-03-10&end=2025-03-01", http.StatusUnprocessableEntity},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, "/api/profiles/"+p.ID+"/report?"+tt.query, "")
			if rr.Code != tt.want {
				t.Fatalf("status=%d want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestTrendUpcomingCalendar(t *testing.T) {
	env := newTestEnv(t, false, Options{UpcomingHorizon: 30})
	p := env.createProfile(t, "Home")
	env.createTransaction(t, p.ID, `{"type":"expense","amount":"300","category":"bills","title":"Internet","date":"2025-03-01","isRecurring":true,"recurringDay":20}`)
	env.createTransaction(t, p.ID, `{"type":"expense","amount":"80","category":"health","title":"Dentist","date":"2025-03-25"}`)

	trend := decodeBody[[]report.TrendPoint](t, env.do(t, http.MethodGet, "/api/profiles/"+p.ID+"/trend?year=2025&month=3", ""))
	if len(trend) != report.DefaultTrendMonths || trend[len(trend)-1].Month != 3 {
		t.Fatalf("trend = %+v", trend)
	}
	if rr := env.do(t, http.MethodGet, "/api/profiles/"+p.ID+"/trend?months=0", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("months=0: %d", rr.Code)
	}

	upcoming := decodeBody[[]recurrence.Occurrence](t, env.do(t, http.MethodGet, "/api/profiles/"+p.ID+"/upcoming", ""))
	if len(upcoming) != 2 || upcoming[0].Transaction.Title != "Internet" || upcoming[0].DaysLeft != 5 {
		t.Fatalf("upcoming = %+v", upcoming)
	}

	calendar := decodeBody[[]recurrence.CalendarDay](t, env.do(t, http.MethodGet, "/api/profiles/"+p.ID+"/calendar?year=2025&month=4", ""))
	if len(calendar) != 30 {
		t.Fatalf("april has %d days", len(calendar))
	}
	if len(calendar[19].Transactions) != 1 || calendar[19].Transactions[0].Title != "Internet" {
		t.Fatalf("recurring entry missing on April 20: %+v", calendar[19])
	}
}

func TestExportEndpoint(t *testing.T) {
	env := newTestEnv(t, true, Options{})
	p := env.createProfile(t, "Home")
	env.createTransaction(t, p.ID, `{"type":"expense","amount":"40","category":"food","title":"Lunch","date":"2025-03-02"}`)

	rr := env.do(t, http.MethodPost, "/api/profiles/"+p.ID+"/exports", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rr.Code, rr.Body.String())
	}
	result := decodeBody[services.ExportResult](t, rr)
	if result.Status != services.StatusWritten || result.PeriodLabel != "March 2025" {
		t.Fatalf("result = %+v", result)
	}
	if env.sink.Writes() != 1 {
		t.Fatalf("writes = %d", env.sink.Writes())
	}

	if rr := env.do(t, http.MethodPost, "/api/profiles/"+p.ID+"/exports", `{"period":"quarter","year":2025,"month":14}`); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad month export: %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/profiles/missing/exports", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown profile export: %d", rr.Code)
	}

	disabled := newTestEnv(t, false, Options{})
	q := disabled.createProfile(t, "Home")
	if rr := disabled.do(t, http.MethodPost, "/api/profiles/"+q.ID+"/exports", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("export without sink: %d", rr.Code)
	}
}

func TestCleanupEndpoint(t *testing.T) {
	env := newTestEnv(t, false, Options{})
	p := env.createProfile(t, "Home")
	env.createTransaction(t, p.ID, `{"type":"expense","amount":"40","category":"food","title":"Old","date":"2025-02-02"}`)
	env.createTransaction(t, p.ID, `{"type":"expense","amount":"40","category":"food","title":"New","date":"2025-03-02"}`)

	first := decodeBody[store.CleanupResult](t, env.do(t, http.MethodPost, "/api/maintenance/cleanup", ""))
	if !first.Ran || first.Removed != 1 || first.MonthKey != "2025-03" {
		t.Fatalf("first cleanup = %+v", first)
	}
	second := decodeBody[store.CleanupResult](t, env.do(t, http.MethodPost, "/api/maintenance/cleanup", ""))
	if second.Ran {
		t.Fatalf("second cleanup in the same month must not run: %+v", second)
	}
}

func TestWriteRateLimit(t *testing.T) {
	env := newTestEnv(t, false, Options{RateLimitPerMinute: 1})
	env.createProfile(t, "Home")
	rr := env.do(t, http.MethodPost, "/api/profiles", `{"name":"Work","currency":"TRY"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/profiles", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads are not limited: %d", rr.Code)
	}
}
