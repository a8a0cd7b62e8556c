package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"cuzdan/internal/core"
	"cuzdan/internal/services"
	sheetsmem "cuzdan/internal/sheets/memory"
	"cuzdan/internal/storage"
	"cuzdan/internal/store"
)

func newTestApp() *app {
	n := 0
	st := store.New(storage.NewMemoryPersister(core.State{}), core.State{},
		store.WithClock(func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }),
		store.WithLocation(time.UTC),
		store.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }))
	return &app{store: st}
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a.out = &out
	cmd := newRootCmd(a)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, a *app, args ...string) string {
	t.Helper()
	out, err := run(t, a, args...)
	if err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestProfilesCommands(t *testing.T) {
	a := newTestApp()

	out := mustRun(t, a, "profiles", "list")
	if !strings.Contains(out, "No profiles") {
		t.Fatalf("empty list output = %q", out)
	}

	out = mustRun(t, a, "profiles", "add", "Home", "--currency", "usd", "--color", "#fff")
	if !strings.Contains(out, "Created profile id-1 (Home)") {
		t.Fatalf("add output = %q", out)
	}

	mustRun(t, a, "profiles", "select", "id-1")
	out = mustRun(t, a, "profiles", "list")
	if !strings.Contains(out, "*") || !strings.Contains(out, "USD") {
		t.Fatalf("list output = %q", out)
	}

	mustRun(t, a, "profiles", "select", "--clear")
	if _, ok := a.store.ActiveProfile(); ok {
		t.Fatal("selection not cleared")
	}

	if _, err := run(t, a, "profiles", "select", "missing"); !errors.Is(err, core.ErrProfileNotFound) {
		t.Fatalf("select missing: err = %v", err)
	}

	mustRun(t, a, "profiles", "delete", "id-1")
	if len(a.store.Profiles()) != 0 {
		t.Fatal("profile not deleted")
	}
}

func TestProfileAddRejectsUnknownCurrency(t *testing.T) {
	a := newTestApp()
	if _, err := run(t, a, "profiles", "add", "Home", "--currency", "GBP"); !errors.Is(err, core.ErrInvalidCurrency) {
		t.Fatalf("err = %v", err)
	}
}

func TestCommandsNeedAProfile(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"transactions", []string{"transactions", "list"}},
		{"summary", []string{"summary"}},
		{"report", []string{"report"}},
		{"upcoming", []string{"upcoming"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, newTestApp(), tt.args...); !errors.Is(err, errNoActiveProfile) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func seedWallet(t *testing.T, a *app) {
	t.Helper()
	mustRun(t, a, "profiles", "add", "Home")
	mustRun(t, a, "profiles", "select", "id-1")
	mustRun(t, a, "tx", "add", "--type", "income", "--amount", "5000",
		"--category", "salary", "--title", "Salary", "--date", "2025-03-01")
	mustRun(t, a, "tx", "add", "--amount", "1200.50", "--category", "rent",
		"--title", "Rent", "--date", "2025-03-05", "--recurring-day", "5")
}

func TestTransactionsAndReports(t *testing.T) {
	a := newTestApp()
	seedWallet(t, a)

	out := mustRun(t, a, "transactions", "list")
	if !strings.Contains(out, "day 5") || !strings.Contains(out, "-₺1200.50") {
		t.Fatalf("list output = %q", out)
	}

	out = mustRun(t, a, "summary")
	if !strings.Contains(out, "₺3799.50") {
		t.Fatalf("summary output = %q", out)
	}

	out = mustRun(t, a, "report", "--period", "quarter")
	for _, want := range []string{"Q1 2025", "Salary", "Rent", "₺3799.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}

	mustRun(t, a, "tx", "edit", "id-3", "--amount", "1000")
	out = mustRun(t, a, "summary")
	if !strings.Contains(out, "₺4000.00") {
		t.Fatalf("summary after edit = %q", out)
	}

	out = mustRun(t, a, "upcoming")
	if !strings.Contains(out, "2025-04-05") {
		t.Fatalf("upcoming output = %q", out)
	}

	out = mustRun(t, a, "calendar", "--month", "4")
	if !strings.Contains(out, "2025-04-05") || strings.Contains(out, "2025-04-01") {
		t.Fatalf("calendar output = %q", out)
	}

	mustRun(t, a, "tx", "delete", "id-2")
	if n := len(a.store.ProfileTransactions("id-1")); n != 1 {
		t.Fatalf("transactions after delete = %d", n)
	}
}

func TestReportFlagValidation(t *testing.T) {
	a := newTestApp()
	seedWallet(t, a)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown period", []string{"report", "--period", "weekly"}, nil},
		{"month out of range", []string{"report", "--month", "13"}, core.ErrInvalidMonth},
		{"custom without dates", []string{"report", "--period", "custom"}, nil},
		{"trend months", []string{"trend", "--months", "0"}, nil},
		{"upcoming days", []string{"upcoming", "--days", "400"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, a, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTrendCommand(t *testing.T) {
	a := newTestApp()
	seedWallet(t, a)

	out := mustRun(t, a, "trend", "--months", "3")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("trend lines = %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[3], "₺3799.50") {
		t.Fatalf("last trend line = %q", lines[3])
	}
}

func TestCleanupCommand(t *testing.T) {
	a := newTestApp()

	out := mustRun(t, a, "cleanup")
	if !strings.Contains(out, "removed 0 transactions") {
		t.Fatalf("first cleanup = %q", out)
	}
	out = mustRun(t, a, "cleanup")
	if !strings.Contains(out, "already done") {
		t.Fatalf("second cleanup = %q", out)
	}
}

func TestExportCommand(t *testing.T) {
	a := newTestApp()
	seedWallet(t, a)

	if _, err := run(t, a, "export"); !errors.Is(err, services.ErrExportUnavailable) {
		t.Fatalf("export without sink: err = %v", err)
	}

	sink := sheetsmem.New()
	a.exports = services.NewExportService(a.store, sink, nil)
	out := mustRun(t, a, "export", "--period", "year")
	if !strings.Contains(out, "Exported 2025") {
		t.Fatalf("export output = %q", out)
	}
	if sink.Writes() != 1 {
		t.Fatalf("writes = %d", sink.Writes())
	}
}

func TestOpenRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	a := &app{}
	_, err := run(t, a, "summary")
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Fatalf("err = %v", err)
	}
	if a.store != nil || len(a.closers) != 0 {
		t.Fatal("storage opened despite invalid configuration")
	}
}
