package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"cuzdan/internal/report"
)

func TestSink_WriteReport(t *testing.T) {
	ctx := context.Background()
	s := New()

	data := report.ExportData{ProfileName: "Home", PeriodLabel: "March 2025", Balance: decimal.NewFromInt(600)}
	ref, err := s.WriteReport(ctx, data)
	if err != nil {
		t.Fatal(err)
	}
	if ref != "mem:Home March 2025" {
		t.Errorf("unexpected ref %q", ref)
	}

	// rewriting the same period replaces the tab
	data.Balance = decimal.NewFromInt(700)
	if _, err := s.WriteReport(ctx, data); err != nil {
		t.Fatal(err)
	}
	if tabs := s.Tabs(); len(tabs) != 1 {
		t.Fatalf("expected one tab, got %v", tabs)
	}
	r, ok := s.Get("Home March 2025")
	if !ok || !r.Data.Balance.Equal(decimal.NewFromInt(700)) || len(r.Rows) == 0 {
		t.Fatalf("unexpected report %+v", r)
	}
	if s.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", s.Writes())
	}
}

func TestSink_FailWith(t *testing.T) {
	s := New()
	boom := errors.New("quota exceeded")
	s.FailWith(boom)
	if _, err := s.WriteReport(context.Background(), report.ExportData{ProfileName: "Home", PeriodLabel: "2025"}); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	s.FailWith(nil)
	if _, err := s.WriteReport(context.Background(), report.ExportData{ProfileName: "Home", PeriodLabel: "2025"}); err != nil {
		t.Fatal(err)
	}
}
