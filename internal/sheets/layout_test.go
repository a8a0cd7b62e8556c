package sheets

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"cuzdan/internal/core"
	"cuzdan/internal/report"
)

func sampleExport(t *testing.T) report.ExportData {
	t.Helper()
	txs := []core.Transaction{
		{ID: "2", Type: core.Expense, Amount: decimal.NewFromInt(400), Category: core.CategoryFood,
			Title: "Groceries", Date: core.NewDate(2025, 3, 15)},
		{ID: "1", Type: core.Income, Amount: decimal.NewFromInt(1000), Category: core.CategorySalary,
			Title: "Salary", Date: core.NewDate(2025, 3, 10), IsRecurring: true, RecurringDay: 10},
	}
	data, err := report.CalculatePeriodData(txs, "Home", core.TRY, report.PeriodMonth, 2025, 3)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestTabName(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		period  string
		want    string
	}{
		{"plain", "Home", "March 2025", "Home March 2025"},
		{"custom range", "Home", "2025-03-01 / 2025-04-15", "Home 2025-03-01 - 2025-04-15"},
		{"forbidden characters", "A:B[c]", "Q1 2025", "A-B-c- Q1 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TabName(report.ExportData{ProfileName: tt.profile, PeriodLabel: tt.period})
			if got != tt.want {
				t.Errorf("TabName() = %q, want %q", got, tt.want)
			}
		})
	}

	long := TabName(report.ExportData{ProfileName: strings.Repeat("x", 150), PeriodLabel: "2025"})
	if len([]rune(long)) != MaxTabName {
		t.Errorf("expected tab name truncated to %d, got %d", MaxTabName, len([]rune(long)))
	}
}

func TestReportRows(t *testing.T) {
	rows := ReportRows(sampleExport(t))

	find := func(label string) []any {
		for _, r := range rows {
			if len(r) > 0 && r[0] == label {
				return r
			}
		}
		t.Fatalf("row %q not found", label)
		return nil
	}

	if got := find("Balance"); got[1] != "600.00" {
		t.Errorf("balance row = %v", got)
	}
	if got := find("Total income"); got[1] != "1000.00" {
		t.Errorf("income row = %v", got)
	}
	if got := find("Groceries"); got[2] != "400.00" {
		t.Errorf("expense bucket row = %v", got)
	}

	// transactions are listed oldest first with signed amounts
	last := rows[len(rows)-1]
	prev := rows[len(rows)-2]
	if prev[0] != "2025-03-10" || prev[6] != "day 10" {
		t.Errorf("unexpected first transaction row %v", prev)
	}
	if last[0] != "2025-03-15" || last[5] != "-400.00" {
		t.Errorf("unexpected last transaction row %v", last)
	}
}
