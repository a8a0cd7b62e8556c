package sheets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"cuzdan/internal/core"
	"cuzdan/internal/report"
)

// MaxTabName is the longest sheet title the Sheets API accepts.
const MaxTabName = 100

// TabName returns the tab title of a report: "<profile> <period>".
// Characters the Sheets API rejects in titles are replaced.
func TabName(data report.ExportData) string {
	name := strings.TrimSpace(data.ProfileName + " " + data.PeriodLabel)
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']', '\'':
			return '-'
		}
		return r
	}, name)
	if r := []rune(name); len(r) > MaxTabName {
		name = string(r[:MaxTabName])
	}
	return name
}

// ReportRows lays out data as sheet rows: a header block, totals, income by
// category, expense by title and the transaction list ordered by date.
func ReportRows(data report.ExportData) [][]any {
	money := func(d decimal.Decimal) string { return d.StringFixed(2) }

	rows := [][]any{
		{"Profile", data.ProfileName},
		{"Period", data.PeriodLabel},
		{"Currency", string(data.Currency)},
		{},
		{"Total income", money(data.TotalIncome)},
		{"Total expense", money(data.TotalExpense)},
		{"Balance", money(data.Balance)},
		{},
		{"Income by category"},
		{"Category", "Amount"},
	}
	for _, c := range data.Aggregation.IncomeCategories() {
		rows = append(rows, []any{c.Label, money(c.Amount)})
	}

	rows = append(rows, []any{}, []any{"Expense by title"}, []any{"Title", "Category", "Amount"})
	for _, b := range data.Aggregation.ExpenseTitles() {
		rows = append(rows, []any{b.Title, b.Category.Label(), money(b.Amount)})
	}

	rows = append(rows, []any{}, []any{"Transactions"},
		[]any{"Date", "Type", "Category", "Title", "Description", "Amount", "Recurring"})

	txs := append([]core.Transaction(nil), data.Transactions...)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
	for _, t := range txs {
		recurring := ""
		if t.IsRecurring {
			recurring = fmt.Sprintf("day %d", t.RecurringDay)
		}
		rows = append(rows, []any{
			t.Date.String(),
			string(t.Type),
			t.Category.Label(),
			t.Title,
			t.Description,
			money(t.Signed()),
			recurring,
		})
	}
	return rows
}
