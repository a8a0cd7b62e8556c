package report

import (
	"github.com/shopspring/decimal"

	"cuzdan/internal/core"
)

// ExportData is everything a sink needs to render one period report.
type ExportData struct {
	Transactions []core.Transaction `json:"transactions"`
	ProfileName  string             `json:"profileName"`
	Currency     core.Currency      `json:"currency"`
	PeriodLabel  string             `json:"periodLabel"`
	TotalIncome  decimal.Decimal    `json:"totalIncome"`
	TotalExpense decimal.Decimal    `json:"totalExpense"`
	Balance      decimal.Decimal    `json:"balance"`
	Aggregation  Aggregation        `json:"aggregation"`
}

// CalculatePeriodData aggregates the period of type pt containing (year, month).
func CalculatePeriodData(transactions []core.Transaction, profileName string, currency core.Currency, pt PeriodType, year, month int) (ExportData, error) {
	p, err := NewPeriod(pt, year, month)
	if err != nil {
		return ExportData{}, err
	}
	return PeriodData(transactions, profileName, currency, p), nil
}

// PeriodData builds the export of an already resolved period.
func PeriodData(transactions []core.Transaction, profileName string, currency core.Currency, p Period) ExportData {
	agg := Aggregate(transactions, p)
	return ExportData{
		Transactions: p.Filter(transactions),
		ProfileName:  profileName,
		Currency:     currency,
		PeriodLabel:  agg.PeriodLabel,
		TotalIncome:  agg.TotalIncome,
		TotalExpense: agg.TotalExpense,
		Balance:      agg.Balance,
		Aggregation:  agg,
	}
}
