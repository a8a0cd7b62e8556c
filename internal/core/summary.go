package core

import "github.com/shopspring/decimal"

// Summary is the headline figure set of a profile or a filtered transaction set.
type Summary struct {
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	TransactionCount int             `json:"transactionCount"`
}

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category        `json:"category"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
}

// TitleAmount represents an expense bucket keyed by title. Category is the
// category of the last transaction merged into the bucket.
type TitleAmount struct {
	Title    string          `json:"title"`
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
