package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// MaxTitleLength bounds titles and profile names.
const MaxTitleLength = 200

type (
	TransactionType string

	Profile struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		AvatarColor string    `json:"avatarColor"`
		Currency    Currency  `json:"currency"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// Transaction is owned by exactly one Profile. Amount is always positive,
	// the sign is carried by Type. RecurringDay is 0 unless IsRecurring.
	Transaction struct {
		ID           string          `json:"id"`
		ProfileID    string          `json:"profileId"`
		Type         TransactionType `json:"type"`
		Amount       decimal.Decimal `json:"amount"`
		Category     Category        `json:"category"`
		Title        string          `json:"title"`
		Description  string          `json:"description,omitempty"`
		Date         Date            `json:"date"`
		CreatedAt    time.Time       `json:"createdAt"`
		IsRecurring  bool            `json:"isRecurring"`
		RecurringDay int             `json:"recurringDay,omitempty"`
	}

	ProfileInput struct {
		Name        string   `json:"name"`
		AvatarColor string   `json:"avatarColor"`
		Currency    Currency `json:"currency"`
	}

	// TransactionInput carries the caller-editable fields of a Transaction.
	TransactionInput struct {
		Type         TransactionType `json:"type"`
		Amount       decimal.Decimal `json:"amount"`
		Category     Category        `json:"category"`
		Title        string          `json:"title"`
		Description  string          `json:"description,omitempty"`
		Date         Date            `json:"date"`
		IsRecurring  bool            `json:"isRecurring"`
		RecurringDay int             `json:"recurringDay,omitempty"`
	}
)

var (
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidRecurringDay = errors.New("invalid recurring day")
	ErrEmptyTitle          = errors.New("empty title")
	ErrEmptyName           = errors.New("empty name")
	ErrTooLong             = fmt.Errorf("too long (max %d characters)", MaxTitleLength)

	ErrProfileNotFound     = errors.New("profile not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (in ProfileInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxTitleLength {
		return fmt.Errorf("name %w", ErrTooLong)
	}
	if !in.Currency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, in.Currency)
	}
	return nil
}

func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title %w", ErrTooLong)
	}
	if err := in.Date.Validate(); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	// recurringDay is set if and only if the transaction recurs
	if in.IsRecurring {
		if in.RecurringDay < 1 || in.RecurringDay > 31 {
			return fmt.Errorf("%w: %d", ErrInvalidRecurringDay, in.RecurringDay)
		}
	} else if in.RecurringDay != 0 {
		return fmt.Errorf("%w: set on a non-recurring transaction", ErrInvalidRecurringDay)
	}
	return nil
}

// NewProfile validates in and builds a Profile.
func NewProfile(id string, in ProfileInput, createdAt time.Time) (Profile, error) {
	if err := in.Validate(); err != nil {
		return Profile{}, err
	}
	return Profile{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		AvatarColor: in.AvatarColor,
		Currency:    in.Currency,
		CreatedAt:   createdAt,
	}, nil
}

// NewTransaction validates in and builds a Transaction owned by profileID.
func NewTransaction(id, profileID string, in TransactionInput, createdAt time.Time) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	t := Transaction{
		ID:        id,
		ProfileID: profileID,
		CreatedAt: createdAt,
	}
	t.apply(in)
	return t, nil
}

// WithInput returns a copy of t with its editable fields replaced by in.
// Identity, ownership and creation time are preserved.
func (t Transaction) WithInput(in TransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	t.apply(in)
	return t, nil
}

func (t *Transaction) apply(in TransactionInput) {
	t.Type = in.Type
	t.Amount = in.Amount
	t.Category = in.Category
	t.Title = strings.TrimSpace(in.Title)
	t.Description = strings.TrimSpace(in.Description)
	t.Date = in.Date
	t.IsRecurring = in.IsRecurring
	t.RecurringDay = in.RecurringDay
}

// Input returns the editable fields of t.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Type:         t.Type,
		Amount:       t.Amount,
		Category:     t.Category,
		Title:        t.Title,
		Description:  t.Description,
		Date:         t.Date,
		IsRecurring:  t.IsRecurring,
		RecurringDay: t.RecurringDay,
	}
}

// Validate checks the stored invariants of a transaction.
func (t Transaction) Validate() error {
	if t.ID == "" || t.ProfileID == "" {
		return errors.New("transaction missing identity")
	}
	return t.Input().Validate()
}

// Signed returns the amount with the sign implied by the transaction type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// SortNewestFirst orders transactions by date, newest first. Same-date
// transactions are ordered by creation time, newest first, and then keep
// their input order.
func SortNewestFirst(transactions []Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if c := transactions[i].Date.Compare(transactions[j].Date); c != 0 {
			return c > 0
		}
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
}
