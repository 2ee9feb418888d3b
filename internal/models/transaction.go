package models

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single dated income or expense entry owned by one user.
type Transaction struct {
	ID     string `json:"id"`
	UserID string `json:"user"`
	Title  string `json:"title"`

	// Amount is always non-negative; Type carries the sign.
	Amount float64 `json:"amount"`

	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Date     time.Time       `json:"date"`
	Icon     string          `json:"icon,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransactionFilter narrows a transaction listing. Zero values mean no filter.
type TransactionFilter struct {
	Type     TransactionType
	Category string
	// From is an inclusive lower bound on Date.
	From time.Time
	// To is an exclusive upper bound on Date.
	To time.Time
}
