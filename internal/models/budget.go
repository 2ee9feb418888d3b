package models

import "time"

// Budget is a spending limit for one category. A user has at most one budget
// per category.
type Budget struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user"`
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`

	// Spent and Remaining are filled in on read from the current month's
	// expense transactions.
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
