package models

import "time"

// Group is a set of users who share expenses. Members keep insertion order and
// the creator is always the first member.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Members     []UserRef `json:"members"`

	// CreatedBy never changes and is never removed from Members.
	CreatedBy string `json:"createdBy"`

	// Version increments on every edit and is used for compare-and-set.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasMember reports whether userID is in the member list.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns member IDs in order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// GroupExpense is a payment made on behalf of a group.
type GroupExpense struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	PaidBy      UserRef   `json:"paidBy"`
	Date        time.Time `json:"date"`

	// Splits is one entry per member at creation time. Later membership
	// changes and amount edits leave it untouched.
	Splits []Split `json:"splits"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Split is one member's share of a GroupExpense.
type Split struct {
	User   UserRef `json:"user"`
	Amount float64 `json:"amount"`
}
