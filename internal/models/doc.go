// Package models defines the core domain models for the ledger service.
//
// # Personal finance
//
//   - User: registered account; owns transactions and budgets
//   - Transaction: a dated income or expense entry (amount is a magnitude, sign comes from Type)
//   - Budget: per-category monthly limit; Spent is derived at read time
//
// # Shared expenses
//
//   - Group: ordered member list with an immutable creator
//   - GroupExpense: a payment recorded against a group, with a frozen equal split
//   - Split: one member's share of a GroupExpense
//
// # Design Principles
//
//  1. Relationships are expressed by ID strings; UserRef carries the display
//     fields a client needs alongside the ID.
//  2. Derived values (budget spend, report buckets) are never persisted.
//  3. Splits are a snapshot taken when the expense is created and are not
//     recomputed when membership changes.
package models
