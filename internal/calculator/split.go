package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledger/internal/models"
)

var (
	ErrNoMembers      = errors.New("must have at least one member")
	ErrNonPositiveAmt = errors.New("amount must be greater than zero")
)

// EqualSplit divides amount equally among members, one split per member in
// member order. Each share is amount/n; the remainder left by rounding is not
// redistributed, so the shares sum to amount only within float tolerance.
func EqualSplit(amount float64, members []models.UserRef) ([]models.Split, error) {
	if len(members) == 0 {
		return nil, ErrNoMembers
	}
	if amount <= 0 {
		return nil, ErrNonPositiveAmt
	}

	share := decimal.NewFromFloat(amount).
		Div(decimal.NewFromInt(int64(len(members)))).
		InexactFloat64()

	splits := make([]models.Split, len(members))
	for i, m := range members {
		splits[i] = models.Split{User: m, Amount: share}
	}
	return splits, nil
}

// SplitTotal sums the split amounts.
func SplitTotal(splits []models.Split) float64 {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(decimal.NewFromFloat(s.Amount))
	}
	return total.InexactFloat64()
}
