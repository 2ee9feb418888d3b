package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledger/internal/models"
)

const dayLayout = "2006-01-02"

// SumByType totals the amounts of transactions of type t.
func SumByType(txs []models.Transaction, t models.TransactionType) float64 {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == t {
			total = total.Add(decimal.NewFromFloat(tx.Amount))
		}
	}
	return total.InexactFloat64()
}

// Summary computes all-time income, expenses and their difference.
func Summary(txs []models.Transaction) models.DashboardSummary {
	income := SumByType(txs, models.TransactionIncome)
	expenses := SumByType(txs, models.TransactionExpense)
	return models.DashboardSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		TotalBalance:  decimal.NewFromFloat(income).Sub(decimal.NewFromFloat(expenses)).InexactFloat64(),
	}
}

// DailyTotals groups transactions by calendar day in loc and sums them.
// Buckets are keyed YYYY-MM-DD and sorted ascending.
func DailyTotals(txs []models.Transaction, loc *time.Location) []models.Bucket {
	return bucket(txs, func(tx models.Transaction) string {
		return tx.Date.In(loc).Format(dayLayout)
	})
}

// CategoryTotals groups transactions by category and sums them. Buckets are
// sorted by category name.
func CategoryTotals(txs []models.Transaction) []models.Bucket {
	return bucket(txs, func(tx models.Transaction) string {
		return tx.Category
	})
}

func bucket(txs []models.Transaction, key func(models.Transaction) string) []models.Bucket {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		k := key(tx)
		sums[k] = sums[k].Add(decimal.NewFromFloat(tx.Amount))
	}

	buckets := make([]models.Bucket, 0, len(sums))
	for k, v := range sums {
		buckets = append(buckets, models.Bucket{Key: k, Total: v.InexactFloat64()})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}
