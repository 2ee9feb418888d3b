package models

// DashboardSummary is the all-time income/expense position of a user.
type DashboardSummary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	TotalBalance  float64 `json:"totalBalance"`
}

// Bucket is a keyed sum. Key is a YYYY-MM-DD day or a category name.
type Bucket struct {
	Key   string  `json:"_id"`
	Total float64 `json:"total"`
}
