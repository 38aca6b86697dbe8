package models

import "github.com/shopspring/decimal"

// Summary feeds the dashboard's summary cards: counts by persisted status,
// how many reminders fall due within the next week, and what is still owed
// overall and per category. Completed reminders do not count toward amounts.
type Summary struct {
	Pending          int                        `json:"pending"`
	Overdue          int                        `json:"overdue"`
	Completed        int                        `json:"completed"`
	DueWithinWeek    int                        `json:"due_within_week"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	ByCategory       map[string]decimal.Decimal `json:"by_category"`
}
