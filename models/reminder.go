package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reminder categories.
const (
	CategoryBill         = "bill"
	CategorySubscription = "subscription"
	CategoryTax          = "tax"
	CategoryInvestment   = "investment"
	CategoryInsurance    = "insurance"
	CategoryOther        = "other"
)

// Recurring intervals.
const (
	IntervalDaily   = "daily"
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

// Persisted reminder statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusOverdue   = "overdue"
)

type Reminder struct {
	ID                string              `json:"id"`
	UserID            string              `json:"user_id"`
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	DueDate           time.Time           `json:"due_date"`
	Category          string              `json:"category"`
	Amount            decimal.NullDecimal `json:"amount"`
	IsRecurring       bool                `json:"is_recurring"`
	RecurringInterval string              `json:"recurring_interval"`
	Status            string              `json:"status"`
	SpawnedFrom       string              `json:"spawned_from,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

type CreateReminderRequest struct {
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	DueDate           string              `json:"due_date"` // ISO 8601
	Category          string              `json:"category"`
	Amount            decimal.NullDecimal `json:"amount"`
	IsRecurring       bool                `json:"is_recurring"`
	RecurringInterval string              `json:"recurring_interval"`
	Status            string              `json:"status"`
}

// UpdateReminderRequest carries partial updates; nil fields are left unchanged.
type UpdateReminderRequest struct {
	Title             *string              `json:"title,omitempty"`
	Description       *string              `json:"description,omitempty"`
	DueDate           *string              `json:"due_date,omitempty"`
	Category          *string              `json:"category,omitempty"`
	Amount            *decimal.NullDecimal `json:"amount,omitempty"`
	IsRecurring       *bool                `json:"is_recurring,omitempty"`
	RecurringInterval *string              `json:"recurring_interval,omitempty"`
	Status            *string              `json:"status,omitempty"`
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryBill, CategorySubscription, CategoryTax, CategoryInvestment, CategoryInsurance, CategoryOther:
		return true
	}
	return false
}

func ValidInterval(i string) bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// ApplyDefaults fills the closed-enum fields the caller left blank.
func (r *Reminder) ApplyDefaults() {
	if r.Category == "" {
		r.Category = CategoryBill
	}
	if r.RecurringInterval == "" {
		r.RecurringInterval = IntervalMonthly
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
}

// Validate checks required fields and the closed enumerations. A bad value is
// rejected, never coerced.
func (r *Reminder) Validate() error {
	if r.Title == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if r.DueDate.IsZero() {
		return &ValidationError{Field: "due_date", Reason: "required"}
	}
	if !ValidCategory(r.Category) {
		return &ValidationError{Field: "category", Reason: "must be one of bill, subscription, tax, investment, insurance, other"}
	}
	if !ValidInterval(r.RecurringInterval) {
		return &ValidationError{Field: "recurring_interval", Reason: "must be one of daily, weekly, monthly, yearly"}
	}
	if !ValidStatus(r.Status) {
		return &ValidationError{Field: "status", Reason: "must be one of pending, completed, overdue"}
	}
	return nil
}
