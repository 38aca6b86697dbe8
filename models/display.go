package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Display status classes used by the web client's reminder cards.
const (
	ClassPaid     = "paid"
	ClassOverdue  = "overdue"
	ClassDueSoon  = "due-soon"
	ClassUpcoming = "upcoming"
)

// Reminders show "Due soon" once this many days (or fewer) remain.
const dueSoonThresholdDays = 3

// ReminderSnapshot is the presenter's input: the fields a reminder card is
// rendered from. The paid and overdue flags come from whatever snapshot the
// caller holds, not from the persisted status field, so the rendered label can
// disagree with the stored status when the flags are stale. That divergence is
// documented behavior, not something the presenter papers over.
//
// Amount is deliberately non-nullable: a card cannot render without a
// monetary figure, and passing a reminder with no amount here is a bug at the
// call site.
type ReminderSnapshot struct {
	DueDate  time.Time
	Amount   decimal.Decimal
	Category string
	Paid     bool
	Overdue  bool
}

type DisplayStatus struct {
	Label         string `json:"label"`
	Class         string `json:"class"`
	DaysRemaining int    `json:"days_remaining"`
	Amount        string `json:"amount,omitempty"`
}

// DisplayFor computes the human-facing label and class for a reminder card.
// Pure; meant to be re-evaluated on every render. Priority order: paid beats
// overdue beats due-soon beats the day countdown.
func DisplayFor(snap ReminderSnapshot, now time.Time) DisplayStatus {
	days := DaysRemaining(snap.DueDate, now)
	ds := DisplayStatus{
		DaysRemaining: days,
		Amount:        "$" + snap.Amount.StringFixed(2),
	}

	switch {
	case snap.Paid:
		ds.Label = "Paid"
		ds.Class = ClassPaid
	case snap.Overdue:
		ds.Label = "Overdue"
		ds.Class = ClassOverdue
	case days <= dueSoonThresholdDays:
		ds.Label = "Due soon"
		ds.Class = ClassDueSoon
	default:
		ds.Label = fmt.Sprintf("%d days left", days)
		ds.Class = ClassUpcoming
	}
	return ds
}

// DaysRemaining is ceil((due - now) / 24h). Negative when the due date has
// already passed.
func DaysRemaining(due, now time.Time) int {
	d := due.Sub(now)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}
