package models

import "time"

// DeriveStatus returns the status a reminder should be persisted with, given
// its current status and due date. Completed is terminal and is never
// re-escalated; a pending reminder whose due date has passed becomes overdue;
// anything else is returned unchanged. The function is idempotent, so it is
// safe to run as a guard before every write.
func DeriveStatus(current string, dueDate, now time.Time) string {
	if current == StatusCompleted {
		return StatusCompleted
	}
	if current == StatusPending && dueDate.Before(now) {
		return StatusOverdue
	}
	return current
}
