package models

import "time"

// NextDueDate returns the due date of the successor spawned when a recurring
// reminder is completed: the original due date advanced by one interval.
//
// Monthly advancement keeps the day of month and clamps to the last valid day
// when the target month is shorter (Jan 31 -> Feb 29 in a leap year, Feb 28
// otherwise). Yearly advancement clamps Feb 29 to Feb 28 outside leap years.
// time.AddDate is not used for those two cases because it normalizes
// overflowed dates forward into the next month instead of clamping.
func NextDueDate(due time.Time, interval string) time.Time {
	switch interval {
	case IntervalDaily:
		return due.AddDate(0, 0, 1)
	case IntervalWeekly:
		return due.AddDate(0, 0, 7)
	case IntervalYearly:
		return clampedDate(due.Year()+1, due.Month(), due.Day(), due)
	default: // monthly
		year, month := due.Year(), due.Month()+1
		if month > time.December {
			year, month = year+1, time.January
		}
		return clampedDate(year, month, due.Day(), due)
	}
}

func clampedDate(year int, month time.Month, day int, ref time.Time) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

// daysIn returns the number of days in the given month; day 0 of the next
// month normalizes to its last day.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
