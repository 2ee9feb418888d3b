package calculator

import "time"

// Named listing ranges accepted by RangeStart.
const (
	RangeMonth     = "month"
	RangeSixMonths = "6months"
	recentDays     = 30
	categoryDays   = 60
)

// MonthWindow returns [first day of now's month 00:00, first day of the next
// month 00:00) in now's location. Every instant of the last day of the month
// falls inside the window.
func MonthWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0)
	return start, end
}

// RangeStart maps a listing range name to an inclusive lower bound on date.
// Unknown or empty names return the zero time, meaning unbounded.
func RangeStart(name string, now time.Time) time.Time {
	switch name {
	case RangeMonth:
		start, _ := MonthWindow(now)
		return start
	case RangeSixMonths:
		return now.AddDate(0, -6, 0)
	default:
		return time.Time{}
	}
}

// DaysBack returns now minus n days.
func DaysBack(now time.Time, n int) time.Time {
	return now.AddDate(0, 0, -n)
}

// RecentStart is the lower bound of the 30-day daily series.
func RecentStart(now time.Time) time.Time { return DaysBack(now, recentDays) }

// CategoryStart is the lower bound of the 60-day category breakdown.
func CategoryStart(now time.Time) time.Time { return DaysBack(now, categoryDays) }
