package leave

import "time"

// CountBusinessDays counts the weekdays (Monday through Friday) in the
// inclusive range [start, end]. A start after end yields 0.
func CountBusinessDays(start, end time.Time) int {
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}
