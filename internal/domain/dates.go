package domain

import "time"

// DateOf truncates t to midnight UTC. Practice and review dates are calendar
// days, so every comparison goes through this.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// AddDays returns the calendar day n days after t.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}
