package types

import "time"

// StartOfMonthUTC returns the first instant of t's calendar month in UTC.
// Monthly event quotas are windowed on UTC months; the process runs with
// time.Local pinned to UTC so tenant-local drift cannot creep in.
func StartOfMonthUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the number of whole or partial days from now until t,
// rounded up and clamped at zero.
func DaysUntil(now, t time.Time) int {
	if !t.After(now) {
		return 0
	}
	d := t.Sub(now)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}
