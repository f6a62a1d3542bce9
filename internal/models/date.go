package models

import "time"

// DateOf truncates a timestamp to midnight, keeping its location
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday of the week containing t, at midnight
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	// time.Weekday has Sunday == 0
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return d.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday of the week containing t, at midnight
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// SameDate reports whether two timestamps fall on the same calendar day
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
