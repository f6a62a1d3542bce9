// Package aggregate sums time entries into the per-day and weekly totals
// shown on the dashboard and timesheet summary.
package aggregate

import (
	"math"
	"time"

	"github.com/balkashynov/timetrack/internal/models"
)

// Summary holds one bucket per day of a Monday-start week plus the total
type Summary struct {
	WeekStart time.Time
	PerDay    map[time.Time]float64
	Total     float64
}

// Aggregate buckets entries into the 7-day window starting weekStart.
// Days with no entries stay at zero; entries dated outside the window are
// ignored. The result depends only on the set of (date, hours) pairs.
func Aggregate(entries []models.TimeEntry, weekStart time.Time) Summary {
	start := models.DateOf(weekStart)
	end := start.AddDate(0, 0, 6)

	perDay := make(map[time.Time]float64, 7)
	for i := 0; i < 7; i++ {
		perDay[start.AddDate(0, 0, i)] = 0
	}

	for _, e := range entries {
		d := models.DateOf(e.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		perDay[d] += e.Hours
	}

	var total float64
	for _, h := range perDay {
		total += h
	}

	return Summary{
		WeekStart: start,
		PerDay:    perDay,
		Total:     RoundHours(total),
	}
}

// RoundHours rounds to one decimal place, half away from zero on the
// tenths digit
func RoundHours(h float64) float64 {
	return math.Floor(h*10+0.5) / 10
}
