package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseEntryDate parses the date formats accepted anywhere a command takes
// a --date or --week value.
// Supported formats:
// - yyyy-mm-dd (e.g., "2025-08-04")
// - "today" / "yesterday"
// - weekday names (e.g., "mon", "friday"), meaning the most recent such day
// - -Nd relative days back (e.g., "-3d")
func ParseEntryDate(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || input == "today" {
		return midnight(now), nil
	}
	if input == "yesterday" {
		return midnight(now).AddDate(0, 0, -1), nil
	}

	if d, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return d, nil
	}

	if d, ok := parseWeekday(input, now); ok {
		return d, nil
	}

	if d, ok := parseRelativeDays(input, now); ok {
		return d, nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q. Use: yyyy-mm-dd, today, yesterday, a weekday name, or -Nd", input)
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

// parseWeekday resolves a weekday name to the most recent such day,
// today included
func parseWeekday(input string, now time.Time) (time.Time, bool) {
	target, ok := weekdayNames[input]
	if !ok {
		return time.Time{}, false
	}

	d := midnight(now)
	back := int(d.Weekday()) - int(target)
	if back < 0 {
		back += 7
	}
	return d.AddDate(0, 0, -back), true
}

// parseRelativeDays parses "-Nd" as N calendar days before today
func parseRelativeDays(input string, now time.Time) (time.Time, bool) {
	relativeRegex := regexp.MustCompile(`^-(\d+)d$`)
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 2 {
		return time.Time{}, false
	}

	days, err := strconv.Atoi(matches[1])
	if err != nil || days < 0 || days > 366 {
		return time.Time{}, false
	}

	return midnight(now).AddDate(0, 0, -days), true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatEntryDate formats a date for display in lists and summaries
func FormatEntryDate(d time.Time) string {
	return d.Format("Mon 2006-01-02")
}
