package policy

import (
	"strconv"
	"time"

	"github.com/balkashynov/timetrack/internal/models"
)

// Verbatim messages from the entry form; tests and UI match on these.
const (
	msgFutureWeek   = "Cannot enter time for future weeks"
	msgTooOldAdmin  = "Cannot enter time older than 1 month"
	msgTooOldOthers = "Cannot enter time older than 1 week (contact admin for older entries)"
)

// ValidationError is a recoverable input error with a user-facing message
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// EntryWindow computes the allowed date range for creating or editing a
// time entry. The maximum is the Sunday of the current week for everyone;
// the minimum reaches back one month of weeks for admins and one week for
// everyone else. Both bounds are inclusive.
func EntryWindow(role models.Role, today time.Time) (min, max time.Time) {
	max = models.WeekEnd(today)
	if role == models.RoleAdmin {
		min = models.WeekStart(today.AddDate(0, -1, 0))
	} else {
		min = models.WeekStart(today.AddDate(0, 0, -7))
	}
	return min, max
}

// CheckEntryDate validates an entry date against the role's window
func CheckEntryDate(role models.Role, today, date time.Time) error {
	min, max := EntryWindow(role, today)
	d := models.DateOf(date)

	if d.After(max) {
		return &ValidationError{Field: "date", Message: msgFutureWeek}
	}
	if d.Before(min) {
		if role == models.RoleAdmin {
			return &ValidationError{Field: "date", Message: msgTooOldAdmin}
		}
		return &ValidationError{Field: "date", Message: msgTooOldOthers}
	}
	return nil
}

// CheckHours validates an hours value on its own: positive and at most 24
func CheckHours(hours float64) error {
	if hours <= 0 {
		return &ValidationError{Field: "hours", Message: "Hours must be greater than zero"}
	}
	if hours > 24 {
		return &ValidationError{Field: "hours", Message: "Hours must be between 0 and 24"}
	}
	return nil
}

// MaxDailyHours is the ceiling on one user's total hours for a single day
const MaxDailyHours = 24.0

// CheckDailyLimit validates that adding hours on top of what is already
// logged for the day stays within the daily ceiling
func CheckDailyLimit(existing, additional float64) error {
	if existing+additional > MaxDailyHours {
		return &ValidationError{
			Field: "hours",
			Message: "Daily limit exceeded. You have " + formatHours(existing) +
				" hours logged. Maximum additional hours: " + formatHours(MaxDailyHours-existing),
		}
	}
	return nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
