package db

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/policy"
)

// ErrTimerAlreadyActive is returned when starting a timer while one runs.
// At most one timer per user exists at any time.
var ErrTimerAlreadyActive = errors.New("a timer is already running; stop it with 'timetrack timer stop' first")

// ErrNoActiveTimer is returned when stopping without a running timer
var ErrNoActiveTimer = errors.New("no active timer found")

// StartTimer starts a timer entry for today. The billing rate is resolved
// and stamped at start; hours stay zero until the timer stops.
func StartTimer(userID uint, project, description string) (*models.TimeEntry, error) {
	user, err := GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("user %s is deactivated", user.Email)
	}

	project = strings.TrimSpace(project)
	if project == "" {
		return nil, fmt.Errorf("project is required")
	}

	// The check and the insert share one transaction so two starts cannot
	// both slip past the singleton check.
	var entry *models.TimeEntry
	err = DB.Transaction(func(tx *gorm.DB) error {
		var active models.TimeEntry
		err := tx.Where("user_id = ? AND is_timer_entry = ? AND timer_stopped_at IS NULL", userID, true).
			First(&active).Error
		if err == nil {
			return ErrTimerAlreadyActive
		}

		now := time.Now()
		date := models.DateOf(now)

		sheet, err := getOrCreateTimesheetTx(tx, userID, models.WeekStart(date))
		if err != nil {
			return err
		}
		if !sheet.Editable() {
			return fmt.Errorf("week of %s is %s and no longer editable",
				sheet.WeekStart.Format("2006-01-02"), strings.ToLower(string(sheet.Status)))
		}

		resolution, err := ResolveRate(userID, project, date)
		if err != nil {
			return err
		}

		started := now
		entry = &models.TimeEntry{
			UserID:         userID,
			Project:        project,
			TimesheetID:    &sheet.ID,
			Date:           date,
			Hours:          0,
			Description:    strings.TrimSpace(description),
			BillingRate:    resolution.HourlyRate,
			RateSource:     resolution.Source,
			IsTimerEntry:   true,
			TimerStartedAt: &started,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// StopTimer stops the user's active timer and converts elapsed wall-clock
// time into the entry's hours, capped so the day stays within the daily
// limit. An optional description replaces the one given at start.
func StopTimer(userID uint, description string) (*models.TimeEntry, error) {
	entry, err := GetActiveTimer(userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNoActiveTimer
	}

	now := time.Now()
	elapsed := now.Sub(*entry.TimerStartedAt).Hours()
	hours := math.Round(elapsed*100) / 100

	existing, err := dailyHours(userID, entry.Date, entry.ID)
	if err != nil {
		return nil, err
	}
	if max := policy.MaxDailyHours - existing; hours > max {
		hours = max
	}

	entry.TimerStoppedAt = &now
	entry.Hours = hours
	if strings.TrimSpace(description) != "" {
		entry.Description = strings.TrimSpace(description)
	}

	if err := DB.Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// GetActiveTimer returns the user's running timer, if any.
// No active timer is not an error.
func GetActiveTimer(userID uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := DB.Where("user_id = ? AND is_timer_entry = ? AND timer_stopped_at IS NULL", userID, true).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
