package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/policy"
)

// CreateEntryRequest holds the data needed to log a time entry
type CreateEntryRequest struct {
	UserID      uint
	Project     string
	Date        time.Time
	Hours       float64
	Description string
}

// CreateEntry validates and logs a time entry. The entry date must fall in
// the user's entry window, the day's total must stay within the daily cap,
// and the owning week's timesheet must still be editable. The billing rate
// is resolved and stamped here, never recalculated later.
func CreateEntry(req CreateEntryRequest) (*models.TimeEntry, error) {
	user, err := GetUserByID(req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("user %s is deactivated", user.Email)
	}

	project := strings.TrimSpace(req.Project)
	if project == "" {
		return nil, fmt.Errorf("project is required")
	}

	if err := policy.CheckHours(req.Hours); err != nil {
		return nil, err
	}

	date := models.DateOf(req.Date)
	if err := policy.CheckEntryDate(user.Role, time.Now(), date); err != nil {
		return nil, err
	}

	existing, err := dailyHours(user.ID, date, 0)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckDailyLimit(existing, req.Hours); err != nil {
		return nil, err
	}

	sheet, err := GetOrCreateTimesheet(user.ID, models.WeekStart(date))
	if err != nil {
		return nil, err
	}
	if !sheet.Editable() {
		return nil, fmt.Errorf("week of %s is %s and no longer editable",
			sheet.WeekStart.Format("2006-01-02"), strings.ToLower(string(sheet.Status)))
	}

	resolution, err := ResolveRate(user.ID, project, date)
	if err != nil {
		return nil, err
	}

	entry := models.TimeEntry{
		UserID:      user.ID,
		Project:     project,
		TimesheetID: &sheet.ID,
		Date:        date,
		Hours:       req.Hours,
		Description: strings.TrimSpace(req.Description),
		BillingRate: resolution.HourlyRate,
		RateSource:  resolution.Source,
	}

	if err := DB.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntryRequest carries the changeable fields of an entry; nil means
// leave unchanged
type UpdateEntryRequest struct {
	Hours       *float64
	Description *string
	Date        *time.Time
}

// UpdateEntry edits an entry owned by the actor. Edits are refused once the
// owning timesheet has left draft; the stamped billing rate never changes.
func UpdateEntry(entryID, actorID uint, req UpdateEntryRequest) (*models.TimeEntry, error) {
	entry, err := GetEntryByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != actorID {
		return nil, fmt.Errorf("entry #%d does not belong to you", entryID)
	}
	if entry.TimerRunning() {
		return nil, fmt.Errorf("entry #%d has a running timer; stop it first", entryID)
	}

	sheet, err := owningTimesheet(entry)
	if err != nil {
		return nil, err
	}
	if sheet != nil && !sheet.Editable() {
		return nil, fmt.Errorf("week of %s is %s and no longer editable",
			sheet.WeekStart.Format("2006-01-02"), strings.ToLower(string(sheet.Status)))
	}

	actor, err := GetUserByID(actorID)
	if err != nil {
		return nil, err
	}

	newDate := models.DateOf(entry.Date)
	if req.Date != nil {
		newDate = models.DateOf(*req.Date)
		if err := policy.CheckEntryDate(actor.Role, time.Now(), newDate); err != nil {
			return nil, err
		}
	}

	newHours := entry.Hours
	if req.Hours != nil {
		newHours = *req.Hours
		if err := policy.CheckHours(newHours); err != nil {
			return nil, err
		}
	}

	existing, err := dailyHours(entry.UserID, newDate, entry.ID)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckDailyLimit(existing, newHours); err != nil {
		return nil, err
	}

	// A date change can move the entry into another week's timesheet
	if !models.SameDate(newDate, entry.Date) {
		target, err := GetOrCreateTimesheet(entry.UserID, models.WeekStart(newDate))
		if err != nil {
			return nil, err
		}
		if !target.Editable() {
			return nil, fmt.Errorf("week of %s is %s and no longer editable",
				target.WeekStart.Format("2006-01-02"), strings.ToLower(string(target.Status)))
		}
		entry.TimesheetID = &target.ID
		entry.Date = newDate
	}

	entry.Hours = newHours
	if req.Description != nil {
		entry.Description = strings.TrimSpace(*req.Description)
	}

	if err := DB.Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes an entry owned by the actor while its week is editable
func DeleteEntry(entryID, actorID uint) error {
	entry, err := GetEntryByID(entryID)
	if err != nil {
		return err
	}
	if entry.UserID != actorID {
		return fmt.Errorf("entry #%d does not belong to you", entryID)
	}

	sheet, err := owningTimesheet(entry)
	if err != nil {
		return err
	}
	if sheet != nil && !sheet.Editable() {
		return fmt.Errorf("week of %s is %s and no longer editable",
			sheet.WeekStart.Format("2006-01-02"), strings.ToLower(string(sheet.Status)))
	}

	return DB.Delete(entry).Error
}

// GetEntryByID retrieves an entry by ID
func GetEntryByID(id uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := DB.First(&entry, id).Error; err != nil {
		return nil, fmt.Errorf("entry #%d not found", id)
	}
	return &entry, nil
}

// ListEntriesRequest filters an entry listing
type ListEntriesRequest struct {
	UserID  uint
	From    *time.Time
	To      *time.Time
	Project string
}

// ListEntries retrieves a user's entries, newest date first
func ListEntries(req ListEntriesRequest) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry

	query := DB.Where("user_id = ?", req.UserID).Order("date DESC, id DESC")
	if req.From != nil {
		query = query.Where("date >= ?", models.DateOf(*req.From))
	}
	if req.To != nil {
		query = query.Where("date <= ?", models.DateOf(*req.To))
	}
	if req.Project != "" {
		query = query.Where("project = ?", req.Project)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// dailyHours sums a user's logged hours for one day, excluding one entry
// (0 to exclude nothing)
func dailyHours(userID uint, date time.Time, excludeID uint) (float64, error) {
	var total float64
	err := DB.Model(&models.TimeEntry{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("user_id = ? AND date = ? AND id != ?", userID, models.DateOf(date), excludeID).
		Scan(&total).Error
	return total, err
}

// owningTimesheet loads the entry's timesheet, or nil when unattached
func owningTimesheet(entry *models.TimeEntry) (*models.Timesheet, error) {
	if entry.TimesheetID == nil {
		return nil, nil
	}
	var sheet models.Timesheet
	if err := DB.First(&sheet, *entry.TimesheetID).Error; err != nil {
		return nil, fmt.Errorf("timesheet #%d not found", *entry.TimesheetID)
	}
	return &sheet, nil
}
