package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/timetrack/internal/aggregate"
	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/policy"
	"github.com/balkashynov/timetrack/internal/workflow"
)

var machine = workflow.New()

// GetOrCreateTimesheet finds or creates the user's timesheet for a week
func GetOrCreateTimesheet(userID uint, weekStart time.Time) (*models.Timesheet, error) {
	return getOrCreateTimesheetTx(DB, userID, weekStart)
}

func getOrCreateTimesheetTx(tx *gorm.DB, userID uint, weekStart time.Time) (*models.Timesheet, error) {
	week := models.WeekStart(weekStart)

	var sheet models.Timesheet
	err := tx.Where("user_id = ? AND week_start = ?", userID, week).First(&sheet).Error
	if err == nil {
		return &sheet, nil
	}

	sheet = models.Timesheet{
		UserID:    userID,
		WeekStart: week,
		Status:    models.StatusDraft,
	}
	if err := tx.Create(&sheet).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

// GetTimesheet retrieves a timesheet with its entries, comments and people
func GetTimesheet(id uint) (*models.Timesheet, error) {
	var sheet models.Timesheet
	err := DB.Preload("User").
		Preload("ApprovedBy").
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, id ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		First(&sheet, id).Error
	if err != nil {
		return nil, fmt.Errorf("timesheet #%d not found", id)
	}
	return &sheet, nil
}

// ListTimesheetsRequest filters a timesheet listing
type ListTimesheetsRequest struct {
	ActorID uint
	Team    bool // managers: include direct reports' timesheets
	Status  models.Status
}

// ListTimesheets retrieves timesheets visible to the actor, newest week
// first. The team view covers the actor's own sheets plus direct reports';
// admins see everything.
func ListTimesheets(req ListTimesheetsRequest) ([]models.Timesheet, error) {
	actor, err := GetUserByID(req.ActorID)
	if err != nil {
		return nil, err
	}

	query := DB.Preload("User").Preload("Entries").Order("week_start DESC")

	switch {
	case req.Team && actor.IsAdmin():
		// no user filter
	case req.Team && actor.IsManager():
		query = query.Where("user_id = ? OR user_id IN (?)", actor.ID,
			DB.Model(&models.User{}).Select("id").Where("manager_id = ?", actor.ID))
	default:
		query = query.Where("user_id = ?", actor.ID)
	}

	if req.Status != "" {
		if !models.IsValidStatus(req.Status) {
			return nil, fmt.Errorf("invalid status %q", req.Status)
		}
		query = query.Where("status = ?", req.Status)
	}

	var sheets []models.Timesheet
	if err := query.Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

// TotalHours derives a timesheet's weekly total from its loaded entries
func TotalHours(sheet *models.Timesheet) float64 {
	return aggregate.Aggregate(sheet.Entries, sheet.WeekStart).Total
}

// SubmitTimesheet submits a draft timesheet for approval
func SubmitTimesheet(timesheetID, actorID uint) (*models.Timesheet, error) {
	return transition(timesheetID, actorID, workflow.ActionSubmit, "", nil)
}

// ApproveTimesheet approves a submitted timesheet and locks the week
func ApproveTimesheet(timesheetID, actorID uint) (*models.Timesheet, error) {
	return transition(timesheetID, actorID, workflow.ActionApprove, "", nil)
}

// RejectTimesheet rejects a submitted timesheet, recording the reason as a
// comment, optionally tied to one entry
func RejectTimesheet(timesheetID, actorID uint, comment string, entryID *uint) (*models.Timesheet, error) {
	return transition(timesheetID, actorID, workflow.ActionReject, comment, entryID)
}

// ReopenTimesheet returns a rejected timesheet to draft for resubmission
func ReopenTimesheet(timesheetID, actorID uint) (*models.Timesheet, error) {
	return transition(timesheetID, actorID, workflow.ActionReopen, "", nil)
}

// transition runs one workflow action inside a transaction: validate,
// apply effects, persist. Nothing is written when validation fails.
func transition(timesheetID, actorID uint, action workflow.Action, comment string, entryID *uint) (*models.Timesheet, error) {
	actor, err := GetUserByID(actorID)
	if err != nil {
		return nil, err
	}

	var sheet *models.Timesheet
	err = DB.Transaction(func(tx *gorm.DB) error {
		var s models.Timesheet
		if err := tx.Preload("User").Preload("Entries").First(&s, timesheetID).Error; err != nil {
			return fmt.Errorf("timesheet #%d not found", timesheetID)
		}

		if entryID != nil {
			if err := entryInSheet(tx, *entryID, s.ID); err != nil {
				return err
			}
		}

		var delegations []models.ApprovalDelegation
		if action == workflow.ActionApprove || action == workflow.ActionReject {
			var derr error
			delegations, derr = activeDelegationsFor(tx, actor.ID, time.Now())
			if derr != nil {
				return derr
			}
		}

		ctx := &workflow.TransitionContext{
			Timesheet:   &s,
			Actor:       actor,
			Comment:     comment,
			Delegations: delegations,
		}
		if err := machine.Apply(action, ctx, time.Now()); err != nil {
			return err
		}

		if action == workflow.ActionReject {
			rejection := models.TimesheetComment{
				TimesheetID: s.ID,
				EntryID:     entryID,
				AuthorID:    actor.ID,
				Text:        strings.TrimSpace(comment),
			}
			if err := tx.Create(&rejection).Error; err != nil {
				return err
			}
		}

		if err := tx.Save(&s).Error; err != nil {
			return err
		}

		sheet = &s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sheet, nil
}

// AddComment appends a comment to a timesheet the actor can see
func AddComment(timesheetID, actorID uint, text string, entryID *uint) (*models.TimesheetComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text cannot be empty")
	}

	actor, err := GetUserByID(actorID)
	if err != nil {
		return nil, err
	}

	sheet, err := GetTimesheet(timesheetID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(policy.ActionComment, actor, sheet) {
		return nil, fmt.Errorf("you cannot comment on this timesheet")
	}

	if entryID != nil {
		if err := entryInSheet(DB, *entryID, sheet.ID); err != nil {
			return nil, err
		}
	}

	comment := models.TimesheetComment{
		TimesheetID: sheet.ID,
		EntryID:     entryID,
		AuthorID:    actor.ID,
		Text:        strings.TrimSpace(text),
	}
	if err := DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UnlockTimesheet is the admin override that reopens a locked or decided
// timesheet for editing. The action and the prior state are recorded.
func UnlockTimesheet(timesheetID, actorID uint, reason string) (*models.Timesheet, error) {
	actor, err := GetUserByID(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only admins can unlock timesheets")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("an unlock reason is required")
	}

	var sheet *models.Timesheet
	err = DB.Transaction(func(tx *gorm.DB) error {
		var s models.Timesheet
		if err := tx.First(&s, timesheetID).Error; err != nil {
			return fmt.Errorf("timesheet #%d not found", timesheetID)
		}
		if s.Status == models.StatusDraft && !s.Locked() {
			return fmt.Errorf("timesheet #%d is already editable", timesheetID)
		}

		override := models.AdminOverride{
			TimesheetID:    s.ID,
			AdminID:        actor.ID,
			Action:         models.OverrideUnlock,
			Reason:         strings.TrimSpace(reason),
			PreviousStatus: s.Status,
		}
		if err := tx.Create(&override).Error; err != nil {
			return err
		}

		s.Status = models.StatusDraft
		s.SubmittedAt = nil
		s.ApprovedAt = nil
		s.ApprovedByID = nil
		s.LockedAt = nil

		if err := tx.Save(&s).Error; err != nil {
			return err
		}
		sheet = &s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sheet, nil
}

func entryInSheet(tx *gorm.DB, entryID, timesheetID uint) error {
	var count int64
	if err := tx.Model(&models.TimeEntry{}).
		Where("id = ? AND timesheet_id = ?", entryID, timesheetID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("entry #%d not found in this timesheet", entryID)
	}
	return nil
}
