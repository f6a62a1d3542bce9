package models

import (
	"time"

	"gorm.io/gorm"
)

// Status represents a timesheet's position in the approval workflow
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
)

// IsValidStatus checks if a status is valid
func IsValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Timesheet is a weekly (Monday-start) aggregate of one user's entries,
// subject to the submit/approve/reject workflow
type Timesheet struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_week" json:"user_id"`
	WeekStart time.Time `gorm:"not null;uniqueIndex:idx_user_week" json:"week_start"`
	Status    Status    `gorm:"default:DRAFT" json:"status"`

	SubmittedAt  *time.Time `json:"submitted_at"`
	ApprovedAt   *time.Time `json:"approved_at"`
	ApprovedByID *uint      `json:"approved_by_id"`
	LockedAt     *time.Time `json:"locked_at"`

	// Relationships
	User       User               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ApprovedBy *User              `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	Entries    []TimeEntry        `gorm:"foreignKey:TimesheetID" json:"entries"`
	Comments   []TimesheetComment `gorm:"foreignKey:TimesheetID" json:"comments"`
}

// Locked reports whether entry mutation for this week is forbidden
func (t *Timesheet) Locked() bool {
	return t.LockedAt != nil
}

// Editable reports whether the owner may still change entries for this week
func (t *Timesheet) Editable() bool {
	return t.Status == StatusDraft && !t.Locked()
}

// TimesheetComment is a line of conversation on a timesheet, optionally
// tied to a specific entry
type TimesheetComment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TimesheetID uint       `gorm:"not null;index" json:"timesheet_id"`
	EntryID     *uint      `json:"entry_id"`
	AuthorID    uint       `gorm:"not null" json:"author_id"`
	Text        string     `gorm:"not null" json:"text"`
	Resolved    bool       `gorm:"default:false" json:"resolved"`
	ResolvedAt  *time.Time `json:"resolved_at"`

	// Relationships
	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}

// OverrideAction identifies an administrative override on a timesheet
type OverrideAction string

const (
	OverrideUnlock OverrideAction = "UNLOCK"
)

// AdminOverride records an administrative action with its prior state
type AdminOverride struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TimesheetID    uint           `gorm:"not null;index" json:"timesheet_id"`
	AdminID        uint           `gorm:"not null" json:"admin_id"`
	Action         OverrideAction `gorm:"not null" json:"action"`
	Reason         string         `json:"reason"`
	PreviousStatus Status         `json:"previous_status"`
}
