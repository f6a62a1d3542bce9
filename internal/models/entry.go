package models

import (
	"time"

	"gorm.io/gorm"
)

// RateSource records where an entry's billing rate was resolved from
type RateSource string

const (
	RateSourceEmployeeProject RateSource = "EMPLOYEE_PROJECT"
	RateSourceProject         RateSource = "PROJECT"
	RateSourceEmployee        RateSource = "EMPLOYEE"
	RateSourceDefault         RateSource = "DEFAULT"
)

// TimeEntry represents a single logged unit of work.
// The billing rate is snapshotted at creation and never recalculated.
type TimeEntry struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Project     string    `gorm:"not null" json:"project"`
	TimesheetID *uint     `gorm:"index" json:"timesheet_id"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Hours       float64   `gorm:"not null" json:"hours"`
	Description string    `json:"description"`

	BillingRate float64    `json:"billing_rate"`
	RateSource  RateSource `json:"rate_source"`

	// Timer fields; a running timer is an entry with a start and no stop
	IsTimerEntry   bool       `gorm:"default:false" json:"is_timer_entry"`
	TimerStartedAt *time.Time `json:"timer_started_at"`
	TimerStoppedAt *time.Time `json:"timer_stopped_at"`

	// Relationships
	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}

// BillableAmount returns hours times the stamped rate
func (e *TimeEntry) BillableAmount() float64 {
	return e.Hours * e.BillingRate
}

// TimerRunning reports whether the entry is a started, unstopped timer
func (e *TimeEntry) TimerRunning() bool {
	return e.IsTimerEntry && e.TimerStartedAt != nil && e.TimerStoppedAt == nil
}
