package models

import (
	"time"

	"gorm.io/gorm"
)

// ApprovalDelegation hands one manager's approval authority to another
// manager for a date range, typically covering vacations or leave. While
// active, the delegate may approve and reject timesheets of the
// delegator's direct reports.
type ApprovalDelegation struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	DelegatorID uint      `gorm:"not null;index" json:"delegator_id"`
	DelegateID  uint      `gorm:"not null;index" json:"delegate_id"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`

	// Relationships
	Delegator User `gorm:"foreignKey:DelegatorID" json:"delegator"`
	Delegate  User `gorm:"foreignKey:DelegateID" json:"delegate"`
}

// ActiveOn reports whether the delegation covers a date. Both bounds are
// inclusive.
func (d *ApprovalDelegation) ActiveOn(date time.Time) bool {
	day := DateOf(date)
	return !day.Before(DateOf(d.StartDate)) && !day.After(DateOf(d.EndDate))
}
