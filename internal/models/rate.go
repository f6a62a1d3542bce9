package models

import (
	"time"

	"gorm.io/gorm"
)

// RateKind is the specificity tier of a billing rate.
// Resolution prefers EMPLOYEE_PROJECT over PROJECT over EMPLOYEE.
type RateKind string

const (
	RateEmployeeProject RateKind = "EMPLOYEE_PROJECT"
	RateProject         RateKind = "PROJECT"
	RateEmployee        RateKind = "EMPLOYEE"
)

// IsValidRateKind checks if a rate kind is valid
func IsValidRateKind(k RateKind) bool {
	switch k {
	case RateEmployeeProject, RateProject, RateEmployee:
		return true
	}
	return false
}

// Rate is a billing rate record with an effective date range.
// EffectiveTo is open-ended when nil.
type Rate struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Kind       RateKind `gorm:"not null" json:"kind"`
	EmployeeID *uint    `gorm:"index" json:"employee_id"`
	Project    *string  `gorm:"index" json:"project"`
	HourlyRate float64  `gorm:"not null" json:"hourly_rate"`

	EffectiveFrom time.Time  `gorm:"not null" json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
}

// EffectiveOn reports whether the rate applies on the given date
func (r *Rate) EffectiveOn(date time.Time) bool {
	d := DateOf(date)
	if DateOf(r.EffectiveFrom).After(d) {
		return false
	}
	if r.EffectiveTo != nil && DateOf(*r.EffectiveTo).Before(d) {
		return false
	}
	return true
}

// AppliesTo reports whether the rate's scope matches the employee/project pair
func (r *Rate) AppliesTo(employeeID uint, project string) bool {
	switch r.Kind {
	case RateEmployeeProject:
		return r.EmployeeID != nil && *r.EmployeeID == employeeID &&
			r.Project != nil && *r.Project == project
	case RateProject:
		return r.Project != nil && *r.Project == project
	case RateEmployee:
		return r.EmployeeID != nil && *r.EmployeeID == employeeID
	}
	return false
}
