// Package rates resolves which billing rate applies to a time entry.
// Resolution prefers the most specific tier (employee-project over project
// over employee) and, within a tier, the latest effective-from date.
package rates

import (
	"fmt"
	"time"

	"github.com/balkashynov/timetrack/internal/models"
)

// Resolution is the outcome of a successful rate lookup
type Resolution struct {
	HourlyRate float64
	Source     models.RateSource
	RateID     uint
}

// NoApplicableRateError reports that no rate record covers the lookup
type NoApplicableRateError struct {
	EmployeeID uint
	Project    string
	Date       time.Time
}

func (e *NoApplicableRateError) Error() string {
	return fmt.Sprintf("no applicable rate for employee #%d on project %q as of %s",
		e.EmployeeID, e.Project, e.Date.Format("2006-01-02"))
}

var specificity = []models.RateKind{
	models.RateEmployeeProject,
	models.RateProject,
	models.RateEmployee,
}

// Resolve picks the applicable rate among the given records for an
// employee/project pair on a date. The records may be unfiltered; scope
// and effective-range matching happen here.
func Resolve(records []models.Rate, employeeID uint, project string, date time.Time) (Resolution, error) {
	for _, kind := range specificity {
		var best *models.Rate
		for i := range records {
			r := &records[i]
			if r.Kind != kind || !r.AppliesTo(employeeID, project) || !r.EffectiveOn(date) {
				continue
			}
			if best == nil || r.EffectiveFrom.After(best.EffectiveFrom) {
				best = r
			}
		}
		if best != nil {
			return Resolution{
				HourlyRate: best.HourlyRate,
				Source:     sourceFor(kind),
				RateID:     best.ID,
			}, nil
		}
	}

	return Resolution{}, &NoApplicableRateError{
		EmployeeID: employeeID,
		Project:    project,
		Date:       models.DateOf(date),
	}
}

func sourceFor(kind models.RateKind) models.RateSource {
	switch kind {
	case models.RateEmployeeProject:
		return models.RateSourceEmployeeProject
	case models.RateProject:
		return models.RateSourceProject
	default:
		return models.RateSourceEmployee
	}
}

// OverlapError reports a candidate rate whose scope and effective range
// collide with an existing record of the same tier
type OverlapError struct {
	ExistingID uint
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("rate is ambiguous with existing rate #%d in the same tier; use a different effective date", e.ExistingID)
}

// CheckOverlap enforces the write-time invariant that two rates of the same
// tier and scope never start on the same effective date. A later start over
// an existing range is fine (recency wins at resolution); an identical start
// would be ambiguous and is refused here rather than resolved at read time.
func CheckOverlap(existing []models.Rate, candidate models.Rate) error {
	for i := range existing {
		r := &existing[i]
		if r.ID == candidate.ID || r.Kind != candidate.Kind {
			continue
		}
		if !sameScope(r, &candidate) {
			continue
		}
		if models.SameDate(r.EffectiveFrom, candidate.EffectiveFrom) && rangesOverlap(r, &candidate) {
			return &OverlapError{ExistingID: r.ID}
		}
	}
	return nil
}

func sameScope(a, b *models.Rate) bool {
	if !eqUintPtr(a.EmployeeID, b.EmployeeID) {
		return false
	}
	return eqStrPtr(a.Project, b.Project)
}

func rangesOverlap(a, b *models.Rate) bool {
	aFrom, bFrom := models.DateOf(a.EffectiveFrom), models.DateOf(b.EffectiveFrom)

	// Open-ended ranges extend forever
	if a.EffectiveTo == nil && b.EffectiveTo == nil {
		return true
	}
	if a.EffectiveTo == nil {
		return !models.DateOf(*b.EffectiveTo).Before(aFrom)
	}
	if b.EffectiveTo == nil {
		return !models.DateOf(*a.EffectiveTo).Before(bFrom)
	}
	return !models.DateOf(*a.EffectiveTo).Before(bFrom) && !models.DateOf(*b.EffectiveTo).Before(aFrom)
}

func eqUintPtr(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
