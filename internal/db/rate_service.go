package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/rates"
)

// SetRateRequest holds the data needed to create a rate record
type SetRateRequest struct {
	Kind          string
	EmployeeEmail string // required for EMPLOYEE and EMPLOYEE_PROJECT kinds
	Project       string // required for PROJECT and EMPLOYEE_PROJECT kinds
	HourlyRate    float64
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

// SetRate creates a rate record, refusing same-tier ambiguity at write time
func SetRate(req SetRateRequest) (*models.Rate, error) {
	kind := models.RateKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
	if !models.IsValidRateKind(kind) {
		return nil, fmt.Errorf("invalid rate kind %q (use employee, project or employee_project)", req.Kind)
	}
	if req.HourlyRate <= 0 {
		return nil, fmt.Errorf("hourly rate must be greater than zero")
	}
	if req.EffectiveTo != nil && req.EffectiveTo.Before(req.EffectiveFrom) {
		return nil, fmt.Errorf("effective_to cannot be before effective_from")
	}

	rate := models.Rate{
		Kind:          kind,
		HourlyRate:    req.HourlyRate,
		EffectiveFrom: models.DateOf(req.EffectiveFrom),
	}
	if req.EffectiveTo != nil {
		to := models.DateOf(*req.EffectiveTo)
		rate.EffectiveTo = &to
	}

	needsEmployee := kind == models.RateEmployee || kind == models.RateEmployeeProject
	needsProject := kind == models.RateProject || kind == models.RateEmployeeProject

	if needsEmployee {
		if req.EmployeeEmail == "" {
			return nil, fmt.Errorf("%s rates need an employee", kind)
		}
		employee, err := GetUserByEmail(req.EmployeeEmail)
		if err != nil {
			return nil, err
		}
		rate.EmployeeID = &employee.ID
	}
	if needsProject {
		project := strings.TrimSpace(req.Project)
		if project == "" {
			return nil, fmt.Errorf("%s rates need a project", kind)
		}
		rate.Project = &project
	}

	existing, err := ListRates(kind)
	if err != nil {
		return nil, err
	}
	if err := rates.CheckOverlap(existing, rate); err != nil {
		return nil, err
	}

	if err := DB.Create(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// ListRates retrieves rate records, optionally filtered by kind
// (empty kind means all)
func ListRates(kind models.RateKind) ([]models.Rate, error) {
	var records []models.Rate

	query := DB.Order("effective_from DESC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// EndRate closes an open-ended rate by setting its effective_to date
func EndRate(rateID uint, effectiveTo time.Time) (*models.Rate, error) {
	var rate models.Rate
	if err := DB.First(&rate, rateID).Error; err != nil {
		return nil, fmt.Errorf("rate #%d not found", rateID)
	}

	to := models.DateOf(effectiveTo)
	if to.Before(models.DateOf(rate.EffectiveFrom)) {
		return nil, fmt.Errorf("effective_to cannot be before effective_from")
	}

	rate.EffectiveTo = &to
	if err := DB.Save(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// DeleteRate removes a rate record. Rates already stamped on entries are
// unaffected; billing rates are frozen at entry creation.
func DeleteRate(rateID uint) error {
	result := DB.Delete(&models.Rate{}, rateID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("rate #%d not found", rateID)
	}
	return nil
}

// ResolveRate resolves the applicable rate for an employee/project/date,
// falling back to the configured default when no record matches
func ResolveRate(employeeID uint, project string, date time.Time) (rates.Resolution, error) {
	records, err := ListRates("")
	if err != nil {
		return rates.Resolution{}, err
	}

	resolution, err := rates.Resolve(records, employeeID, project, date)
	if err == nil {
		return resolution, nil
	}

	if conf != nil && conf.DefaultHourlyRate > 0 {
		return rates.Resolution{
			HourlyRate: conf.DefaultHourlyRate,
			Source:     models.RateSourceDefault,
		}, nil
	}

	return rates.Resolution{}, err
}
