package rates

import (
	"errors"
	"testing"
	"time"

	"github.com/balkashynov/timetrack/internal/models"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func uintPtr(v uint) *uint       { return &v }
func strPtr(v string) *string    { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestResolveSpecificityBeatsRecency(t *testing.T) {
	// An older employee-project rate beats a newer plain employee rate
	records := []models.Rate{
		{ID: 1, Kind: models.RateEmployee, EmployeeID: uintPtr(7), HourlyRate: 80, EffectiveFrom: day("2024-06-01")},
		{ID: 2, Kind: models.RateEmployeeProject, EmployeeID: uintPtr(7), Project: strPtr("acme-api"), HourlyRate: 120, EffectiveFrom: day("2024-01-01")},
	}

	res, err := Resolve(records, 7, "acme-api", day("2024-07-01"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.RateID != 2 || res.HourlyRate != 120 {
		t.Errorf("got rate #%d at %v, want #2 at 120", res.RateID, res.HourlyRate)
	}
	if res.Source != models.RateSourceEmployeeProject {
		t.Errorf("source = %s, want %s", res.Source, models.RateSourceEmployeeProject)
	}
}

func TestResolveRecencyWithinTier(t *testing.T) {
	records := []models.Rate{
		{ID: 1, Kind: models.RateEmployee, EmployeeID: uintPtr(7), HourlyRate: 80, EffectiveFrom: day("2024-01-01")},
		{ID: 2, Kind: models.RateEmployee, EmployeeID: uintPtr(7), HourlyRate: 95, EffectiveFrom: day("2024-06-01")},
	}

	tests := []struct {
		name   string
		on     string
		wantID uint
	}{
		{"after the raise", "2024-07-01", 2},
		{"before the raise", "2024-02-01", 1},
		{"on the raise date", "2024-06-01", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(records, 7, "any-project", day(tt.on))
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if res.RateID != tt.wantID {
				t.Errorf("got rate #%d, want #%d", res.RateID, tt.wantID)
			}
		})
	}
}

func TestResolveScopeFiltering(t *testing.T) {
	records := []models.Rate{
		{ID: 1, Kind: models.RateEmployeeProject, EmployeeID: uintPtr(7), Project: strPtr("acme-api"), HourlyRate: 120, EffectiveFrom: day("2024-01-01")},
		{ID: 2, Kind: models.RateProject, Project: strPtr("acme-api"), HourlyRate: 100, EffectiveFrom: day("2024-01-01")},
		{ID: 3, Kind: models.RateEmployee, EmployeeID: uintPtr(9), HourlyRate: 70, EffectiveFrom: day("2024-01-01")},
	}

	// Different employee on the shared project gets the project rate
	res, err := Resolve(records, 9, "acme-api", day("2024-03-01"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.RateID != 2 || res.Source != models.RateSourceProject {
		t.Errorf("got #%d (%s), want #2 (%s)", res.RateID, res.Source, models.RateSourceProject)
	}

	// Same employee off the project falls back to their employee rate
	res, err = Resolve(records, 9, "other", day("2024-03-01"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.RateID != 3 || res.Source != models.RateSourceEmployee {
		t.Errorf("got #%d (%s), want #3 (%s)", res.RateID, res.Source, models.RateSourceEmployee)
	}
}

func TestResolveRespectsEffectiveTo(t *testing.T) {
	records := []models.Rate{
		{ID: 1, Kind: models.RateEmployee, EmployeeID: uintPtr(7), HourlyRate: 80,
			EffectiveFrom: day("2024-01-01"), EffectiveTo: timePtr(day("2024-03-31"))},
	}

	if _, err := Resolve(records, 7, "p", day("2024-04-01")); err == nil {
		t.Error("expected no applicable rate after effective_to")
	}
	res, err := Resolve(records, 7, "p", day("2024-03-31"))
	if err != nil {
		t.Fatalf("effective_to should be inclusive: %v", err)
	}
	if res.RateID != 1 {
		t.Errorf("got rate #%d, want #1", res.RateID)
	}
}

func TestResolveNoApplicableRate(t *testing.T) {
	_, err := Resolve(nil, 7, "acme-api", day("2024-07-01"))

	var nerr *NoApplicableRateError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NoApplicableRateError, got %T: %v", err, err)
	}
	if nerr.EmployeeID != 7 || nerr.Project != "acme-api" {
		t.Errorf("error carries %d/%q, want 7/acme-api", nerr.EmployeeID, nerr.Project)
	}
}

func TestCheckOverlap(t *testing.T) {
	existing := []models.Rate{
		{ID: 1, Kind: models.RateEmployee, EmployeeID: uintPtr(7), HourlyRate: 80, EffectiveFrom: day("2024-01-01")},
	}

	tests := []struct {
		name      string
		candidate models.Rate
		wantErr   bool
	}{
		{
			"same tier, same scope, same start",
			models.Rate{Kind: models.RateEmployee, EmployeeID: uintPtr(7), EffectiveFrom: day("2024-01-01")},
			true,
		},
		{
			"same tier, later start overrides",
			models.Rate{Kind: models.RateEmployee, EmployeeID: uintPtr(7), EffectiveFrom: day("2024-06-01")},
			false,
		},
		{
			"same start, different employee",
			models.Rate{Kind: models.RateEmployee, EmployeeID: uintPtr(8), EffectiveFrom: day("2024-01-01")},
			false,
		},
		{
			"same start, different tier",
			models.Rate{Kind: models.RateProject, Project: strPtr("acme-api"), EffectiveFrom: day("2024-01-01")},
			false,
		},
		{
			"same start, candidate closed-ended",
			models.Rate{Kind: models.RateEmployee, EmployeeID: uintPtr(7), EffectiveFrom: day("2024-01-01"),
				EffectiveTo: timePtr(day("2024-03-31"))},
			true, // ranges share the start day, still ambiguous
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOverlap(existing, tt.candidate)
			if tt.wantErr {
				var oerr *OverlapError
				if !errors.As(err, &oerr) {
					t.Errorf("expected OverlapError, got %T: %v", err, err)
				}
			} else if err != nil {
				t.Errorf("expected no overlap, got %v", err)
			}
		})
	}
}
