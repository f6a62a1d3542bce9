package db

import (
	"errors"
	"testing"

	"github.com/balkashynov/timetrack/internal/models"
)

func TestTimerSingleton(t *testing.T) {
	setupTestDB(t)
	_, _, employee := seedTeam(t)

	first, err := StartTimer(employee.ID, "acme-api", "debugging")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !first.TimerRunning() {
		t.Error("started timer should be running")
	}
	if first.Hours != 0 {
		t.Errorf("running timer hours = %v, want 0", first.Hours)
	}
	if first.RateSource != models.RateSourceDefault || first.BillingRate != 50 {
		t.Errorf("timer rate = %v (%s), want 50 (DEFAULT)", first.BillingRate, first.RateSource)
	}

	if _, err := StartTimer(employee.ID, "other", ""); !errors.Is(err, ErrTimerAlreadyActive) {
		t.Errorf("second start = %v, want ErrTimerAlreadyActive", err)
	}
}

func TestTimerPerUser(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)

	if _, err := StartTimer(employee.ID, "acme-api", ""); err != nil {
		t.Fatalf("start employee timer: %v", err)
	}
	// Another user's timer is unaffected by the singleton rule
	if _, err := StartTimer(manager.ID, "planning", ""); err != nil {
		t.Errorf("start manager timer: %v", err)
	}
}

func TestStopTimer(t *testing.T) {
	setupTestDB(t)
	_, _, employee := seedTeam(t)

	started, err := StartTimer(employee.ID, "acme-api", "first pass")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	stopped, err := StopTimer(employee.ID, "second pass")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.ID != started.ID {
		t.Errorf("stopped entry #%d, want #%d", stopped.ID, started.ID)
	}
	if stopped.TimerRunning() {
		t.Error("stopped timer should not be running")
	}
	if stopped.TimerStoppedAt == nil {
		t.Error("TimerStoppedAt should be set")
	}
	// Stopped within the test run; rounded to two decimals this is 0
	if stopped.Hours < 0 || stopped.Hours > 0.02 {
		t.Errorf("hours = %v, want ~0 for an immediate stop", stopped.Hours)
	}
	if stopped.Description != "second pass" {
		t.Errorf("description = %q, want replacement from stop", stopped.Description)
	}

	active, err := GetActiveTimer(employee.ID)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active != nil {
		t.Error("no timer should remain active after stop")
	}
}

func TestStopTimerWithoutActive(t *testing.T) {
	setupTestDB(t)
	_, _, employee := seedTeam(t)

	if _, err := StopTimer(employee.ID, ""); !errors.Is(err, ErrNoActiveTimer) {
		t.Errorf("stop without timer = %v, want ErrNoActiveTimer", err)
	}
}

func TestGetActiveTimerQueryFailure(t *testing.T) {
	setupTestDB(t)
	_, _, employee := seedTeam(t)

	sqlDB, err := DB.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := GetActiveTimer(employee.ID); err == nil {
		t.Error("query failure should surface as an error, not as no timer")
	}
	// A failed lookup must not masquerade as a missing timer
	if _, err := StopTimer(employee.ID, ""); errors.Is(err, ErrNoActiveTimer) {
		t.Errorf("stop = %v, want the underlying failure, not ErrNoActiveTimer", err)
	}
}

func TestGetActiveTimerNone(t *testing.T) {
	setupTestDB(t)
	_, _, employee := seedTeam(t)

	entry, err := GetActiveTimer(employee.ID)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if entry != nil {
		t.Errorf("entry = %v, want nil when no timer runs", entry)
	}
}
