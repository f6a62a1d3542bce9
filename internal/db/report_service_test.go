package db

import (
	"testing"

	"github.com/balkashynov/timetrack/internal/models"
)

// seedApprovedWeek logs hours for the employee, submits and approves the
// current week's sheet
func seedApprovedWeek(t *testing.T, employee, manager *models.User) *models.Timesheet {
	t.Helper()

	e, err := CreateEntry(CreateEntryRequest{UserID: employee.ID, Project: "acme-api", Date: today(), Hours: 6})
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if _, err := CreateEntry(CreateEntryRequest{UserID: employee.ID, Project: "acme-web", Date: today(), Hours: 2}); err != nil {
		t.Fatalf("entry: %v", err)
	}

	if _, err := SubmitTimesheet(*e.TimesheetID, employee.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	sheet, err := ApproveTimesheet(*e.TimesheetID, manager.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	return sheet
}

func TestReportHoursSummaryCountsApprovedOnly(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)

	seedApprovedWeek(t, employee, manager)

	// Draft hours from the manager must not show up
	if _, err := CreateEntry(CreateEntryRequest{UserID: manager.ID, Project: "acme-api", Date: today(), Hours: 3}); err != nil {
		t.Fatalf("manager entry: %v", err)
	}

	summary, err := ReportHoursSummary(HoursSummaryRequest{ActorID: manager.ID})
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if summary.TotalHours != 8 {
		t.Errorf("TotalHours = %v, want 8", summary.TotalHours)
	}
	if summary.EntryCount != 2 {
		t.Errorf("EntryCount = %d, want 2", summary.EntryCount)
	}
	if len(summary.ByUser) != 1 || summary.ByUser[0].Email != employee.Email {
		t.Fatalf("ByUser = %+v, want only the employee", summary.ByUser)
	}
	if summary.ByUser[0].Hours != 8 {
		t.Errorf("employee hours = %v, want 8", summary.ByUser[0].Hours)
	}

	if len(summary.ByProject) != 2 {
		t.Fatalf("ByProject = %+v, want two projects", summary.ByProject)
	}
	// Sorted by hours descending
	if summary.ByProject[0].Project != "acme-api" || summary.ByProject[0].Hours != 6 {
		t.Errorf("top project = %+v, want acme-api with 6h", summary.ByProject[0])
	}
}

func TestReportHoursSummaryScope(t *testing.T) {
	setupTestDB(t)
	admin, manager, employee := seedTeam(t)

	seedApprovedWeek(t, employee, manager)

	// An employee outside the manager's team, approved by the admin
	outsider, err := CreateUser(CreateUserRequest{Email: "out@example.com", FirstName: "Omar", LastName: "Out", ManagerEmail: admin.Email})
	if err != nil {
		t.Fatalf("outsider: %v", err)
	}
	seedApprovedWeek(t, outsider, admin)

	mgrView, err := ReportHoursSummary(HoursSummaryRequest{ActorID: manager.ID})
	if err != nil {
		t.Fatalf("manager report: %v", err)
	}
	if mgrView.TotalHours != 8 {
		t.Errorf("manager sees %vh, want only the team's 8", mgrView.TotalHours)
	}

	adminView, err := ReportHoursSummary(HoursSummaryRequest{ActorID: admin.ID})
	if err != nil {
		t.Fatalf("admin report: %v", err)
	}
	if adminView.TotalHours != 16 {
		t.Errorf("admin sees %vh, want all 16", adminView.TotalHours)
	}
	if len(adminView.ByUser) != 2 {
		t.Errorf("admin ByUser = %+v, want both employees", adminView.ByUser)
	}

	if _, err := ReportHoursSummary(HoursSummaryRequest{ActorID: employee.ID}); err == nil {
		t.Error("employees should not be able to run reports")
	}
}

func TestReportHoursSummaryDateRange(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)

	seedApprovedWeek(t, employee, manager)

	after := today().AddDate(0, 0, 1)
	summary, err := ReportHoursSummary(HoursSummaryRequest{ActorID: manager.ID, From: &after})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if summary.TotalHours != 0 || summary.EntryCount != 0 {
		t.Errorf("range starting tomorrow should be empty, got %+v", summary)
	}
}

func TestReportApprovalMetrics(t *testing.T) {
	setupTestDB(t)
	admin, manager, employee := seedTeam(t)

	seedApprovedWeek(t, employee, manager)

	// A rejected sheet from the previous week
	lastWeek := today().AddDate(0, 0, -7)
	e, err := CreateEntry(CreateEntryRequest{UserID: employee.ID, Project: "acme-api", Date: lastWeek, Hours: 4})
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if _, err := SubmitTimesheet(*e.TimesheetID, employee.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := RejectTimesheet(*e.TimesheetID, manager.ID, "fix the project code", nil); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// A draft sheet outside the manager's team
	if _, err := CreateEntry(CreateEntryRequest{UserID: admin.ID, Project: "ops", Date: today(), Hours: 1}); err != nil {
		t.Fatalf("admin entry: %v", err)
	}

	metrics, err := ReportApprovalMetrics(manager.ID, nil, nil)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.Total != 2 || metrics.Approved != 1 || metrics.Rejected != 1 || metrics.Draft != 0 {
		t.Errorf("manager metrics = %+v, want 1 approved + 1 rejected", metrics)
	}
	if metrics.ApprovalRate != 50 {
		t.Errorf("ApprovalRate = %v, want 50", metrics.ApprovalRate)
	}

	adminMetrics, err := ReportApprovalMetrics(admin.ID, nil, nil)
	if err != nil {
		t.Fatalf("admin metrics: %v", err)
	}
	if adminMetrics.Total != 3 || adminMetrics.Draft != 1 {
		t.Errorf("admin metrics = %+v, want the extra draft sheet", adminMetrics)
	}

	if _, err := ReportApprovalMetrics(employee.ID, nil, nil); err == nil {
		t.Error("employees should not be able to run reports")
	}
}
