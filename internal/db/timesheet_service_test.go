package db

import (
	"errors"
	"testing"

	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/workflow"
)

// seedDraftSheet logs one entry for the employee and returns the draft
// timesheet it landed on
func seedDraftSheet(t *testing.T, employee *models.User) *models.Timesheet {
	t.Helper()

	entry, err := CreateEntry(CreateEntryRequest{
		UserID: employee.ID, Project: "acme-api", Date: today(), Hours: 8,
	})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	sheet, err := GetTimesheet(*entry.TimesheetID)
	if err != nil {
		t.Fatalf("load sheet: %v", err)
	}
	return sheet
}

func TestSubmitApproveFlow(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)
	sheet := seedDraftSheet(t, employee)

	submitted, err := SubmitTimesheet(sheet.ID, employee.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != models.StatusSubmitted || submitted.SubmittedAt == nil {
		t.Fatalf("after submit: %s / %v", submitted.Status, submitted.SubmittedAt)
	}

	approved, err := ApproveTimesheet(sheet.ID, manager.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("status = %s, want APPROVED", approved.Status)
	}
	if approved.ApprovedAt == nil || approved.LockedAt == nil {
		t.Error("approval must set approved_at and locked_at")
	}
	if approved.ApprovedByID == nil || *approved.ApprovedByID != manager.ID {
		t.Errorf("ApprovedByID = %v, want %d", approved.ApprovedByID, manager.ID)
	}
}

func TestSubmitPreservesTotals(t *testing.T) {
	setupTestDB(t)
	_, _, employee := seedTeam(t)

	var sheetID uint
	for _, hours := range []float64{8, 7, 7.5} {
		entry, err := CreateEntry(CreateEntryRequest{
			UserID: employee.ID, Project: "acme-api", Date: today(), Hours: hours,
		})
		if err != nil {
			t.Fatalf("entry: %v", err)
		}
		sheetID = *entry.TimesheetID
	}

	before, err := GetTimesheet(sheetID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if total := TotalHours(before); total != 22.5 {
		t.Fatalf("draft total = %v, want 22.5", total)
	}

	if _, err := SubmitTimesheet(sheetID, employee.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	after, err := GetTimesheet(sheetID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if total := TotalHours(after); total != 22.5 {
		t.Errorf("submitted total = %v, want 22.5 unchanged", total)
	}
	if len(after.Entries) != 3 {
		t.Errorf("entries = %d, want 3 after submission", len(after.Entries))
	}
}

func TestSubmitRequiresOwnerAndEntries(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)
	sheet := seedDraftSheet(t, employee)

	if _, err := SubmitTimesheet(sheet.ID, manager.ID); err == nil {
		t.Error("only the owner may submit")
	}

	// An empty sheet cannot be submitted
	empty, err := GetOrCreateTimesheet(manager.ID, today())
	if err != nil {
		t.Fatalf("create empty sheet: %v", err)
	}
	if _, err := SubmitTimesheet(empty.ID, manager.ID); err == nil {
		t.Error("empty sheet submission should be refused")
	}
}

func TestApproveAuthorization(t *testing.T) {
	setupTestDB(t)
	_, _, employee := seedTeam(t)
	outsider, err := CreateUser(CreateUserRequest{Email: "other@example.com", Role: "manager"})
	if err != nil {
		t.Fatalf("create outsider: %v", err)
	}

	sheet := seedDraftSheet(t, employee)
	if _, err := SubmitTimesheet(sheet.ID, employee.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := ApproveTimesheet(sheet.ID, employee.ID); err == nil {
		t.Error("self-approval should be refused")
	}
	if _, err := ApproveTimesheet(sheet.ID, outsider.ID); err == nil {
		t.Error("a manager without the report should be refused")
	}

	var aerr *workflow.AuthorizationError
	_, err = ApproveTimesheet(sheet.ID, outsider.ID)
	if !errors.As(err, &aerr) {
		t.Errorf("expected AuthorizationError, got %T: %v", err, err)
	}
}

func TestApproveFromDraftRefused(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)
	sheet := seedDraftSheet(t, employee)

	_, err := ApproveTimesheet(sheet.ID, manager.ID)
	var terr *workflow.TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError, got %T: %v", err, err)
	}

	// The failed transition must not leave partial effects
	reloaded, err := GetTimesheet(sheet.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.StatusDraft || reloaded.ApprovedAt != nil || reloaded.LockedAt != nil {
		t.Error("failed approve left effects on the sheet")
	}
}

func TestRejectAppendsComment(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)
	sheet := seedDraftSheet(t, employee)
	if _, err := SubmitTimesheet(sheet.ID, employee.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := RejectTimesheet(sheet.ID, manager.ID, "   ", nil); err == nil {
		t.Fatal("rejection without a comment should be refused")
	}

	rejected, err := RejectTimesheet(sheet.ID, manager.ID, "Friday looks wrong", nil)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Errorf("status = %s, want REJECTED", rejected.Status)
	}
	if rejected.ApprovedAt != nil || rejected.ApprovedByID != nil || rejected.LockedAt != nil {
		t.Error("rejection must not carry approval fields")
	}

	reloaded, err := GetTimesheet(sheet.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Comments) != 1 {
		t.Fatalf("comments = %d, want the rejection reason", len(reloaded.Comments))
	}
	c := reloaded.Comments[0]
	if c.Text != "Friday looks wrong" || c.AuthorID != manager.ID {
		t.Errorf("comment = %q by #%d", c.Text, c.AuthorID)
	}
}

func TestRejectWithEntryReference(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)

	entry, err := CreateEntry(CreateEntryRequest{
		UserID: employee.ID, Project: "acme-api", Date: today(), Hours: 8,
	})
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	sheetID := *entry.TimesheetID
	if _, err := SubmitTimesheet(sheetID, employee.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	bogus := entry.ID + 100
	if _, err := RejectTimesheet(sheetID, manager.ID, "wrong day", &bogus); err == nil {
		t.Error("rejecting against a foreign entry should be refused")
	}

	rejected, err := RejectTimesheet(sheetID, manager.ID, "wrong day", &entry.ID)
	if err != nil {
		t.Fatalf("reject with entry: %v", err)
	}
	reloaded, err := GetTimesheet(rejected.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Comments) != 1 || reloaded.Comments[0].EntryID == nil || *reloaded.Comments[0].EntryID != entry.ID {
		t.Error("rejection comment should reference the entry")
	}
}

func TestReopenAndResubmit(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)
	sheet := seedDraftSheet(t, employee)

	if _, err := SubmitTimesheet(sheet.ID, employee.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := RejectTimesheet(sheet.ID, manager.ID, "fix hours", nil); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// Only the owner reopens
	if _, err := ReopenTimesheet(sheet.ID, manager.ID); err == nil {
		t.Error("only the owner may reopen")
	}

	reopened, err := ReopenTimesheet(sheet.ID, employee.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != models.StatusDraft || reopened.SubmittedAt != nil {
		t.Errorf("after reopen: %s / %v", reopened.Status, reopened.SubmittedAt)
	}

	// The rejected-then-reopened sheet is editable and resubmittable
	if _, err := CreateEntry(CreateEntryRequest{
		UserID: employee.ID, Project: "acme-api", Date: today(), Hours: 1,
	}); err != nil {
		t.Fatalf("edit after reopen: %v", err)
	}
	if _, err := SubmitTimesheet(sheet.ID, employee.ID); err != nil {
		t.Errorf("resubmit: %v", err)
	}
}

func TestAddComment(t *testing.T) {
	setupTestDB(t)
	_, manager, employee := seedTeam(t)
	peer, err := CreateUser(CreateUserRequest{Email: "peer@example.com"})
	if err != nil {
		t.Fatalf("peer: %v", err)
	}

	sheet := seedDraftSheet(t, employee)

	if _, err := AddComment(sheet.ID, manager.ID, "looks light", nil); err != nil {
		t.Errorf("manager comment: %v", err)
	}
	if _, err := AddComment(sheet.ID, employee.ID, "monday was a holiday", nil); err != nil {
		t.Errorf("owner comment: %v", err)
	}
	if _, err := AddComment(sheet.ID, peer.ID, "drive-by", nil); err == nil {
		t.Error("unrelated user comment should be refused")
	}
	if _, err := AddComment(sheet.ID, manager.ID, "   ", nil); err == nil {
		t.Error("empty comment should be refused")
	}
}

func TestUnlockTimesheet(t *testing.T) {
	setupTestDB(t)
	admin, manager, employee := seedTeam(t)
	sheet := seedDraftSheet(t, employee)

	if _, err := SubmitTimesheet(sheet.ID, employee.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := ApproveTimesheet(sheet.ID, manager.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if _, err := UnlockTimesheet(sheet.ID, manager.ID, "correction"); err == nil {
		t.Error("only admins may unlock")
	}
	if _, err := UnlockTimesheet(sheet.ID, admin.ID, "  "); err == nil {
		t.Error("an unlock reason is required")
	}

	unlocked, err := UnlockTimesheet(sheet.ID, admin.ID, "payroll correction for week 32")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if unlocked.Status != models.StatusDraft {
		t.Errorf("status = %s, want DRAFT", unlocked.Status)
	}
	if unlocked.SubmittedAt != nil || unlocked.ApprovedAt != nil || unlocked.ApprovedByID != nil || unlocked.LockedAt != nil {
		t.Error("unlock must clear every workflow timestamp")
	}
	if !unlocked.Editable() {
		t.Error("unlocked sheet should be editable")
	}

	// The override is recorded with the prior state
	var overrides []models.AdminOverride
	if err := DB.Where("timesheet_id = ?", sheet.ID).Find(&overrides).Error; err != nil {
		t.Fatalf("load overrides: %v", err)
	}
	if len(overrides) != 1 {
		t.Fatalf("overrides = %d, want 1", len(overrides))
	}
	o := overrides[0]
	if o.Action != models.OverrideUnlock || o.AdminID != admin.ID || o.PreviousStatus != models.StatusApproved {
		t.Errorf("override = %+v", o)
	}

	// Unlocking an already-editable sheet is refused
	if _, err := UnlockTimesheet(sheet.ID, admin.ID, "again"); err == nil {
		t.Error("unlocking an editable sheet should be refused")
	}
}

func TestListTimesheetsScope(t *testing.T) {
	setupTestDB(t)
	admin, manager, employee := seedTeam(t)
	outsider, err := CreateUser(CreateUserRequest{Email: "other@example.com"})
	if err != nil {
		t.Fatalf("outsider: %v", err)
	}

	for _, u := range []*models.User{manager, employee, outsider} {
		if _, err := CreateEntry(CreateEntryRequest{
			UserID: u.ID, Project: "p", Date: today(), Hours: 1,
		}); err != nil {
			t.Fatalf("seed entry for %s: %v", u.Email, err)
		}
	}

	own, err := ListTimesheets(ListTimesheetsRequest{ActorID: employee.ID})
	if err != nil {
		t.Fatalf("own: %v", err)
	}
	if len(own) != 1 {
		t.Errorf("employee sees %d sheets, want 1", len(own))
	}

	team, err := ListTimesheets(ListTimesheetsRequest{ActorID: manager.ID, Team: true})
	if err != nil {
		t.Fatalf("team: %v", err)
	}
	if len(team) != 2 {
		t.Errorf("manager team view = %d sheets, want own + report", len(team))
	}

	all, err := ListTimesheets(ListTimesheetsRequest{ActorID: admin.ID, Team: true})
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("admin team view = %d sheets, want all 3", len(all))
	}
}

func TestTotalHours(t *testing.T) {
	setupTestDB(t)
	_, _, employee := seedTeam(t)

	for _, h := range []float64{8, 4.5} {
		if _, err := CreateEntry(CreateEntryRequest{
			UserID: employee.ID, Project: "p", Date: today(), Hours: h,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	sheet, err := GetOrCreateTimesheet(employee.ID, today())
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	loaded, err := GetTimesheet(sheet.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := TotalHours(loaded); got != 12.5 {
		t.Errorf("TotalHours = %v, want 12.5", got)
	}
}
