package policy

import (
	"testing"
	"time"

	"github.com/balkashynov/timetrack/internal/models"
)

func TestCanPerform(t *testing.T) {
	mgrID := uint(2)
	manager := &models.User{ID: 2, Role: models.RoleManager}
	owner := &models.User{ID: 1, Role: models.RoleEmployee, ManagerID: &mgrID}
	admin := &models.User{ID: 3, Role: models.RoleAdmin}
	otherManager := &models.User{ID: 4, Role: models.RoleManager}
	peer := &models.User{ID: 5, Role: models.RoleEmployee}

	sheet := &models.Timesheet{ID: 7, UserID: owner.ID, User: *owner}

	tests := []struct {
		name   string
		action Action
		actor  *models.User
		want   bool
	}{
		{"owner submits", ActionSubmit, owner, true},
		{"manager cannot submit", ActionSubmit, manager, false},
		{"owner reopens", ActionReopen, owner, true},

		{"manager approves report", ActionApprove, manager, true},
		{"admin approves anyone", ActionApprove, admin, true},
		{"unrelated manager cannot approve", ActionApprove, otherManager, false},
		{"owner cannot approve own", ActionApprove, owner, false},
		{"peer cannot approve", ActionApprove, peer, false},
		{"manager rejects report", ActionReject, manager, true},

		{"owner comments", ActionComment, owner, true},
		{"manager comments", ActionComment, manager, true},
		{"peer cannot comment", ActionComment, peer, false},
		{"owner views", ActionView, owner, true},
		{"unrelated manager cannot view", ActionView, otherManager, false},

		{"admin unlocks", ActionUnlock, admin, true},
		{"manager cannot unlock", ActionUnlock, manager, false},
		{"owner cannot unlock", ActionUnlock, owner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanPerform(tt.action, tt.actor, sheet)
			if got != tt.want {
				t.Errorf("CanPerform(%s, %d) = %v, want %v", tt.action, tt.actor.ID, got, tt.want)
			}
		})
	}
}

func TestCanPerformSelfApprovalByAdmin(t *testing.T) {
	admin := &models.User{ID: 3, Role: models.RoleAdmin}
	sheet := &models.Timesheet{ID: 8, UserID: admin.ID, User: *admin}

	if CanPerform(ActionApprove, admin, sheet) {
		t.Error("admin must not approve their own timesheet")
	}
	if CanPerform(ActionReject, admin, sheet) {
		t.Error("admin must not reject their own timesheet")
	}
	// Commenting on your own sheet is fine
	if !CanPerform(ActionComment, admin, sheet) {
		t.Error("owner should be able to comment on their own sheet")
	}
}

func TestCanPerformNilInputs(t *testing.T) {
	sheet := &models.Timesheet{ID: 9, UserID: 1}
	if CanPerform(ActionView, nil, sheet) {
		t.Error("nil actor must be refused")
	}
	if CanPerform(ActionView, &models.User{ID: 1}, nil) {
		t.Error("nil sheet must be refused")
	}
}

func TestApprovesViaDelegation(t *testing.T) {
	mgrID := uint(2)
	owner := &models.User{ID: 1, Role: models.RoleEmployee, ManagerID: &mgrID}
	otherManager := &models.User{ID: 4, Role: models.RoleManager}
	peer := &models.User{ID: 5, Role: models.RoleEmployee}
	orphan := &models.User{ID: 6, Role: models.RoleEmployee} // no manager

	sheet := &models.Timesheet{ID: 7, UserID: owner.ID, User: *owner}
	orphanSheet := &models.Timesheet{ID: 8, UserID: orphan.ID, User: *orphan}

	now := time.Now()
	active := []models.ApprovalDelegation{{
		DelegatorID: mgrID, DelegateID: otherManager.ID,
		StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 1),
	}}

	if !ApprovesViaDelegation(otherManager, sheet, active, now) {
		t.Error("active delegation from the owner's manager should authorize")
	}
	if ApprovesViaDelegation(otherManager, sheet, nil, now) {
		t.Error("no delegation, no authority")
	}
	if ApprovesViaDelegation(otherManager, sheet, active, now.AddDate(0, 0, 5)) {
		t.Error("delegation must not authorize outside its date range")
	}
	if ApprovesViaDelegation(otherManager, orphanSheet, active, now) {
		t.Error("an owner without a manager has no authority to delegate")
	}

	peerHeld := []models.ApprovalDelegation{{
		DelegatorID: mgrID, DelegateID: peer.ID,
		StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 1),
	}}
	if ApprovesViaDelegation(peer, sheet, peerHeld, now) {
		t.Error("only managers can hold delegated authority")
	}
}
