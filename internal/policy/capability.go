package policy

import (
	"time"

	"github.com/balkashynov/timetrack/internal/models"
)

// Action is a workflow or management capability a user may hold on a timesheet
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReopen  Action = "reopen"
	ActionComment Action = "comment"
	ActionUnlock  Action = "unlock"
	ActionView    Action = "view"
)

// CanPerform centralizes the authorization rules shared by command gating
// and the workflow guards. It answers who may do what, not whether the
// timesheet is in a state where the action makes sense.
func CanPerform(action Action, actor *models.User, sheet *models.Timesheet) bool {
	if actor == nil || sheet == nil {
		return false
	}

	owner := actor.ID == sheet.UserID
	managesOwner := actor.IsManager() &&
		(actor.IsAdmin() || (sheet.User.ManagerID != nil && *sheet.User.ManagerID == actor.ID))

	switch action {
	case ActionSubmit, ActionReopen:
		return owner
	case ActionApprove, ActionReject:
		// Self-approval is forbidden regardless of role
		return !owner && managesOwner
	case ActionComment, ActionView:
		return owner || managesOwner
	case ActionUnlock:
		return actor.IsAdmin()
	}
	return false
}

// ApprovesViaDelegation reports whether an active delegation lets the actor
// stand in for the sheet owner's manager. Delegated authority is held by
// managers only and never bypasses the self-approval rule.
func ApprovesViaDelegation(actor *models.User, sheet *models.Timesheet, delegations []models.ApprovalDelegation, on time.Time) bool {
	if actor == nil || sheet == nil {
		return false
	}
	if actor.ID == sheet.UserID || !actor.IsManager() {
		return false
	}
	if sheet.User.ManagerID == nil {
		return false
	}

	for _, d := range delegations {
		if d.DelegateID == actor.ID && d.DelegatorID == *sheet.User.ManagerID && d.ActiveOn(on) {
			return true
		}
	}
	return false
}
