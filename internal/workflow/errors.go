package workflow

import (
	"fmt"

	"github.com/balkashynov/timetrack/internal/models"
)

// TransitionError reports an action attempted from the wrong state
type TransitionError struct {
	Action       Action
	CurrentState models.Status
	TimesheetID  uint
	Reason       string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s timesheet #%d: %s", e.Action, e.TimesheetID, e.Reason)
	}
	return fmt.Sprintf("cannot %s timesheet #%d from state %s", e.Action, e.TimesheetID, e.CurrentState)
}

// AuthorizationError reports an actor who is not allowed to perform the
// action at all, independent of the timesheet's state
type AuthorizationError struct {
	Action Action
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed to %s: %s", e.Action, e.Reason)
}

// GuardError reports a single failed guard check
type GuardError struct {
	Guard  string
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Guard, e.Reason)
}
