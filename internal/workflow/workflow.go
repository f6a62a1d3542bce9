// Package workflow implements the timesheet approval state machine:
// DRAFT → SUBMITTED → APPROVED or REJECTED, with REJECTED reopening to
// DRAFT for resubmission.
package workflow

import (
	"time"

	"github.com/balkashynov/timetrack/internal/models"
)

// Action is a workflow transition request
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReopen  Action = "reopen"
)

// TransitionContext provides everything guards need to decide a transition.
// Delegations holds the approval delegations naming the actor as delegate.
type TransitionContext struct {
	Timesheet   *models.Timesheet
	Actor       *models.User
	Comment     string
	Delegations []models.ApprovalDelegation
}

// GuardResult represents the outcome of a guard check
type GuardResult struct {
	Passed        bool
	Message       string
	Guard         string
	Authorization bool // failure is about who, not what state
}

// Guard checks whether a transition should be allowed
type Guard interface {
	Name() string
	Check(ctx *TransitionContext) GuardResult
}

// Transition defines one valid workflow step with its guards
type Transition struct {
	Action Action
	From   models.Status
	To     models.Status
	Guards []Guard
}

// StateMachine manages timesheet status transitions
type StateMachine struct {
	transitions map[Action]*Transition
}

// New creates a state machine with the full transition table registered
func New() *StateMachine {
	sm := &StateMachine{transitions: make(map[Action]*Transition)}
	for _, t := range AllTransitions() {
		sm.transitions[t.Action] = t
	}
	return sm
}

// GetTransition returns the transition for an action, or nil
func (sm *StateMachine) GetTransition(action Action) *Transition {
	return sm.transitions[action]
}

// IsValidTransition checks whether an action is defined from a given state
func (sm *StateMachine) IsValidTransition(from models.Status, action Action) bool {
	t := sm.transitions[action]
	return t != nil && t.From == from
}

// AllowedActions returns the actions available from a given state
func (sm *StateMachine) AllowedActions(from models.Status) []Action {
	var actions []Action
	for _, t := range AllTransitions() {
		if t.From == from {
			actions = append(actions, t.Action)
		}
	}
	return actions
}

// Validate checks an action against the current state and all guards.
// It has no side effects; the timesheet is untouched on failure.
func (sm *StateMachine) Validate(action Action, ctx *TransitionContext) error {
	if ctx == nil || ctx.Timesheet == nil {
		return &TransitionError{Action: action, Reason: "no timesheet in context"}
	}

	t := sm.transitions[action]
	if t == nil {
		return &TransitionError{
			Action:       action,
			CurrentState: ctx.Timesheet.Status,
			TimesheetID:  ctx.Timesheet.ID,
			Reason:       "unknown action",
		}
	}

	if ctx.Timesheet.Status != t.From {
		return &TransitionError{
			Action:       action,
			CurrentState: ctx.Timesheet.Status,
			TimesheetID:  ctx.Timesheet.ID,
		}
	}

	for _, guard := range t.Guards {
		result := guard.Check(ctx)
		if result.Passed {
			continue
		}
		if result.Authorization {
			return &AuthorizationError{Action: action, Reason: result.Message}
		}
		return &GuardError{Guard: guard.Name(), Reason: result.Message}
	}

	return nil
}

// Apply validates the action and, on success, writes the transition's
// effects onto the in-memory timesheet. Persistence belongs to the caller;
// nothing is touched when validation fails.
func (sm *StateMachine) Apply(action Action, ctx *TransitionContext, now time.Time) error {
	if err := sm.Validate(action, ctx); err != nil {
		return err
	}

	sheet := ctx.Timesheet
	sheet.Status = sm.transitions[action].To

	switch action {
	case ActionSubmit:
		at := now
		sheet.SubmittedAt = &at
	case ActionApprove:
		at := now
		sheet.ApprovedAt = &at
		sheet.ApprovedByID = &ctx.Actor.ID
		sheet.LockedAt = &at
	case ActionReject:
		// The rejection comment is appended by the caller alongside
		// persistence; approved_at stays unset.
	case ActionReopen:
		sheet.SubmittedAt = nil
	}

	return nil
}
