package workflow

import (
	"strings"
	"time"

	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/policy"
)

// AllTransitions returns the full workflow transition table
func AllTransitions() []*Transition {
	return []*Transition{
		{
			Action: ActionSubmit,
			From:   models.StatusDraft,
			To:     models.StatusSubmitted,
			Guards: []Guard{&OwnerGuard{}, &NonEmptyGuard{}},
		},
		{
			Action: ActionApprove,
			From:   models.StatusSubmitted,
			To:     models.StatusApproved,
			Guards: []Guard{&ReviewerGuard{}},
		},
		{
			Action: ActionReject,
			From:   models.StatusSubmitted,
			To:     models.StatusRejected,
			Guards: []Guard{&ReviewerGuard{}, &CommentRequiredGuard{}},
		},
		{
			Action: ActionReopen,
			From:   models.StatusRejected,
			To:     models.StatusDraft,
			Guards: []Guard{&OwnerGuard{}},
		},
	}
}

// OwnerGuard allows only the timesheet's owner
type OwnerGuard struct{}

func (g *OwnerGuard) Name() string { return "owner" }

func (g *OwnerGuard) Check(ctx *TransitionContext) GuardResult {
	if ctx.Actor == nil || ctx.Actor.ID != ctx.Timesheet.UserID {
		return GuardResult{
			Passed:        false,
			Authorization: true,
			Message:       "only the timesheet owner can do this",
		}
	}
	return GuardResult{Passed: true}
}

// ReviewerGuard allows a manager or admin who is not the owner, or a
// manager holding an active delegation from the owner's manager.
// Self-approval is refused regardless of role.
type ReviewerGuard struct{}

func (g *ReviewerGuard) Name() string { return "reviewer" }

func (g *ReviewerGuard) Check(ctx *TransitionContext) GuardResult {
	actor := ctx.Actor
	if actor == nil {
		return GuardResult{Passed: false, Authorization: true, Message: "no acting user"}
	}
	if actor.ID == ctx.Timesheet.UserID {
		return GuardResult{
			Passed:        false,
			Authorization: true,
			Message:       "cannot approve or reject your own timesheet",
		}
	}
	if !policy.CanPerform(policy.ActionApprove, actor, ctx.Timesheet) &&
		!policy.ApprovesViaDelegation(actor, ctx.Timesheet, ctx.Delegations, time.Now()) {
		return GuardResult{
			Passed:        false,
			Authorization: true,
			Message:       "only the owner's manager, an active delegate or an admin can do this",
		}
	}
	return GuardResult{Passed: true}
}

// CommentRequiredGuard requires a non-empty comment on the transition
type CommentRequiredGuard struct{}

func (g *CommentRequiredGuard) Name() string { return "comment-required" }

func (g *CommentRequiredGuard) Check(ctx *TransitionContext) GuardResult {
	if strings.TrimSpace(ctx.Comment) == "" {
		return GuardResult{Passed: false, Message: "a rejection comment is required"}
	}
	return GuardResult{Passed: true}
}

// NonEmptyGuard refuses to submit a timesheet with no entries
type NonEmptyGuard struct{}

func (g *NonEmptyGuard) Name() string { return "non-empty" }

func (g *NonEmptyGuard) Check(ctx *TransitionContext) GuardResult {
	if len(ctx.Timesheet.Entries) == 0 {
		return GuardResult{Passed: false, Message: "cannot submit an empty timesheet, add time entries first"}
	}
	return GuardResult{Passed: true}
}
