package db

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/timetrack/internal/aggregate"
	"github.com/balkashynov/timetrack/internal/models"
)

// HoursSummaryRequest scopes an hours report
type HoursSummaryRequest struct {
	ActorID uint
	From    *time.Time
	To      *time.Time
}

// UserHours is one user's share of an hours summary
type UserHours struct {
	UserID uint
	Email  string
	Name   string
	Hours  float64
}

// ProjectHours is one project's share of an hours summary
type ProjectHours struct {
	Project string
	Hours   float64
}

// HoursSummary aggregates entries of approved timesheets. Managers see
// themselves plus their direct reports; admins see everyone.
type HoursSummary struct {
	TotalHours float64
	EntryCount int
	ByUser     []UserHours
	ByProject  []ProjectHours
}

// ReportHoursSummary builds the hours summary for a manager or admin
func ReportHoursSummary(req HoursSummaryRequest) (*HoursSummary, error) {
	actor, err := GetUserByID(req.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsManager() {
		return nil, fmt.Errorf("only managers and admins can view reports")
	}

	query := DB.Preload("User").
		Joins("JOIN timesheets ON timesheets.id = time_entries.timesheet_id").
		Where("timesheets.status = ?", models.StatusApproved)

	if !actor.IsAdmin() {
		query = query.Where("time_entries.user_id = ? OR time_entries.user_id IN (?)", actor.ID,
			DB.Model(&models.User{}).Select("id").Where("manager_id = ?", actor.ID))
	}
	if req.From != nil {
		query = query.Where("time_entries.date >= ?", models.DateOf(*req.From))
	}
	if req.To != nil {
		query = query.Where("time_entries.date <= ?", models.DateOf(*req.To))
	}

	var entries []models.TimeEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	summary := &HoursSummary{EntryCount: len(entries)}

	userTotals := make(map[uint]*UserHours)
	projectTotals := make(map[string]float64)

	for _, e := range entries {
		summary.TotalHours += e.Hours
		projectTotals[e.Project] += e.Hours

		uh, ok := userTotals[e.UserID]
		if !ok {
			uh = &UserHours{UserID: e.UserID, Email: e.User.Email, Name: e.User.FullName()}
			userTotals[e.UserID] = uh
		}
		uh.Hours += e.Hours
	}
	summary.TotalHours = aggregate.RoundHours(summary.TotalHours)

	for _, uh := range userTotals {
		uh.Hours = aggregate.RoundHours(uh.Hours)
		summary.ByUser = append(summary.ByUser, *uh)
	}
	sort.Slice(summary.ByUser, func(i, j int) bool {
		return summary.ByUser[i].Hours > summary.ByUser[j].Hours
	})

	for project, hours := range projectTotals {
		summary.ByProject = append(summary.ByProject, ProjectHours{
			Project: project,
			Hours:   aggregate.RoundHours(hours),
		})
	}
	sort.Slice(summary.ByProject, func(i, j int) bool {
		return summary.ByProject[i].Hours > summary.ByProject[j].Hours
	})

	return summary, nil
}

// ApprovalMetrics summarizes the workflow state of visible timesheets
type ApprovalMetrics struct {
	Total        int64
	Draft        int64
	Submitted    int64
	Approved     int64
	Rejected     int64
	ApprovalRate float64 // percent of decided (approved + rejected) sheets approved
}

// ReportApprovalMetrics counts timesheets per workflow state
func ReportApprovalMetrics(actorID uint, from, to *time.Time) (*ApprovalMetrics, error) {
	actor, err := GetUserByID(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsManager() {
		return nil, fmt.Errorf("only managers and admins can view reports")
	}

	scoped := func() *gorm.DB {
		q := DB.Model(&models.Timesheet{})
		if !actor.IsAdmin() {
			q = q.Where("user_id = ? OR user_id IN (?)", actor.ID,
				DB.Model(&models.User{}).Select("id").Where("manager_id = ?", actor.ID))
		}
		if from != nil {
			q = q.Where("week_start >= ?", models.WeekStart(*from))
		}
		if to != nil {
			q = q.Where("week_start <= ?", models.WeekStart(*to))
		}
		return q
	}

	metrics := &ApprovalMetrics{}
	counts := map[models.Status]*int64{
		models.StatusDraft:     &metrics.Draft,
		models.StatusSubmitted: &metrics.Submitted,
		models.StatusApproved:  &metrics.Approved,
		models.StatusRejected:  &metrics.Rejected,
	}

	for status, target := range counts {
		if err := scoped().Where("status = ?", status).Count(target).Error; err != nil {
			return nil, err
		}
	}
	metrics.Total = metrics.Draft + metrics.Submitted + metrics.Approved + metrics.Rejected

	decided := metrics.Approved + metrics.Rejected
	if decided > 0 {
		metrics.ApprovalRate = float64(metrics.Approved) / float64(decided) * 100
	}

	return metrics, nil
}
