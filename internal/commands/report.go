package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/timetrack/internal/db"
	"github.com/balkashynov/timetrack/internal/parser"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports over approved timesheets",
	Long:  `Reports for managers and admins. Managers see themselves plus direct reports, admins see everyone.`,
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Approved hours by user and project",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		from, to, err := reportRange(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		summary, err := db.ReportHoursSummary(db.HoursSummaryRequest{
			ActorID: actor.ID,
			From:    from,
			To:      to,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("📊 Approved hours: %.1fh across %d entries\n\n", summary.TotalHours, summary.EntryCount)

		if len(summary.ByUser) > 0 {
			fmt.Println("By user:")
			for _, row := range summary.ByUser {
				fmt.Printf("  %-25s %-30s %8.1fh\n", row.Name, row.Email, row.Hours)
			}
			fmt.Println()
		}
		if len(summary.ByProject) > 0 {
			fmt.Println("By project:")
			for _, row := range summary.ByProject {
				fmt.Printf("  %-25s %8.1fh\n", row.Project, row.Hours)
			}
		}
	},
}

var reportApprovalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Timesheet counts per workflow state",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		from, to, err := reportRange(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		metrics, err := db.ReportApprovalMetrics(actor.ID, from, to)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("📋 Timesheets: %d total\n", metrics.Total)
		fmt.Printf("   Draft:     %d\n", metrics.Draft)
		fmt.Printf("   Submitted: %d\n", metrics.Submitted)
		fmt.Printf("   Approved:  %d\n", metrics.Approved)
		fmt.Printf("   Rejected:  %d\n", metrics.Rejected)
		if metrics.Approved+metrics.Rejected > 0 {
			fmt.Printf("   Approval rate: %.1f%%\n", metrics.ApprovalRate)
		}
	},
}

// reportRange parses the optional --from/--to flags shared by report commands
func reportRange(cmd *cobra.Command) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw, _ := cmd.Flags().GetString("from"); strings.TrimSpace(raw) != "" {
		parsed, err := parser.ParseEntryDate(raw, time.Now())
		if err != nil {
			return nil, nil, err
		}
		from = &parsed
	}
	if raw, _ := cmd.Flags().GetString("to"); strings.TrimSpace(raw) != "" {
		parsed, err := parser.ParseEntryDate(raw, time.Now())
		if err != nil {
			return nil, nil, err
		}
		to = &parsed
	}
	return from, to, nil
}

func init() {
	for _, sub := range []*cobra.Command{reportSummaryCmd, reportApprovalsCmd} {
		sub.Flags().String("from", "", "Week-start lower bound (inclusive)")
		sub.Flags().String("to", "", "Week-start upper bound (inclusive)")
		reportCmd.AddCommand(sub)
	}
}
