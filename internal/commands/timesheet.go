package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/timetrack/internal/aggregate"
	"github.com/balkashynov/timetrack/internal/db"
	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/parser"
)

var timesheetCmd = &cobra.Command{
	Use:     "timesheet",
	Aliases: []string{"ts"},
	Short:   "Manage weekly timesheets",
}

var timesheetShowCmd = &cobra.Command{
	Use:   "show [timesheet-id]",
	Short: "Show a timesheet with its daily breakdown",
	Long: `Show a timesheet. With no ID, shows your timesheet for the current
week (use --week to pick another week).`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		var sheet *models.Timesheet
		if len(args) == 1 {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				fmt.Printf("Error: invalid timesheet ID '%s'\n", args[0])
				return
			}
			sheet, err = db.GetTimesheet(uint(id))
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		} else {
			weekStr, _ := cmd.Flags().GetString("week")
			week, err := parser.ParseEntryDate(weekStr, time.Now())
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			created, err := db.GetOrCreateTimesheet(actor.ID, models.WeekStart(week))
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			sheet, err = db.GetTimesheet(created.ID)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}

		printTimesheet(sheet)
	},
}

func printTimesheet(sheet *models.Timesheet) {
	fmt.Printf("Timesheet #%d (%s), week of %s\n",
		sheet.ID, sheet.User.Email, sheet.WeekStart.Format("2006-01-02"))
	fmt.Printf("Status: %s", sheet.Status)
	if sheet.SubmittedAt != nil {
		fmt.Printf("  submitted %s", sheet.SubmittedAt.Format("2006-01-02 15:04"))
	}
	if sheet.ApprovedAt != nil && sheet.ApprovedBy != nil {
		fmt.Printf("  approved %s by %s", sheet.ApprovedAt.Format("2006-01-02 15:04"), sheet.ApprovedBy.Email)
	}
	if sheet.Locked() {
		fmt.Printf("  🔒 locked")
	}
	fmt.Println()
	fmt.Println()

	summary := aggregate.Aggregate(sheet.Entries, sheet.WeekStart)

	var days []time.Time
	for day := range summary.PerDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	for _, day := range days {
		fmt.Printf("  %-15s %6.2fh\n", parser.FormatEntryDate(day), summary.PerDay[day])
	}
	fmt.Println(strings.Repeat("-", 26))
	fmt.Printf("  %-15s %6.1fh\n", "Total", summary.Total)

	if len(sheet.Entries) > 0 {
		fmt.Println()
		fmt.Printf("%-5s %-15s %-15s %-6s %s\n", "ID", "DATE", "PROJECT", "HOURS", "DESCRIPTION")
		for _, entry := range sheet.Entries {
			fmt.Printf("%-5d %-15s %-15s %-6.2f %s\n",
				entry.ID, parser.FormatEntryDate(entry.Date), entry.Project, entry.Hours, entry.Description)
		}
	}

	if len(sheet.Comments) > 0 {
		fmt.Println()
		fmt.Println("Comments:")
		for _, comment := range sheet.Comments {
			ref := ""
			if comment.EntryID != nil {
				ref = fmt.Sprintf(" (entry #%d)", *comment.EntryID)
			}
			fmt.Printf("  [%s] %s%s: %s\n",
				comment.CreatedAt.Format("2006-01-02"), comment.Author.Email, ref, comment.Text)
		}
	}
}

var timesheetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List timesheets",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		team, _ := cmd.Flags().GetBool("team")
		status, _ := cmd.Flags().GetString("status")

		sheets, err := db.ListTimesheets(db.ListTimesheetsRequest{
			ActorID: actor.ID,
			Team:    team,
			Status:  models.Status(strings.ToUpper(status)),
		})
		if err != nil {
			fmt.Printf("Error fetching timesheets: %v\n", err)
			return
		}

		if len(sheets) == 0 {
			fmt.Println("No timesheets found.")
			return
		}

		fmt.Printf("%-4s %-30s %-12s %-10s %s\n", "ID", "USER", "WEEK", "STATUS", "HOURS")
		fmt.Println(strings.Repeat("-", 66))
		for _, sheet := range sheets {
			fmt.Printf("%-4d %-30s %-12s %-10s %.1f\n",
				sheet.ID, sheet.User.Email, sheet.WeekStart.Format("2006-01-02"),
				sheet.Status, db.TotalHours(&sheet))
		}
	},
}

var timesheetSubmitCmd = &cobra.Command{
	Use:   "submit [timesheet-id]",
	Short: "Submit a draft timesheet for approval",
	Args:  cobra.ExactArgs(1),
	Run:   workflowRun("submit", db.SubmitTimesheet),
}

var timesheetApproveCmd = &cobra.Command{
	Use:   "approve [timesheet-id]",
	Short: "Approve a submitted timesheet",
	Args:  cobra.ExactArgs(1),
	Run:   workflowRun("approve", db.ApproveTimesheet),
}

var timesheetReopenCmd = &cobra.Command{
	Use:   "reopen [timesheet-id]",
	Short: "Reopen a rejected timesheet for resubmission",
	Args:  cobra.ExactArgs(1),
	Run:   workflowRun("reopen", db.ReopenTimesheet),
}

// workflowRun builds the shared run function for comment-less transitions
func workflowRun(verb string, fn func(timesheetID, actorID uint) (*models.Timesheet, error)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid timesheet ID '%s'\n", args[0])
			return
		}

		sheet, err := fn(uint(id), actor.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ %s: timesheet #%d is now %s\n", verb, sheet.ID, sheet.Status)
	}
}

var timesheetRejectCmd = &cobra.Command{
	Use:   "reject [timesheet-id]",
	Short: "Reject a submitted timesheet",
	Long:  "Reject a submitted timesheet. A comment explaining the rejection is required.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid timesheet ID '%s'\n", args[0])
			return
		}

		comment, _ := cmd.Flags().GetString("comment")
		entryID := entryFlag(cmd)

		sheet, err := db.RejectTimesheet(uint(id), actor.ID, comment, entryID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ Timesheet #%d rejected, now %s\n", sheet.ID, sheet.Status)
	},
}

var timesheetCommentCmd = &cobra.Command{
	Use:   "comment [timesheet-id] [text]",
	Short: "Comment on a timesheet",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid timesheet ID '%s'\n", args[0])
			return
		}

		comment, err := db.AddComment(uint(id), actor.ID, args[1], entryFlag(cmd))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("💬 Comment #%d added\n", comment.ID)
	},
}

var timesheetUnlockCmd = &cobra.Command{
	Use:   "unlock [timesheet-id]",
	Short: "Unlock a decided timesheet (admin)",
	Long: `Unlock a submitted, approved or rejected timesheet so its week can be
edited again. Admin only; the override and its reason are recorded.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid timesheet ID '%s'\n", args[0])
			return
		}

		reason, _ := cmd.Flags().GetString("reason")
		sheet, err := db.UnlockTimesheet(uint(id), actor.ID, reason)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🔓 Timesheet #%d unlocked, back to %s\n", sheet.ID, sheet.Status)
	},
}

// entryFlag reads the optional --entry flag as an entry reference
func entryFlag(cmd *cobra.Command) *uint {
	if !cmd.Flags().Changed("entry") {
		return nil
	}
	raw, _ := cmd.Flags().GetUint("entry")
	return &raw
}

func init() {
	timesheetShowCmd.Flags().String("week", "today", "Any date inside the week to show")

	timesheetListCmd.Flags().Bool("team", false, "Include direct reports' timesheets")
	timesheetListCmd.Flags().String("status", "", "Filter by status: draft|submitted|approved|rejected")

	timesheetRejectCmd.Flags().StringP("comment", "c", "", "Rejection reason (required)")
	timesheetRejectCmd.Flags().Uint("entry", 0, "Tie the rejection to one entry ID")

	timesheetCommentCmd.Flags().Uint("entry", 0, "Tie the comment to one entry ID")

	timesheetUnlockCmd.Flags().StringP("reason", "r", "", "Unlock reason (required)")

	timesheetCmd.AddCommand(timesheetShowCmd)
	timesheetCmd.AddCommand(timesheetListCmd)
	timesheetCmd.AddCommand(timesheetSubmitCmd)
	timesheetCmd.AddCommand(timesheetApproveCmd)
	timesheetCmd.AddCommand(timesheetRejectCmd)
	timesheetCmd.AddCommand(timesheetReopenCmd)
	timesheetCmd.AddCommand(timesheetCommentCmd)
	timesheetCmd.AddCommand(timesheetUnlockCmd)
}
