package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/timetrack/internal/db"
	"github.com/balkashynov/timetrack/internal/tui"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Track time with a live timer",
}

var timerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a timer",
	Long: `Start a timer against a project. Opens the interactive timer by
default; use --no-ui for a simple start. Only one timer can run at a time.

Examples:
  timetrack timer start -p acme-api
  timetrack timer start -p internal --no-ui`,
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		project, _ := cmd.Flags().GetString("project")
		description, _ := cmd.Flags().GetString("message")

		entry, err := db.StartTimer(actor.ID, project, description)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("⏱️  Started timer for %s\n", entry.Project)
			fmt.Printf("Started at: %s\n", entry.TimerStartedAt.Format("15:04:05"))
		} else {
			if err := tui.RunTimerTUI(entry); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		}
	},
}

var timerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		description, _ := cmd.Flags().GetString("message")
		entry, err := db.StopTimer(actor.ID, description)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("⏹️  Stopped timer for %s\n", entry.Project)
		fmt.Printf("Logged %.2fh on %s (entry #%d)\n",
			entry.Hours, entry.Date.Format("2006-01-02"), entry.ID)
	},
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		entry, err := db.GetActiveTimer(actor.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if entry == nil {
			fmt.Println("No timer running")
			return
		}

		elapsed := time.Since(*entry.TimerStartedAt)
		fmt.Printf("⏱️  Tracking %s\n", entry.Project)
		fmt.Printf("Started at: %s\n", entry.TimerStartedAt.Format("15:04:05"))
		fmt.Printf("Elapsed time: %s\n", formatDuration(elapsed))
	},
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}

func init() {
	timerStartCmd.Flags().StringP("project", "p", "", "Project to track against")
	timerStartCmd.Flags().StringP("message", "m", "", "Entry description")
	timerStartCmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")

	timerStopCmd.Flags().StringP("message", "m", "", "Replace the entry description")

	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerStopCmd)
	timerCmd.AddCommand(timerStatusCmd)
}
