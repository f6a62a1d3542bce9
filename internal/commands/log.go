package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/timetrack/internal/db"
	"github.com/balkashynov/timetrack/internal/parser"
	"github.com/balkashynov/timetrack/internal/tui"
)

var logCmd = &cobra.Command{
	Use:   "log [hours]",
	Short: "Log a time entry",
	Long: `Log a time entry against a project. The entry date must fall inside
your entry window: up to the end of the current week, and back one week
(one month for admins).

Examples:
  timetrack log 7.5 --project acme-api --date today
  timetrack log 2 --project internal --date fri -m "sprint planning"
  timetrack log --interactive`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		if len(args) == 0 && !interactive {
			interactive = true
		}

		if interactive {
			if err := tui.RunEntryFormTUI(actor); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		hours, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Printf("Error: invalid hours '%s'\n", args[0])
			return
		}

		dateStr, _ := cmd.Flags().GetString("date")
		date, err := parser.ParseEntryDate(dateStr, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		project, _ := cmd.Flags().GetString("project")
		description, _ := cmd.Flags().GetString("message")

		entry, err := db.CreateEntry(db.CreateEntryRequest{
			UserID:      actor.ID,
			Project:     project,
			Date:        date,
			Hours:       hours,
			Description: description,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Logged %.2fh on %s for %s (entry #%d, rate %.2f/h from %s)\n",
			entry.Hours, parser.FormatEntryDate(entry.Date), entry.Project,
			entry.ID, entry.BillingRate, entry.RateSource)
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List and manage time entries",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		req := db.ListEntriesRequest{UserID: actor.ID}

		if from, _ := cmd.Flags().GetString("from"); from != "" {
			d, err := parser.ParseEntryDate(from, time.Now())
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			req.From = &d
		}
		if to, _ := cmd.Flags().GetString("to"); to != "" {
			d, err := parser.ParseEntryDate(to, time.Now())
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			req.To = &d
		}
		req.Project, _ = cmd.Flags().GetString("project")

		entries, err := db.ListEntries(req)
		if err != nil {
			fmt.Printf("Error fetching entries: %v\n", err)
			return
		}

		if len(entries) == 0 {
			fmt.Println("No entries found. Use 'timetrack log' to create one.")
			return
		}

		fmt.Printf("%-5s %-15s %-15s %-6s %-8s %s\n", "ID", "DATE", "PROJECT", "HOURS", "RATE", "DESCRIPTION")
		fmt.Println(strings.Repeat("-", 80))

		var total float64
		for _, entry := range entries {
			description := entry.Description
			if len(description) > 30 {
				description = description[:27] + "..."
			}
			fmt.Printf("%-5d %-15s %-15s %-6.2f %-8.2f %s\n",
				entry.ID, parser.FormatEntryDate(entry.Date), entry.Project,
				entry.Hours, entry.BillingRate, description)
			total += entry.Hours
		}
		fmt.Println(strings.Repeat("-", 80))
		fmt.Printf("Total: %.2fh over %d entries\n", total, len(entries))
	},
}

var entryEditCmd = &cobra.Command{
	Use:   "edit [entry-id]",
	Short: "Edit a time entry",
	Long:  "Edit an entry's hours, description or date while its week is still a draft.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		entryID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid entry ID '%s'\n", args[0])
			return
		}

		var req db.UpdateEntryRequest
		if cmd.Flags().Changed("hours") {
			hours, _ := cmd.Flags().GetFloat64("hours")
			req.Hours = &hours
		}
		if cmd.Flags().Changed("message") {
			message, _ := cmd.Flags().GetString("message")
			req.Description = &message
		}
		if cmd.Flags().Changed("date") {
			dateStr, _ := cmd.Flags().GetString("date")
			d, err := parser.ParseEntryDate(dateStr, time.Now())
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			req.Date = &d
		}

		entry, err := db.UpdateEntry(uint(entryID), actor.ID, req)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ Updated entry #%d: %.2fh on %s\n",
			entry.ID, entry.Hours, parser.FormatEntryDate(entry.Date))
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		entryID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid entry ID '%s'\n", args[0])
			return
		}

		if err := db.DeleteEntry(uint(entryID), actor.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Deleted entry #%d\n", entryID)
	},
}

func init() {
	logCmd.Flags().StringP("project", "p", "", "Project to log against")
	logCmd.Flags().String("date", "today", "Entry date (yyyy-mm-dd, today, yesterday, weekday, -Nd)")
	logCmd.Flags().StringP("message", "m", "", "Entry description")
	logCmd.Flags().BoolP("interactive", "i", false, "Open the interactive entry form")

	entriesCmd.Flags().String("from", "", "Only entries on or after this date")
	entriesCmd.Flags().String("to", "", "Only entries on or before this date")
	entriesCmd.Flags().StringP("project", "p", "", "Filter by project")

	entryEditCmd.Flags().Float64("hours", 0, "New hours value")
	entryEditCmd.Flags().StringP("message", "m", "", "New description")
	entryEditCmd.Flags().String("date", "", "New entry date")

	entriesCmd.AddCommand(entryEditCmd)
	entriesCmd.AddCommand(entryDeleteCmd)
}
