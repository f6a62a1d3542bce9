package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/timetrack/internal/db"
	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/parser"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Manage billing rates",
	Long: `Manage billing rates. Three tiers exist: employee_project beats
project beats employee. Within a tier the latest effective date wins.
Rates already stamped on entries never change.`,
}

var rateSetCmd = &cobra.Command{
	Use:   "set [hourly-rate]",
	Short: "Create a rate record",
	Long: `Create a rate record effective from a date.

Examples:
  timetrack rate set 95 --kind employee --employee ann@example.com --from 2025-01-01
  timetrack rate set 120 --kind project --rate-project acme-api --from 2025-01-01
  timetrack rate set 140 --kind employee_project --employee ann@example.com --rate-project acme-api --from 2025-06-01`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		hourly, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Printf("Error: invalid rate '%s'\n", args[0])
			return
		}

		fromStr, _ := cmd.Flags().GetString("from")
		from, err := parser.ParseEntryDate(fromStr, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		req := db.SetRateRequest{
			HourlyRate:    hourly,
			EffectiveFrom: from,
		}
		req.Kind, _ = cmd.Flags().GetString("kind")
		req.EmployeeEmail, _ = cmd.Flags().GetString("employee")
		req.Project, _ = cmd.Flags().GetString("rate-project")

		if toStr, _ := cmd.Flags().GetString("to"); toStr != "" {
			to, err := parser.ParseEntryDate(toStr, time.Now())
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			req.EffectiveTo = &to
		}

		rate, err := db.SetRate(req)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ Rate #%d: %.2f/h (%s) from %s\n",
			rate.ID, rate.HourlyRate, rate.Kind, rate.EffectiveFrom.Format("2006-01-02"))
	},
}

var rateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rate records",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		kind, _ := cmd.Flags().GetString("kind")
		records, err := db.ListRates(models.RateKind(strings.ToUpper(kind)))
		if err != nil {
			fmt.Printf("Error fetching rates: %v\n", err)
			return
		}

		if len(records) == 0 {
			fmt.Println("No rates found. Use 'timetrack rate set' to create one.")
			return
		}

		fmt.Printf("%-4s %-17s %-10s %-8s %-15s %-12s %s\n",
			"ID", "KIND", "EMPLOYEE", "RATE", "PROJECT", "FROM", "TO")
		fmt.Println(strings.Repeat("-", 80))

		for _, rate := range records {
			employee := "-"
			if rate.EmployeeID != nil {
				employee = fmt.Sprintf("#%d", *rate.EmployeeID)
			}
			project := "-"
			if rate.Project != nil {
				project = *rate.Project
			}
			to := "open"
			if rate.EffectiveTo != nil {
				to = rate.EffectiveTo.Format("2006-01-02")
			}
			fmt.Printf("%-4d %-17s %-10s %-8.2f %-15s %-12s %s\n",
				rate.ID, rate.Kind, employee, rate.HourlyRate, project,
				rate.EffectiveFrom.Format("2006-01-02"), to)
		}
	},
}

var rateEndCmd = &cobra.Command{
	Use:   "end [rate-id]",
	Short: "Close an open-ended rate",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid rate ID '%s'\n", args[0])
			return
		}

		toStr, _ := cmd.Flags().GetString("to")
		to, err := parser.ParseEntryDate(toStr, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		rate, err := db.EndRate(uint(id), to)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ Rate #%d now ends %s\n", rate.ID, rate.EffectiveTo.Format("2006-01-02"))
	},
}

var rateDeleteCmd = &cobra.Command{
	Use:   "delete [rate-id]",
	Short: "Delete a rate record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid rate ID '%s'\n", args[0])
			return
		}

		if err := db.DeleteRate(uint(id)); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Deleted rate #%d (already-stamped entries keep their rate)\n", id)
	},
}

func init() {
	rateSetCmd.Flags().String("kind", "", "Rate kind: employee|project|employee_project")
	rateSetCmd.Flags().String("employee", "", "Employee email (employee tiers)")
	rateSetCmd.Flags().String("rate-project", "", "Project name (project tiers)")
	rateSetCmd.Flags().String("from", "today", "Effective-from date")
	rateSetCmd.Flags().String("to", "", "Effective-to date (open-ended when omitted)")

	rateListCmd.Flags().String("kind", "", "Filter by kind")

	rateEndCmd.Flags().String("to", "today", "Effective-to date")

	rateCmd.AddCommand(rateSetCmd)
	rateCmd.AddCommand(rateListCmd)
	rateCmd.AddCommand(rateEndCmd)
	rateCmd.AddCommand(rateDeleteCmd)
}
