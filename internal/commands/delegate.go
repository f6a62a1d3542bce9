package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/timetrack/internal/db"
	"github.com/balkashynov/timetrack/internal/parser"
)

var delegateCmd = &cobra.Command{
	Use:   "delegate",
	Short: "Manage approval delegations",
	Long: `Delegate your approval authority to another manager while you are
away. The delegate can approve and reject your reports' timesheets for
the delegation's date range.`,
}

var delegateAddCmd = &cobra.Command{
	Use:   "add [delegate-email]",
	Short: "Delegate your approval authority",
	Long: `Delegate your approval authority to another manager.

Examples:
  timetrack delegate add backup@example.com --from 2025-08-11 --until 2025-08-22
  timetrack delegate add backup@example.com --until 2025-08-15`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fromStr, _ := cmd.Flags().GetString("from")
		from, err := parser.ParseEntryDate(fromStr, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		untilStr, _ := cmd.Flags().GetString("until")
		if untilStr == "" {
			fmt.Println("Error: --until is required")
			return
		}
		until, err := parser.ParseEntryDate(untilStr, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		delegation, err := db.CreateDelegation(db.CreateDelegationRequest{
			DelegatorID:   actor.ID,
			DelegateEmail: args[0],
			StartDate:     from,
			EndDate:       until,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ Delegation #%d: %s approves for %s from %s until %s\n",
			delegation.ID, delegation.Delegate.Email, delegation.Delegator.Email,
			delegation.StartDate.Format("2006-01-02"), delegation.EndDate.Format("2006-01-02"))
	},
}

var delegateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your delegations, given and received",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		delegations, err := db.ListDelegations(actor.ID)
		if err != nil {
			fmt.Printf("Error fetching delegations: %v\n", err)
			return
		}

		if len(delegations) == 0 {
			fmt.Println("No delegations found. Use 'timetrack delegate add' to create one.")
			return
		}

		fmt.Printf("%-4s %-22s %-22s %-12s %-12s %s\n",
			"ID", "DELEGATOR", "DELEGATE", "FROM", "UNTIL", "STATUS")
		fmt.Println(strings.Repeat("-", 84))

		now := time.Now()
		for _, d := range delegations {
			status := "scheduled"
			if d.ActiveOn(now) {
				status = "active"
			} else if d.EndDate.Before(now) {
				status = "expired"
			}
			fmt.Printf("%-4d %-22s %-22s %-12s %-12s %s\n",
				d.ID, d.Delegator.Email, d.Delegate.Email,
				d.StartDate.Format("2006-01-02"), d.EndDate.Format("2006-01-02"), status)
		}
	},
}

var delegateRevokeCmd = &cobra.Command{
	Use:   "revoke [delegation-id]",
	Short: "Revoke a delegation",
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
			fmt.Printf("Error: invalid delegation ID '%s'\n", args[0])
			return
		}

		if err := db.RevokeDelegation(uint(id), actor.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Revoked delegation #%d\n", id)
	},
}

func init() {
	delegateAddCmd.Flags().String("from", "today", "First day of the delegation")
	delegateAddCmd.Flags().String("until", "", "Last day of the delegation (inclusive)")

	delegateCmd.AddCommand(delegateAddCmd)
	delegateCmd.AddCommand(delegateListCmd)
	delegateCmd.AddCommand(delegateRevokeCmd)
}
