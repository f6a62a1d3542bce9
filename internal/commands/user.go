package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/timetrack/internal/db"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add [email]",
	Short: "Add a new user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		role, _ := cmd.Flags().GetString("role")
		manager, _ := cmd.Flags().GetString("manager")

		user, err := db.CreateUser(db.CreateUserRequest{
			Email:        args[0],
			FirstName:    firstName,
			LastName:     lastName,
			Role:         role,
			ManagerEmail: manager,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Added %s user %s (#%d)\n", strings.ToLower(string(user.Role)), user.Email, user.ID)
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		includeInactive, _ := cmd.Flags().GetBool("all")
		users, err := db.ListUsers(includeInactive)
		if err != nil {
			fmt.Printf("Error fetching users: %v\n", err)
			return
		}

		if len(users) == 0 {
			fmt.Println("No users found. Use 'timetrack user add <email>' to create one.")
			return
		}

		fmt.Printf("%-4s %-30s %-20s %-9s %-30s %s\n", "ID", "EMAIL", "NAME", "ROLE", "MANAGER", "ACTIVE")
		fmt.Println(strings.Repeat("-", 100))

		for _, user := range users {
			managerEmail := ""
			if user.Manager != nil {
				managerEmail = user.Manager.Email
			}
			active := "yes"
			if !user.Active {
				active = "no"
			}
			fmt.Printf("%-4d %-30s %-20s %-9s %-30s %s\n",
				user.ID, user.Email, user.FullName(), user.Role, managerEmail, active)
		}
	},
}

var userManagerCmd = &cobra.Command{
	Use:   "manager [email] [manager-email]",
	Short: "Set a user's manager",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		user, err := db.SetManager(args[0], args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ %s now reports to %s\n", user.Email, args[1])
	},
}

var userDeactivateCmd = &cobra.Command{
	Use:   "deactivate [email]",
	Short: "Deactivate a user",
	Long: `Deactivate a user. Blocked while the user has pending (draft or
submitted) timesheets unless --force is given. Admin only.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		actor, err := actingUser(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		target, err := db.GetUserByEmail(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		force, _ := cmd.Flags().GetBool("force")
		user, err := db.DeactivateUser(target.ID, actor.ID, force)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ Deactivated %s\n", user.Email)
	},
}

var userStatusCmd = &cobra.Command{
	Use:   "status [email]",
	Short: "Show whether a user can be deactivated",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		user, err := db.GetUserByEmail(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		pending, err := db.DeactivationStatus(user.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if pending == 0 {
			fmt.Printf("%s has no pending timesheets and can be deactivated\n", user.Email)
		} else {
			fmt.Printf("%s has %d pending timesheet(s); deactivation needs --force\n", user.Email, pending)
		}
	},
}

func init() {
	userAddCmd.Flags().String("first-name", "", "First name")
	userAddCmd.Flags().String("last-name", "", "Last name")
	userAddCmd.Flags().String("role", "employee", "Role: employee|manager|admin")
	userAddCmd.Flags().String("manager", "", "Manager's email")

	userListCmd.Flags().Bool("all", false, "Include deactivated users")

	userDeactivateCmd.Flags().Bool("force", false, "Deactivate even with pending timesheets")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userManagerCmd)
	userCmd.AddCommand(userDeactivateCmd)
	userCmd.AddCommand(userStatusCmd)
}
