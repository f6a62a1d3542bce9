package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/timetrack/internal/config"
	"github.com/balkashynov/timetrack/internal/db"
	"github.com/balkashynov/timetrack/internal/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "timetrack",
	Short: "A CLI timesheet and time tracker",
	Long: `timetrack logs time entries against projects, rolls them up into weekly
timesheets, and drives the submit/approve/reject workflow between employees
and their managers. Billing rates are resolved per entry and frozen at
creation.`,
}

// initDB loads the config and initializes the database, panicking on error
func initDB() {
	loaded, err := config.Load()
	if err != nil {
		panic(err)
	}
	cfg = loaded

	if err := db.Initialize(cfg); err != nil {
		panic(err)
	}
}

// actingUser resolves the identity a command acts as: the --as flag when
// given, otherwise the configured acting_user
func actingUser(cmd *cobra.Command) (*models.User, error) {
	email, _ := cmd.Flags().GetString("as")
	if email == "" && cfg != nil {
		email = cfg.ActingUser
	}
	if email == "" {
		return nil, fmt.Errorf("no acting user: pass --as <email> or set acting_user in the config")
	}

	user, err := db.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("user %s is deactivated", user.Email)
	}
	return user, nil
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("as", "", "Act as this user (email)")

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(timesheetCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(delegateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(helpCmd)
}
