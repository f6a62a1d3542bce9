package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for timetrack",
	Long:  `Display detailed help for all timetrack commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
████████╗████████╗██████╗  █████╗  ██████╗██╗  ██╗
╚══██╔══╝╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██║ ██╔╝
   ██║      ██║   ██████╔╝███████║██║     █████╔╝
   ██║      ██║   ██╔══██╗██╔══██║██║     ██╔═██╗
   ██║      ██║   ██║  ██║██║  ██║╚██████╗██║  ██╗
   ╚═╝      ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝

timetrack - CLI timesheets, timers and approvals

Every command accepts --as <email> to act as a user
(or set acting_user in ~/.timetrack/config.toml).

COMMANDS:

  log <hours>             Log a time entry
    -p, --project         Project name (required)
    --date                today|yesterday|monday|-2d|2006-01-02
    -m, --message         What you worked on
    -i, --interactive     Step-by-step entry form

    Example:
      timetrack log 1.5 -p acme-api --date yesterday -m "code review"

  entries                 List your entries
    --from, --to          Date range
    --project             Filter by project
    entries edit <id>     Change hours, note or date
    entries delete <id>   Remove an entry

  timer start             Start a live timer (one per user)
    -p, --project         Project name (required)
    --no-ui               Start without the fullscreen timer
  timer stop              Stop and log the elapsed time
  timer status            Show the running timer

  timesheet (ts)          Weekly timesheets
    ts show [id]          Daily breakdown, entries and comments
      --week              Pick by week date instead of ID
    ts list               Your sheets (--team for reports, --status filter)
    ts submit <id>        Send a draft for approval
    ts approve <id>       Approve (owner's manager, delegate or admin)
    ts reject <id>        Send back for fixes
      -c, --comment       Required rejection reason
    ts reopen <id>        Turn a rejected sheet back into a draft
    ts comment <id>       Discuss a sheet (--entry for a specific line)
    ts unlock <id>        Admin override on an approved sheet
      -r, --reason        Required audit reason

  user                    Manage users
    user add <email>      --first-name --last-name --role --manager
    user list             --all to include deactivated
    user manager          Assign a manager
    user deactivate       --force to override pending timesheets
    user status           Pending timesheet count

  rate                    Billing rates
    rate set <rate>       --kind employee|project|employee_project
                          --employee --rate-project --from --to
    rate list             --kind filter
    rate end <id>         Close an open-ended rate
    rate delete <id>      Remove a rate record

  delegate                Approval delegations
    delegate add <email>  Hand your approvals to another manager
                          --from --until (inclusive)
    delegate list         Given and received, with status
    delegate revoke <id>  End a delegation early

  report                  Manager and admin reports
    report summary        Approved hours by user and project
    report approvals      Sheet counts per workflow state

  version                 Show version information
  help                    Show this help

`)
}
