package cli

import (
	"github.com/andresjgsalzate/case-management-system-sub003/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	WorkItems service.WorkItemService
	Timer     service.TimerService
	Ledger    service.LedgerService
	Archive   service.ArchiveService
	Restore   service.RestoreService
}

// NewRootCmd creates the top-level "casetrack" command and registers all
// subcommands against the provided App. The --user and --role persistent
// flags stand in for the identity collaborator this tool does not have.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "casetrack",
		Short: "Work item time tracking and archival",
	}

	root.PersistentFlags().String("user", "", "Acting user ID")
	root.PersistentFlags().String("role", "user", "Acting role (user|supervisor|admin)")

	root.AddCommand(
		newItemCmd(app),
		newTimerCmd(app),
		newTimeCmd(app),
		newArchiveCmd(app),
	)

	return root
}

// identityFromFlags reads the acting identity off the command's flag set.
func identityFromFlags(cmd *cobra.Command) (userID, role string) {
	userID, _ = cmd.Flags().GetString("user")
	role, _ = cmd.Flags().GetString("role")
	return userID, role
}
