package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modkeeper/internal/planner"
)

var disableCmd = &cobra.Command{
	Use:   "disable <mod-id|all>",
	Short: "Unlink managed mods, keeping them in the cache",
	Long: `Disable a managed mod by removing its symlink from the activation directory.
The cached copy is kept.

Real directories are never removed: add them to the cache first.
"all" disables every managed mod.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeModIDs(planner.TransitionDisable),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, planner.TransitionDisable, args[0])
	},
}
