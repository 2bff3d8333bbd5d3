package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modkeeper/internal/planner"
)

var enableCmd = &cobra.Command{
	Use:   "enable <mod-id|all>",
	Short: "Link cached mods into the activation directory",
	Long: `Enable a disabled mod by linking its cache copy into the activation directory.

"all" enables every disabled mod that is in the cache.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeModIDs(planner.TransitionEnable),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, planner.TransitionEnable, args[0])
	},
}
