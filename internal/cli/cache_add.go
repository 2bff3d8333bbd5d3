package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modkeeper/internal/planner"
)

var cacheAddCmd = &cobra.Command{
	Use:   "add <mod-id|all>",
	Short: "Move unmanaged mods into the cache",
	Long: `Move an unmanaged mod into the cache and link it back, so it stays enabled
and can later be disabled without losing content.

"all" adds every unmanaged mod.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeModIDs(planner.TransitionCacheAdd),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, planner.TransitionCacheAdd, args[0])
	},
}
