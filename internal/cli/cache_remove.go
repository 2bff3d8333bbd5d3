package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modkeeper/internal/planner"
)

var cacheRemoveCmd = &cobra.Command{
	Use:     "remove <mod-id|all>",
	Aliases: []string{"rm"},
	Short:   "Move managed mods out of the cache",
	Long: `Replace a managed mod's symlink with its content, moved back out of the cache.
The mod stays enabled as a real directory.

"all" removes every managed mod from the cache. Disabled cached mods are left alone.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeModIDs(planner.TransitionCacheRemove),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, planner.TransitionCacheRemove, args[0])
	},
}
