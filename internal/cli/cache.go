package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modkeeper/internal/engine"
)

// cacheCmd is the parent command for cache management. On its own it lists
// managed mods.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the mod cache",
	Long: `Manage the cache directory that holds mod content.

Without a subcommand, lists the enabled mods that are linked from the cache.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listMods(cmd, []engine.Category{engine.CategoryManaged})
	},
}

var cacheManagedCmd = &cobra.Command{
	Use:   "managed",
	Short: "List enabled mods linked from the cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listMods(cmd, []engine.Category{engine.CategoryManaged})
	},
}

var cacheUnmanagedCmd = &cobra.Command{
	Use:   "unmanaged",
	Short: "List enabled mods that are real directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listMods(cmd, []engine.Category{engine.CategoryUnmanaged})
	},
}

func init() {
	cacheCmd.AddCommand(cacheManagedCmd)
	cacheCmd.AddCommand(cacheUnmanagedCmd)
	cacheCmd.AddCommand(cacheAddCmd)
	cacheCmd.AddCommand(cacheRemoveCmd)
}
