package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the cache directory",
	Long: `Create the configured cache directory if it does not exist yet.

Every other command requires both directories to exist and fails when either
is missing. The activation directory belongs to the game and is never created.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	paths, err := loadPaths()
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	if info, err := os.Stat(paths.CacheDir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("cache path %s exists and is not a directory", paths.CacheDir)
		}
		p.Info(fmt.Sprintf("Cache directory already exists at %s", paths.CacheDir))
		return nil
	}

	if dryRun {
		p.Info(fmt.Sprintf("Dry run: would create %s", paths.CacheDir))
		return nil
	}

	if err := paths.EnsureCacheDir(); err != nil {
		return err
	}
	logger.Debug("created cache directory", "path", paths.CacheDir)
	p.Success(fmt.Sprintf("Created cache directory at %s", paths.CacheDir))
	return nil
}
