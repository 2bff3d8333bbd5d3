package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modkeeper/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status <mod-id>",
	Short: "Show the state of a mod",
	Long: `Display whether a mod is enabled, cached, managed or unmanaged.

Mods that fit none of these states are reported with the anomaly found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(newLogger(cmd))
		if err != nil {
			return err
		}

		report, err := eng.Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), report)
		}
		return outputYAML(cmd.OutOrStdout(), map[string]*engine.StatusReport{report.ID: report})
	},
}
