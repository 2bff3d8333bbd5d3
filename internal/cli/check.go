package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report mods that need manual repair",
	Long: `Scan both directories and report every mod that fits none of the clean states:
dangling or foreign symlinks, mods present both as a real directory and in the
cache, and cache entries that are not directories.

Exits with an error when any anomaly is found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(newLogger(cmd))
		if err != nil {
			return err
		}

		reports, err := eng.Anomalies(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := outputJSON(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
		} else {
			p := newPrinter(cmd.OutOrStdout())
			if len(reports) == 0 {
				p.Success("No anomalies found")
				return nil
			}

			p.Section("Anomalies")
			for _, r := range reports {
				p.Error(fmt.Sprintf("%s: %s", r.ID, r.Anomaly.Kind))
				p.LabelValue("Path", r.Anomaly.Path)
				if r.Anomaly.Target != "" {
					p.LabelValue("Target", r.Anomaly.Target)
				}
				p.LabelValue("Detail", r.Anomaly.Detail)
			}
		}

		if len(reports) > 0 {
			return fmt.Errorf("found %s", PrintCount(len(reports), "anomaly", "anomalies"))
		}
		return nil
	},
}
