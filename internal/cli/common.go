package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/modkeeper/internal/config"
	"github.com/danieljhkim/modkeeper/internal/engine"
	"github.com/danieljhkim/modkeeper/internal/fsops"
	"github.com/danieljhkim/modkeeper/internal/planner"
)

// newLogger creates the logger for one invocation. Log lines go to stderr so
// stdout stays parseable.
func newLogger(cmd *cobra.Command) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// loadPaths resolves configuration from flags, environment and config file.
func loadPaths() (*config.Paths, error) {
	paths, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		EnabledDir: enabledDir,
		CacheDir:   cacheDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return paths, nil
}

// newEngine resolves configuration and creates an engine on the real filesystem.
// Neither directory is created here; a missing one surfaces when the engine scans it.
func newEngine(logger *log.Logger) (*engine.Engine, error) {
	paths, err := loadPaths()
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		"enabled_dir", paths.EnabledDir, "cache_dir", paths.CacheDir, "config", paths.ConfigFile)

	return engine.New(fsops.NewRealFS(), *paths, logger), nil
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputYAML writes a value as YAML.
func outputYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// render writes v in the selected output format.
func render(cmd *cobra.Command, v any) error {
	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), v)
	}
	return outputYAML(cmd.OutOrStdout(), v)
}

// listMods prints the ids matching any of the categories.
func listMods(cmd *cobra.Command, filters []engine.Category) error {
	logger := newLogger(cmd)
	eng, err := newEngine(logger)
	if err != nil {
		return err
	}

	ids, err := eng.List(cmd.Context(), filters)
	if err != nil {
		return err
	}
	return render(cmd, ids)
}

// runTransition runs a transition for one id or "all" and reports each outcome.
// Advisory outcomes are logged as warnings. The returned error is non-nil when
// any mod failed or the batch aborted.
func runTransition(cmd *cobra.Command, t planner.Transition, id string) error {
	logger := newLogger(cmd)
	eng, err := newEngine(logger)
	if err != nil {
		return err
	}

	result, runErr := eng.RunBatch(cmd.Context(), &engine.BatchRequest{
		Transition: t,
		ID:         id,
		Apply:      !dryRun,
	})
	if result == nil {
		return runErr
	}

	if jsonOutput {
		if err := outputJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		reportBatch(cmd, logger, result)
	}

	if runErr != nil {
		return runErr
	}
	if result.HasFailures() {
		return fmt.Errorf("%s failed for %s", t,
			PrintCount(result.Count(engine.OutcomeFailed), "mod", "mods"))
	}
	return nil
}

// reportBatch prints a human-readable batch summary.
func reportBatch(cmd *cobra.Command, logger *log.Logger, result *engine.BatchResult) {
	p := newPrinter(cmd.OutOrStdout())

	if len(result.Outcomes) == 0 {
		p.EmptyState(fmt.Sprintf("No mods to %s", result.Transition))
		return
	}

	for _, o := range result.Outcomes {
		switch o.Status {
		case engine.OutcomeSucceeded:
			if result.DryRun {
				p.Subsection(fmt.Sprintf("%s %s:", result.Transition, o.ID))
				p.List(describeOperations(o.Plan), 2)
			} else {
				logger.Info(string(result.Transition), "mod", o.ID)
			}
		case engine.OutcomeSkipped:
			logger.Warn(o.Message)
		case engine.OutcomeFailed:
			logger.Error(o.Message)
		}
	}

	succeeded := result.Count(engine.OutcomeSucceeded)
	switch {
	case result.DryRun:
		p.Info(fmt.Sprintf("Dry run: would %s %s", result.Transition, PrintCount(succeeded, "mod", "mods")))
	case succeeded > 0:
		p.Success(fmt.Sprintf("%s: %s done", result.Transition, PrintCount(succeeded, "mod", "mods")))
	}
	if skipped := result.Count(engine.OutcomeSkipped); skipped > 0 {
		p.Warning(fmt.Sprintf("%s skipped", PrintCount(skipped, "mod", "mods")))
	}
}

// describeOperations renders plan operations one per line.
func describeOperations(ops []planner.Operation) []string {
	lines := make([]string, 0, len(ops))
	for _, op := range ops {
		switch op.Type {
		case planner.OpCreateSymlink:
			lines = append(lines, fmt.Sprintf("symlink: %s -> %s", op.DestPath, op.SourcePath))
		case planner.OpRemoveSymlink:
			lines = append(lines, fmt.Sprintf("unlink: %s", op.DestPath))
		case planner.OpMove:
			lines = append(lines, fmt.Sprintf("move: %s -> %s", op.SourcePath, op.DestPath))
		default:
			lines = append(lines, fmt.Sprintf("%s: %s", op.Type, op.DestPath))
		}
	}
	return lines
}

// completeModIDs suggests the ids a transition applies to, plus "all".
func completeModIDs(t planner.Transition) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		eng, err := newEngine(log.New(io.Discard))
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		ids, err := eng.Resolve(cmd.Context(), t, engine.AllMods)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return append(ids, engine.AllMods), cobra.ShellCompDirectiveNoFileComp
	}
}
