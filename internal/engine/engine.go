// Package engine provides the mod state engine behind modkeeper.
//
// The engine reconciles two directories: the activation directory that the
// host application scans at startup, and the cache directory that modkeeper
// owns. It classifies every mod id found in either one and performs the
// transitions between states as ordered filesystem operations.
//
// Key components:
//   - Registry: Classify, List and State over a live scan of both directories
//   - Transitions: Enable, Disable, CacheAdd, CacheRemove (plan, then execute)
//   - Batches: Resolve "all" and RunBatch with per-mod outcomes
//   - Status: StatusReport for one mod, including anomalies
//
// Nothing is cached between calls. Every operation classifies the
// filesystem afresh.
package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/danieljhkim/modkeeper/internal/config"
	"github.com/danieljhkim/modkeeper/internal/fsops"
	"github.com/danieljhkim/modkeeper/internal/planner"
	"github.com/danieljhkim/modkeeper/internal/scan"
)

// AllMods is the id sentinel that expands to every mod a transition applies to.
const AllMods = "all"

// Engine orchestrates all modkeeper operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs      fsops.FS
	scanner *scan.Scanner
	layout  planner.Layout
	logger  *log.Logger
}

// New creates a new Engine bound to the given directories.
// A nil logger discards all log output.
func New(fs fsops.FS, paths config.Paths, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		fs:      fs,
		scanner: scan.NewScanner(fs),
		layout: planner.Layout{
			EnabledDir: paths.EnabledDir,
			CacheDir:   paths.CacheDir,
		},
		logger: logger,
	}
}

// Layout returns the directory layout the engine operates on.
func (e *Engine) Layout() planner.Layout {
	return e.layout
}

// executeOperation executes a single operation.
func (e *Engine) executeOperation(op planner.Operation) error {
	e.logger.Debug("executing operation", "type", op.Type, "source", op.SourcePath, "dest", op.DestPath)

	switch op.Type {
	case planner.OpCreateSymlink:
		return e.executeCreateSymlink(op)
	case planner.OpRemoveSymlink:
		return e.executeRemoveSymlink(op)
	case planner.OpMove:
		return e.executeMove(op)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

// executeCreateSymlink creates a symlink.
func (e *Engine) executeCreateSymlink(op planner.Operation) error {
	if err := e.fs.Symlink(op.SourcePath, op.DestPath); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}
	return nil
}

// executeRemoveSymlink removes a symlink, refusing to touch anything else.
func (e *Engine) executeRemoveSymlink(op planner.Operation) error {
	info, err := e.fs.Lstat(op.DestPath)
	if err != nil {
		return fmt.Errorf("failed to stat symlink: %w", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("refusing to remove %s: not a symlink", op.DestPath)
	}
	if err := e.fs.Remove(op.DestPath); err != nil {
		return fmt.Errorf("failed to remove symlink: %w", err)
	}
	return nil
}

// executeMove moves a mod directory between the two roots.
func (e *Engine) executeMove(op planner.Operation) error {
	if err := fsops.Move(e.fs, op.SourcePath, op.DestPath); err != nil {
		return fmt.Errorf("failed to move: %w", err)
	}
	return nil
}
