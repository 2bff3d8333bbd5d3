package planner

import (
	"fmt"
	"os"

	"github.com/danieljhkim/modkeeper/internal/fsops"
)

// Conflict represents a mismatch between a plan and the live filesystem.
type Conflict struct {
	// Path is the path where the conflict was detected
	Path string

	// Reason is a human-readable explanation of the conflict
	Reason string
}

// ConflictChecker replays a plan against the filesystem without mutating it.
type ConflictChecker struct {
	fs fsops.FS

	// overlay records paths the plan has already created (true) or removed (false)
	overlay map[string]bool
}

// NewConflictChecker creates a new ConflictChecker.
func NewConflictChecker(fs fsops.FS) *ConflictChecker {
	return &ConflictChecker{fs: fs}
}

// Check walks the plan in order and returns every operation whose inputs
// would not be in place when it runs. An empty result means the plan can be
// executed as-is.
func (c *ConflictChecker) Check(plan *TransitionPlan) []Conflict {
	c.overlay = make(map[string]bool)
	var conflicts []Conflict

	for _, op := range plan.Operations {
		if conflict := c.checkOperation(op); conflict != nil {
			conflicts = append(conflicts, *conflict)
			continue
		}
		c.record(op)
	}

	return conflicts
}

func (c *ConflictChecker) checkOperation(op Operation) *Conflict {
	switch op.Type {
	case OpCreateSymlink:
		if c.present(op.DestPath) {
			return &Conflict{Path: op.DestPath, Reason: "destination already exists"}
		}
		if !c.present(op.SourcePath) {
			return &Conflict{Path: op.SourcePath, Reason: "symlink target does not exist"}
		}
	case OpRemoveSymlink:
		if !c.present(op.DestPath) {
			return &Conflict{Path: op.DestPath, Reason: "symlink does not exist"}
		}
		if _, planned := c.overlay[op.DestPath]; !planned && !c.isSymlink(op.DestPath) {
			return &Conflict{Path: op.DestPath, Reason: "expected symlink but found non-symlink"}
		}
	case OpMove:
		if !c.present(op.SourcePath) {
			return &Conflict{Path: op.SourcePath, Reason: "move source does not exist"}
		}
		if c.present(op.DestPath) {
			return &Conflict{Path: op.DestPath, Reason: "move destination already exists"}
		}
	default:
		return &Conflict{Path: op.DestPath, Reason: fmt.Sprintf("unknown operation type: %s", op.Type)}
	}
	return nil
}

// record applies an operation's effect to the overlay.
func (c *ConflictChecker) record(op Operation) {
	switch op.Type {
	case OpCreateSymlink:
		c.overlay[op.DestPath] = true
	case OpRemoveSymlink:
		c.overlay[op.DestPath] = false
	case OpMove:
		c.overlay[op.SourcePath] = false
		c.overlay[op.DestPath] = true
	}
}

// present reports whether path exists once earlier plan operations are taken into account.
func (c *ConflictChecker) present(path string) bool {
	if state, ok := c.overlay[path]; ok {
		return state
	}
	exists, err := c.fs.Exists(path)
	return err == nil && exists
}

func (c *ConflictChecker) isSymlink(path string) bool {
	info, err := c.fs.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}
