package planner

import (
	"fmt"
	"path/filepath"
)

// Transition names a state change the engine can perform on a mod.
type Transition string

// Transition constants
const (
	TransitionEnable      Transition = "enable"
	TransitionDisable     Transition = "disable"
	TransitionCacheAdd    Transition = "cache-add"
	TransitionCacheRemove Transition = "cache-remove"
)

// Transitions lists every transition in a stable order.
var Transitions = []Transition{
	TransitionEnable,
	TransitionDisable,
	TransitionCacheAdd,
	TransitionCacheRemove,
}

// TransitionPlan represents the ordered operations for one mod transition.
type TransitionPlan struct {
	// Transition is the state change this plan performs
	Transition Transition `json:"transition" yaml:"transition"`

	// ModID is the mod being transitioned
	ModID string `json:"mod" yaml:"mod"`

	// Operations is the ordered list of operations to execute
	Operations []Operation `json:"operations" yaml:"operations"`
}

// Operation represents a single filesystem operation to execute.
type Operation struct {
	// Type is the operation type: "create_symlink", "remove_symlink", "move"
	Type string `json:"type" yaml:"type"`

	// SourcePath is the symlink target or the move source (absolute)
	SourcePath string `json:"source,omitempty" yaml:"source,omitempty"`

	// DestPath is the path created or removed (absolute)
	DestPath string `json:"dest" yaml:"dest"`
}

// Operation type constants
const (
	OpCreateSymlink = "create_symlink"
	OpRemoveSymlink = "remove_symlink"
	OpMove          = "move"
)

// Layout locates mod entries in the two directories.
type Layout struct {
	// EnabledDir is the activation directory scanned by the host application
	EnabledDir string

	// CacheDir is the modkeeper-owned cache directory
	CacheDir string
}

// EnabledPath returns the activation-directory slot for a mod.
func (l Layout) EnabledPath(id string) string {
	return filepath.Join(l.EnabledDir, id)
}

// CachePath returns the cache-directory slot for a mod.
func (l Layout) CachePath(id string) string {
	return filepath.Join(l.CacheDir, id)
}

// NewTransitionPlan creates a new empty TransitionPlan.
func NewTransitionPlan(t Transition, id string) *TransitionPlan {
	return &TransitionPlan{
		Transition: t,
		ModID:      id,
		Operations: []Operation{},
	}
}

// AddOperation adds an operation to the plan.
func (p *TransitionPlan) AddOperation(op Operation) {
	p.Operations = append(p.Operations, op)
}

// Build generates the operations for a transition. It does not check
// preconditions; the caller must have classified the mod first.
//
// Orderings:
//   - enable:       link cache -> slot
//   - disable:      unlink slot
//   - cache-add:    move slot -> cache, then link cache -> slot
//   - cache-remove: unlink slot, then move cache -> slot
//
// Each step leaves the mod in a clean state (the gap between the two steps of
// a cache transition is "disabled, cached"), so a crash never strands content.
func Build(t Transition, id string, layout Layout) (*TransitionPlan, error) {
	plan := NewTransitionPlan(t, id)
	slot := layout.EnabledPath(id)
	cached := layout.CachePath(id)

	switch t {
	case TransitionEnable:
		plan.AddOperation(Operation{Type: OpCreateSymlink, SourcePath: cached, DestPath: slot})
	case TransitionDisable:
		plan.AddOperation(Operation{Type: OpRemoveSymlink, DestPath: slot})
	case TransitionCacheAdd:
		plan.AddOperation(Operation{Type: OpMove, SourcePath: slot, DestPath: cached})
		plan.AddOperation(Operation{Type: OpCreateSymlink, SourcePath: cached, DestPath: slot})
	case TransitionCacheRemove:
		plan.AddOperation(Operation{Type: OpRemoveSymlink, DestPath: slot})
		plan.AddOperation(Operation{Type: OpMove, SourcePath: cached, DestPath: slot})
	default:
		return nil, fmt.Errorf("unknown transition: %s", t)
	}

	return plan, nil
}
