package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/modkeeper/internal/planner"
)

// Enable links a cached mod into the activation directory.
func (e *Engine) Enable(ctx context.Context, req *TransitionRequest) (*TransitionResult, error) {
	return e.transition(ctx, planner.TransitionEnable, req)
}

// Disable removes a managed mod's symlink. Cache content is never touched.
func (e *Engine) Disable(ctx context.Context, req *TransitionRequest) (*TransitionResult, error) {
	return e.transition(ctx, planner.TransitionDisable, req)
}

// CacheAdd moves an unmanaged mod into the cache and links it back.
func (e *Engine) CacheAdd(ctx context.Context, req *TransitionRequest) (*TransitionResult, error) {
	return e.transition(ctx, planner.TransitionCacheAdd, req)
}

// CacheRemove moves a managed mod out of the cache back into its slot.
func (e *Engine) CacheRemove(ctx context.Context, req *TransitionRequest) (*TransitionResult, error) {
	return e.transition(ctx, planner.TransitionCacheRemove, req)
}

// Run dispatches a transition by name.
func (e *Engine) Run(ctx context.Context, t planner.Transition, req *TransitionRequest) (*TransitionResult, error) {
	switch t {
	case planner.TransitionEnable:
		return e.Enable(ctx, req)
	case planner.TransitionDisable:
		return e.Disable(ctx, req)
	case planner.TransitionCacheAdd:
		return e.CacheAdd(ctx, req)
	case planner.TransitionCacheRemove:
		return e.CacheRemove(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unknown transition %q", ErrValidation, t)
	}
}

// transition validates, plans and (unless dry run) executes one transition.
//
// Algorithm:
// 1. Validate the id and classify both directories
// 2. Check the transition's precondition against the mod's state
// 3. Build the plan; stop here on dry run
// 4. Replay the plan against the live filesystem for conflicts
// 5. Execute operations in order
func (e *Engine) transition(ctx context.Context, t planner.Transition, req *TransitionRequest) (*TransitionResult, error) {
	op := string(t)

	if err := e.fs.ValidateIdentifier(req.ID); err != nil {
		return nil, &ModError{Op: op, ID: req.ID, Err: fmt.Errorf("%w: %v", ErrValidation, err)}
	}

	snapshot, err := e.Classify(ctx)
	if err != nil {
		return nil, err
	}

	st, ok := snapshot.Mods[req.ID]
	if !ok {
		return nil, &ModError{Op: op, ID: req.ID, Err: ErrUnknownMod}
	}

	if err := checkPrecondition(t, st); err != nil {
		return nil, &ModError{Op: op, ID: req.ID, Err: err}
	}

	plan, err := planner.Build(t, req.ID, e.layout)
	if err != nil {
		return nil, &ModError{Op: op, ID: req.ID, Err: err}
	}

	result := &TransitionResult{
		Plan:    plan,
		Applied: []planner.Operation{},
		DryRun:  !req.Apply,
	}

	if !req.Apply {
		e.logger.Debug("dry run", "transition", t, "mod", req.ID, "operations", len(plan.Operations))
		return result, nil
	}

	if conflicts := planner.NewConflictChecker(e.fs).Check(plan); len(conflicts) > 0 {
		result.Conflicts = conflicts
		return result, &ModError{Op: op, ID: req.ID,
			Err: fmt.Errorf("%w: %s: %s", ErrConflict, conflicts[0].Path, conflicts[0].Reason)}
	}

	for _, operation := range plan.Operations {
		if err := e.executeOperation(operation); err != nil {
			return result, &ModError{Op: op, ID: req.ID, Err: err}
		}
		result.Applied = append(result.Applied, operation)
	}

	return result, nil
}

// checkPrecondition returns nil when st allows transition t.
// Anomalous mods are refused by every transition.
func checkPrecondition(t planner.Transition, st State) error {
	if st.Anomaly != nil {
		return fmt.Errorf("%w: %s", ErrInconsistentLink, st.Anomaly.Detail())
	}

	switch t {
	case planner.TransitionEnable:
		if st.Enabled {
			return ErrAlreadyEnabled
		}
		if !st.Cached {
			return fmt.Errorf("%w: not in cache, nothing to link", ErrNotManaged)
		}
	case planner.TransitionDisable:
		if !st.Enabled {
			return ErrAlreadyDisabled
		}
		if !st.Managed {
			return fmt.Errorf("%w: real directory, add it to the cache first", ErrNotManaged)
		}
	case planner.TransitionCacheAdd:
		if !st.Enabled {
			return ErrNotFound
		}
		if st.Managed {
			return ErrAlreadyManaged
		}
	case planner.TransitionCacheRemove:
		if !st.Managed {
			return ErrNotManaged
		}
	default:
		return fmt.Errorf("%w: unknown transition %q", ErrValidation, t)
	}
	return nil
}
