package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/modkeeper/internal/planner"
)

// eligible returns the predicate selecting the mods "all" expands to for a transition.
func eligible(t planner.Transition) (func(State) bool, error) {
	switch t {
	case planner.TransitionEnable:
		return func(s State) bool { return s.Consistent() && s.Disabled() && s.Cached }, nil
	case planner.TransitionDisable:
		return func(s State) bool { return s.Managed }, nil
	case planner.TransitionCacheAdd:
		return func(s State) bool { return s.Unmanaged }, nil
	case planner.TransitionCacheRemove:
		return func(s State) bool { return s.Managed }, nil
	default:
		return nil, fmt.Errorf("%w: unknown transition %q", ErrValidation, t)
	}
}

// Resolve expands an id argument into the ids a batch will process.
// A plain id resolves to itself; AllMods resolves to every eligible mod
// in the current classification.
func (e *Engine) Resolve(ctx context.Context, t planner.Transition, id string) ([]string, error) {
	pred, err := eligible(t)
	if err != nil {
		return nil, err
	}
	if id != AllMods {
		return []string{id}, nil
	}

	snapshot, err := e.Classify(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Select(pred), nil
}

// RunBatch resolves req.ID and transitions each resulting mod independently.
//
// Advisory errors mark the mod skipped, structural and inconsistency errors
// mark it failed; both let the batch continue. Fatal errors abort the batch
// and are returned alongside the outcomes gathered so far.
func (e *Engine) RunBatch(ctx context.Context, req *BatchRequest) (*BatchResult, error) {
	ids, err := e.Resolve(ctx, req.Transition, req.ID)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		Transition: req.Transition,
		DryRun:     !req.Apply,
		Outcomes:   make([]Outcome, 0, len(ids)),
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res, err := e.Run(ctx, req.Transition, &TransitionRequest{ID: id, Apply: req.Apply})
		outcome := Outcome{ID: id, Err: err}
		if res != nil && res.Plan != nil {
			outcome.Plan = res.Plan.Operations
		}

		severity := SeverityOf(err)
		switch severity {
		case SeverityNone:
			outcome.Status = OutcomeSucceeded
			e.logger.Debug("transition succeeded", "transition", req.Transition, "mod", id, "dry_run", !req.Apply)
		case SeverityAdvisory:
			outcome.Status = OutcomeSkipped
		case SeverityStructural, SeverityInconsistency:
			outcome.Status = OutcomeFailed
		case SeverityFatal:
			return result, err
		}
		if err != nil {
			outcome.Severity = severity.String()
			outcome.Message = err.Error()
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}
