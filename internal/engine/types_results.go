package engine

import "github.com/danieljhkim/modkeeper/internal/planner"

// TransitionResult represents the result of transitioning one mod.
type TransitionResult struct {
	// Plan is the generated plan
	Plan *planner.TransitionPlan

	// Applied is the list of operations that were executed (empty if DryRun)
	Applied []planner.Operation

	// Conflicts lists filesystem conflicts that stopped execution
	Conflicts []planner.Conflict

	// DryRun is true when the plan was not executed
	DryRun bool
}

// OutcomeStatus is how a single mod fared within a batch.
type OutcomeStatus string

const (
	// OutcomeSucceeded means the transition was planned (dry run) or executed.
	OutcomeSucceeded OutcomeStatus = "succeeded"
	// OutcomeSkipped means an advisory condition made the transition a no-op.
	OutcomeSkipped OutcomeStatus = "skipped"
	// OutcomeFailed means a structural or inconsistency error stopped the transition.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is the result for one mod in a batch.
type Outcome struct {
	ID       string              `json:"id" yaml:"id"`
	Status   OutcomeStatus       `json:"status" yaml:"status"`
	Severity string              `json:"severity,omitempty" yaml:"severity,omitempty"`
	Message  string              `json:"message,omitempty" yaml:"message,omitempty"`
	Plan     []planner.Operation `json:"operations,omitempty" yaml:"operations,omitempty"`
	Err      error               `json:"-" yaml:"-"`
}

// BatchResult represents the result of a batch transition.
type BatchResult struct {
	// Transition is the state change that was requested
	Transition planner.Transition `json:"transition" yaml:"transition"`

	// DryRun is true when no plan was executed
	DryRun bool `json:"dryRun" yaml:"dry_run"`

	// Outcomes holds one entry per resolved mod id, in resolution order
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

// Count returns the number of outcomes with the given status.
func (r *BatchResult) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// HasFailures reports whether any mod failed with a non-advisory error.
func (r *BatchResult) HasFailures() bool {
	return r.Count(OutcomeFailed) > 0
}
