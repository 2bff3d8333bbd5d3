package engine

import "github.com/danieljhkim/modkeeper/internal/planner"

// TransitionRequest represents a request to transition a single mod.
type TransitionRequest struct {
	// ID is the mod id
	ID string

	// Apply executes the plan; when false the plan is only computed (dry run)
	Apply bool
}

// BatchRequest represents a request to transition one mod or every eligible mod.
type BatchRequest struct {
	// Transition is the state change to perform
	Transition planner.Transition

	// ID is a mod id or AllMods
	ID string

	// Apply executes the plans; when false every plan is only computed (dry run)
	Apply bool
}
