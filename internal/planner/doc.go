// Package planner handles the planning phase of mod transitions.
//
// The planner turns a validated transition (enable, disable, cache add,
// cache remove) into a deterministic, ordered list of filesystem operations.
// Plans are pure data: a dry run returns the plan untouched, a real run hands
// it to the engine for execution.
//
// Key responsibilities:
//   - Generate TransitionPlan with ordered operations
//   - Order operations so content always exists in at least one location
//   - Detect conflicts between a plan and the live filesystem before execution
package planner
