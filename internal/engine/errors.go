package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/danieljhkim/modkeeper/internal/scan"
)

var (
	// ErrAlreadyEnabled indicates enable was requested for an enabled mod.
	ErrAlreadyEnabled = errors.New("already enabled")

	// ErrAlreadyDisabled indicates disable was requested for a mod that is not enabled.
	ErrAlreadyDisabled = errors.New("not enabled")

	// ErrNotManaged indicates the mod has no cache-backed symlink to act on.
	ErrNotManaged = errors.New("not managed")

	// ErrAlreadyManaged indicates cache add was requested for a managed mod.
	ErrAlreadyManaged = errors.New("already managed")

	// ErrUnknownMod indicates the id is in neither directory.
	ErrUnknownMod = errors.New("unknown mod")

	// ErrInvalidFilter indicates an unrecognized list category.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrNotFound indicates the mod is not in the activation directory.
	ErrNotFound = errors.New("not found in activation directory")

	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates the filesystem changed between classification and execution.
	ErrConflict = errors.New("conflict detected")

	// ErrInconsistentLink indicates the mod is in an anomalous state that needs manual repair.
	ErrInconsistentLink = errors.New("inconsistent link")

	// ErrDirectoryUnreadable indicates a configured directory is missing or cannot be listed.
	ErrDirectoryUnreadable = scan.ErrDirectoryUnreadable
)

// ModError records a failed operation on one mod.
type ModError struct {
	Op  string
	ID  string
	Err error
}

func (e *ModError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *ModError) Unwrap() error {
	return e.Err
}

// Severity classifies how a caller must react to an error.
type Severity int

const (
	// SeverityNone means there was no error.
	SeverityNone Severity = iota
	// SeverityAdvisory is a "nothing to do" condition: log a warning and continue.
	SeverityAdvisory
	// SeverityStructural aborts the single operation. Batches continue.
	SeverityStructural
	// SeverityInconsistency is a detected anomaly that needs operator repair. Batches continue.
	SeverityInconsistency
	// SeverityFatal aborts the whole run.
	SeverityFatal
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityAdvisory:
		return "advisory"
	case SeverityStructural:
		return "structural"
	case SeverityInconsistency:
		return "inconsistency"
	case SeverityFatal:
		return "fatal"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// SeverityOf maps an error returned by the engine to its severity.
// Errors not produced by the engine (I/O failures mid-transition) are structural.
func SeverityOf(err error) Severity {
	switch {
	case err == nil:
		return SeverityNone
	case errors.Is(err, ErrDirectoryUnreadable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return SeverityFatal
	case errors.Is(err, ErrAlreadyEnabled),
		errors.Is(err, ErrAlreadyDisabled),
		errors.Is(err, ErrNotManaged),
		errors.Is(err, ErrAlreadyManaged):
		return SeverityAdvisory
	case errors.Is(err, ErrInconsistentLink):
		return SeverityInconsistency
	default:
		return SeverityStructural
	}
}
