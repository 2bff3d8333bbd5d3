package engine

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// AnomalyKind names an inconsistency detected while classifying a mod.
type AnomalyKind string

const (
	// AnomalyDanglingLink is an activation symlink whose target does not resolve.
	AnomalyDanglingLink AnomalyKind = "dangling-link"

	// AnomalyForeignLink is an activation symlink that resolves somewhere other than the mod's cache slot.
	AnomalyForeignLink AnomalyKind = "foreign-link"

	// AnomalyDuplicate is a real activation directory alongside a cache entry for the same id.
	AnomalyDuplicate AnomalyKind = "duplicate"

	// AnomalyCacheNotDirectory is a cache slot holding a symlink or file instead of a real directory.
	AnomalyCacheNotDirectory AnomalyKind = "cache-not-directory"
)

// Anomaly describes why a mod does not fit one of the clean states.
type Anomaly struct {
	// Kind is the anomaly type
	Kind AnomalyKind

	// Path is the offending entry
	Path string

	// Target is the resolved or raw link target, when there is one
	Target string
}

// Detail returns a human-readable explanation of the anomaly.
func (a *Anomaly) Detail() string {
	switch a.Kind {
	case AnomalyDanglingLink:
		return fmt.Sprintf("symlink %s points to %s, which does not exist", a.Path, a.Target)
	case AnomalyForeignLink:
		return fmt.Sprintf("symlink %s resolves to %s, outside its cache slot", a.Path, a.Target)
	case AnomalyDuplicate:
		return fmt.Sprintf("real directory %s coexists with cache entry %s", a.Path, a.Target)
	case AnomalyCacheNotDirectory:
		return fmt.Sprintf("cache entry %s is not a real directory (resolves to %s)", a.Path, a.Target)
	default:
		return string(a.Kind)
	}
}

// State is the derived state vector of one mod.
type State struct {
	ID string

	// Enabled: an entry exists in the activation directory
	Enabled bool

	// Cached: an entry exists in the cache directory
	Cached bool

	// Managed: the activation entry is a symlink into the mod's cache slot
	Managed bool

	// Unmanaged: the activation entry is a real directory
	Unmanaged bool

	// Anomaly is set when the mod fits none of the clean states
	Anomaly *Anomaly
}

// Disabled reports whether the mod is absent from the activation directory.
func (s State) Disabled() bool { return !s.Enabled }

// Uncached reports whether the mod is absent from the cache directory.
func (s State) Uncached() bool { return !s.Cached }

// Consistent reports whether the mod is in one of the clean states.
func (s State) Consistent() bool { return s.Anomaly == nil }

// Matches reports whether the mod belongs to a category.
func (s State) Matches(c Category) bool {
	switch c {
	case CategoryEnabled:
		return s.Enabled
	case CategoryDisabled:
		return s.Disabled()
	case CategoryCached:
		return s.Cached
	case CategoryUncached:
		return s.Uncached()
	case CategoryManaged:
		return s.Managed
	case CategoryUnmanaged:
		return s.Unmanaged
	default:
		return false
	}
}

// Label returns the composite state name:
// enabled-managed, enabled-unmanaged, enabled-inconsistent,
// disabled-cached, disabled-uncached, or disabled-inconsistent when only the
// cache entry is anomalous.
func (s State) Label() string {
	switch {
	case s.Enabled && s.Anomaly != nil:
		return "enabled-inconsistent"
	case s.Anomaly != nil:
		return "disabled-inconsistent"
	case s.Managed:
		return "enabled-managed"
	case s.Unmanaged:
		return "enabled-unmanaged"
	case s.Cached:
		return "disabled-cached"
	default:
		return "disabled-uncached"
	}
}

// sortIDs orders mod ids numerically when both are numbers, otherwise lexically.
// Numeric ids sort before non-numeric ones.
func sortIDs(ids []string) {
	slices.SortFunc(ids, compareIDs)
}

func compareIDs(a, b string) int {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
