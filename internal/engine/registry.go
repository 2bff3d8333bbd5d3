package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/modkeeper/internal/scan"
)

// Classification is a snapshot of every known mod's state.
type Classification struct {
	// Mods maps mod id to its state
	Mods map[string]State

	// IDs is every known mod id, sorted
	IDs []string
}

// Select returns the sorted ids whose state satisfies pred.
func (c *Classification) Select(pred func(State) bool) []string {
	ids := []string{}
	for _, id := range c.IDs {
		if pred(c.Mods[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Filter returns the sorted ids matching any of the categories.
func (c *Classification) Filter(filters []Category) []string {
	return c.Select(func(s State) bool {
		for _, f := range filters {
			if s.Matches(f) {
				return true
			}
		}
		return false
	})
}

// Classify scans both directories once and computes the state of every mod.
//
// Algorithm:
// 1. Scan the activation and cache directories (either failing is fatal)
// 2. Canonicalize the cache root so links through aliases still match
// 3. For each id seen in either directory, derive the state vector and flag anomalies
func (e *Engine) Classify(ctx context.Context) (*Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enabledSeq, err := e.scanner.Scan(e.layout.EnabledDir)
	if err != nil {
		return nil, fmt.Errorf("activation directory: %w", err)
	}
	cacheSeq, err := e.scanner.Scan(e.layout.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("cache directory: %w", err)
	}

	cacheRoot, err := e.fs.EvalSymlinks(e.layout.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("%w: cache directory %s: %v", ErrDirectoryUnreadable, e.layout.CacheDir, err)
	}

	enabled := scan.Mods(enabledSeq)
	cached := scan.Mods(cacheSeq)

	result := &Classification{Mods: make(map[string]State)}
	for id, entry := range enabled {
		cacheEntry, inCache := cached[id]
		result.Mods[id] = e.classifyMod(id, &entry, cacheEntryPtr(cacheEntry, inCache), cacheRoot)
	}
	for id, entry := range cached {
		if _, seen := result.Mods[id]; seen {
			continue
		}
		result.Mods[id] = e.classifyMod(id, nil, &entry, cacheRoot)
	}

	result.IDs = make([]string, 0, len(result.Mods))
	for id := range result.Mods {
		result.IDs = append(result.IDs, id)
	}
	sortIDs(result.IDs)

	e.logger.Debug("classified mods", "count", len(result.IDs),
		"enabled_dir", e.layout.EnabledDir, "cache_dir", e.layout.CacheDir)

	return result, nil
}

func cacheEntryPtr(entry scan.Entry, ok bool) *scan.Entry {
	if !ok {
		return nil
	}
	return &entry
}

// classifyMod derives one mod's state from its entries. Either entry may be nil.
func (e *Engine) classifyMod(id string, enabled, cached *scan.Entry, cacheRoot string) State {
	st := State{ID: id}

	if cached != nil {
		st.Cached = true
		if cached.Kind != scan.KindDirectory {
			st.Anomaly = &Anomaly{Kind: AnomalyCacheNotDirectory, Path: cached.Path, Target: linkTarget(cached)}
		}
	}

	if enabled == nil {
		return st
	}
	st.Enabled = true

	switch enabled.Kind {
	case scan.KindDirectory:
		if cached != nil {
			st.Anomaly = &Anomaly{Kind: AnomalyDuplicate, Path: enabled.Path, Target: cached.Path}
			return st
		}
		if st.Anomaly == nil {
			st.Unmanaged = true
		}
	case scan.KindSymlink:
		expected := filepath.Join(cacheRoot, id)
		switch {
		case enabled.Broken:
			st.Anomaly = &Anomaly{Kind: AnomalyDanglingLink, Path: enabled.Path, Target: enabled.LinkText}
		case enabled.Target != expected:
			st.Anomaly = &Anomaly{Kind: AnomalyForeignLink, Path: enabled.Path, Target: enabled.Target}
		case cached == nil:
			// The slot holds a loose file, which the cache scan ignores.
			st.Anomaly = &Anomaly{Kind: AnomalyCacheNotDirectory, Path: expected, Target: enabled.Target}
		case st.Anomaly == nil:
			st.Managed = true
		}
	}

	return st
}

func linkTarget(entry *scan.Entry) string {
	if entry.Target != "" {
		return entry.Target
	}
	return entry.LinkText
}

// List returns the sorted ids matching any of the given categories.
func (e *Engine) List(ctx context.Context, filters []Category) ([]string, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("%w: no categories given", ErrInvalidFilter)
	}

	snapshot, err := e.Classify(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Filter(filters), nil
}

// State returns the state of one mod.
func (e *Engine) State(ctx context.Context, id string) (State, error) {
	snapshot, err := e.Classify(ctx)
	if err != nil {
		return State{}, err
	}
	st, ok := snapshot.Mods[id]
	if !ok {
		return State{}, &ModError{Op: "status", ID: id, Err: ErrUnknownMod}
	}
	return st, nil
}
