package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/modkeeper/internal/fsops"
	"github.com/danieljhkim/modkeeper/internal/planner"
)

func TestResolve_All(t *testing.T) {
	f := newFixture(t)
	f.unmanaged("1")
	f.managed("2")
	f.cached("3")
	f.managed("4")
	f.cached("5")
	// dangling link: never selected by "all"
	f.symlink(filepath.Join(f.cache, "9"), filepath.Join(f.enabled, "9"))

	eng := f.engine()
	ctx := context.Background()

	tests := []struct {
		transition planner.Transition
		want       []string
	}{
		{planner.TransitionEnable, []string{"3", "5"}},
		{planner.TransitionDisable, []string{"2", "4"}},
		{planner.TransitionCacheAdd, []string{"1"}},
		{planner.TransitionCacheRemove, []string{"2", "4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.transition), func(t *testing.T) {
			got, err := eng.Resolve(ctx, tt.transition, AllMods)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := eng.Resolve(ctx, planner.TransitionEnable, "42")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, got)
}

func TestRunBatch_EnableAll(t *testing.T) {
	f := newFixture(t)
	f.cached("3")
	f.cached("5")
	f.managed("2")

	eng := f.engine()
	ctx := context.Background()

	result, err := eng.RunBatch(ctx, &BatchRequest{Transition: planner.TransitionEnable, ID: AllMods, Apply: true})
	require.NoError(t, err)
	assert.False(t, result.DryRun)
	assert.Equal(t, 2, result.Count(OutcomeSucceeded))
	assert.False(t, result.HasFailures())

	managed, err := eng.List(ctx, []Category{CategoryManaged})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "5"}, managed)
}

// TestRunBatch_AdvisoryDoesNotStopBatch runs enable over ids where one is
// already enabled. That id is skipped and the others still go through.
func TestRunBatch_AdvisoryDoesNotStopBatch(t *testing.T) {
	f := newFixture(t)
	f.cached("3")
	f.managed("2")
	f.cached("5")

	eng := f.engine()
	ctx := context.Background()

	var outcomes []Outcome
	for _, id := range []string{"3", "2", "5"} {
		result, err := eng.RunBatch(ctx, &BatchRequest{Transition: planner.TransitionEnable, ID: id, Apply: true})
		require.NoError(t, err)
		outcomes = append(outcomes, result.Outcomes...)
	}

	require.Len(t, outcomes, 3)
	assert.Equal(t, OutcomeSucceeded, outcomes[0].Status)
	assert.Equal(t, OutcomeSkipped, outcomes[1].Status)
	assert.Equal(t, "advisory", outcomes[1].Severity)
	assert.ErrorIs(t, outcomes[1].Err, ErrAlreadyEnabled)
	assert.Equal(t, OutcomeSucceeded, outcomes[2].Status)

	for _, id := range []string{"2", "3", "5"} {
		assert.True(t, f.isSymlink(filepath.Join(f.enabled, id)), "mod %s", id)
	}
}

func TestRunBatch_FailureContinues(t *testing.T) {
	f := newFixture(t)
	f.managed("2")
	f.managed("4")
	eng := f.engine()
	ctx := context.Background()

	ids, err := eng.Resolve(ctx, planner.TransitionDisable, AllMods)
	require.NoError(t, err)
	require.Equal(t, []string{"2", "4"}, ids)

	// Repoint mod 2's link outside the cache.
	require.NoError(t, os.Remove(filepath.Join(f.enabled, "2")))
	f.symlink(filepath.Join(f.root, "nowhere"), filepath.Join(f.enabled, "2"))

	result, err := eng.RunBatch(ctx, &BatchRequest{Transition: planner.TransitionDisable, ID: AllMods, Apply: true})
	require.NoError(t, err)

	// Mod 2 is now dangling, so "all" no longer selects it.
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "4", result.Outcomes[0].ID)
	assert.Equal(t, OutcomeSucceeded, result.Outcomes[0].Status)

	// Named explicitly, it fails without aborting.
	result, err = eng.RunBatch(ctx, &BatchRequest{Transition: planner.TransitionDisable, ID: "2", Apply: true})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, OutcomeFailed, result.Outcomes[0].Status)
	assert.Equal(t, "inconsistency", result.Outcomes[0].Severity)
	assert.True(t, result.HasFailures())
}

// TestRunBatch_PartialFailureContinues adopts three mods in one batch where
// the middle move cannot remove its source. That mod fails and the batch
// carries on with the next one.
func TestRunBatch_PartialFailureContinues(t *testing.T) {
	f := newFixture(t)
	f.unmanaged("1")
	f.unmanaged("2")
	f.unmanaged("3")

	eng := f.engineWith(&faultFS{
		RealFS:        fsops.NewRealFS(),
		crossDevice:   true,
		failRemoveAll: filepath.Join(f.enabled, "2"),
	})
	ctx := context.Background()

	result, err := eng.RunBatch(ctx, &BatchRequest{Transition: planner.TransitionCacheAdd, ID: AllMods, Apply: true})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 3)

	statuses := make([]OutcomeStatus, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		statuses = append(statuses, o.Status)
	}
	assert.Equal(t, []OutcomeStatus{OutcomeSucceeded, OutcomeFailed, OutcomeSucceeded}, statuses)
	assert.Equal(t, "structural", result.Outcomes[1].Severity)
	assert.Equal(t, 1, result.Count(OutcomeFailed))
	assert.True(t, result.HasFailures())

	for _, id := range []string{"1", "3"} {
		assert.True(t, f.isSymlink(filepath.Join(f.enabled, id)), "mod %s", id)
		assert.True(t, f.isDir(filepath.Join(f.cache, id)), "mod %s", id)
	}

	// Mod 2's content is kept in both locations and flagged.
	assert.True(t, f.isDir(filepath.Join(f.enabled, "2")))
	assert.True(t, f.isDir(filepath.Join(f.cache, "2")))
	assert.FileExists(t, filepath.Join(f.cache, "2", "mod.dll"))

	st, err := eng.State(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, st.Anomaly)
	assert.Equal(t, AnomalyDuplicate, st.Anomaly.Kind)
}

func TestRunBatch_DryRun(t *testing.T) {
	f := newFixture(t)
	f.unmanaged("1")
	f.unmanaged("7")

	result, err := f.engine().RunBatch(context.Background(),
		&BatchRequest{Transition: planner.TransitionCacheAdd, ID: AllMods})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	require.Len(t, result.Outcomes, 2)
	for _, o := range result.Outcomes {
		assert.Equal(t, OutcomeSucceeded, o.Status)
		assert.Len(t, o.Plan, 2)
	}

	assert.True(t, f.isDir(filepath.Join(f.enabled, "1")))
	assert.True(t, f.missing(filepath.Join(f.cache, "1")))
}

func TestRunBatch_FatalAborts(t *testing.T) {
	f := newFixture(t)
	f.cached("3")
	require.NoError(t, os.RemoveAll(f.enabled))

	_, err := f.engine().RunBatch(context.Background(),
		&BatchRequest{Transition: planner.TransitionEnable, ID: "3", Apply: true})
	require.Error(t, err)
	assert.Equal(t, SeverityFatal, SeverityOf(err))
}

func TestRunBatch_CanceledContext(t *testing.T) {
	f := newFixture(t)
	f.cached("3")
	f.cached("5")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.engine().RunBatch(ctx, &BatchRequest{Transition: planner.TransitionEnable, ID: "3", Apply: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result != nil && len(result.Outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(result.Outcomes))
	}
	assert.True(t, f.missing(filepath.Join(f.enabled, "3")))
}

func TestRunBatch_UnknownTransition(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine().RunBatch(context.Background(), &BatchRequest{Transition: "purge", ID: AllMods})
	assert.ErrorIs(t, err, ErrValidation)
}
