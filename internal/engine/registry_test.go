package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestList_MixedLayout covers an unmanaged mod, a managed mod and a mod that
// is only cached.
func TestList_MixedLayout(t *testing.T) {
	f := newFixture(t)
	f.unmanaged("1")
	f.managed("2")
	f.cached("3")

	eng := f.engine()
	ctx := context.Background()

	tests := []struct {
		filters []Category
		want    []string
	}{
		{[]Category{CategoryManaged}, []string{"2"}},
		{[]Category{CategoryUnmanaged}, []string{"1"}},
		{[]Category{CategoryCached}, []string{"2", "3"}},
		{[]Category{CategoryEnabled}, []string{"1", "2"}},
		{[]Category{CategoryDisabled}, []string{"3"}},
		{[]Category{CategoryUncached}, []string{"1"}},
		{Categories, []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		got, err := eng.List(ctx, tt.filters)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "filters %v", tt.filters)
	}

	st, err := eng.State(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, State{ID: "3", Cached: true}, st)
	assert.Equal(t, "disabled-cached", st.Label())
}

func TestList_NoFilters(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine().List(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestList_EmptyDirectories(t *testing.T) {
	f := newFixture(t)

	got, err := f.engine().List(context.Background(), Categories)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestList_NumericOrder(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"100", "9", "20", "legacy"} {
		f.cached(id)
	}

	got, err := f.engine().List(context.Background(), []Category{CategoryCached})
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "20", "100", "legacy"}, got)
}

func TestClassify_IgnoresFilesAndHiddenEntries(t *testing.T) {
	f := newFixture(t)
	f.write(filepath.Join(f.enabled, "readme.txt"), "not a mod")
	f.write(filepath.Join(f.cache, "notes"), "not a mod")
	f.mkdir(filepath.Join(f.cache, ".modkeeper-staging-abc"))
	f.unmanaged("7")

	snapshot, err := f.engine().Classify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, snapshot.IDs)
}

func TestClassify_Anomalies(t *testing.T) {
	f := newFixture(t)
	elsewhere := filepath.Join(f.root, "elsewhere")
	f.mkdir(filepath.Join(elsewhere, "10"))

	// dangling: link into the cache slot, but nothing is cached
	f.symlink(filepath.Join(f.cache, "10"), filepath.Join(f.enabled, "10"))
	// foreign: link resolves to a real directory outside the cache
	f.symlink(filepath.Join(elsewhere, "10"), filepath.Join(f.enabled, "11"))
	// duplicate: real directory plus cache entry
	f.unmanaged("12")
	f.cached("12")
	// cache entry that is itself a link
	f.symlink(filepath.Join(elsewhere, "10"), filepath.Join(f.cache, "13"))
	// link into a cache slot that holds a file
	f.write(filepath.Join(f.cache, "14"), "not a mod")
	f.symlink(filepath.Join(f.cache, "14"), filepath.Join(f.enabled, "14"))

	snapshot, err := f.engine().Classify(context.Background())
	require.NoError(t, err)

	want := map[string]AnomalyKind{
		"10": AnomalyDanglingLink,
		"11": AnomalyForeignLink,
		"12": AnomalyDuplicate,
		"13": AnomalyCacheNotDirectory,
		"14": AnomalyCacheNotDirectory,
	}
	for id, kind := range want {
		st := snapshot.Mods[id]
		require.NotNil(t, st.Anomaly, "mod %s", id)
		assert.Equal(t, kind, st.Anomaly.Kind, "mod %s", id)
		assert.False(t, st.Managed, "mod %s", id)
		assert.False(t, st.Unmanaged, "mod %s", id)
	}

	assert.Equal(t, "enabled-inconsistent", snapshot.Mods["10"].Label())
	assert.Equal(t, "disabled-inconsistent", snapshot.Mods["13"].Label())
	assert.True(t, snapshot.Mods["12"].Cached)
}

func TestClassify_LinkThroughAliasedCache(t *testing.T) {
	root := t.TempDir()
	realRoot := filepath.Join(root, "real")
	f := newFixtureIn(t, realRoot)

	alias := filepath.Join(root, "alias")
	f.symlink(realRoot, alias)

	// The cache is configured through the alias; the link uses the real path.
	f.cached("5")
	f.symlink(filepath.Join(realRoot, "cache", "5"), filepath.Join(f.enabled, "5"))

	f.cache = filepath.Join(alias, "cache")
	st, err := f.engine().State(context.Background(), "5")
	require.NoError(t, err)
	assert.True(t, st.Managed)
	assert.Nil(t, st.Anomaly)
}

func TestClassify_MissingDirectoryIsFatal(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(f.enabled))

	_, err := f.engine().Classify(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectoryUnreadable)
	assert.Equal(t, SeverityFatal, SeverityOf(err))
}

func TestClassify_CanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine().Classify(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestState_UnknownMod(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine().State(context.Background(), "404")

	var modErr *ModError
	if !errors.As(err, &modErr) {
		t.Fatalf("expected *ModError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrUnknownMod) {
		t.Errorf("expected ErrUnknownMod, got %v", err)
	}
	if modErr.ID != "404" {
		t.Errorf("ID = %q, want %q", modErr.ID, "404")
	}
}

func TestStatus_Reports(t *testing.T) {
	f := newFixture(t)
	f.managed("2")
	f.symlink(filepath.Join(f.cache, "9"), filepath.Join(f.enabled, "9"))

	eng := f.engine()
	ctx := context.Background()

	report, err := eng.Status(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "enabled-managed", report.State)
	assert.True(t, report.Enabled)
	assert.True(t, report.Cached)
	assert.True(t, report.Managed)
	assert.Nil(t, report.Anomaly)

	anomalies, err := eng.Anomalies(ctx)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "9", anomalies[0].ID)
	assert.Equal(t, AnomalyDanglingLink, anomalies[0].Anomaly.Kind)
	assert.Contains(t, anomalies[0].Anomaly.Detail, "does not exist")
}

func TestCompareIDs(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"9", "10", -1},
		{"10", "9", 1},
		{"42", "42", 0},
		{"007", "7", -1},
		{"5", "abc", -1},
		{"abc", "5", 1},
		{"abc", "abd", -1},
	}

	for _, tt := range tests {
		if got := compareIDs(tt.a, tt.b); got != tt.want {
			t.Errorf("compareIDs(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseCategories(t *testing.T) {
	got, err := ParseCategories([]string{"Enabled", " cached ", "enabled"})
	require.NoError(t, err)
	assert.Equal(t, []Category{CategoryEnabled, CategoryCached}, got)

	_, err = ParseCategories([]string{"installed"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = ParseCategories(nil)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
