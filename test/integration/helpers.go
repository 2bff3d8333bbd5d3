// Package integration drives the engine through whole mod lifecycles on real
// temporary directories.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/modkeeper/internal/config"
	"github.com/danieljhkim/modkeeper/internal/engine"
	"github.com/danieljhkim/modkeeper/internal/fsops"
)

// library is an activation/cache directory pair populated with mods.
type library struct {
	t     *testing.T
	paths config.Paths
}

// setupTestEngine creates both directories under a temp root and an engine on them.
func setupTestEngine(t *testing.T) (*engine.Engine, *library) {
	t.Helper()
	root := t.TempDir()

	paths := config.Paths{
		EnabledDir: filepath.Join(root, "steamapps", "workshop", "content", config.SteamAppID),
		CacheDir:   filepath.Join(root, "modkeeper", "mods", "cached"),
	}
	if err := paths.Validate(); err != nil {
		t.Fatalf("invalid test paths: %v", err)
	}
	if err := os.MkdirAll(paths.EnabledDir, 0755); err != nil {
		t.Fatalf("failed to create activation directory: %v", err)
	}
	if err := paths.EnsureCacheDir(); err != nil {
		t.Fatalf("failed to create cache directory: %v", err)
	}

	return engine.New(fsops.NewRealFS(), paths, nil), &library{t: t, paths: paths}
}

// install creates a real mod directory in the activation directory, the way
// the host application downloads it.
func (l *library) install(id string, files map[string]string) {
	l.t.Helper()
	for rel, content := range files {
		path := filepath.Join(l.paths.EnabledDir, id, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			l.t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			l.t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// readFile reads a mod file through the activation directory, following links.
func (l *library) readFile(id, rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(l.paths.EnabledDir, id, rel))
	return string(data), err
}

// cachedFile reads a mod file straight from the cache.
func (l *library) cachedFile(id, rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(l.paths.CacheDir, id, rel))
	return string(data), err
}
