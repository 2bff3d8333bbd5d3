package engine

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/danieljhkim/modkeeper/internal/config"
	"github.com/danieljhkim/modkeeper/internal/fsops"
)

// fixture is a pair of activation/cache directories on disk.
type fixture struct {
	t       *testing.T
	root    string
	enabled string
	cache   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureIn(t, t.TempDir())
}

func newFixtureIn(t *testing.T, root string) *fixture {
	t.Helper()
	f := &fixture{
		t:       t,
		root:    root,
		enabled: filepath.Join(root, "enabled"),
		cache:   filepath.Join(root, "cache"),
	}
	f.mkdir(f.enabled)
	f.mkdir(f.cache)
	return f
}

func (f *fixture) paths() config.Paths {
	return config.Paths{EnabledDir: f.enabled, CacheDir: f.cache}
}

func (f *fixture) engine() *Engine {
	return New(fsops.NewRealFS(), f.paths(), nil)
}

func (f *fixture) engineWith(fsys fsops.FS) *Engine {
	return New(fsys, f.paths(), nil)
}

func (f *fixture) mkdir(path string) {
	f.t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		f.t.Fatalf("failed to create %s: %v", path, err)
	}
}

func (f *fixture) write(path, content string) {
	f.t.Helper()
	f.mkdir(filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		f.t.Fatalf("failed to write %s: %v", path, err)
	}
}

func (f *fixture) symlink(target, link string) {
	f.t.Helper()
	if err := os.Symlink(target, link); err != nil {
		f.t.Fatalf("failed to link %s -> %s: %v", link, target, err)
	}
}

// unmanaged creates a real directory in the activation directory.
func (f *fixture) unmanaged(id string) {
	f.write(filepath.Join(f.enabled, id, "mod.dll"), "mod "+id)
	f.write(filepath.Join(f.enabled, id, "assets", "preview.png"), "preview "+id)
}

// cached creates a real directory in the cache directory.
func (f *fixture) cached(id string) {
	f.write(filepath.Join(f.cache, id, "mod.dll"), "mod "+id)
	f.write(filepath.Join(f.cache, id, "assets", "preview.png"), "preview "+id)
}

// managed creates a cached mod plus its activation symlink.
func (f *fixture) managed(id string) {
	f.cached(id)
	f.symlink(filepath.Join(f.cache, id), filepath.Join(f.enabled, id))
}

func (f *fixture) isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func (f *fixture) isDir(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}

func (f *fixture) missing(path string) bool {
	_, err := os.Lstat(path)
	return os.IsNotExist(err)
}

// tree returns relative path -> content for every file under root. Symlinks
// are recorded by their link text and not followed.
func (f *fixture) tree(root string) map[string]string {
	f.t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			out[rel] = "-> " + target
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		f.t.Fatalf("failed to walk %s: %v", root, err)
	}
	return out
}

// faultFS wraps RealFS to simulate a cross-device move that crashes before
// the source is removed.
type faultFS struct {
	*fsops.RealFS
	crossDevice   bool
	failRemoveAll string
}

func (f *faultFS) Rename(oldpath, newpath string) error {
	if f.crossDevice && filepath.Dir(oldpath) != filepath.Dir(newpath) {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	return f.RealFS.Rename(oldpath, newpath)
}

func (f *faultFS) RemoveAll(path string) error {
	if path == f.failRemoveAll {
		return errors.New("simulated crash")
	}
	return f.RealFS.RemoveAll(path)
}
