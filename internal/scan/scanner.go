// Package scan lists the entries of a mod directory.
//
// A scan reads the directory listing once and then yields one Entry per
// visible child, resolving symlink targets as it goes. Hidden entries (names
// starting with a dot) are skipped; they are never mods and include the
// staging directories fsops.Move creates.
package scan

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/modkeeper/internal/fsops"
)

// ErrDirectoryUnreadable indicates a configured directory is missing or cannot be listed.
var ErrDirectoryUnreadable = errors.New("directory unreadable")

// Kind is the type of a directory entry.
type Kind int

const (
	// KindOther is anything that is neither a directory nor a symlink.
	KindOther Kind = iota
	// KindDirectory is a real directory.
	KindDirectory
	// KindSymlink is a symbolic link, whatever it points at.
	KindSymlink
)

// String returns the kind name used in reports.
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Entry is one child of a scanned directory.
type Entry struct {
	// ID is the entry name, which is the mod id
	ID string

	// Kind is the entry type (not following symlinks)
	Kind Kind

	// Path is the absolute path of the entry
	Path string

	// LinkText is the raw symlink contents (symlinks only)
	LinkText string

	// Target is the canonical path the symlink resolves to (symlinks only)
	Target string

	// Broken is set for symlinks whose target cannot be resolved
	Broken bool
}

// Scanner lists directories through an fsops.FS.
type Scanner struct {
	fs fsops.FS
}

// NewScanner creates a new Scanner.
func NewScanner(fs fsops.FS) *Scanner {
	return &Scanner{fs: fs}
}

// Scan lists dir and returns a sequence of its visible entries in name order.
// Listing failures are returned immediately as ErrDirectoryUnreadable; symlink
// resolution happens lazily while the sequence is consumed.
func (s *Scanner) Scan(dir string) (iter.Seq[Entry], error) {
	info, err := s.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryUnreadable, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s: not a directory", ErrDirectoryUnreadable, dir)
	}

	dirEntries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryUnreadable, dir, err)
	}

	return func(yield func(Entry) bool) {
		for _, de := range dirEntries {
			name := de.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			if !yield(s.entry(dir, de)) {
				return
			}
		}
	}, nil
}

// entry builds an Entry from a directory listing record.
func (s *Scanner) entry(dir string, de os.DirEntry) Entry {
	e := Entry{
		ID:   de.Name(),
		Path: filepath.Join(dir, de.Name()),
	}

	switch {
	case de.Type()&os.ModeSymlink != 0:
		e.Kind = KindSymlink
		s.resolve(&e)
	case de.IsDir():
		e.Kind = KindDirectory
	default:
		e.Kind = KindOther
	}

	return e
}

// resolve fills in the link text and canonical target of a symlink entry.
func (s *Scanner) resolve(e *Entry) {
	text, err := s.fs.Readlink(e.Path)
	if err != nil {
		e.Broken = true
		return
	}
	e.LinkText = text

	target, err := s.fs.EvalSymlinks(e.Path)
	if err != nil {
		e.Broken = true
		return
	}
	e.Target = target
}

// Mods drains a scan into a map keyed by mod id. Loose files (KindOther)
// are not mods and are dropped.
func Mods(entries iter.Seq[Entry]) map[string]Entry {
	out := make(map[string]Entry)
	for e := range entries {
		if e.Kind == KindOther {
			continue
		}
		out[e.ID] = e
	}
	return out
}
