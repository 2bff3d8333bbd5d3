package fsops

import (
	"errors"
	"fmt"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
)

// StagingPrefix is the name prefix of the temporary directories Move creates
// next to its destination. Scanners skip hidden entries, so a staging
// directory left behind by a crash never shows up as a mod.
const StagingPrefix = ".modkeeper-staging-"

// Move relocates the directory at src to dst without ever having zero copies
// of the content on disk.
//
// When src and dst share a filesystem the move is a single rename. Otherwise
// the tree is copied into a hidden staging directory beside dst, the staging
// directory is renamed to dst, and only then is src removed. A failure after
// the rename leaves the content in both places.
func Move(fs FS, src, dst string) error {
	if exists, err := fs.Exists(dst); err != nil {
		return fmt.Errorf("failed to check destination: %w", err)
	} else if exists {
		return fmt.Errorf("destination %q already exists", dst)
	}

	err := fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("failed to rename %s: %w", src, err)
	}

	return moveByCopy(fs, src, dst)
}

// moveByCopy is the cross-device path of Move.
func moveByCopy(fs FS, src, dst string) error {
	staging := filepath.Join(filepath.Dir(dst), StagingPrefix+uuid.NewString())

	if err := fs.Copy(src, staging); err != nil {
		_ = fs.RemoveAll(staging)
		return fmt.Errorf("failed to copy %s to staging: %w", src, err)
	}

	if err := fs.Rename(staging, dst); err != nil {
		_ = fs.RemoveAll(staging)
		return fmt.Errorf("failed to publish %s: %w", dst, err)
	}

	if err := fs.RemoveAll(src); err != nil {
		return fmt.Errorf("content copied to %s but failed to remove %s: %w", dst, src, err)
	}

	return nil
}

// isCrossDevice reports whether a rename failed because src and dst live on
// different filesystems. *os.LinkError unwraps to the errno.
func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
