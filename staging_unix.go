//go:build !windows

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// prepareStagingParent creates parentDir if needed and refuses to stage
// under a directory another user could tamper with: it must be a real
// directory (not a symlink) owned by the current user, and any group/other
// access is stripped before use.
func prepareStagingParent(parentDir string) error {
	if err := os.MkdirAll(parentDir, 0o700); err != nil {
		return fmt.Errorf("failed to create staging parent %q: %w", parentDir, err)
	}

	var st unix.Stat_t
	if err := unix.Lstat(parentDir, &st); err != nil {
		return fmt.Errorf("failed to stat staging parent %q: %w", parentDir, err)
	}

	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return fmt.Errorf("%w: %q is not a plain directory", errStagingParentInsecure, parentDir)
	}
	if int(st.Uid) != os.Geteuid() {
		return fmt.Errorf("%w: %q is not owned by the current user", errStagingParentInsecure, parentDir)
	}
	if st.Mode&0o077 != 0 {
		if err := os.Chmod(parentDir, 0o700); err != nil {
			return fmt.Errorf("failed to tighten staging parent %q: %w", parentDir, err)
		}
	}

	return nil
}
