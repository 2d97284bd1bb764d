//go:build !windows

package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// checkExecutable asks the kernel whether the current user may execute the
// file, which also covers ACLs that a plain mode-bit check would miss.
func checkExecutable(toolPath string) error {
	if err := unix.Access(toolPath, unix.X_OK); err != nil {
		return fmt.Errorf("tool %q is not executable: %w", toolPath, err)
	}
	return nil
}
