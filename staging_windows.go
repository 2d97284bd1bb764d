//go:build windows

package main

import (
	"fmt"
	"os"
)

// prepareStagingParent creates parentDir if needed. Windows ACLs are not
// modeled; MkdirTemp still yields a fresh, unpredictable directory name.
func prepareStagingParent(parentDir string) error {
	if err := os.MkdirAll(parentDir, 0o700); err != nil {
		return fmt.Errorf("failed to create staging parent %q: %w", parentDir, err)
	}
	return nil
}
