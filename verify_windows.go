//go:build windows

package main

// checkExecutable is a no-op on Windows, where executability is decided by
// the file extension rather than a permission bit.
func checkExecutable(string) error {
	return nil
}
