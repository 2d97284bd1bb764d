package main

import "errors"

var (
	// ErrNoMatchingAsset is returned when no release asset matches the platform marker.
	ErrNoMatchingAsset = errors.New("no release asset matches platform")
	// ErrNoAssets is returned when the latest release carries no assets at all.
	ErrNoAssets = errors.New("latest release has no assets")
	// ErrServerNonZeroExit is returned when the launched server exits with non-zero status.
	ErrServerNonZeroExit = errors.New("server exited with non-zero status")
	// ErrUnknownMode is returned when the launch mode is neither dev nor prod.
	ErrUnknownMode = errors.New("unknown launch mode")
	// ErrToolNotFound is returned when the tool executable is missing from the archive.
	ErrToolNotFound = errors.New("tool executable was not found in archive")
	// ErrToolTooLarge is returned when extracted bytes exceed the configured limit.
	ErrToolTooLarge = errors.New("tool executable exceeds extraction size limit")
	// ErrToolInvalidSize is returned when archive metadata reports an invalid executable size.
	ErrToolInvalidSize = errors.New("tool executable has invalid size")
	// errStagingParentInsecure is returned when the staging parent directory fails safety checks.
	errStagingParentInsecure = errors.New("staging parent directory is insecure")
)
