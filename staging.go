package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// stagingParentDirs lists candidate parents for the download/extract staging
// directory, most preferred first. An empty string means the system temp
// directory.
func stagingParentDirs() []string {
	var parents []string

	if cacheDir, err := os.UserCacheDir(); err == nil && cacheDir != "" {
		parents = append(parents, filepath.Join(cacheDir, "runway"))
	}

	return append(parents, "")
}

// createStagingDirWithFallback tries each candidate parent in turn and
// returns the first staging directory it can create, plus a cleanup func.
func createStagingDirWithFallback(parentDirs []string) (string, func(), error) {
	if len(parentDirs) == 0 {
		parentDirs = []string{""}
	}

	var attemptErrs []error
	for _, parentDir := range parentDirs {
		stageDir, cleanup, err := createStagingDir(parentDir)
		if err == nil {
			return stageDir, cleanup, nil
		}
		attemptErrs = append(attemptErrs, err)
	}

	return "", func() {}, fmt.Errorf(
		"failed to create staging directory: %w",
		errors.Join(attemptErrs...),
	)
}

// createStagingDir makes a private scratch directory under parentDir. The
// archive and the extracted executable only pass through here: the finished
// binary is moved out by moveExecutable and cleanup discards the rest, so
// nothing in the staging directory outlives the fetch step.
func createStagingDir(parentDir string) (string, func(), error) {
	if parentDir != "" {
		if err := prepareStagingParent(parentDir); err != nil {
			return "", func() {}, err
		}
	}

	stageDir, err := os.MkdirTemp(parentDir, "runway-stage-*")
	if err != nil {
		where := parentDir
		if where == "" {
			where = "system temp"
		}
		return "", func() {}, fmt.Errorf("failed to create staging directory in %s: %w", where, err)
	}

	cleanup := func() {
		_ = os.RemoveAll(stageDir)
	}
	return stageDir, cleanup, nil
}
