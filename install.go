package main

import (
	"context"
	"fmt"
	"os"
)

const pythonExecutable = "python3"

// installDependencies runs pip against the project's requirements file. The
// file must exist; a missing manifest is reported before pip is invoked so
// the failure is attributable.
func installDependencies(ctx context.Context, ex execer, requirements string, streams *ioStreams) error {
	if _, err := os.Stat(requirements); err != nil {
		return fmt.Errorf("dependency manifest %q is not readable: %w", requirements, err)
	}

	if err := ex.run(ctx, streams, pythonExecutable, "-m", "pip", "install", "-r", requirements); err != nil {
		return fmt.Errorf("failed to install dependencies from %q: %w", requirements, err)
	}

	return nil
}
