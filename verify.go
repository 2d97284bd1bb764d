package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// verifyTool checks that the installed tool is present and executable, then
// runs its version query as a smoke test. The version query's exit status is
// diagnostic only: its output surfaces to the user, but a failure does not
// abort the launch.
func verifyTool(ctx context.Context, ex execer, toolPath string, streams *ioStreams) error {
	if _, err := os.Stat(toolPath); err != nil {
		return fmt.Errorf("tool %q is not installed: %w", toolPath, err)
	}
	if err := checkExecutable(toolPath); err != nil {
		return err
	}

	if err := ex.run(ctx, streams, toolPath, "--version"); err != nil {
		slog.WarnContext(ctx, "version smoke test failed", "tool", toolPath, "err", err)
	}

	return nil
}
