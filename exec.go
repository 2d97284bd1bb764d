package main

import (
	"context"
	"fmt"
	"os/exec"
)

// execer abstracts short-lived external commands for testing.
type execer interface {
	run(ctx context.Context, streams *ioStreams, name string, args ...string) error
}

// realExecer runs commands with the process's own environment.
type realExecer struct{}

func (realExecer) run(ctx context.Context, streams *ioStreams, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = streams.in
	cmd.Stdout = streams.out
	cmd.Stderr = streams.err

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
