package main

import (
	"context"
	"fmt"
)

// step is one stage of the bootstrap pipeline. Steps run strictly in order;
// the first failure aborts the run with the step's name attached, so a
// failure is always attributable.
type step struct {
	name string
	run  func(ctx context.Context) error
}

func runSteps(ctx context.Context, steps []step) error {
	for _, s := range steps {
		// A canceled run is a user-requested shutdown, not a step failure.
		if ctx.Err() != nil {
			return nil
		}
		if err := s.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
