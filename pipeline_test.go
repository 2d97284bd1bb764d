package main

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestRunSteps(t *testing.T) {
	var ran []string
	record := func(name string) step {
		return step{name: name, run: func(context.Context) error {
			ran = append(ran, name)
			return nil
		}}
	}

	err := runSteps(testContext(t), []step{record("one"), record("two"), record("three")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(ran, []string{"one", "two", "three"}) {
		t.Fatalf("ran=%v, want one two three", ran)
	}
}

func TestRunSteps_FirstFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	var ran []string

	err := runSteps(testContext(t), []step{
		{name: "first", run: func(context.Context) error {
			ran = append(ran, "first")
			return boom
		}},
		{name: "second", run: func(context.Context) error {
			ran = append(ran, "second")
			return nil
		}},
	})

	if !errors.Is(err, boom) {
		t.Fatalf("error=%v, want wrapped boom", err)
	}
	if !strings.HasPrefix(err.Error(), "first: ") {
		t.Fatalf("error %q should carry the failing step name", err)
	}
	if !slices.Equal(ran, []string{"first"}) {
		t.Fatalf("ran=%v, want only first", ran)
	}
}

func TestRunSteps_CanceledContextStopsCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	var ran bool
	err := runSteps(ctx, []step{{name: "never", run: func(context.Context) error {
		ran = true
		return nil
	}}})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran {
		t.Fatal("step must not run after cancellation")
	}
}
