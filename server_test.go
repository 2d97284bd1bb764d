package main

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildServerCommand(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config
		wantName string
		wantArgs []string
		wantErr  error
	}{
		{
			name: "dev runs the entry point directly",
			cfg: func() config {
				cfg := defaultConfig()
				cfg.Mode = modeDev
				return cfg
			}(),
			wantName: pythonExecutable,
			wantArgs: []string{"app.py"},
		},
		{
			name:     "prod runs gunicorn with four workers",
			cfg:      defaultConfig(),
			wantName: gunicornExecutable,
			wantArgs: []string{"--workers", "4", "--log-file", "-", "app:app"},
		},
		{
			name: "prod honors configured workers",
			cfg: func() config {
				cfg := defaultConfig()
				cfg.App.Workers = 8
				return cfg
			}(),
			wantName: gunicornExecutable,
			wantArgs: []string{"--workers", "8", "--log-file", "-", "app:app"},
		},
		{
			name: "unknown mode",
			cfg: func() config {
				cfg := defaultConfig()
				cfg.Mode = "staging"
				return cfg
			}(),
			wantErr: ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, err := buildServerCommand(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error=%v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.wantName {
				t.Errorf("name=%q, want %q", name, tt.wantName)
			}
			if strings.Join(args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Errorf("args=%v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestChildEnv(t *testing.T) {
	t.Setenv("PATH", "/usr/bin:/bin")
	t.Setenv("VIRTUAL_ENV", "/srv/app/.venv")
	t.Setenv("HTTPS_PROXY", "https://proxy.example.test")
	t.Setenv("SECRET_SHOULD_NOT_PASS", "top-secret")

	env := childEnv(map[string]string{
		"RUNWAY_MODE": "prod",
		"PATH":        "/custom/bin", // overrides beat inherited values
	})

	m := envSliceToMap(t, env)

	if got := m["RUNWAY_MODE"]; got != "prod" {
		t.Fatalf("unexpected RUNWAY_MODE: got %q", got)
	}
	if got := m["PATH"]; got != "/custom/bin" {
		t.Fatalf("expected override PATH to beat parent PATH, got %q", got)
	}
	if got := m["VIRTUAL_ENV"]; got != "/srv/app/.venv" {
		t.Fatalf("unexpected VIRTUAL_ENV: got %q", got)
	}
	if got := m["HTTPS_PROXY"]; got != "https://proxy.example.test" {
		t.Fatalf("unexpected HTTPS_PROXY: got %q", got)
	}
	if _, ok := m["SECRET_SHOULD_NOT_PASS"]; ok {
		t.Fatal("unexpected secret env propagated to child process")
	}
}

func TestChildEnv_DebugPassthrough(t *testing.T) {
	t.Setenv("DEBUG", "yes")

	m := envSliceToMap(t, childEnv(nil))

	if got := m["DEBUG"]; got != "yes" {
		t.Fatalf("expected DEBUG to pass through, got %q", got)
	}
}

func TestServerExitError(t *testing.T) {
	if err := serverExitError(nil); err != nil {
		t.Fatalf("clean exit should map to nil, got %v", err)
	}

	wrapped := serverExitError(errors.New("wait4: no child processes"))
	if wrapped == nil || errors.Is(wrapped, ErrServerNonZeroExit) {
		t.Fatalf("non-exit wait failure should wrap without the exit sentinel, got %v", wrapped)
	}
}

func envSliceToMap(t *testing.T, env []string) map[string]string {
	t.Helper()

	m := make(map[string]string, len(env))
	for _, item := range env {
		key, value, ok := strings.Cut(item, "=")
		if !ok || key == "" {
			t.Fatalf("invalid env entry in test: %q", item)
		}
		m[key] = value
	}

	return m
}
