package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

const (
	gunicornExecutable = "gunicorn"
	// Wait this long after SIGINT before force-killing the server process.
	serverGracefulShutdownTimeout = 3 * time.Second
)

var allowedParentEnvKeys = []string{
	// Basic runtime environment.
	"PATH",
	"HOME",
	"USERPROFILE",
	"TMPDIR",
	"TMP",
	"TEMP",
	"SHELL",
	"COMSPEC",
	"SYSTEMROOT",
	"WINDIR",

	// Python runtime environment.
	"PYTHONPATH",
	"PYTHONUNBUFFERED",
	"PYTHONDONTWRITEBYTECODE",
	"VIRTUAL_ENV",
	"LANG",
	"LC_ALL",

	// Application environment.
	"DEBUG",
	"PORT",
	"FLASK_APP",
	"FLASK_ENV",
	"SECRET_KEY",
	"DATABASE_URL",

	// Proxy/certificate environment for enterprise networks.
	"HTTP_PROXY",
	"HTTPS_PROXY",
	"NO_PROXY",
	"ALL_PROXY",
	"http_proxy",
	"https_proxy",
	"no_proxy",
	"all_proxy",
	"SSL_CERT_FILE",
	"SSL_CERT_DIR",
}

// buildServerCommand maps the launch mode onto the concrete server argv.
// dev runs the application entry point directly; prod hands the WSGI object
// to gunicorn with the configured worker count, logging to stdout.
func buildServerCommand(cfg config) (string, []string, error) {
	mode, err := normalizeMode(cfg.Mode)
	if err != nil {
		return "", nil, err
	}

	switch mode {
	case modeDev:
		return pythonExecutable, []string{cfg.App.Entry}, nil
	case modeProd:
		return gunicornExecutable, []string{
			"--workers", strconv.Itoa(cfg.App.Workers),
			"--log-file", "-",
			cfg.App.WSGI,
		}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// runServerOnce starts the configured server in the foreground and blocks
// until it exits or ctx is canceled.
func runServerOnce(ctx context.Context, cfg config, streams *ioStreams) error {
	name, args, err := buildServerCommand(cfg)
	if err != nil {
		return err
	}

	// Detach the command from ctx so awaitServer owns the shutdown sequence.
	cmd := exec.CommandContext(context.WithoutCancel(ctx), name, args...)
	cmd.Stdin = streams.in
	cmd.Stdout = streams.out
	cmd.Stderr = streams.err
	cmd.Env = childEnv(map[string]string{"RUNWAY_MODE": cfg.Mode})

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	slog.InfoContext(ctx, "🚀 Server started", "command", name, "mode", cfg.Mode, "pid", cmd.Process.Pid)

	return awaitServer(ctx, cmd)
}

// awaitServer blocks until the server exits on its own or ctx asks for
// shutdown. A cancellation-driven stop is not an error.
func awaitServer(ctx context.Context, cmd *exec.Cmd) error {
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case err := <-exited:
		if ctx.Err() != nil {
			return nil
		}
		return serverExitError(err)
	case <-ctx.Done():
	}

	shutdownServer(cmd.Process, exited)
	return nil
}

// shutdownServer sends SIGINT so gunicorn can drain its workers, and falls
// back to SIGKILL if the process is still alive after the grace period.
func shutdownServer(proc *os.Process, exited <-chan error) {
	if proc == nil {
		return
	}

	if runtime.GOOS != "windows" {
		_ = proc.Signal(os.Interrupt)
		select {
		case <-exited:
			return
		case <-time.After(serverGracefulShutdownTimeout):
		}
	}

	_ = proc.Kill()
	<-exited
}

func serverExitError(waitErr error) error {
	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return fmt.Errorf("%w: %d", ErrServerNonZeroExit, exitErr.ExitCode())
	}
	return fmt.Errorf("failed waiting for server process: %w", waitErr)
}

// childEnv builds the server environment from explicit overrides plus the
// allowlisted subset of the parent environment. Overrides always win.
func childEnv(overrides map[string]string) []string {
	env := make([]string, 0, len(overrides)+len(allowedParentEnvKeys))
	for key, value := range overrides {
		env = append(env, key+"="+value)
	}

	for _, key := range allowedParentEnvKeys {
		if _, overridden := overrides[key]; overridden {
			continue
		}
		if value, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+value)
		}
	}

	return env
}
