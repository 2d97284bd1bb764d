package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

func main() {
	os.Exit(mainRun())
}

func parseLogLevel() slog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		return slog.LevelInfo
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(levelStr))); err != nil {
		return slog.LevelInfo
	}

	return level
}

func mainRun() int {
	// Set up a context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize slog with text handler for CLI output
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(),
	}))
	slog.SetDefault(logger)

	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		// flag.FlagSet will have already written details to stderr (via fs.SetOutput)
		return 2
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.ErrorContext(ctx, "Error", "err", err)
		return 1
	}
	cfg = applyOptions(cfg, opts)

	mode, err := normalizeMode(cfg.Mode)
	if err != nil {
		slog.ErrorContext(ctx, "Error", "err", err)
		return 1
	}
	cfg.Mode = mode

	if err := run(ctx, cfg, opts); err != nil {
		slog.ErrorContext(ctx, "Error", "err", err)
		return 1
	}
	return 0
}

// runner interface for dependency injection
type runner interface {
	installDeps(ctx context.Context, cfg config) error
	fetchTool(ctx context.Context, cfg config) (string, error)
	verifyTool(ctx context.Context, cfg config, toolPath string) error
	launchServer(ctx context.Context, cfg config, reload bool) error
}

// realRunner implements runner using actual implementations
type realRunner struct {
	streams *ioStreams
	ex      execer
}

func newRealRunner() *realRunner {
	return &realRunner{
		streams: defaultIOStreams(),
		ex:      realExecer{},
	}
}

func (r *realRunner) installDeps(ctx context.Context, cfg config) error {
	return installDependencies(ctx, r.ex, cfg.App.Requirements, r.streams)
}

func (r *realRunner) fetchTool(ctx context.Context, cfg config) (string, error) {
	return fetchTool(ctx, newReleasesClient(ctx), cfg.Release)
}

func (r *realRunner) verifyTool(ctx context.Context, cfg config, toolPath string) error {
	return verifyTool(ctx, r.ex, toolPath, r.streams)
}

func (r *realRunner) launchServer(ctx context.Context, cfg config, reload bool) error {
	if cfg.Mode == modeDev && reload {
		return runDevServerWithReload(ctx, cfg, r.streams)
	}
	return runServerOnce(ctx, cfg, r.streams)
}

func run(ctx context.Context, cfg config, opts options) error {
	return runWithRunner(ctx, newRealRunner(), cfg, opts)
}

func runWithRunner(ctx context.Context, r runner, cfg config, opts options) error {
	toolPath := filepath.Join(cfg.Release.BinDir, cfg.Release.Tool)

	var steps []step

	if opts.skipInstall {
		slog.InfoContext(ctx, "⏭️  Skipping dependency install")
	} else {
		steps = append(steps, step{name: "install dependencies", run: func(ctx context.Context) error {
			slog.InfoContext(ctx, "🐍 Installing Python dependencies...")
			return r.installDeps(ctx, cfg)
		}})
	}

	if opts.skipFetch {
		slog.InfoContext(ctx, "⏭️  Skipping release fetch", "tool", toolPath)
	} else {
		steps = append(steps, step{name: "fetch release", run: func(ctx context.Context) error {
			slog.InfoContext(ctx, "📦 Fetching latest release...", "repo", cfg.Release.Repo)
			installed, err := r.fetchTool(ctx, cfg)
			if err != nil {
				return err
			}
			toolPath = installed
			return nil
		}})
	}

	steps = append(steps,
		step{name: "verify tool", run: func(ctx context.Context) error {
			slog.InfoContext(ctx, "🔎 Verifying tool...", "tool", toolPath)
			return r.verifyTool(ctx, cfg, toolPath)
		}},
		step{name: "launch server", run: func(ctx context.Context) error {
			slog.InfoContext(ctx, "✅ Ready! Launching server...", "mode", cfg.Mode)
			return r.launchServer(ctx, cfg, opts.reload)
		}},
	)

	if err := runSteps(ctx, steps); err != nil {
		return err
	}

	slog.InfoContext(ctx, "👋 Server stopped.")
	return nil
}
