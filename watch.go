package main

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// runDevServerWithReload keeps a dev server running and restarts it whenever
// a Python source file under the working directory changes.
func runDevServerWithReload(ctx context.Context, cfg config, streams *ioStreams) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watchSourceDirs(watcher, ".", cfg.Release.BinDir); err != nil {
		return err
	}

	changed := make(chan string, 1)
	go notifySourceChanges(ctx, watcher, changed)

	for {
		iterCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- runServerOnce(iterCtx, cfg, streams)
		}()

		select {
		case err := <-done:
			cancel()
			if ctx.Err() != nil {
				return nil
			}
			return err
		case name := <-changed:
			slog.InfoContext(ctx, "♻️  Source changed, restarting dev server", "file", name)
			cancel()
			<-done
			drainChanges(changed)
		case <-ctx.Done():
			cancel()
			<-done
			return nil
		}
	}
}

// watchSourceDirs registers root and its subdirectories, skipping hidden
// directories and the tool install directory. Paths are compared in absolute
// form so a relative walk still skips an absolute bin-dir setting.
func watchSourceDirs(watcher *fsnotify.Watcher, root, binDir string) error {
	absBin, err := filepath.Abs(binDir)
	if err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		name := entry.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "__pycache__" || absPath == absBin) {
			return filepath.SkipDir
		}

		return watcher.Add(path)
	})
}

func notifySourceChanges(ctx context.Context, watcher *fsnotify.Watcher, changed chan<- string) {
	timer := time.NewTimer(reloadDebounce)
	defer timer.Stop()
	stopDebounceTimer(timer)

	var (
		pending string
		armed   bool
	)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isSourceChange(event) {
				continue
			}
			pending = event.Name
			if armed {
				stopDebounceTimer(timer)
			}
			timer.Reset(reloadDebounce)
			armed = true
		case <-timer.C:
			if !armed {
				continue
			}
			armed = false
			select {
			case changed <- pending:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.WarnContext(ctx, "file watcher error", "err", err)
		case <-ctx.Done():
			return
		}
	}
}

func stopDebounceTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func isSourceChange(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasSuffix(event.Name, ".py")
}

func drainChanges(changed <-chan string) {
	for {
		select {
		case <-changed:
		default:
			return
		}
	}
}
