package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// fetchTool resolves the latest release of the configured repository, picks
// the asset for the configured platform, downloads and extracts it in a
// staging directory, and installs the executable into the bin directory.
// It returns the installed executable path.
func fetchTool(ctx context.Context, client releasesClient, rel releaseConfig) (string, error) {
	latest, err := client.latestRelease(ctx, rel.Repo)
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "✅ Resolved latest release", "repo", rel.Repo, "tag", latest.TagName)

	selected, err := selectAsset(latest.Assets, rel.Platform)
	if err != nil {
		return "", fmt.Errorf("release %s of %s: %w", latest.TagName, rel.Repo, err)
	}
	slog.InfoContext(ctx, "⬇️  Downloading asset", "name", selected.Name)

	stageDir, cleanup, err := createStagingDirWithFallback(stagingParentDirs())
	if err != nil {
		return "", err
	}
	defer cleanup()

	archivePath := filepath.Join(stageDir, rel.Tool+".tar.gz")
	written, err := downloadAsset(ctx, selected.BrowserDownloadURL, archivePath)
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "✅ Downloaded archive", "bytes", written)

	stagedTool := filepath.Join(stageDir, rel.Tool)
	if err := extractToolExecutable(archivePath, rel.Tool, stagedTool); err != nil {
		return "", err
	}

	if err := os.MkdirAll(rel.BinDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create bin directory %q: %w", rel.BinDir, err)
	}

	installedPath := filepath.Join(rel.BinDir, rel.Tool)
	if err := moveExecutable(stagedTool, installedPath); err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "✅ Installed tool", "path", installedPath)

	return installedPath, nil
}

// moveExecutable renames src to dest, falling back to a copy when the two
// paths live on different filesystems.
func moveExecutable(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open staged executable %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create installed executable %q: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("failed to copy executable to %q: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("failed to close installed executable %q: %w", dest, err)
	}

	// The file mode at creation can be narrowed by the umask.
	if err := os.Chmod(dest, 0o755); err != nil {
		return fmt.Errorf("failed to mark %q executable: %w", dest, err)
	}

	return nil
}
