package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeReleasesClient serves a canned release.
type fakeReleasesClient struct {
	rel *release
	err error
}

func (f *fakeReleasesClient) latestRelease(_ context.Context, _ string) (*release, error) {
	return f.rel, f.err
}

func TestFetchTool(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	archivePath := writeTarGzArchive(t, map[string]string{
		"tool-2.1/pandoc":    "binary-content",
		"tool-2.1/README.md": "readme",
	})
	archiveBytes, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("failed to read archive fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pandoc-2.1-linux-amd64.tar.gz" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archiveBytes)
	}))
	defer srv.Close()

	client := &fakeReleasesClient{rel: &release{
		TagName: "v2.1",
		Assets: []asset{
			{Name: "pandoc-2.1-windows.zip", BrowserDownloadURL: srv.URL + "/pandoc-2.1-windows.zip"},
			{Name: "pandoc-2.1-linux-amd64.tar.gz", BrowserDownloadURL: srv.URL + "/pandoc-2.1-linux-amd64.tar.gz"},
		},
	}}

	binDir := filepath.Join(t.TempDir(), "bin")
	installed, err := fetchTool(testContext(t), client, releaseConfig{
		Repo:     "jgm/pandoc",
		Platform: "linux-amd64",
		Tool:     "pandoc",
		BinDir:   binDir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if installed != filepath.Join(binDir, "pandoc") {
		t.Errorf("installed=%q, want %q", installed, filepath.Join(binDir, "pandoc"))
	}

	data, err := os.ReadFile(installed)
	if err != nil {
		t.Fatalf("failed to read installed tool: %v", err)
	}
	if string(data) != "binary-content" {
		t.Fatalf("unexpected installed content: %q", string(data))
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(installed)
		if err != nil {
			t.Fatalf("failed to stat installed tool: %v", err)
		}
		if info.Mode().Perm()&0o111 == 0 {
			t.Fatalf("installed tool is not executable: mode %v", info.Mode())
		}
	}
}

func TestFetchTool_NoMatchingAsset(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	client := &fakeReleasesClient{rel: &release{
		TagName: "v2.1",
		Assets: []asset{
			{Name: "pandoc-2.1-windows.zip", BrowserDownloadURL: "https://dl.example.test/pandoc-2.1-windows.zip"},
		},
	}}

	_, err := fetchTool(testContext(t), client, releaseConfig{
		Repo:     "jgm/pandoc",
		Platform: "linux-amd64",
		Tool:     "pandoc",
		BinDir:   t.TempDir(),
	})
	if !errors.Is(err, ErrNoMatchingAsset) {
		t.Fatalf("error=%v, want ErrNoMatchingAsset", err)
	}
}

func TestFetchTool_ReleaseQueryError(t *testing.T) {
	client := &fakeReleasesClient{err: errors.New("api rate limit exceeded")}

	_, err := fetchTool(testContext(t), client, releaseConfig{
		Repo:     "jgm/pandoc",
		Platform: "linux-amd64",
		Tool:     "pandoc",
		BinDir:   t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestMoveExecutable_CopyFallbackKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits are not meaningful on windows")
	}

	src := filepath.Join(t.TempDir(), "pandoc")
	if err := os.WriteFile(src, []byte("binary"), 0o755); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "bin", "pandoc")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		t.Fatalf("failed to create dest dir: %v", err)
	}

	if err := moveExecutable(src, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("failed to stat dest: %v", err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Fatalf("moved executable lost its executable bit: mode %v", info.Mode())
	}
}
