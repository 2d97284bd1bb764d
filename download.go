package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const downloadTimeout = 5 * time.Minute

// downloadAsset streams the asset at url into dest, following redirects.
// Release downloads are served from a separate host than the API, so this
// deliberately uses a plain HTTP client without API credentials.
func downloadAsset(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", releaseUserAgent)

	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxAPIErrorPreview))
		return 0, fmt.Errorf(
			"download of %s returned %d: %s",
			url,
			resp.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive file %q: %w", dest, err)
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return 0, fmt.Errorf("failed to write archive file %q: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return 0, fmt.Errorf("failed to close archive file %q: %w", dest, err)
	}

	return written, nil
}
