package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/cli/go-gh/v2/pkg/auth"
)

const (
	defaultAPIBase     = "https://api.github.com"
	releaseUserAgent   = "runway (+https://github.com/runway-sh/runway)"
	releaseAPITimeout  = 20 * time.Second
	maxAPIErrorPreview = 512
)

// release is the subset of the GitHub "latest release" response we consume.
type release struct {
	TagName string  `json:"tag_name"`
	Assets  []asset `json:"assets"`
}

// asset is a downloadable file attached to a release.
type asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// releasesClient queries the latest release of a repository.
type releasesClient interface {
	latestRelease(ctx context.Context, repo string) (*release, error)
}

// newReleasesClient prefers the gh CLI's authenticated REST client when a
// token is available, and falls back to tokenless requests otherwise
// (tokenless access works but is subject to much tighter rate limits).
// A RUNWAY_API_BASE override always routes through the plain client, token
// included, since go-gh's client is pinned to its configured GitHub host.
func newReleasesClient(ctx context.Context) releasesClient {
	host, _ := auth.DefaultHost()
	token, _ := auth.TokenForHost(host)
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	if base := apiBaseURL(); base != defaultAPIBase {
		return &plainReleasesClient{base: base, token: token}
	}

	if token == "" {
		slog.DebugContext(ctx, "no GitHub token found, querying releases anonymously")
		return &plainReleasesClient{base: apiBaseURL()}
	}

	client, err := api.NewRESTClient(api.ClientOptions{
		Host:      host,
		AuthToken: token,
		Timeout:   releaseAPITimeout,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to build authenticated GitHub client, querying anonymously", "err", err)
		return &plainReleasesClient{base: apiBaseURL()}
	}

	return &ghReleasesClient{rest: client}
}

func apiBaseURL() string {
	base := strings.TrimSpace(os.Getenv("RUNWAY_API_BASE"))
	if base == "" {
		return defaultAPIBase
	}
	return strings.TrimRight(base, "/")
}

// ghReleasesClient uses go-gh's REST client and its token handling.
type ghReleasesClient struct {
	rest *api.RESTClient
}

func (c *ghReleasesClient) latestRelease(ctx context.Context, repo string) (*release, error) {
	var rel release
	path := fmt.Sprintf("repos/%s/releases/latest", repo)
	if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &rel); err != nil {
		return nil, fmt.Errorf("failed to query latest release of %s: %w", repo, err)
	}
	return &rel, nil
}

// plainReleasesClient talks to the releases API with net/http directly,
// optionally attaching a bearer token. It serves both the tokenless fallback
// and non-default API bases.
type plainReleasesClient struct {
	base  string
	token string
}

func (c *plainReleasesClient) latestRelease(ctx context.Context, repo string) (*release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.base, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", releaseUserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	client := &http.Client{Timeout: releaseAPITimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest release of %s: %w", repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxAPIErrorPreview))
		return nil, fmt.Errorf(
			"releases API returned %d for %s: %s",
			resp.StatusCode,
			repo,
			strings.TrimSpace(string(body)),
		)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("failed to decode release response: %w", err)
	}
	return &rel, nil
}

// selectAsset picks the first asset whose download URL contains the platform
// marker. An empty candidate list and a marker with no match are distinct,
// explicit errors.
func selectAsset(assets []asset, platform string) (asset, error) {
	if len(assets) == 0 {
		return asset{}, ErrNoAssets
	}
	for _, a := range assets {
		if strings.Contains(a.BrowserDownloadURL, platform) {
			return a, nil
		}
	}
	return asset{}, fmt.Errorf("%w: marker=%q candidates=%d", ErrNoMatchingAsset, platform, len(assets))
}
