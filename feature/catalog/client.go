package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Config holds configuration for the catalog service.
type Config struct {
	// BaseURL is the catalog API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.modrinth.com/v2"`
	// TimeoutSeconds bounds a single catalog lookup.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Client looks up release descriptors from the upstream catalog. Both
// operations may fail transiently; callers treat failure as "no
// information", never as fatal.
type Client interface {
	// LatestRelease returns the newest release of a project compatible
	// with the game version and loader, or nil when none matches.
	LatestRelease(ctx context.Context, projectID, gameVersion, loader string) (*Release, error)
	// ReleaseByID returns the release with the given version ID.
	ReleaseByID(ctx context.Context, versionID string) (*Release, error)
}

// HTTPClient is the production catalog client.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a catalog client from the configuration.
func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// LatestRelease implements Client. The catalog filters server-side via the
// loaders / game_versions query parameters (JSON array encoded); results
// are filtered again client-side because the catalog may return releases
// that only partially match.
func (c *HTTPClient) LatestRelease(ctx context.Context, projectID, gameVersion, loader string) (*Release, error) {
	loaders, _ := json.Marshal([]string{loader})
	gameVersions, _ := json.Marshal([]string{gameVersion})

	query := url.Values{}
	query.Set("loaders", string(loaders))
	query.Set("game_versions", string(gameVersions))

	endpoint := fmt.Sprintf("%s/project/%s/version?%s", c.baseURL, url.PathEscape(projectID), query.Encode())

	var releases []Release
	if err := c.getJSON(ctx, endpoint, &releases); err != nil {
		return nil, err
	}

	// Releases come newest first; the first full match wins.
	for i := range releases {
		if releases[i].Supports(gameVersion, loader) {
			return &releases[i], nil
		}
	}
	return nil, nil
}

// ReleaseByID implements Client.
func (c *HTTPClient) ReleaseByID(ctx context.Context, versionID string) (*Release, error) {
	endpoint := fmt.Sprintf("%s/version/%s", c.baseURL, url.PathEscape(versionID))

	var release Release
	if err := c.getJSON(ctx, endpoint, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog request failed: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}
