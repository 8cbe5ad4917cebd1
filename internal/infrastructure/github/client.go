package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	domainerrors "dandi.backend/internal/domain/errors"
)

const (
	// DefaultBaseURL is the GitHub REST API base URL
	DefaultBaseURL = "https://api.github.com"
	// DefaultTimeout bounds a single README fetch
	DefaultTimeout = 30 * time.Second
	// rawMediaType asks GitHub for the raw README body instead of the JSON envelope
	rawMediaType = "application/vnd.github.v3.raw"
)

// Client fetches repository content from the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Config holds configuration for the GitHub client
type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a new GitHub content client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "dandi-backend"
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// GetReadme fetches the raw README text for owner/repo.
// A 404 maps to ErrReadmeNotFound; every other failure, transport-level
// included, maps to ErrUpstreamFetchFailed. No retries.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/readme", c.baseURL, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrUpstreamFetchFailed, err)
	}
	req.Header.Set("Accept", rawMediaType)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrUpstreamFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", domainerrors.ErrReadmeNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: unexpected status %d", domainerrors.ErrUpstreamFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", domainerrors.ErrUpstreamFetchFailed, err)
	}
	return string(body), nil
}
