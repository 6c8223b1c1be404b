// Package github fetches a user's public repository list from the GitHub API.
// The lookup is an external collaborator: bounded timeout, failures surface as
// ErrLookupFailed rather than propagating transport detail.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"devconnect/internal/config"
)

// ErrLookupFailed is returned when GitHub is unavailable, times out, or
// responds with a non-success status.
var ErrLookupFailed = errors.New("github lookup failed")

// Repo is a single repository summary.
type Repo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
	Language    string `json:"language"`
}

// Client performs repository lookups against a configurable base URL so tests
// can point it at a local server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a lookup client with the configured bounded timeout.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.GithubAPIBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.GithubTimeout(),
		},
		logger: logger,
	}
}

var titleCaser = cases.Title(language.English)

// ListRepos returns the five most recent public repositories for a username.
func (c *Client) ListRepos(ctx context.Context, username string) ([]Repo, error) {
	lookupURL := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc",
		c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("GitHub lookup transport failure",
			slog.String("username", username), slog.Any("error", err))
		return nil, ErrLookupFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("GitHub lookup non-success status",
			slog.String("username", username), slog.Int("status", resp.StatusCode))
		return nil, ErrLookupFailed
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		c.logger.Debug("GitHub lookup malformed response",
			slog.String("username", username), slog.Any("error", err))
		return nil, ErrLookupFailed
	}

	for i := range repos {
		if repos[i].Language != "" {
			repos[i].Language = titleCaser.String(repos[i].Language)
		}
	}
	return repos, nil
}
