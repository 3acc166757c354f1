package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// IssueLookup resolves a Jira issue from its REST URI. Implementations may
// fail per call; callers decide whether a failed lookup is fatal.
type IssueLookup interface {
	GetIssue(ctx context.Context, issueURL string) (Issue, error)
}

// Issue holds the resolved detail attached to worklogs during enrichment.
type Issue struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	Email      string
	APIToken   string
	UserAgent  string
	HTTPClient httpDoer
}

type HTTPClient struct {
	email      string
	apiToken   string
	userAgent  string
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.Email) == "" {
		return nil, errors.New("jira email is required")
	}
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("jira API token is required")
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		email:      strings.TrimSpace(cfg.Email),
		apiToken:   strings.TrimSpace(cfg.APIToken),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

type issueResponse struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

// GetIssue fetches key and summary for the issue identified by its REST URI.
// The URI comes verbatim from Tempo worklog payloads and already points at
// the issue resource, so only the fields query is narrowed.
func (c *HTTPClient) GetIssue(ctx context.Context, issueURL string) (Issue, error) {
	trimmed := strings.TrimSpace(issueURL)
	if trimmed == "" {
		return Issue{}, errors.New("issue URL is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Issue{}, fmt.Errorf("invalid issue URL %q", issueURL)
	}

	query := parsed.Query()
	query.Set("fields", "summary")
	parsed.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return Issue{}, fmt.Errorf("create issue request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.email, c.apiToken)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Issue{}, fmt.Errorf("request issue %s failed: %w", issueURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Issue{}, fmt.Errorf(
			"request issue %s failed with status %d: %s",
			issueURL,
			resp.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	var out issueResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Issue{}, fmt.Errorf("decode issue response %s: %w", issueURL, err)
	}

	return Issue{Key: out.Key, Summary: out.Fields.Summary}, nil
}
