package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tempotoggl/internal/timeutil"
)

const (
	defaultBaseURL = "https://api.track.toggl.com/api/v9"

	// Toggl documents roughly one request per second for the track API.
	defaultRequestsPerSecond = 1
)

// Client defines the Toggl Track operations used by the sync pipeline.
type Client interface {
	ListTimeEntries(ctx context.Context, from, to string) ([]TimeEntry, error)
	CreateTimeEntry(ctx context.Context, entry TimeEntryRequest) (TimeEntry, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL           string
	APIToken          string
	UserAgent         string
	RequestsPerSecond float64
	HTTPClient        httpDoer
}

type HTTPClient struct {
	baseURL    string
	apiToken   string
	userAgent  string
	limiter    *rate.Limiter
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("toggl API token is required")
	}

	requestsPerSecond := cfg.RequestsPerSecond
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSecond
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		apiToken:   strings.TrimSpace(cfg.APIToken),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		httpClient: doer,
	}, nil
}

// TimeEntryRequest is the creation payload. Optional fields are pointers with
// omitempty: the API distinguishes an absent project from a null one, so
// unset values must disappear from the wire form entirely.
type TimeEntryRequest struct {
	WorkspaceID int64    `json:"workspace_id"`
	ProjectID   *int64   `json:"project_id,omitempty"`
	TaskID      *int64   `json:"task_id,omitempty"`
	Billable    bool     `json:"billable"`
	Start       string   `json:"start"`
	Duration    int      `json:"duration"`
	Description string   `json:"description"`
	CreatedWith string   `json:"created_with"`
	Tags        []string `json:"tags,omitempty"`
}

// TimeEntry is the shape returned by the API. For duplicate detection only
// Start is consulted; the rest is kept for reporting.
type TimeEntry struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
	Start       string `json:"start"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

// ListTimeEntries returns the authenticated user's entries whose start falls
// inside the inclusive date range (YYYY-MM-DD). The Toggl API treats
// end_date as exclusive, so the request sends the day after to.
func (c *HTTPClient) ListTimeEntries(ctx context.Context, from, to string) ([]TimeEntry, error) {
	toDay, err := timeutil.ParseDay(to)
	if err != nil {
		return nil, fmt.Errorf("parse range end %q: %w", to, err)
	}
	path := fmt.Sprintf(
		"/me/time_entries?start_date=%s&end_date=%s",
		url.QueryEscape(from),
		url.QueryEscape(timeutil.FormatDay(toDay.AddDate(0, 0, 1))),
	)
	var out []TimeEntry
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTimeEntry creates one entry in the workspace named by the payload.
func (c *HTTPClient) CreateTimeEntry(ctx context.Context, entry TimeEntryRequest) (TimeEntry, error) {
	if entry.WorkspaceID <= 0 {
		return TimeEntry{}, errors.New("workspace id must be > 0")
	}

	path := fmt.Sprintf("/workspaces/%d/time_entries", entry.WorkspaceID)
	var out TimeEntry
	if err := c.doJSON(ctx, http.MethodPost, path, entry, &out); err != nil {
		return TimeEntry{}, err
	}
	return out, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + endpointPath
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.apiToken, "api_token")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"request %s %s failed with status %d: %s",
			method,
			endpointPath,
			resp.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}
