package tempo

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

const defaultBaseURL = "https://api.tempo.io/4"

// Client defines the Tempo worklog operations used by the sync pipeline.
type Client interface {
	FetchWorklogs(ctx context.Context, from, to string) ([]Worklog, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	APIToken   string
	UserAgent  string
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	apiToken   string
	userAgent  string
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
		return nil, errors.New("tempo API token is required")
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		apiToken:   strings.TrimSpace(cfg.APIToken),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

// Worklog is a Tempo time-tracking record. IssueKey and IssueSummary are
// empty until enrichment resolves them from Jira.
type Worklog struct {
	TempoWorklogID   int64  `json:"tempoWorklogId"`
	Issue            Issue  `json:"issue"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	BillableSeconds  int    `json:"billableSeconds"`
	StartDateTimeUTC string `json:"startDateTimeUtc"`
	StartDate        string `json:"startDate"`
	StartTime        string `json:"startTime"`
	Description      string `json:"description"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
	Author           Author `json:"author"`
}

// Issue references the Jira issue a worklog was booked on. Self is the Jira
// REST URI and acts as the lookup key; Key and Summary are filled in by
// enrichment and stay empty when no resolution is available.
type Issue struct {
	Self    string `json:"self"`
	Key     string `json:"key,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type Author struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

type worklogsResponse struct {
	Results  []Worklog `json:"results"`
	Metadata struct {
		Count  int    `json:"count"`
		Offset int    `json:"offset"`
		Limit  int    `json:"limit"`
		Next   string `json:"next"`
	} `json:"metadata"`
}

// FetchWorklogs returns all worklogs with a start date inside the inclusive
// range, following metadata.next pagination until exhausted.
func (c *HTTPClient) FetchWorklogs(ctx context.Context, from, to string) ([]Worklog, error) {
	endpoint := fmt.Sprintf("%s/worklogs?from=%s&to=%s", c.baseURL, url.QueryEscape(from), url.QueryEscape(to))

	worklogs := make([]Worklog, 0, 64)
	for endpoint != "" {
		var page worklogsResponse
		if err := c.doJSON(ctx, http.MethodGet, endpoint, &page); err != nil {
			return nil, err
		}
		worklogs = append(worklogs, page.Results...)
		endpoint = strings.TrimSpace(page.Metadata.Next)
	}

	return worklogs, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpoint, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"request %s %s failed with status %d: %s",
			method,
			endpoint,
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
		return fmt.Errorf("decode response %s %s: %w", method, endpoint, err)
	}
	return nil
}
