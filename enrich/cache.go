package enrich

import (
	"context"
	"time"

	"tempotoggl/jira"
)

// IssueStore is the persistence surface the read-through cache needs.
// storage.SQLiteStore satisfies it.
type IssueStore interface {
	GetIssue(issueURL string) (jira.Issue, time.Time, bool, error)
	PutIssue(issueURL string, issue jira.Issue) error
}

// CachedLookup serves issue lookups from a local store before falling back to
// the wrapped lookup. Issue key and summary are effectively immutable, so
// cache entries only expire after MaxAge.
type CachedLookup struct {
	Store  IssueStore
	Next   jira.IssueLookup
	MaxAge time.Duration
}

func (c *CachedLookup) GetIssue(ctx context.Context, issueURL string) (jira.Issue, error) {
	if c.Store != nil {
		issue, fetchedAt, found, err := c.Store.GetIssue(issueURL)
		if err == nil && found && (c.MaxAge <= 0 || time.Since(fetchedAt) <= c.MaxAge) {
			return issue, nil
		}
		// A broken or stale cache never blocks the lookup itself.
	}

	issue, err := c.Next.GetIssue(ctx, issueURL)
	if err != nil {
		return jira.Issue{}, err
	}

	if c.Store != nil {
		_ = c.Store.PutIssue(issueURL, issue)
	}
	return issue, nil
}
