package enrich

import (
	"context"
	"sync"

	"tempotoggl/jira"
	"tempotoggl/tempo"
)

const defaultConcurrency = 5

// Service resolves issue keys and summaries for worklog batches. Enrichment
// is best effort: a lookup that fails leaves its worklogs unresolved and the
// batch continues.
type Service struct {
	lookup      jira.IssueLookup
	concurrency int
}

func NewService(lookup jira.IssueLookup, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Service{lookup: lookup, concurrency: concurrency}
}

// EnrichWorklogs returns a copy of the batch with issue key and summary
// attached wherever the referenced issue resolved. Each distinct issue URL is
// fetched at most once, with at most s.concurrency lookups in flight; all
// lookups are joined before the result is assembled.
func (s *Service) EnrichWorklogs(ctx context.Context, worklogs []tempo.Worklog) []tempo.Worklog {
	out := append([]tempo.Worklog(nil), worklogs...)
	if s.lookup == nil {
		return out
	}

	urls := distinctIssueURLs(worklogs)
	if len(urls) == 0 {
		return out
	}

	resolved := s.resolveAll(ctx, urls)

	for i := range out {
		issue, ok := resolved[out[i].Issue.Self]
		if !ok {
			continue
		}
		out[i].Issue.Key = issue.Key
		out[i].Issue.Summary = issue.Summary
	}

	return out
}

func (s *Service) resolveAll(ctx context.Context, urls []string) map[string]jira.Issue {
	resolved := make(map[string]jira.Issue, len(urls))

	var mu sync.Mutex
	var wg sync.WaitGroup
	slots := make(chan struct{}, s.concurrency)

	for _, issueURL := range urls {
		wg.Add(1)
		slots <- struct{}{}
		go func(issueURL string) {
			defer wg.Done()
			defer func() { <-slots }()

			issue, err := s.lookup.GetIssue(ctx, issueURL)
			if err != nil {
				// Failed lookups resolve to empty detail instead of
				// aborting the batch.
				issue = jira.Issue{}
			}

			mu.Lock()
			resolved[issueURL] = issue
			mu.Unlock()
		}(issueURL)
	}
	wg.Wait()

	return resolved
}

func distinctIssueURLs(worklogs []tempo.Worklog) []string {
	seen := make(map[string]struct{}, len(worklogs))
	urls := make([]string, 0, len(worklogs))
	for _, w := range worklogs {
		if w.Issue.Self == "" {
			continue
		}
		if _, ok := seen[w.Issue.Self]; ok {
			continue
		}
		seen[w.Issue.Self] = struct{}{}
		urls = append(urls, w.Issue.Self)
	}
	return urls
}
