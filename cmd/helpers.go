package cmd

import (
	"fmt"
	"time"

	"tempotoggl/config"
	"tempotoggl/enrich"
	"tempotoggl/jira"
	"tempotoggl/storage"
	"tempotoggl/tempo"
	"tempotoggl/toggl"
)

const cliUserAgent = "tempotoggl/1.0"

func buildTempoClient(cfg *config.Config) (*tempo.HTTPClient, error) {
	client, err := tempo.NewClient(tempo.ClientConfig{
		BaseURL:   cfg.Tempo.BaseURL,
		APIToken:  cfg.Tempo.APIToken,
		UserAgent: cliUserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("build tempo client: %w", err)
	}
	return client, nil
}

func buildTogglClient(cfg *config.Config) (*toggl.HTTPClient, error) {
	client, err := toggl.NewClient(toggl.ClientConfig{
		BaseURL:   cfg.Toggl.BaseURL,
		APIToken:  cfg.Toggl.APIToken,
		UserAgent: cliUserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("build toggl client: %w", err)
	}
	return client, nil
}

// buildEnricher wires the Jira lookup, optionally behind the SQLite issue
// cache. It returns nil when Jira credentials are not configured; worklogs
// then keep their raw issue URLs. The returned closer is non-nil when a
// cache store was opened.
func buildEnricher(cfg *config.Config) (*enrich.Service, func() error, error) {
	if !cfg.Jira.Configured() {
		return nil, nil, nil
	}

	lookupClient, err := jira.NewClient(jira.ClientConfig{
		Email:     cfg.Jira.Email,
		APIToken:  cfg.Jira.APIToken,
		UserAgent: cliUserAgent,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build jira client: %w", err)
	}

	var lookup jira.IssueLookup = lookupClient
	var closer func() error
	if cfg.Cache.Enabled {
		store, err := storage.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open issue cache: %w", err)
		}
		closer = store.Close
		lookup = &enrich.CachedLookup{
			Store:  store,
			Next:   lookupClient,
			MaxAge: time.Duration(cfg.Cache.MaxAgeHours) * time.Hour,
		}
	}

	return enrich.NewService(lookup, cfg.Sync.LookupConcurrency), closer, nil
}
