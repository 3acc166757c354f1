package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tempotoggl/jira"

	_ "modernc.org/sqlite"
)

// SQLiteStore caches resolved Jira issue metadata between runs. Issue key and
// summary are the only values persisted; sync state itself is never stored.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS issues (
	issue_url TEXT PRIMARY KEY,
	issue_key TEXT NOT NULL,
	summary TEXT NOT NULL,
	fetched_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// GetIssue returns the cached issue and its fetch time. The second boolean
// result is false when the URL has never been cached.
func (s *SQLiteStore) GetIssue(issueURL string) (jira.Issue, time.Time, bool, error) {
	const query = `SELECT issue_key, summary, fetched_at FROM issues WHERE issue_url = ?;`

	var (
		issue        jira.Issue
		fetchedAtRaw string
	)
	err := s.db.QueryRow(query, issueURL).Scan(&issue.Key, &issue.Summary, &fetchedAtRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jira.Issue{}, time.Time{}, false, nil
		}
		return jira.Issue{}, time.Time{}, false, fmt.Errorf("query issue %q: %w", issueURL, err)
	}

	fetchedAt, err := time.Parse(time.RFC3339, fetchedAtRaw)
	if err != nil {
		return jira.Issue{}, time.Time{}, false, fmt.Errorf("parse fetched_at %q: %w", fetchedAtRaw, err)
	}

	return issue, fetchedAt, true, nil
}

// PutIssue inserts or refreshes one cached issue.
func (s *SQLiteStore) PutIssue(issueURL string, issue jira.Issue) error {
	if issueURL == "" {
		return fmt.Errorf("issue URL must not be empty")
	}

	const upsertStmt = `
INSERT INTO issues (issue_url, issue_key, summary, fetched_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(issue_url) DO UPDATE SET
	issue_key = excluded.issue_key,
	summary = excluded.summary,
	fetched_at = excluded.fetched_at;`

	if _, err := s.db.Exec(upsertStmt, issueURL, issue.Key, issue.Summary, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upsert issue %q: %w", issueURL, err)
	}
	return nil
}

func (s *SQLiteStore) CountIssues() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM issues;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count issues: %w", err)
	}
	return count, nil
}

// DeleteIssuesOlderThan removes entries fetched before the cutoff and returns
// the number of deleted rows.
func (s *SQLiteStore) DeleteIssuesOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM issues WHERE fetched_at < ?;`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("delete stale issues: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

func (s *SQLiteStore) DeleteAllIssues() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM issues;`)
	if err != nil {
		return 0, fmt.Errorf("delete issues: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}
