package models

import (
	"time"
)

type RunStatus string

const (
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusPartial   RunStatus = "PARTIAL"
	RunStatusFailed    RunStatus = "FAILED"
)

// HistoryEntry records when a posting was first accepted.
type HistoryEntry struct {
	Fingerprint string    `json:"fingerprint"`
	FirstSeenAt time.Time `json:"first_seen_at"`
}

// EvictionCutoff returns the latest first-seen time that counts as expired
// under a retention of days. Ages are compared in whole seconds, so an entry
// recorded during the current second is never older than zero days.
func EvictionCutoff(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days)*24*time.Hour - time.Second)
}

// Expired reports whether firstSeen is at or before cutoff.
func Expired(firstSeen, cutoff time.Time) bool {
	return !firstSeen.After(cutoff)
}

// RunRecord is one pipeline execution as persisted in job_runs.
type RunRecord struct {
	ID             string    `json:"id"`
	Status         RunStatus `json:"status"`
	Fetched        int       `json:"fetched"`
	Accepted       int       `json:"accepted"`
	Rejected       int       `json:"rejected"`
	ProviderCalls  int       `json:"provider_calls"`
	FailedSearches int       `json:"failed_searches"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}
