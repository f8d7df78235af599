package models

import (
	"time"
)

// FetchStatus is the terminal classification of one scheduled run.
type FetchStatus string

const (
	FetchStatusPending  FetchStatus = "pending"
	FetchStatusSuccess  FetchStatus = "success"
	FetchStatusNoData   FetchStatus = "nodata"
	FetchStatusError    FetchStatus = "error"
	FetchStatusDegraded FetchStatus = "degraded"
)

// ZoneError records a single zone's failure within a run.
type ZoneError struct {
	ZoneCode string `json:"zone_code" example:"NO1"`
	Error    string `json:"error" example:"unexpected HTTP status 400"`
}

// FetchAttempt is one append-only fetch-log record. It is created when a
// scheduled run starts and completed exactly once when the run ends.
type FetchAttempt struct {
	ID             int64       `json:"id" db:"id"`
	StartedAt      time.Time   `json:"started_at" db:"started_at"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
	TargetDate     time.Time   `json:"target_date" db:"target_date"`
	ZonesAttempted int         `json:"zones_attempted" db:"zones_attempted"`
	ZonesSucceeded int         `json:"zones_succeeded" db:"zones_succeeded"`
	ZonesFailed    int         `json:"zones_failed" db:"zones_failed"`
	ZonesNoData    int         `json:"zones_no_data" db:"zones_no_data"`
	PricesStored   int         `json:"prices_stored" db:"prices_stored"`
	Status         FetchStatus `json:"status" db:"status"`
	ZoneErrors     []ZoneError `json:"zone_errors,omitempty" db:"error_details"`
	DurationMs     *int        `json:"duration_ms,omitempty" db:"duration_ms"`
}
