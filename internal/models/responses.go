package models

import "time"

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error string `json:"error" example:"zone not found"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string    `json:"status" example:"healthy"`
	Time   time.Time `json:"time"`
}

// ReadyResponse reports readiness including the database dependency.
type ReadyResponse struct {
	Status   string    `json:"status" example:"ready"`
	Database string    `json:"database" example:"connected"`
	Time     time.Time `json:"time"`
}

// ZonePricesResponse wraps a zone's price points for the read API.
type ZonePricesResponse struct {
	ZoneCode string       `json:"zone_code" example:"NO1"`
	ZoneName string       `json:"zone_name" example:"Oslo"`
	Currency string       `json:"currency" example:"EUR"`
	Prices   []PricePoint `json:"prices"`
}

// CountryPricesResponse groups price points per zone of one country.
type CountryPricesResponse struct {
	CountryCode string                  `json:"country_code" example:"NO"`
	CountryName string                  `json:"country_name" example:"Norway"`
	Zones       map[string][]PricePoint `json:"zones"`
}

// FetchTriggerResponse reports the outcome of a manually triggered run.
type FetchTriggerResponse struct {
	ZonesSucceeded int    `json:"zones_succeeded"`
	ZonesFailed    int    `json:"zones_failed"`
	ZonesNoData    int    `json:"zones_no_data"`
	PricesStored   int    `json:"prices_stored"`
	Skipped        bool   `json:"skipped"`
	Message        string `json:"message,omitempty"`
}

// BackfillRequest describes a gap backfill over a closed date range.
type BackfillRequest struct {
	StartDate string   `json:"start_date" binding:"required,date" example:"2025-03-01"`
	EndDate   string   `json:"end_date" binding:"required,date" example:"2025-03-31"`
	Zones     []string `json:"zones,omitempty" binding:"omitempty,dive,zone_code" example:"NO1,NO2"`
}

// BackfillResponse summarizes a completed backfill.
type BackfillResponse struct {
	DatesChecked  int      `json:"dates_checked"`
	DatesWithGaps int      `json:"dates_with_gaps"`
	PricesFetched int      `json:"prices_fetched"`
	PricesStored  int      `json:"prices_stored"`
	Errors        []string `json:"errors,omitempty"`
}
