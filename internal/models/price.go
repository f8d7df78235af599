package models

import (
	"time"
)

// Resolution tags as published by ENTSO-E. Sub-hourly resolutions are stored
// as-is; the tag is passed through without aggregation.
const (
	ResolutionQuarterHour = "PT15M"
	ResolutionHalfHour    = "PT30M"
	ResolutionHour        = "PT60M"
)

// PricePoint is one day-ahead price observation for a single slot.
/// Identity key is (Timestamp, ZoneCode): re-fetching the same slot overwrites
// the price and fetch time, never duplicates the row.
type PricePoint struct {
	Timestamp  time.Time `json:"timestamp" db:"timestamp" example:"2025-03-29T23:00:00Z"`
	ZoneCode   string    `json:"zone_code" db:"bidding_zone" example:"NO1"`
	PriceKWh   float64   `json:"price_kwh" db:"price_kwh" example:"0.0425"`
	Currency   string    `json:"currency" db:"currency" example:"EUR"`
	Resolution string    `json:"resolution" db:"resolution" example:"PT60M"`
	FetchedAt  time.Time `json:"fetched_at" db:"fetched_at"`
}

// PricePointFromMWh builds a PricePoint from an ENTSO-E price, which is
// quoted in EUR/MWh, converting to EUR/kWh.
func PricePointFromMWh(timestamp time.Time, zoneCode string, priceMWh float64, resolution string) PricePoint {
	return PricePoint{
		Timestamp:  timestamp,
		ZoneCode:   zoneCode,
		PriceKWh:   priceMWh / 1000.0,
		Currency:   "EUR",
		Resolution: resolution,
		FetchedAt:  time.Now().UTC(),
	}
}
