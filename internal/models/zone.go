package models

import (
	"time"
)

// BiddingZone represents a market area in the zone registry. Zones are
// reference data: managed out-of-band, read-only to the fetch pipeline.
type BiddingZone struct {
	ZoneCode    string    `json:"zone_code" db:"zone_code" binding:"required" example:"NO1"`
	ZoneName    string    `json:"zone_name" db:"zone_name" binding:"required" example:"Oslo"`
	CountryCode string    `json:"country_code" db:"country_code" binding:"required" example:"NO"`
	CountryName string    `json:"country_name" db:"country_name" example:"Norway"`
	EICCode     string    `json:"eic_code" db:"eic_code" binding:"required,len=16" example:"10YNO-1--------2"`
	Timezone    string    `json:"timezone" db:"timezone" binding:"required" example:"Europe/Oslo"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Location resolves the zone's IANA timezone.
func (z *BiddingZone) Location() (*time.Location, error) {
	return time.LoadLocation(z.Timezone)
}

// Country pairs a country code with its display name.
type Country struct {
	CountryCode string `json:"country_code" example:"NO"`
	CountryName string `json:"country_name" example:"Norway"`
}
