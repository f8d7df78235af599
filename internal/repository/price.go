package repository

import (
	"context"
	"time"

	"gridwatch/internal/models"
)

// Gap identifies a zone/date with fewer stored slots than expected.
type Gap struct {
	Date      time.Time
	ZoneCode  string
	SlotCount int
}

// PriceRepository defines the interface for price-related database operations.
// UpsertBatch is the only write path for prices: the (timestamp, zone) key is
// never duplicated, and each call is atomic.
type PriceRepository interface {
	Repository
	// UpsertBatch inserts or overwrites the given points in one transaction
	// and returns the number of rows written.
	UpsertBatch(ctx context.Context, points []models.PricePoint) (int, error)
	// MissingZones returns the subset of zones that do not yet have a stored
	// point for every expected slot of the zone-local calendar date.
	MissingZones(ctx context.Context, date time.Time, zones []models.BiddingZone) ([]models.BiddingZone, error)
	// IsComplete reports whether every zone has all expected slots stored for
	// the given calendar date. This is the scheduler's skip predicate.
	IsComplete(ctx context.Context, date time.Time, zones []models.BiddingZone) (bool, error)
	GetByZone(ctx context.Context, zoneCode string, start, end time.Time) ([]models.PricePoint, error)
	GetByCountry(ctx context.Context, countryCode string, start, end time.Time) (map[string][]models.PricePoint, error)
	GetLatest(ctx context.Context, maxAgeHours *int) ([]models.PricePoint, error)
	// FindGaps returns (date, zone) pairs in the range with fewer than the
	// expected number of hourly slots.
	FindGaps(ctx context.Context, start, end time.Time, zoneCodes []string) ([]Gap, error)
}

// ZoneRepository reads the bidding-zone registry. The registry is managed
// out-of-band; the core only consumes it.
type ZoneRepository interface {
	Repository
	ListActive(ctx context.Context) ([]models.BiddingZone, error)
	GetByCode(ctx context.Context, zoneCode string) (*models.BiddingZone, error)
	GetByCountry(ctx context.Context, countryCode string) ([]models.BiddingZone, error)
	ListCountries(ctx context.Context) ([]models.Country, error)
}

// FetchLogRepository appends run records to the fetch log.
type FetchLogRepository interface {
	Repository
	// Create inserts a pending record for a starting run and fills in the id.
	Create(ctx context.Context, attempt *models.FetchAttempt) error
	// Complete finalizes a run record exactly once.
	Complete(ctx context.Context, attempt *models.FetchAttempt) error
	ListRecent(ctx context.Context, limit int) ([]models.FetchAttempt, error)
}
