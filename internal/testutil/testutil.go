// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"gridwatch/internal/config"
	"gridwatch/internal/models"
	"gridwatch/internal/repository"
	"gridwatch/internal/repository/postgres"
	"gridwatch/internal/testutil/db"
	"gridwatch/internal/validation"
)

// TestContext holds common test dependencies
type TestContext struct {
	T            *testing.T
	DB           *sql.DB
	Config       *config.Config
	PriceRepo    repository.PriceRepository
	ZoneRepo     repository.ZoneRepository
	FetchLogRepo repository.FetchLogRepository
}

// NewTestContext creates a new test context with a migrated database
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validation.Initialize()

	cfg := db.LoadTestConfig(t)
	testDB := db.SetupTestDB(t, &cfg.Database)

	tc := &TestContext{
		T:            t,
		DB:           testDB,
		Config:       cfg,
		PriceRepo:    postgres.NewPriceRepository(testDB),
		ZoneRepo:     postgres.NewZoneRepository(testDB),
		FetchLogRepo: postgres.NewFetchLogRepository(testDB),
	}

	t.Cleanup(func() {
		tc.cleanup()
	})

	return tc
}

// cleanup performs necessary cleanup after tests
func (tc *TestContext) cleanup() {
	if tc.DB != nil {
		if err := db.CleanupTestDB(tc.DB); err != nil {
			tc.T.Errorf("Failed to cleanup test database: %v", err)
		}
		tc.DB.Close()
	}
}

// CreateTestZone inserts a bidding zone and returns it. The migration seeds
// real zones; this is for zones the test controls completely.
func (tc *TestContext) CreateTestZone(zoneCode, countryCode, eicCode, timezone string) *models.BiddingZone {
	tc.T.Helper()

	_, err := tc.DB.Exec(`
		INSERT INTO bidding_zones (zone_code, zone_name, country_code, country_name, eic_code, timezone)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (zone_code) DO NOTHING`,
		zoneCode, zoneCode+" test zone", countryCode, countryCode, eicCode, timezone)
	require.NoError(tc.T, err, "Failed to create test zone")

	zone, err := tc.ZoneRepo.GetByCode(context.Background(), zoneCode)
	require.NoError(tc.T, err, "Failed to load test zone")
	return zone
}

// CreateHourlyPrices stores count consecutive hourly points for a zone
// starting at start, and returns them.
func (tc *TestContext) CreateHourlyPrices(zoneCode string, start time.Time, count int) []models.PricePoint {
	tc.T.Helper()

	points := make([]models.PricePoint, count)
	for i := range points {
		points[i] = models.PricePoint{
			Timestamp:  start.Add(time.Duration(i) * time.Hour),
			ZoneCode:   zoneCode,
			PriceKWh:   0.05 + float64(i)*0.001,
			Currency:   "EUR",
			Resolution: models.ResolutionHour,
			FetchedAt:  time.Now().UTC(),
		}
	}

	_, err := tc.PriceRepo.UpsertBatch(context.Background(), points)
	require.NoError(tc.T, err, "Failed to store test prices")
	return points
}

// DeactivateZones marks every seeded zone except the given codes inactive, so
// tests can work with a known registry.
func (tc *TestContext) DeactivateZones(keep ...string) {
	tc.T.Helper()

	_, err := tc.DB.Exec(`UPDATE bidding_zones SET active = FALSE WHERE zone_code != ALL($1)`,
		pq.Array(keep))
	require.NoError(tc.T, err, "Failed to deactivate zones")
}
