package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridwatch/internal/repository"
	"gridwatch/internal/repository/postgres/integration"
)

func TestZoneRepository_ListActive(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	zones, err := tc.ZoneRepo.ListActive(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, zones, "migration seeds the zone registry")

	for _, zone := range zones {
		assert.True(t, zone.Active)
		_, err := zone.Location()
		assert.NoError(t, err, "every seeded zone must carry a loadable timezone")
	}

	// Deactivated zones disappear from the registry.
	tc.ExecuteSQL("UPDATE bidding_zones SET active = FALSE WHERE zone_code = 'NO1'")
	after, err := tc.ZoneRepo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(zones)-1)
}

func TestZoneRepository_GetByCode(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	zone, err := tc.ZoneRepo.GetByCode(ctx, "NO1")
	require.NoError(t, err)
	assert.Equal(t, "NO1", zone.ZoneCode)
	assert.Equal(t, "NO", zone.CountryCode)
	assert.Equal(t, "10YNO-1--------2", zone.EICCode)
	assert.Equal(t, "Europe/Oslo", zone.Timezone)

	_, err = tc.ZoneRepo.GetByCode(ctx, "XX9")
	assert.ErrorIs(t, err, repository.ErrZoneNotFound)
}

func TestZoneRepository_GetByCountry(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	zones, err := tc.ZoneRepo.GetByCountry(ctx, "NO")
	require.NoError(t, err)
	assert.Len(t, zones, 5)
	for _, zone := range zones {
		assert.Equal(t, "NO", zone.CountryCode)
	}

	zones, err = tc.ZoneRepo.GetByCountry(ctx, "XX")
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestZoneRepository_ListCountries(t *testing.T) {
	tc := integration.NewTestContext(t)

	countries, err := tc.ZoneRepo.ListCountries(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, countries)

	seen := map[string]bool{}
	for _, country := range countries {
		assert.False(t, seen[country.CountryCode], "countries must be distinct")
		seen[country.CountryCode] = true
	}
	assert.True(t, seen["NO"])
	assert.True(t, seen["SE"])
}
