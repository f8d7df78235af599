package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridwatch/internal/api/handlers"
	"gridwatch/internal/models"
	"gridwatch/internal/repository"
	"gridwatch/internal/validation"
)

type stubZoneRepo struct {
	zones []models.BiddingZone
}

func (r *stubZoneRepo) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}
func (r *stubZoneRepo) DB() *sql.DB { return nil }

func (r *stubZoneRepo) ListActive(ctx context.Context) ([]models.BiddingZone, error) {
	return r.zones, nil
}

func (r *stubZoneRepo) GetByCode(ctx context.Context, zoneCode string) (*models.BiddingZone, error) {
	for i := range r.zones {
		if r.zones[i].ZoneCode == zoneCode {
			return &r.zones[i], nil
		}
	}
	return nil, repository.ErrZoneNotFound
}

func (r *stubZoneRepo) GetByCountry(ctx context.Context, countryCode string) ([]models.BiddingZone, error) {
	var out []models.BiddingZone
	for _, z := range r.zones {
		if z.CountryCode == countryCode {
			out = append(out, z)
		}
	}
	return out, nil
}

func (r *stubZoneRepo) ListCountries(ctx context.Context) ([]models.Country, error) {
	seen := map[string]bool{}
	var out []models.Country
	for _, z := range r.zones {
		if !seen[z.CountryCode] {
			seen[z.CountryCode] = true
			out = append(out, models.Country{CountryCode: z.CountryCode, CountryName: z.CountryName})
		}
	}
	return out, nil
}

type stubPriceRepo struct {
	points []models.PricePoint
}

func (r *stubPriceRepo) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}
func (r *stubPriceRepo) DB() *sql.DB { return nil }

func (r *stubPriceRepo) UpsertBatch(ctx context.Context, points []models.PricePoint) (int, error) {
	return len(points), nil
}

func (r *stubPriceRepo) MissingZones(ctx context.Context, date time.Time, zones []models.BiddingZone) ([]models.BiddingZone, error) {
	return nil, nil
}

func (r *stubPriceRepo) IsComplete(ctx context.Context, date time.Time, zones []models.BiddingZone) (bool, error) {
	return true, nil
}

func (r *stubPriceRepo) GetByZone(ctx context.Context, zoneCode string, start, end time.Time) ([]models.PricePoint, error) {
	var out []models.PricePoint
	for _, p := range r.points {
		if p.ZoneCode == zoneCode && !p.Timestamp.Before(start) && p.Timestamp.Before(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPriceRepo) GetByCountry(ctx context.Context, countryCode string, start, end time.Time) (map[string][]models.PricePoint, error) {
	out := map[string][]models.PricePoint{}
	for _, p := range r.points {
		out[p.ZoneCode] = append(out[p.ZoneCode], p)
	}
	return out, nil
}

func (r *stubPriceRepo) GetLatest(ctx context.Context, maxAgeHours *int) ([]models.PricePoint, error) {
	return r.points, nil
}

func (r *stubPriceRepo) FindGaps(ctx context.Context, start, end time.Time, zoneCodes []string) ([]repository.Gap, error) {
	return nil, nil
}

func priceRouter(prices *stubPriceRepo, zones *stubZoneRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Initialize()
	handler := handlers.NewPriceHandler(prices, zones)
	r := gin.New()
	r.GET("/prices/latest", handler.GetLatestPrices)
	r.GET("/prices/zone/:zone", handler.GetZonePrices)
	r.GET("/prices/country/:country", handler.GetCountryPrices)
	return r
}

func testZone(code, country string) models.BiddingZone {
	return models.BiddingZone{
		ZoneCode:    code,
		ZoneName:    code + " zone",
		CountryCode: country,
		CountryName: country,
		EICCode:     "10YNO-1--------2",
		Timezone:    "Europe/Oslo",
		Active:      true,
	}
}

func TestGetZonePrices(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Hour)
	prices := &stubPriceRepo{points: []models.PricePoint{
		{Timestamp: now, ZoneCode: "NO1", PriceKWh: 0.085, Currency: "EUR", Resolution: models.ResolutionHour},
		{Timestamp: now.Add(time.Hour), ZoneCode: "NO1", PriceKWh: 0.091, Currency: "EUR", Resolution: models.ResolutionHour},
	}}
	zones := &stubZoneRepo{zones: []models.BiddingZone{testZone("NO1", "NO")}}
	router := priceRouter(prices, zones)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCount  int
	}{
		{name: "Success", path: "/prices/zone/NO1", wantStatus: http.StatusOK, wantCount: 2},
		{name: "Error_UnknownZone", path: "/prices/zone/XX9", wantStatus: http.StatusNotFound},
		{name: "Error_InvalidZoneCode", path: "/prices/zone/no1", wantStatus: http.StatusBadRequest},
		{name: "Error_BadStart", path: "/prices/zone/NO1?start=yesterday", wantStatus: http.StatusBadRequest},
		{name: "Error_EndBeforeStart", path: "/prices/zone/NO1?start=2025-03-10&end=2025-03-01", wantStatus: http.StatusBadRequest},
		{name: "Error_RangeTooWide", path: "/prices/zone/NO1?start=2025-01-01&end=2025-03-01", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tt.path, nil)
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp models.ZonePricesResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "NO1", resp.ZoneCode)
				assert.Equal(t, "EUR", resp.Currency)
				assert.Len(t, resp.Prices, tt.wantCount)
			}
		})
	}
}

func TestGetCountryPrices(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Hour)
	prices := &stubPriceRepo{points: []models.PricePoint{
		{Timestamp: now, ZoneCode: "NO1", PriceKWh: 0.085, Currency: "EUR"},
		{Timestamp: now, ZoneCode: "NO2", PriceKWh: 0.078, Currency: "EUR"},
	}}
	zones := &stubZoneRepo{zones: []models.BiddingZone{testZone("NO1", "NO"), testZone("NO2", "NO")}}
	router := priceRouter(prices, zones)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/prices/country/NO", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CountryPricesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO", resp.CountryCode)
	assert.Len(t, resp.Zones, 2)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/prices/country/XX", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/prices/country/norway", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatestPrices(t *testing.T) {
	prices := &stubPriceRepo{points: []models.PricePoint{
		{Timestamp: time.Now().UTC(), ZoneCode: "NO1", PriceKWh: 0.085, Currency: "EUR"},
	}}
	router := priceRouter(prices, &stubZoneRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/prices/latest?max_age_hours=24", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []models.PricePoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/prices/latest?max_age_hours=-1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
