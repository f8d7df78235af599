package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gridwatch/internal/models"
	"gridwatch/internal/repository"
)

// maxRangeDays bounds a single price query.
const maxRangeDays = 31

// PriceHandler handles price-related requests
type PriceHandler struct {
	repo     repository.PriceRepository
	zoneRepo repository.ZoneRepository
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(repo repository.PriceRepository, zoneRepo repository.ZoneRepository) *PriceHandler {
	return &PriceHandler{repo: repo, zoneRepo: zoneRepo}
}

// zoneURI binds and validates the :zone path parameter.
type zoneURI struct {
	Zone string `uri:"zone" binding:"required,zone_code"`
}

// countryURI binds and validates the :country path parameter. Country codes
// share the zone-code shape (two uppercase letters).
type countryURI struct {
	Country string `uri:"country" binding:"required,zone_code"`
}

// parseRange reads start/end query parameters, defaulting to the last 48
// hours. Accepts RFC3339 timestamps or YYYY-MM-DD dates.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	start := now.Add(-48 * time.Hour)
	end := now.Add(48 * time.Hour)

	var err error
	if s := c.Query("start"); s != "" {
		start, err = parseTimeParam(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid start, use RFC3339 or YYYY-MM-DD"})
			return start, end, false
		}
	}
	if s := c.Query("end"); s != "" {
		end, err = parseTimeParam(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid end, use RFC3339 or YYYY-MM-DD"})
			return start, end, false
		}
	}

	if !end.After(start) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "end must be after start"})
		return start, end, false
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "date range cannot exceed 31 days"})
		return start, end, false
	}
	return start, end, true
}

func parseTimeParam(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// GetZonePrices godoc
// @Summary Get prices for a bidding zone
// @Description Returns stored day-ahead prices for one zone within a date range (max 31 days)
// @Tags prices
// @Accept json
// @Produce json
// @Param zone path string true "Zone code (e.g., 'NO1')"
// @Param start query string false "Range start (RFC3339 or YYYY-MM-DD), default now-48h"
// @Param end query string false "Range end (RFC3339 or YYYY-MM-DD), default now+48h"
// @Success 200 {object} models.ZonePricesResponse
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 404 {object} models.ErrorResponse "Zone not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /prices/zone/{zone} [get]
func (h *PriceHandler) GetZonePrices(c *gin.Context) {
	var params zoneURI
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid zone code"})
		return
	}

	zone, err := h.zoneRepo.GetByCode(c.Request.Context(), params.Zone)
	if errors.Is(err, repository.ErrZoneNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "zone not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch zone"})
		return
	}

	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	prices, err := h.repo.GetByZone(c.Request.Context(), zone.ZoneCode, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch prices"})
		return
	}

	currency := "EUR"
	if len(prices) > 0 {
		currency = prices[0].Currency
	}

	c.JSON(http.StatusOK, models.ZonePricesResponse{
		ZoneCode: zone.ZoneCode,
		ZoneName: zone.ZoneName,
		Currency: currency,
		Prices:   prices,
	})
}

// GetCountryPrices godoc
// @Summary Get prices for all zones of a country
// @Description Returns stored day-ahead prices grouped per zone for one country
// @Tags prices
// @Accept json
// @Produce json
// @Param country path string true "ISO 3166-1 alpha-2 country code (e.g., 'NO')"
// @Param start query string false "Range start (RFC3339 or YYYY-MM-DD), default now-48h"
// @Param end query string false "Range end (RFC3339 or YYYY-MM-DD), default now+48h"
// @Success 200 {object} models.CountryPricesResponse
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 404 {object} models.ErrorResponse "Country not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /prices/country/{country} [get]
func (h *PriceHandler) GetCountryPrices(c *gin.Context) {
	var params countryURI
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid country code"})
		return
	}
	countryCode := params.Country

	zones, err := h.zoneRepo.GetByCountry(c.Request.Context(), countryCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch zones"})
		return
	}
	if len(zones) == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "country not found"})
		return
	}

	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	grouped, err := h.repo.GetByCountry(c.Request.Context(), countryCode, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch prices"})
		return
	}

	c.JSON(http.StatusOK, models.CountryPricesResponse{
		CountryCode: zones[0].CountryCode,
		CountryName: zones[0].CountryName,
		Zones:       grouped,
	})
}

// GetLatestPrices godoc
// @Summary Get the latest stored price per zone
// @Description Returns the most recent price point for every active zone
// @Tags prices
// @Accept json
// @Produce json
// @Param max_age_hours query integer false "Only include prices fetched within this many hours"
// @Success 200 {array} models.PricePoint
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /prices/latest [get]
func (h *PriceHandler) GetLatestPrices(c *gin.Context) {
	var maxAge *int
	if s := c.Query("max_age_hours"); s != "" {
		hours, err := strconv.Atoi(s)
		if err != nil || hours <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid max_age_hours"})
			return
		}
		maxAge = &hours
	}

	prices, err := h.repo.GetLatest(c.Request.Context(), maxAge)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch prices"})
		return
	}

	c.JSON(http.StatusOK, prices)
}
