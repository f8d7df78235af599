package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gridwatch/internal/models"
	"gridwatch/internal/repository"
)

// ZoneHandler handles bidding-zone registry requests
type ZoneHandler struct {
	repo repository.ZoneRepository
}

// NewZoneHandler creates a new ZoneHandler
func NewZoneHandler(repo repository.ZoneRepository) *ZoneHandler {
	return &ZoneHandler{repo: repo}
}

// ListZones godoc
// @Summary List active bidding zones
// @Description Returns all active bidding zones in the registry
// @Tags zones
// @Accept json
// @Produce json
// @Success 200 {array} models.BiddingZone
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /zones [get]
func (h *ZoneHandler) ListZones(c *gin.Context) {
	zones, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch zones"})
		return
	}

	c.JSON(http.StatusOK, zones)
}

// GetZone godoc
// @Summary Get a bidding zone by code
// @Description Returns a single bidding zone
// @Tags zones
// @Accept json
// @Produce json
// @Param zone path string true "Zone code (e.g., 'NO1')"
// @Success 200 {object} models.BiddingZone
// @Failure 400 {object} models.ErrorResponse "Invalid zone code"
// @Failure 404 {object} models.ErrorResponse "Zone not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /zones/{zone} [get]
func (h *ZoneHandler) GetZone(c *gin.Context) {
	var params zoneURI
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid zone code"})
		return
	}

	zone, err := h.repo.GetByCode(c.Request.Context(), params.Zone)
	if errors.Is(err, repository.ErrZoneNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "zone not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch zone"})
		return
	}

	c.JSON(http.StatusOK, zone)
}

// ListCountries godoc
// @Summary List countries with active zones
// @Description Returns the countries covered by the active zone registry
// @Tags zones
// @Accept json
// @Produce json
// @Success 200 {array} models.Country
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /countries [get]
func (h *ZoneHandler) ListCountries(c *gin.Context) {
	countries, err := h.repo.ListCountries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch countries"})
		return
	}

	c.JSON(http.StatusOK, countries)
}
