package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gridwatch/internal/fetcher"
	"gridwatch/internal/models"
	"gridwatch/internal/repository"
)

// FetchService is the orchestrator surface the fetch endpoints drive.
type FetchService interface {
	FetchAllPrices(ctx context.Context) (fetcher.Summary, error)
	FetchTomorrowIfMissing(ctx context.Context) (fetcher.Summary, bool, error)
	BackfillMissing(ctx context.Context, startDate, endDate time.Time, zones []string) (fetcher.BackfillSummary, error)
}

// FetchHandler handles manual fetch triggers and fetch-log queries
type FetchHandler struct {
	svc     FetchService
	logRepo repository.FetchLogRepository
}

// NewFetchHandler creates a new FetchHandler
func NewFetchHandler(svc FetchService, logRepo repository.FetchLogRepository) *FetchHandler {
	return &FetchHandler{svc: svc, logRepo: logRepo}
}

// TriggerFetch godoc
// @Summary Trigger a fetch run
// @Description Runs a full fetch for today and tomorrow, or a conditional retry with ?mode=missing
// @Tags fetch
// @Accept json
// @Produce json
// @Param mode query string false "Fetch mode: 'all' (default) or 'missing'"
// @Success 200 {object} models.FetchTriggerResponse
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 409 {object} models.ErrorResponse "A fetch run is already in progress"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /fetch [post]
func (h *FetchHandler) TriggerFetch(c *gin.Context) {
	var (
		summary fetcher.Summary
		skipped bool
		err     error
	)

	switch c.DefaultQuery("mode", "all") {
	case "all":
		summary, err = h.svc.FetchAllPrices(c.Request.Context())
	case "missing":
		summary, skipped, err = h.svc.FetchTomorrowIfMissing(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "mode must be 'all' or 'missing'"})
		return
	}

	if errors.Is(err, fetcher.ErrRunInProgress) {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "a fetch run is already in progress"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "fetch failed"})
		return
	}

	resp := models.FetchTriggerResponse{
		ZonesSucceeded: summary.Succeeded,
		ZonesFailed:    summary.Failed,
		ZonesNoData:    summary.NoData,
		PricesStored:   summary.PricesStored,
		Skipped:        skipped,
	}
	if skipped {
		resp.Message = "tomorrow's prices already complete for all zones"
	}
	c.JSON(http.StatusOK, resp)
}

// Backfill godoc
// @Summary Backfill missing prices
// @Description Finds gaps in the stored date range and re-fetches the affected zone/date pairs
// @Tags fetch
// @Accept json
// @Produce json
// @Param request body models.BackfillRequest true "Backfill range"
// @Success 200 {object} models.BackfillResponse
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /fetch/backfill [post]
func (h *FetchHandler) Backfill(c *gin.Context) {
	var req models.BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	// Formats are guaranteed by the date binding tag.
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "end_date must not be before start_date"})
		return
	}

	summary, err := h.svc.BackfillMissing(c.Request.Context(), start, end, req.Zones)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "backfill failed"})
		return
	}

	c.JSON(http.StatusOK, models.BackfillResponse{
		DatesChecked:  summary.DatesChecked,
		DatesWithGaps: summary.DatesWithGaps,
		PricesFetched: summary.PricesFetched,
		PricesStored:  summary.PricesStored,
		Errors:        summary.Errors,
	})
}

// ListFetchLogs godoc
// @Summary List recent fetch runs
// @Description Returns the most recent fetch-log records, newest first
// @Tags fetch
// @Accept json
// @Produce json
// @Param limit query integer false "Maximum records to return (default 20, max 100)"
// @Success 200 {array} models.FetchAttempt
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /fetch-logs [get]
func (h *FetchHandler) ListFetchLogs(c *gin.Context) {
	limit := 20
	if s := c.Query("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	logs, err := h.logRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
