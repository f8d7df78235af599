package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gridwatch/internal/models"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @Summary Liveness check
// @Description Returns the process health without touching dependencies
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC(),
	})
}

// Ready godoc
// @Summary Readiness check
// @Description Returns readiness including the database dependency
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} models.ReadyResponse
// @Failure 503 {object} models.ErrorResponse "Service unavailable"
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "database connection failed"})
		return
	}

	c.JSON(http.StatusOK, models.ReadyResponse{
		Status:   "ready",
		Database: "connected",
		Time:     time.Now().UTC(),
	})
}
