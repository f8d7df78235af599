// Package routes handles the setup and configuration of API routes
package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gridwatch/docs" // Import swagger docs
	"gridwatch/internal/api/handlers"
	"gridwatch/internal/api/middleware"
	"gridwatch/internal/config"
	"gridwatch/internal/repository/postgres"
)

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, db *sql.DB, fetchService handlers.FetchService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	// Apply rate limiting to all other routes
	r.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())

	// Initialize repositories
	priceRepo := postgres.NewPriceRepository(db)
	zoneRepo := postgres.NewZoneRepository(db)
	fetchLogRepo := postgres.NewFetchLogRepository(db)

	// Initialize handlers
	priceHandler := handlers.NewPriceHandler(priceRepo, zoneRepo)
	zoneHandler := handlers.NewZoneHandler(zoneRepo)
	fetchHandler := handlers.NewFetchHandler(fetchService, fetchLogRepo)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		prices := v1.Group("/prices")
		{
			prices.GET("/latest", priceHandler.GetLatestPrices)
			prices.GET("/zone/:zone", priceHandler.GetZonePrices)
			prices.GET("/country/:country", priceHandler.GetCountryPrices)
		}

		zones := v1.Group("/zones")
		{
			zones.GET("", zoneHandler.ListZones)
			zones.GET("/:zone", zoneHandler.GetZone)
		}
		v1.GET("/countries", zoneHandler.ListCountries)

		fetch := v1.Group("/fetch")
		{
			fetch.POST("", fetchHandler.TriggerFetch)
			fetch.POST("/backfill", fetchHandler.Backfill)
		}
		v1.GET("/fetch-logs", fetchHandler.ListFetchLogs)
	}

	return r
}
