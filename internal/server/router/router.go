package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(trackerHandler *handlers.TrackerHandler, statsHandler *handlers.StatsHandler, equipmentHandler *handlers.EquipmentHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", handlers.RequireIdentity())
	{
		api.GET("/bosses", trackerHandler.ListBosses)

		api.GET("/loot-items", trackerHandler.ListLootItems)
		api.PUT("/loot-items", trackerHandler.UpdateLootPrice)
		api.GET("/price-history", trackerHandler.ListPriceHistory)

		api.GET("/farm-runs", trackerHandler.ListFarmRuns)
		api.POST("/farm-runs", trackerHandler.CreateFarmRun)
		api.DELETE("/farm-runs/:id", trackerHandler.DeleteFarmRun)

		api.GET("/farm-stats", statsHandler.Summary)
		api.GET("/farm-stats/insights", statsHandler.Insights)

		api.GET("/equipment", equipmentHandler.List)
		api.POST("/equipment", equipmentHandler.Create)
		api.PATCH("/equipment/:id", equipmentHandler.Update)
		api.DELETE("/equipment/:id", equipmentHandler.Delete)
		api.GET("/equipment/expiring", equipmentHandler.Expiring)
		api.POST("/equipment/scan", equipmentHandler.Scan)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
