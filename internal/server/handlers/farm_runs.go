package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/domain/models"
	"github.com/nkoivu/bossfarm/internal/repository/mongodb"
	"github.com/nkoivu/bossfarm/internal/service/tracker"
)

// TrackerHandler serves the farm-run, loot-catalog and boss endpoints.
type TrackerHandler struct {
	svc    *tracker.Service
	logger *zap.Logger
}

// NewTrackerHandler constructs the HTTP handler adapter.
func NewTrackerHandler(svc *tracker.Service, logger *zap.Logger) *TrackerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackerHandler{svc: svc, logger: logger}
}

// CreateFarmRun records a new farming session with its loot lines.
func (h *TrackerHandler) CreateFarmRun(c *gin.Context) {
	var req models.CreateFarmRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid farm run payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	run, err := h.svc.RecordRun(c.Request.Context(), UserID(c), req)
	if err != nil {
		if errors.Is(err, tracker.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed recording farm run", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record farm run"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "farmRun": run})
}

// ListFarmRuns returns the caller's runs, newest first.
func (h *TrackerHandler) ListFarmRuns(c *gin.Context) {
	runs, err := h.svc.ListRuns(c.Request.Context(), UserID(c),
		c.Query("bossId"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		h.logger.Error("failed listing farm runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch farm runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"farmRuns": runs})
}

// DeleteFarmRun removes one of the caller's runs.
func (h *TrackerHandler) DeleteFarmRun(c *gin.Context) {
	err := h.svc.DeleteRun(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "farm run not found"})
			return
		}
		h.logger.Error("failed deleting farm run", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete farm run"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListLootItems returns the loot catalog, optionally filtered by boss.
func (h *TrackerHandler) ListLootItems(c *gin.Context) {
	items, err := h.svc.ListLootItems(c.Request.Context(), c.Query("bossId"))
	if err != nil {
		h.logger.Error("failed listing loot items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch loot items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lootItems": items})
}

// UpdateLootPrice edits a catalog price and appends a history entry.
func (h *TrackerHandler) UpdateLootPrice(c *gin.Context) {
	var req models.UpdateLootPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid loot price payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.UpdateLootPrice(c.Request.Context(), UserID(c), req)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "loot item not found"})
			return
		}
		h.logger.Error("failed updating loot price", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update loot item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "lootItem": item})
}

// ListPriceHistory returns the recent price trend for one loot item.
func (h *TrackerHandler) ListPriceHistory(c *gin.Context) {
	entries, err := h.svc.PriceHistory(c.Request.Context(), c.Query("lootItemId"))
	if err != nil {
		if errors.Is(err, tracker.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed listing price history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch price history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"priceHistory": entries})
}

// ListBosses returns the boss reference data.
func (h *TrackerHandler) ListBosses(c *gin.Context) {
	bosses, err := h.svc.ListBosses(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing bosses", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bosses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bosses": bosses})
}
