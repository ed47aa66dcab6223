package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/domain/models"
	"github.com/nkoivu/bossfarm/internal/repository/mongodb"
	"github.com/nkoivu/bossfarm/internal/service/expiry"
)

// EquipmentHandler serves the equipment and expiry endpoints.
type EquipmentHandler struct {
	svc    *expiry.Service
	logger *zap.Logger
}

// NewEquipmentHandler constructs the HTTP handler adapter.
func NewEquipmentHandler(svc *expiry.Service, logger *zap.Logger) *EquipmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentHandler{svc: svc, logger: logger}
}

// List returns the caller's equipment with expiry classifications.
func (h *EquipmentHandler) List(c *gin.Context) {
	statuses, err := h.svc.List(c.Request.Context(), UserID(c))
	if err != nil {
		h.logger.Error("failed listing equipment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch equipment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"equipment": statuses})
}

// Create registers a new equipment item.
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req models.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid equipment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Create(c.Request.Context(), UserID(c), req)
	if err != nil {
		if errors.Is(err, expiry.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed creating equipment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create equipment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"equipment": item})
}

// Update edits an equipment item; a changed expiration date re-arms its
// notification flag.
func (h *EquipmentHandler) Update(c *gin.Context) {
	var req models.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid equipment update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Update(c.Request.Context(), UserID(c), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, expiry.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, mongodb.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
		default:
			h.logger.Error("failed updating equipment", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update equipment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"equipment": item})
}

// Delete removes one of the caller's equipment items.
func (h *EquipmentHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
			return
		}
		h.logger.Error("failed deleting equipment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete equipment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Expiring returns the caller's items inside the notification window.
func (h *EquipmentHandler) Expiring(c *gin.Context) {
	statuses, err := h.svc.Upcoming(c.Request.Context(), UserID(c))
	if err != nil {
		h.logger.Error("failed checking expiring equipment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(statuses), "equipment": statuses})
}

// Scan triggers the notification batch outside its schedule.
func (h *EquipmentHandler) Scan(c *gin.Context) {
	results, err := h.svc.ScanAndNotify(c.Request.Context())
	if err != nil {
		h.logger.Error("failed running expiry scan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check equipment expiration"})
		return
	}

	notified := 0
	for _, result := range results {
		if result.Success {
			notified++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Equipment expiration check completed",
		"results":            results,
		"totalNotifications": notified,
	})
}
