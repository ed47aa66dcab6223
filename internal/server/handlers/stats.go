package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/service/stats"
)

// StatsHandler serves the aggregated farm statistics endpoints.
type StatsHandler struct {
	svc    *stats.Service
	logger *zap.Logger
}

// NewStatsHandler constructs the HTTP handler adapter.
func NewStatsHandler(svc *stats.Service, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{svc: svc, logger: logger}
}

// Summary returns the headline totals, averages and best day, optionally
// narrowed to one boss and one calendar month.
func (h *StatsHandler) Summary(c *gin.Context) {
	year, err := queryInt(c, "year")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
		return
	}
	month, err := queryInt(c, "month")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be an integer"})
		return
	}
	if month < 0 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), UserID(c), c.Query("bossId"), year, month)
	if err != nil {
		h.logger.Error("failed computing summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch farm stats"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Insights returns streaks, personal bests, efficiency and loot
// distribution over the requested window.
func (h *StatsHandler) Insights(c *gin.Context) {
	insights, err := h.svc.Insights(c.Request.Context(), UserID(c),
		c.Query("bossId"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		h.logger.Error("failed computing insights", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch farm insights"})
		return
	}

	c.JSON(http.StatusOK, insights)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
