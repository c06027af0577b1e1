package dashboard

import (
	"context"
	"net/http"

	"gymdesk/internal/api"

	"github.com/gin-gonic/gin"
)

type StatsProvider interface {
	Stats(ctx context.Context) (*Stats, error)
}

type Handler struct {
	stats StatsProvider
}

func NewHandler(stats StatsProvider) *Handler {
	return &Handler{stats: stats}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetStats)
}

// @Summary      Dashboard figures
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dashboard.Stats
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/dashboard [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
