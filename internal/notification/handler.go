package notification

import (
	"errors"
	"net/http"

	"gymdesk/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	notifications.GET("", h.ListUnread)
	notifications.POST("/scan", h.Scan)
	notifications.POST("/:id/read", h.MarkRead)
}

// @Summary      Unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} notification.Notification
// @Router       /api/notifications [get]
func (h *Handler) ListUnread(c *gin.Context) {
	notifications, err := h.service.ListUnread(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// @Summary      Run the expiry scan now
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} notification.ScanResult
// @Router       /api/notifications/scan [post]
func (h *Handler) Scan(c *gin.Context) {
	result, err := h.service.Scan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to scan memberships"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "notification marked as read"})
}
