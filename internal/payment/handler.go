package payment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/api"
	"gymdesk/internal/member"
	"gymdesk/internal/plan"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		service: service,
		now:     now,
	}
}

// RegisterRoutes mounts the payment routes; refunds additionally pass
// through adminOnly.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly ...gin.HandlerFunc) {
	payments := rg.Group("/payments")
	payments.GET("", h.ListPayments)
	payments.POST("", h.RecordPayment)
	payments.GET("/:id", h.GetPayment)
	payments.POST("/:id/cancel", h.CancelPayment)
	payments.POST("/:id/refund", append(append([]gin.HandlerFunc{}, adminOnly...), h.RefundPayment)...)

	rg.GET("/members/:id/payments", h.ListMemberPayments)
	rg.GET("/revenue", h.Revenue)
}

type RevenueResponse struct {
	Month string `json:"month" example:"2024-03"`
	Total string `json:"total" example:"1250.00"`
}

// @Summary      Record a payment
// @Description  Stores the payment and renews the member's subscription in one transaction
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payment.PaymentRequest true "Payment payload"
// @Success      201 {object} payment.Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	var req PaymentRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Recent payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Maximum rows (default 50)"
// @Success      200 {array} payment.View
// @Router       /api/payments [get]
func (h *Handler) ListPayments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	payments, err := h.service.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Payment ID"
// @Success      200 {object} payment.View
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/payments/{id} [get]
func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch payment")
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Cancel a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Payment ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/payments/{id}/cancel [post]
func (h *Handler) CancelPayment(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to cancel payment")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "payment cancelled"})
}

// @Summary      Refund a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Payment ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/payments/{id}/refund [post]
func (h *Handler) RefundPayment(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Refund(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to refund payment")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "payment refunded"})
}

// @Summary      Payments of a member
// @Tags         payments,members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      200 {array} payment.View
// @Router       /api/members/{id}/payments [get]
func (h *Handler) ListMemberPayments(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	payments, err := h.service.ListByMember(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// @Summary      Revenue for a month
// @Description  Sum of valid payments made during the month
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        month query string false "Month as YYYY-MM, defaults to the current month"
// @Success      200 {object} payment.RevenueResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/revenue [get]
func (h *Handler) Revenue(c *gin.Context) {
	year, month, ok := api.ParseMonth(c, "month", h.now())
	if !ok {
		return
	}

	total, err := h.service.RevenueForMonth(c.Request.Context(), year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to compute revenue"})
		return
	}
	c.JSON(http.StatusOK, RevenueResponse{
		Month: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		Total: total.StringFixed(2),
	})
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, member.ErrMemberNotFound),
		errors.Is(err, plan.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidPayment):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
