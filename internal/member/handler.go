package member

import (
	"errors"
	"net/http"
	"time"

	"gymdesk/internal/api"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	members := rg.Group("/members")
	members.GET("", h.ListMembers)
	members.POST("", h.CreateMember)
	members.GET("/redlist", h.RedList)
	members.GET("/expiring", h.ExpiringSoon)
	members.GET("/calendar", h.Calendar)
	members.GET("/:id", h.GetMember)
	members.PUT("/:id", h.UpdateMember)
	members.DELETE("/:id", h.DeleteMember)

	rg.GET("/objectives", h.ListObjectives)
}

// @Summary      List active members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Name, phone or CIN fragment"
// @Success      200 {array} member.View
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.service.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch members"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// @Summary      Register a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body member.MemberRequest true "Member payload"
// @Success      201 {object} member.View
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/members [post]
func (h *Handler) CreateMember(c *gin.Context) {
	var req MemberRequest
	if !api.BindJSON(c, &req) {
		return
	}

	m, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create member")
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      200 {object} member.View
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/members/{id} [get]
func (h *Handler) GetMember(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch member")
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Update a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        request body member.MemberRequest true "Member payload"
// @Success      200 {object} member.View
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/members/{id} [put]
func (h *Handler) UpdateMember(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}
	var req MemberRequest
	if !api.BindJSON(c, &req) {
		return
	}

	m, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err, "Failed to update member")
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Deactivate a member
// @Tags         members
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/members/{id} [delete]
func (h *Handler) DeleteMember(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete member")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Red list
// @Description  Active members whose subscription has expired, oldest first
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} member.View
// @Router       /api/members/redlist [get]
func (h *Handler) RedList(c *gin.Context) {
	members, err := h.service.RedList(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to build red list"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// @Summary      Members expiring within seven days
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} member.View
// @Router       /api/members/expiring [get]
func (h *Handler) ExpiringSoon(c *gin.Context) {
	members, err := h.service.ExpiringSoon(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch expiring members"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// @Summary      Expiry calendar
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        month query string false "Month as YYYY-MM, defaults to the current month"
// @Success      200 {object} member.Calendar
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/members/calendar [get]
func (h *Handler) Calendar(c *gin.Context) {
	year, month, ok := api.ParseMonth(c, "month", h.now())
	if !ok {
		return
	}

	cal, err := h.service.Calendar(c.Request.Context(), year, month)
	if err != nil {
		h.fail(c, err, "Failed to build calendar")
		return
	}
	c.JSON(http.StatusOK, cal)
}

// @Summary      List objectives
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} member.Objective
// @Router       /api/objectives [get]
func (h *Handler) ListObjectives(c *gin.Context) {
	objectives, err := h.service.Objectives(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch objectives"})
		return
	}
	c.JSON(http.StatusOK, objectives)
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrMemberNotFound), errors.Is(err, plan.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidMember):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
