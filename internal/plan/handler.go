package plan

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

// RegisterRoutes mounts the catalogue routes. Handlers in adminOnly guard
// the endpoints that change the plan catalogue.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly ...gin.HandlerFunc) {
	guarded := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, adminOnly...), handler)
	}

	plans := rg.Group("/plans")
	plans.GET("", h.ListPlans)
	plans.POST("", guarded(h.CreatePlan)...)
	plans.GET("/:id", h.GetPlan)
	plans.PUT("/:id", guarded(h.UpdatePlan)...)
	plans.DELETE("/:id", guarded(h.DeletePlan)...)

	rg.GET("/activities", h.ListActivities)
	rg.POST("/activities", h.CreateActivity)
}

// @Summary      List plans
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        active query bool false "Only active plans"
// @Success      200 {array} plan.Plan
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch plans"})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// @Summary      Create a plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body plan.PlanRequest true "Plan payload"
// @Success      201 {object} plan.Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create plan")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Get a plan
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      200 {object} plan.Plan
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/plans/{id} [get]
func (h *Handler) GetPlan(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch plan")
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Update a plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Param        request body plan.PlanRequest true "Plan payload"
// @Success      200 {object} plan.Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/plans/{id} [put]
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}
	var req PlanRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err, "Failed to update plan")
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete a plan
// @Description  Members still pointing at the plan show "N/A" afterwards
// @Tags         plans
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/plans/{id} [delete]
func (h *Handler) DeletePlan(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete plan")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      List activities
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} plan.Activity
// @Router       /api/activities [get]
func (h *Handler) ListActivities(c *gin.Context) {
	activities, err := h.service.Activities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch activities"})
		return
	}
	c.JSON(http.StatusOK, activities)
}

// @Summary      Create an activity
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body plan.ActivityRequest true "Activity payload"
// @Success      201 {object} plan.Activity
// @Router       /api/activities [post]
func (h *Handler) CreateActivity(c *gin.Context) {
	var req ActivityRequest
	if !api.BindJSON(c, &req) {
		return
	}

	a, err := h.service.CreateActivity(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create activity")
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPlanNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidPlan):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
