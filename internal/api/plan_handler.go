package api

import (
	"net/http"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PlanHandler handles pricing catalog endpoints
type PlanHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(services *service.Services, log zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		services: services,
		log:      log.With().Str("handler", "plan").Logger(),
	}
}

// ListPlans handles GET /v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.services.Plans.GetPlans(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to list plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// UpdatePlan handles PATCH /v1/plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var patch models.PlanPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.services.Plans.UpdatePlan(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.log, err, "failed to update plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ResetPlans handles POST /v1/plans/reset
func (h *PlanHandler) ResetPlans(c *gin.Context) {
	plans, err := h.services.Plans.ResetPlans(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to reset plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}
