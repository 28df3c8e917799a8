package api

import (
	"net/http"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/service"
	"github.com/controlly-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// StaffHandler handles staff account endpoints
type StaffHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(services *service.Services, v *validation.Validator, log zerolog.Logger) *StaffHandler {
	return &StaffHandler{
		services:  services,
		validator: v,
		log:       log.With().Str("handler", "staff").Logger(),
	}
}

// ListUsers handles GET /v1/users?q=&page=&page_size=
func (h *StaffHandler) ListUsers(c *gin.Context) {
	users, err := h.services.Staff.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.log, err, "failed to list users")
		return
	}
	page, pageSize := pageParams(c)
	c.JSON(http.StatusOK, service.Paginate(users, page, pageSize))
}

// GetUser handles GET /v1/users/:id
func (h *StaffHandler) GetUser(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	user, err := h.services.Staff.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "failed to get user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /v1/users
func (h *StaffHandler) CreateUser(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := h.validator.ValidateNewUser(&input); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	user, err := h.services.Staff.CreateUser(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PATCH /v1/users/:id
func (h *StaffHandler) UpdateUser(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := h.validator.ValidateUserPatch(&patch); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	user, err := h.services.Staff.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeactivateUser handles POST /v1/users/:id/deactivate
func (h *StaffHandler) DeactivateUser(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	user, err := h.services.Staff.DeactivateUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "failed to deactivate user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ActivateUser handles POST /v1/users/:id/activate
func (h *StaffHandler) ActivateUser(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	user, err := h.services.Staff.ActivateUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "failed to activate user")
		return
	}
	c.JSON(http.StatusOK, user)
}
