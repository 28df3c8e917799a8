package api

import (
	"net/http"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/service"
	"github.com/controlly-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(services *service.Services, v *validation.Validator, log zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		services:  services,
		validator: v,
		log:       log.With().Str("handler", "customer").Logger(),
	}
}

// ListCustomers handles GET /v1/customers?q=&plan=&page=&page_size=
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	plan := c.Query("plan")
	if errs := h.validator.ValidatePlan(plan); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	customers, err := h.services.Customers.SearchCustomers(c.Request.Context(), c.Query("q"), models.Plan(plan))
	if err != nil {
		respondError(c, h.log, err, "failed to list customers")
		return
	}
	page, pageSize := pageParams(c)
	c.JSON(http.StatusOK, service.Paginate(customers, page, pageSize))
}

// GetCustomer handles GET /v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.services.Customers.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "failed to get customer")
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PATCH /v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var patch models.CustomerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := h.validator.ValidateCustomerPatch(&patch); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	customer, err := h.services.Customers.UpdateCustomer(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err, "failed to update customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}
