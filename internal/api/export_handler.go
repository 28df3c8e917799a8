package api

import (
	"net/http"

	"github.com/controlly-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// ExportCustomers handles GET /v1/customers/export?format=...
func (h *ExportHandler) ExportCustomers(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}
	h.log.Info().Str("resource", "customers").Str("format", format).Msg("Starting streaming export")

	if err := h.services.Export.StreamCustomers(c.Request.Context(), c.Writer, format); err != nil {
		h.fail(c, "customers", err)
	}
}

// ExportStaff handles GET /v1/users/export?format=...
func (h *ExportHandler) ExportStaff(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}
	h.log.Info().Str("resource", "staff").Str("format", format).Msg("Starting streaming export")

	if err := h.services.Export.StreamStaff(c.Request.Context(), c.Writer, format); err != nil {
		h.fail(c, "staff", err)
	}
}

func (h *ExportHandler) fail(c *gin.Context, resource string, err error) {
	h.log.Error().Err(err).Str("resource", resource).Msg("Export failed")
	// Can't return error JSON after streaming has started
	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}

// exportFormat defaults to NDJSON, the streaming-friendly choice
func exportFormat(c *gin.Context) (string, bool) {
	format := c.DefaultQuery("format", "ndjson")
	if format != "ndjson" && format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv"})
		return "", false
	}
	return format, true
}
