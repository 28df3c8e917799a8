package api

import (
	"net/http"
	"strconv"

	"github.com/controlly-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxUsageDays bounds the synthetic series a single request can ask for
const maxUsageDays = 365

// AnalyticsHandler handles usage, search and dashboard endpoints
type AnalyticsHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(services *service.Services, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		services: services,
		log:      log.With().Str("handler", "analytics").Logger(),
	}
}

// GetUsage handles GET /v1/usage?days=
// An omitted days falls back to the configured default; days=0 returns no points.
func (h *AnalyticsHandler) GetUsage(c *gin.Context) {
	days := h.services.Analytics.DefaultUsageDays()
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		if n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must not be negative"})
			return
		}
		if n > maxUsageDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must not exceed " + strconv.Itoa(maxUsageDays)})
			return
		}
		days = n
	}

	usage, err := h.services.Analytics.GetUsage(c.Request.Context(), days)
	if err != nil {
		respondError(c, h.log, err, "failed to get usage")
		return
	}
	c.JSON(http.StatusOK, usage)
}

// Search handles GET /v1/search?q=
func (h *AnalyticsHandler) Search(c *gin.Context) {
	result, err := h.services.Analytics.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.log, err, "search failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDashboard handles GET /v1/dashboard
// Returns whatever the refresher last loaded without waiting on a new load.
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	st := h.services.Dashboard.State()

	body := gin.H{
		"data":    st.Data,
		"loading": st.Loading,
		"error":   nil,
	}
	if st.Err != nil {
		body["error"] = st.Err.Error()
	}
	c.JSON(http.StatusOK, body)
}

// RefreshDashboard handles POST /v1/dashboard/refresh
func (h *AnalyticsHandler) RefreshDashboard(c *gin.Context) {
	summary, err := h.services.Dashboard.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to refresh dashboard")
		return
	}
	c.JSON(http.StatusOK, summary)
}
