package api

import (
	"context"
	"net/http"
	"time"

	"github.com/controlly-api/internal/metrics"
	"github.com/controlly-api/internal/service"
	"github.com/controlly-api/internal/storage"
	"github.com/controlly-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, store storage.Store, m *metrics.Metrics, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	v := validation.NewValidator()
	staffHandler := NewStaffHandler(services, v, log)
	customerHandler := NewCustomerHandler(services, v, log)
	planHandler := NewPlanHandler(services, log)
	analyticsHandler := NewAnalyticsHandler(services, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(store))
	if m != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	// API v1
	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.GET("", staffHandler.ListUsers)
			users.POST("", staffHandler.CreateUser)
			users.GET("/export", exportHandler.ExportStaff)
			users.GET("/:id", staffHandler.GetUser)
			users.PATCH("/:id", staffHandler.UpdateUser)
			users.POST("/:id/deactivate", staffHandler.DeactivateUser)
			users.POST("/:id/activate", staffHandler.ActivateUser)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("", customerHandler.ListCustomers)
			customers.GET("/export", exportHandler.ExportCustomers)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PATCH("/:id", customerHandler.UpdateCustomer)
		}

		plans := v1.Group("/plans")
		{
			plans.GET("", planHandler.ListPlans)
			plans.POST("/reset", planHandler.ResetPlans)
			plans.PATCH("/:id", planHandler.UpdatePlan)
		}

		v1.GET("/usage", analyticsHandler.GetUsage)
		v1.GET("/search", analyticsHandler.Search)
		v1.GET("/dashboard", analyticsHandler.GetDashboard)
		v1.POST("/dashboard/refresh", analyticsHandler.RefreshDashboard)
	}

	return router
}

// healthCheck returns the health status, pinging the store when it supports it
func healthCheck(store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "controlly-api",
		}

		if p, ok := store.(storage.Pinger); ok {
			ctx, cancel := contextWithTimeout(c, 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["error"] = err.Error()
			}
		}

		c.JSON(status, body)
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("request_id", c.GetString("request_id")).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware tags each request with an id and logs it on completion
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
