package api

import (
	"net/http"
	"strconv"
	"time"

	"pos-bot/internal/bot"
	"pos-bot/internal/telegram"
	"pos-bot/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	bot *bot.Bot
}

// NewHandler creates a new HTTP handler
func NewHandler(b *bot.Bot) *Handler {
	return &Handler{bot: b}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/webhook", h.webhook)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// webhook receives one Bot API update per request. It always answers 200:
// a non-2xx response makes the Bot API redeliver the update, and the
// dispatch pipeline already absorbs duplicates and failures.
func (h *Handler) webhook(c *gin.Context) {
	var update telegram.Update

	if err := c.ShouldBindJSON(&update); err != nil {
		util.GetLogger().Warn("Malformed webhook payload", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	h.bot.Dispatch(c.Request.Context(), &update)
	c.Status(http.StatusOK)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
