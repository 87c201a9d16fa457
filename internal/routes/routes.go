package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handler "invoice-dashboard-backend/internal/handlers"
	"invoice-dashboard-backend/internal/metrics"
)

// RegisterRoutes mounts the seed, health and metrics endpoints.
func RegisterRoutes(r *gin.Engine, seeder handler.Seeder, m *metrics.Metrics, gatherer prometheus.Gatherer, log *slog.Logger) {
	if m != nil {
		r.Use(m.Middleware())
	}

	seedHandler := handler.NewSeedHandler(seeder, log)

	r.GET("/seed", seedHandler.Seed)
	r.GET("/seed/status", seedHandler.Status)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}
