package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/app"
	"github.com/charlesng35/corpman/internal/handlers"
	"github.com/charlesng35/corpman/internal/monitoring"
	"github.com/charlesng35/corpman/pkg/errors"
	"github.com/charlesng35/corpman/pkg/response"
)

func registerHealthRoutes(r *gin.Engine, cfg *app.Config, mon *monitoring.Module) {
	if cfg == nil {
		return
	}

	if !cfg.Monitoring.Health.Enabled || mon == nil || mon.Health() == nil {
		r.GET("/health", handlers.Health())
		r.GET("/health/live", disabledHealthHandler)
		r.GET("/health/ready", disabledHealthHandler)
		return
	}

	manager := mon.Health()

	r.GET("/health", func(c *gin.Context) {
		report := manager.EvaluateReadiness(c.Request.Context())
		writeHealthReport(c, report, false)
	})

	r.GET("/health/live", func(c *gin.Context) {
		writeHealthReport(c, manager.EvaluateLiveness(c.Request.Context()), true)
	})

	r.GET("/health/ready", func(c *gin.Context) {
		writeHealthReport(c, manager.EvaluateReadiness(c.Request.Context()), true)
	})
}

func disabledHealthHandler(c *gin.Context) {
	response.Error(c, errors.New("HEALTH_DISABLED", "Health checks are disabled", http.StatusNotFound))
}

func writeHealthReport(c *gin.Context, report monitoring.HealthReport, detailed bool) {
	status := http.StatusOK
	message := "healthy"
	if !report.Success {
		status = http.StatusServiceUnavailable
		message = "unhealthy"
	}

	data := gin.H{
		"status":     report.Status,
		"checked_at": time.Now().UTC(),
	}
	if detailed {
		data["checks"] = report.Checks
	}

	c.JSON(status, response.Response{
		Status:  report.Success,
		Code:    status,
		Message: message,
		Data:    data,
	})
}
