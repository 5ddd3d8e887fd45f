package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/app"
	"github.com/charlesng35/corpman/internal/monitoring"
	"github.com/charlesng35/corpman/pkg/response"
)

// MonitoringHandler gives administrators the operator view of the runtime.
type MonitoringHandler struct {
	module   *monitoring.Module
	endpoint string
	metrics  bool
	health   bool
}

type monitoringSummary struct {
	Summary    monitoring.Summary `json:"summary"`
	Prometheus prometheusInfo     `json:"prometheus"`
	Health     healthInfo         `json:"health"`
}

type prometheusInfo struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
}

type healthInfo struct {
	Enabled bool `json:"enabled"`
}

// NewMonitoringHandler returns nil when monitoring is disabled.
func NewMonitoringHandler(module *monitoring.Module, cfg *app.Config) *MonitoringHandler {
	if module == nil || cfg == nil {
		return nil
	}
	mon := cfg.Monitoring
	if !mon.Health.Enabled && !mon.Prometheus.Enabled {
		return nil
	}

	endpoint := strings.TrimSpace(mon.Prometheus.Endpoint)
	if endpoint == "" {
		endpoint = "/metrics"
	}
	return &MonitoringHandler{
		module:   module,
		endpoint: endpoint,
		metrics:  mon.Prometheus.Enabled,
		health:   mon.Health.Enabled,
	}
}

// Summary returns maintenance job history and the last probe outcomes.
func (h *MonitoringHandler) Summary(c *gin.Context) {
	response.Success(c, http.StatusOK, monitoringSummary{
		Summary:    h.module.Summary(),
		Prometheus: prometheusInfo{Enabled: h.metrics, Endpoint: h.endpoint},
		Health:     healthInfo{Enabled: h.health},
	})
}

// Probes runs every readiness and liveness check now and returns both reports.
func (h *MonitoringHandler) Probes(c *gin.Context) {
	ctx := c.Request.Context()
	health := h.module.Health()
	response.Success(c, http.StatusOK, gin.H{
		"readiness": health.EvaluateReadiness(ctx),
		"liveness":  health.EvaluateLiveness(ctx),
	})
}
