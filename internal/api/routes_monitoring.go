package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/handlers"
)

// registerMonitoringRoutes mounts the operator endpoints behind the admin role check.
func registerMonitoringRoutes(member *gin.RouterGroup, handler *handlers.MonitoringHandler, roles gin.HandlerFunc) {
	if member == nil || handler == nil {
		return
	}

	group := member.Group("/monitoring", roles)
	group.GET("/summary", handler.Summary)
	group.GET("/probes", handler.Probes)
}
