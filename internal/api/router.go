package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlesng35/corpman/internal/app"
	iauth "github.com/charlesng35/corpman/internal/auth"
	"github.com/charlesng35/corpman/internal/handlers"
	"github.com/charlesng35/corpman/internal/middleware"
	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/internal/monitoring"
	"github.com/charlesng35/corpman/internal/services"
)

// Deps carries everything the router needs to register routes.
type Deps struct {
	Config      *app.Config
	Tokens      *iauth.JWTService
	Revocations *iauth.RevocationStore

	Auth         *services.AuthService
	Businesses   *services.BusinessService
	Customers    *services.CustomerService
	Assets       *services.AssetService
	Transactions *services.TransactionService

	// RateStore backs the rate limiter. Nil selects an in-process store.
	RateStore  middleware.RateStore
	Monitoring *monitoring.Module
}

func (d Deps) validate() error {
	switch {
	case d.Config == nil:
		return fmt.Errorf("config must be provided")
	case d.Tokens == nil:
		return fmt.Errorf("jwt service must be provided")
	case d.Revocations == nil:
		return fmt.Errorf("revocation store must be provided")
	case d.Auth == nil:
		return fmt.Errorf("auth service must be provided")
	case d.Businesses == nil, d.Customers == nil, d.Assets == nil, d.Transactions == nil:
		return fmt.Errorf("business services must be provided")
	}
	return nil
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	cfg := deps.Config

	r := gin.New()

	// Global middleware
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window > 0 {
		r.Use(middleware.RateLimit(deps.RateStore, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	r.GET("/", handlers.Root())
	registerHealthRoutes(r, cfg, deps.Monitoring)

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
		if endpoint == "" {
			endpoint = "/metrics"
		}
		if deps.Monitoring != nil {
			r.GET(endpoint, gin.WrapH(deps.Monitoring.Handler()))
		} else {
			r.GET(endpoint, gin.WrapH(promhttp.Handler()))
		}
	}

	guard := middleware.NewTokenGuard(deps.Tokens, deps.Revocations)
	v1 := r.Group("/api/v1")

	registerAuthRoutes(v1, authRouteDeps{
		Handler: handlers.NewAuthHandler(deps.Auth),
		Guard:   guard,
		Loader:  deps.Auth,
	})

	// Everything below acts on behalf of a signed-in, verified account.
	member := v1.Group("")
	member.Use(guard.AccessToken(), middleware.CurrentAccount(deps.Auth))

	registerBusinessRoutes(member, businessRouteDeps{
		Businesses:   handlers.NewBusinessHandler(deps.Businesses),
		Customers:    handlers.NewCustomerHandler(deps.Customers),
		Assets:       handlers.NewAssetHandler(deps.Assets),
		Transactions: handlers.NewTransactionHandler(deps.Transactions),
		Roles:        middleware.RequireRoles(models.RoleUser, models.RoleAdmin, models.RoleRoot),
	})

	registerMonitoringRoutes(member, handlers.NewMonitoringHandler(deps.Monitoring, cfg),
		middleware.RequireRoles(models.RoleAdmin, models.RoleRoot))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
