package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/api"
	"github.com/charlesng35/corpman/internal/app"
	"github.com/charlesng35/corpman/internal/app/maintenance"
	iauth "github.com/charlesng35/corpman/internal/auth"
	"github.com/charlesng35/corpman/internal/cache"
	"github.com/charlesng35/corpman/internal/database"
	"github.com/charlesng35/corpman/internal/middleware"
	"github.com/charlesng35/corpman/internal/monitoring"
	"github.com/charlesng35/corpman/internal/monitoring/checks"
	"github.com/charlesng35/corpman/internal/services"
	"github.com/charlesng35/corpman/pkg/logger"
	"github.com/charlesng35/corpman/pkg/mail"
	"github.com/charlesng35/corpman/pkg/sms"
)

// maintenanceStaleAfter is how long a cleanup job may go without a successful run before
// liveness reports degraded.
const maintenanceStaleAfter = 6 * time.Hour

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB         *gorm.DB
	Redis      *cache.RedisStore
	Store      cache.Store
	Notifier   *services.Notifier
	Cleaner    *maintenance.Cleaner
	Monitoring *monitoring.Module
	Router     *gin.Engine
}

// bootstrapRuntime initialises databases, caches, services, and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	dbStore := cache.NewDatabaseStore(stack.DB)
	stack.Store = dbStore

	if cfg.Cache.Redis.Enabled {
		if stack.Redis, err = cache.NewRedisStore(ctx, cfg.Cache.RedisClientConfig()); err != nil {
			log.Warn("redis unavailable; falling back to database-backed cache", zap.Error(err))
			stack.Redis = nil
		} else {
			stack.Store = stack.Redis
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}
	revocations := iauth.NewRevocationStore(stack.Store, jwtSvc.MaxTTL(), nil)

	mailer, err := mail.NewSMTPMailer(cfg.Email.SMTPSettings())
	if err != nil {
		return nil, fmt.Errorf("initialise mailer: %w", err)
	}
	sender, err := sms.NewSender(ctx, cfg.SMS.SNSSettings())
	if err != nil {
		return nil, fmt.Errorf("initialise sms sender: %w", err)
	}
	stack.Notifier = services.NewNotifier(mailer, sender)

	codes, err := services.NewVerificationService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise verification service: %w", err)
	}

	authOpts := []services.AuthOption{services.WithBaseURL(cfg.Server.BaseURL)}
	if projectID := strings.TrimSpace(cfg.Federated.FirebaseProjectID); projectID != "" {
		authOpts = append(authOpts, services.WithFederatedVerifier(iauth.NewFirebaseVerifier(projectID)))
	} else {
		log.Info("federated login disabled; no firebase project configured")
	}

	authSvc, err := services.NewAuthService(stack.DB, jwtSvc, revocations, codes, stack.Notifier, authOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise auth service: %w", err)
	}

	businessSvc, err := services.NewBusinessService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise business service: %w", err)
	}
	customerSvc, err := services.NewCustomerService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise customer service: %w", err)
	}
	assetSvc, err := services.NewAssetService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise asset service: %w", err)
	}
	transactionSvc, err := services.NewTransactionService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise transaction service: %w", err)
	}

	if cfg.Maintenance.Enabled {
		// Redis expires keys on its own; only the database store needs purging.
		var purger maintenance.CachePurger
		if stack.Redis == nil {
			purger = dbStore
		}
		stack.Cleaner = maintenance.NewCleaner(purger, authSvc,
			maintenance.WithSchedule(cfg.Maintenance.Schedule),
			maintenance.WithLoginHistoryRetention(cfg.Maintenance.LoginHistoryRetention),
		)
	}

	stack.Monitoring, err = initialiseMonitoring(cfg, stack)
	if err != nil {
		return nil, err
	}

	if stack.Cleaner != nil {
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	stack.Router, err = api.NewRouter(api.Deps{
		Config:       cfg,
		Tokens:       jwtSvc,
		Revocations:  revocations,
		Auth:         authSvc,
		Businesses:   businessSvc,
		Customers:    customerSvc,
		Assets:       assetSvc,
		Transactions: transactionSvc,
		RateStore:    middleware.NewCacheRateStore(stack.Store),
		Monitoring:   stack.Monitoring,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

func initialiseMonitoring(cfg *app.Config, stack *runtimeStack) (*monitoring.Module, error) {
	if !cfg.Monitoring.Health.Enabled && !cfg.Monitoring.Prometheus.Enabled {
		return nil, nil
	}

	module, err := monitoring.NewModule(monitoring.Options{})
	if err != nil {
		return nil, fmt.Errorf("initialise monitoring: %w", err)
	}
	monitoring.SetModule(module)

	health := module.Health()
	health.RegisterReadiness(checks.Database(stack.DB))

	backend := "database"
	if stack.Redis != nil {
		backend = "redis"
	}
	health.RegisterReadiness(checks.TokenStore(stack.Store, backend))

	if stack.Cleaner != nil {
		health.RegisterLiveness(checks.Maintenance(module, stack.Cleaner.Jobs(), maintenanceStaleAfter))
	}

	return module, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		stopCtx := s.Cleaner.Stop()
		if stopCtx != nil {
			<-stopCtx.Done()
		}
		if err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	if s.Notifier != nil {
		s.Notifier.Wait()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn("redis shutdown", zap.Error(err))
		}
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseClientConfig()
	if dbCfg.Driver == "" && dbCfg.DSN == "" {
		dbCfg.Driver = "sqlite"
	}

	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", dbCfg.Driver))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
