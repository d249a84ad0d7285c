// @title         growth-service API
// @version       1.0
// @description   Career growth engine: goals, skill gap analysis, learning paths and progress tracking.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token. Both "Bearer <JWT>" and "<JWT>" are accepted.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/artem13815/growth/docs"
	swagger "github.com/gofiber/swagger"

	// internal imports
	api "github.com/artem13815/growth/api/http"
	"github.com/artem13815/growth/api/http/handlers"
	"github.com/artem13815/growth/pkg/auth"
	"github.com/artem13815/growth/pkg/cache"
	"github.com/artem13815/growth/pkg/config"
	"github.com/artem13815/growth/pkg/growth"
	"github.com/artem13815/growth/pkg/health"
	"github.com/artem13815/growth/pkg/health/checkers"
	"github.com/artem13815/growth/pkg/logger"
	"github.com/artem13815/growth/pkg/profile"
	"github.com/artem13815/growth/pkg/repository/memory"
	pgrepo "github.com/artem13815/growth/pkg/repository/postgres"
	"github.com/artem13815/growth/pkg/security/jwt"
	"github.com/artem13815/growth/pkg/storage/postgres"
	"github.com/artem13815/growth/pkg/storage/redis"
	"github.com/artem13815/growth/pkg/taxonomy"
)

func main() {
	// Load configuration from env/.env
	cfg := config.Load()

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if err := run(cfg, lg); err != nil {
		lg.Error("server stopped", "err", err)
		lg.Sync()
		os.Exit(1)
	}
	lg.Sync()
}

func run(cfg config.Config, lg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		var err error
		if table, err = taxonomy.LoadFile(cfg.TaxonomyPath); err != nil {
			return fmt.Errorf("load taxonomy %s: %w", cfg.TaxonomyPath, err)
		}
	}
	lg.Info("taxonomy loaded", "skills", table.Len())

	var (
		userRepo   auth.UserRepository
		skillRepo  profile.Repository
		growthRepo growth.Repository
		readiness  []health.Checker
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.PoolOptions{
			MaxConns:       int32(cfg.DBMaxConns),
			ConnectTimeout: 5 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("postgres connect: %w", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		userRepo = pgrepo.NewUserRepository(pool)
		skillRepo = pgrepo.NewSkillRepository(pool)
		growthRepo = pgrepo.NewGrowthRepository(pool)
		readiness = append(readiness, checkers.NewPostgresChecker(pool))
	} else {
		lg.Warn("DATABASE_URL is not set, state is kept in memory")
		userRepo = memory.NewUserRepository()
		skillRepo = memory.NewSkillRepository()
		growthRepo = memory.NewGrowthRepository()
	}

	var summaries growth.SummaryCache
	if cfg.RedisAddr != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("redis connect %s: %w", cfg.RedisAddr, err)
		}
		defer rdb.Close()
		summaries = cache.NewSummaryCache(rdb, cfg.SummaryCacheTTL)
		readiness = append(readiness, checkers.NewRedisChecker(rdb))
	}

	// Wire dependencies (Clean Architecture)
	jwtGen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	authUC := auth.NewAuthService(userRepo, jwtGen)
	profileUC := profile.NewService(skillRepo, table)
	engine := growth.NewEngine(table, growth.ExperienceBands{}, cfg.DefaultRequiredLevel, cfg.PreferredRequiredLevel)
	growthUC := growth.NewService(growthRepo, skillRepo, engine, summaries, lg.With("component", "growth"))

	app := api.NewApp(lg.With("component", "http"))
	api.Register(app, api.Handlers{
		Auth:    handlers.NewAuthHandler(authUC),
		Health:  handlers.NewHealthHandler(health.NewService(cfg.ReadyTimeout, readiness...)),
		Profile: handlers.NewProfileHandler(profileUC),
		Goals:   handlers.NewGoalHandler(growthUC),
		Gaps:    handlers.NewGapHandler(growthUC),
		Paths:   handlers.NewPathHandler(growthUC),
		Summary: handlers.NewSummaryHandler(growthUC),
	}, jwt.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			lg.Error("shutdown", "err", err)
		}
	}()

	lg.Info("HTTP server listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
