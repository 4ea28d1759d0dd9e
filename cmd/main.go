package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"checky/docs"
	"checky/internal/analytics"
	"checky/internal/caching"
	"checky/internal/config"
	"checky/internal/handlers"
	"checky/internal/jobs"
	"checky/internal/jobs/background"
	"checky/internal/metrics"
	"checky/internal/middleware"
	"checky/internal/repositories"
	"checky/internal/services"
	"checky/pkg/database"
	"checky/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// @title           Checky API
// @version         1.0
// @description     Multi-tenant restaurant point of sale: menu, tables, orders and recipe-driven inventory.
// @BasePath        /
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
// @securityDefinitions.apikey AdminBearer
// @in              header
// @name            Authorization
func main() {
	configPath := flag.String("config", os.Getenv("CHECKY_CONFIG"), "optional TOML config file applied over the environment")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Development:       cfg.IsDevelopment(),
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Postgres.URL, database.PoolConfig{
		MaxConns:        int32(cfg.Postgres.MaxConns),
		MinConns:        int32(cfg.Postgres.MinConns),
		MaxConnLifetime: cfg.Postgres.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	zapLogger.Info("connected to postgres")

	if cfg.Server.RunMigrations {
		applied, err := database.RunMigrations(ctx, pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		zapLogger.Info("migrations applied", zap.Strings("migrations", applied))
	}

	redisClient, err := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := caching.NewRedisCacheService(redisClient)

	storage, err := services.NewMinioService(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.UseSSL)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	if err := storage.EnsureBucketExists(ctx, cfg.MinIO.ImageBucket); err != nil {
		// Menu images are optional; the health check reports storage as degraded.
		zapLogger.Warn("image bucket unavailable", zap.String("bucket", cfg.MinIO.ImageBucket), zap.Error(err))
	}

	m := metrics.New("checky")

	restaurantRepo := repositories.NewRestaurantRepo(pool)
	apiKeyRepo := repositories.NewApiKeyRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	menuItemRepo := repositories.NewMenuItemRepo(pool)
	tableRepo := repositories.NewTableRepo(pool)
	inventoryRepo := repositories.NewInventoryRepo(pool)
	txRepo := repositories.NewInventoryTransactionRepo(pool)
	recipeRepo := repositories.NewRecipeRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)
	salesRepo := repositories.NewSalesRepo(pool)

	numbers := services.NewNumberGenerator()
	ledger := services.NewInventoryLedger(txRepo, numbers, m, zapLogger)
	restaurantService := services.NewRestaurantService(restaurantRepo, cache, cfg.Redis.CacheTTL, zapLogger)
	apiKeyService := services.NewApiKeyService(apiKeyRepo, cache, cfg.Auth.APIKeyTTL, zapLogger)
	menuService := services.NewMenuService(categoryRepo, menuItemRepo, cache, storage, services.MenuImageConfig{
		Bucket:    cfg.MinIO.ImageBucket,
		URLExpiry: cfg.MinIO.URLExpiry,
	}, cfg.Redis.CacheTTL, zapLogger)
	tableService := services.NewTableService(tableRepo, zapLogger)
	inventoryService := services.NewInventoryService(inventoryRepo, ledger, zapLogger)
	recipeService := services.NewRecipeService(recipeRepo, menuItemRepo, inventoryRepo, ledger, m, zapLogger)
	orderService := services.NewOrderService(orderRepo, orderItemRepo, menuService, restaurantService, recipeService, numbers, m, zapLogger)
	receiptService := services.NewReceiptService(orderService, restaurantService, menuService)
	salesService := analytics.NewService(salesRepo, inventoryService, cache, cfg.Redis.CacheTTL, zapLogger)
	alertService := jobs.NewInventoryAlertService(restaurantRepo, inventoryService, m, zapLogger, cfg.Jobs.ExpiryLookahead)

	var runner handlers.JobRunner
	if cfg.Jobs.Enabled {
		scheduler, err := background.NewJobScheduler(alertService, cfg.Jobs.AlertInterval, zapLogger)
		if err != nil {
			return err
		}

		if cfg.Jobs.QueueEnabled {
			redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
			queue := asynq.NewClient(redisOpt)
			defer queue.Close()
			scheduler.UseQueue(queue)

			worker := asynq.NewServer(redisOpt, asynq.Config{
				Concurrency: cfg.Jobs.QueueConcurrency,
				Queues:      map[string]int{jobs.AlertQueue: 1},
				Logger:      zapLogger.Sugar(),
			})
			if err := worker.Start(alertService.NewTaskMux()); err != nil {
				return fmt.Errorf("task worker: %w", err)
			}
			defer worker.Shutdown()
		}

		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				zapLogger.Warn("failed to stop scheduler", zap.Error(err))
			}
		}()
		runner = scheduler
	}

	adminJWT, stopJWKS, err := middleware.AdminJWT(cfg.Auth, zapLogger)
	if err != nil {
		return fmt.Errorf("admin auth: %w", err)
	}
	defer stopJWKS()

	e := echo.New()
	e.HideBanner = true
	e.Validator = middleware.NewRequestValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(zapLogger)

	versions := middleware.NewVersionMiddleware()
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-API-Key", middleware.HeaderAPIVersion},
	}))
	e.Use(middleware.RequestLogger(zapLogger))
	e.Use(middleware.Metrics(m))
	e.Use(versions.APIVersionResolver())

	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	docs.SwaggerInfo.Version = handlers.Version
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	handlers.RegisterRoutes(e, &handlers.Handlers{
		Restaurant: handlers.NewRestaurantHandlers(restaurantService, apiKeyService),
		APIKeys:    handlers.NewApiKeyHandlers(apiKeyService),
		Menu:       handlers.NewMenuHandlers(menuService),
		Tables:     handlers.NewTableHandlers(tableService),
		Inventory:  handlers.NewInventoryHandlers(inventoryService, cfg.Jobs.ExpiryLookahead),
		Ledger:     handlers.NewLedgerHandlers(ledger),
		Recipes:    handlers.NewRecipeHandlers(recipeService),
		Orders:     handlers.NewOrderHandlers(orderService),
		Health:     handlers.NewHealthHandlers(pool, cache, storage, cfg.MinIO.ImageBucket),
		Jobs:       handlers.NewJobHandlers(runner, alertService),
		Analytics:  handlers.NewAnalyticsHandlers(salesService),
		Receipts:   handlers.NewReceiptHandlers(receiptService),
	},
		[]echo.MiddlewareFunc{
			middleware.APIKeyAuth(apiKeyService, zapLogger),
			middleware.RateLimit(cache, cfg.RateLimit.Requests, cfg.RateLimit.Window, zapLogger),
		},
		[]echo.MiddlewareFunc{adminJWT},
	)

	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("http server listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.AppEnv))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-serverErr
}

