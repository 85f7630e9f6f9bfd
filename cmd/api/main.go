// Package main is the entry point for the BudgeTree API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/budgetree/backend/config"
	"github.com/budgetree/backend/internal/application/usecase/category"
	"github.com/budgetree/backend/internal/application/usecase/transaction"
	"github.com/budgetree/backend/internal/infra/db"
	"github.com/budgetree/backend/internal/infra/server/router"
	"github.com/budgetree/backend/internal/integration/adapters"
	"github.com/budgetree/backend/internal/integration/entrypoint/controller"
	"github.com/budgetree/backend/internal/integration/entrypoint/middleware"
	"github.com/budgetree/backend/internal/integration/persistence"
	"github.com/budgetree/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting BudgeTree API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	var database *db.Database
	var dbHealthChecker func() bool

	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Warn("Database connection failed, running without database",
			"error", err,
		)
		dbHealthChecker = func() bool { return false }
	} else {
		// Run database migrations
		if err := database.AutoMigrate(
			&model.CategoryModel{},
			&model.TransactionModel{},
		); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")

		dbHealthChecker = database.HealthCheck
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}()
	}

	// Initialize Redis connection (used for rate limiting)
	var redisClient *redis.Client
	redisClient, err = db.NewRedisClient(&cfg.Redis)
	if err != nil {
		slog.Warn("Redis connection failed, rate limiting disabled",
			"error", err,
		)
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("Failed to close redis connection", "error", err)
			}
		}()
	}

	// Create health controller with database health checker
	healthController := controller.NewHealthController(dbHealthChecker)

	// Create controllers and middleware (only if database is available)
	var categoryController *controller.CategoryController
	var transactionController *controller.TransactionController
	var writeRateLimiter *middleware.RateLimiter
	var authMiddleware *middleware.AuthMiddleware

	if database != nil {
		// Create repositories
		categoryRepo := persistence.NewCategoryRepository(database.DB())
		transactionRepo := persistence.NewTransactionRepository(database.DB())

		// Create adapters/services
		tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

		// Create category use cases
		validator := category.NewValidator(categoryRepo)
		createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo, validator)
		updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo, validator)
		deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo, transactionRepo)
		getCategoryUseCase := category.NewGetCategoryUseCase(categoryRepo)
		getChildrenUseCase := category.NewGetChildrenUseCase(categoryRepo)
		listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
		hierarchyUseCase := category.NewGetHierarchyUseCase(categoryRepo)
		pathUseCase := category.NewGetCategoryPathUseCase(categoryRepo)
		statsUseCase := category.NewGetCategoryStatsUseCase(categoryRepo)

		// Create transaction use cases
		recordTransactionUseCase := transaction.NewRecordTransactionUseCase(transactionRepo, categoryRepo)
		listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)

		// Create category controller
		categoryController = controller.NewCategoryController(
			createCategoryUseCase,
			updateCategoryUseCase,
			deleteCategoryUseCase,
			getCategoryUseCase,
			getChildrenUseCase,
			listCategoriesUseCase,
			hierarchyUseCase,
			pathUseCase,
			statsUseCase,
		)

		// Create transaction controller
		transactionController = controller.NewTransactionController(
			recordTransactionUseCase,
			listTransactionsUseCase,
		)

		// Create middleware
		if redisClient != nil {
			writeRateLimiter = middleware.NewRateLimiterWithConfig(
				redisClient,
				cfg.RateLimit.MaxAttempts,
				cfg.RateLimit.WindowDuration,
			)
		}
		authMiddleware = middleware.NewAuthMiddleware(tokenService)

		slog.Info("Category and Transaction systems initialized successfully")
	} else {
		slog.Warn("Category and Transaction systems not initialized due to missing database connection")
	}

	// Setup router
	r := router.NewRouter(healthController, categoryController, transactionController, writeRateLimiter, authMiddleware)
	engine := r.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
