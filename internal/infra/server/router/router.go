// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/budgetree/backend/internal/integration/entrypoint/controller"
	"github.com/budgetree/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	categoryController    *controller.CategoryController
	transactionController *controller.TransactionController
	writeRateLimiter      *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	writeRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		categoryController:    categoryController,
		transactionController: transactionController,
		writeRateLimiter:      writeRateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Category routes (require authentication)
		if r.categoryController != nil && r.authMiddleware != nil {
			categories := v1.Group("/categories")
			categories.Use(r.authMiddleware.Authenticate())
			{
				categories.GET("", r.categoryController.List)
				categories.GET("/hierarchy", r.categoryController.Hierarchy)
				categories.GET("/stats", r.categoryController.Stats)
				categories.GET("/:id", r.categoryController.Get)
				categories.GET("/:id/children", r.categoryController.Children)
				categories.GET("/:id/path", r.categoryController.Path)

				// Writes go through the rate limiter; reads stay cheap.
				if r.writeRateLimiter != nil {
					categories.POST("", r.writeRateLimiter.Middleware(), r.categoryController.Create)
					categories.PATCH("/:id", r.writeRateLimiter.Middleware(), r.categoryController.Update)
					categories.DELETE("/:id", r.writeRateLimiter.Middleware(), r.categoryController.Delete)
				} else {
					categories.POST("", r.categoryController.Create)
					categories.PATCH("/:id", r.categoryController.Update)
					categories.DELETE("/:id", r.categoryController.Delete)
				}
			}
		}

		// Transaction routes (require authentication)
		if r.transactionController != nil && r.authMiddleware != nil {
			transactions := v1.Group("/transactions")
			transactions.Use(r.authMiddleware.Authenticate())
			{
				transactions.GET("", r.transactionController.List)
				if r.writeRateLimiter != nil {
					transactions.POST("", r.writeRateLimiter.Middleware(), r.transactionController.Record)
				} else {
					transactions.POST("", r.transactionController.Record)
				}
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
