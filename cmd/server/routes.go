package main

import (
	"github.com/gin-gonic/gin"
	"github.com/testdeckhq/testdeck/internal/config"
	"github.com/testdeckhq/testdeck/internal/handlers"
	"github.com/testdeckhq/testdeck/internal/middleware"
	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/internal/services"
	"github.com/testdeckhq/testdeck/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	db := models.GetDB()
	perm := middleware.NewPermission(db)

	// Rate limiter for the public auth routes
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	// Health check
	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := handlers.NewAuthHandler(db, cfg)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", authHandler.Me)

			// Projects
			projectHandler := handlers.NewProjectHandler(db)
			protected.POST("/projects", projectHandler.Create)
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:projectId", perm.RequireProjectAccess(), projectHandler.Get)
			protected.PUT("/projects/:projectId", projectHandler.Update)
			protected.DELETE("/projects/:projectId", projectHandler.Delete)

			// Test packages
			packageHandler := handlers.NewPackageHandler(db)
			pkgs := protected.Group("/projects/:projectId/packages", perm.RequireProjectAccess())
			{
				pkgs.POST("", perm.Require(services.PermCreatePackage), packageHandler.Create)
				pkgs.GET("", perm.Require(services.PermViewProject), packageHandler.List)
				pkgs.GET("/:packageId", perm.Require(services.PermViewProject), packageHandler.Get)
				pkgs.PUT("/:packageId", perm.Require(services.PermEditPackage), packageHandler.Update)
				pkgs.DELETE("/:packageId", perm.Require(services.PermDeletePackage), packageHandler.Delete)
			}

			// Test scenarios
			scenarioHandler := handlers.NewScenarioHandler(db)
			scenarios := protected.Group("/projects/:projectId/packages/:packageId/scenarios", perm.RequireProjectAccess())
			{
				scenarios.POST("", perm.Require(services.PermCreateScenario), scenarioHandler.Create)
				scenarios.GET("", perm.Require(services.PermViewProject), scenarioHandler.List)
				scenarios.GET("/:scenarioId", perm.Require(services.PermViewProject), scenarioHandler.Get)
				scenarios.PUT("/:scenarioId", perm.Require(services.PermEditScenario), scenarioHandler.Update)
				scenarios.DELETE("/:scenarioId", perm.Require(services.PermDeleteScenario), scenarioHandler.Delete)
			}

			// Scenario executions
			executionHandler := handlers.NewExecutionHandler(db)
			executions := protected.Group("/projects/:projectId/packages/:packageId/scenarios/:scenarioId/executions", perm.RequireProjectAccess())
			{
				executions.POST("", perm.Require(services.PermExecuteScenario), executionHandler.Create)
				executions.GET("", perm.Require(services.PermViewProject), executionHandler.List)
			}

			// Bugs
			bugHandler := handlers.NewBugHandler(db)
			bugs := protected.Group("/projects/:projectId/bugs", perm.RequireProjectAccess())
			{
				bugs.POST("", perm.Require(services.PermCreateBug), bugHandler.Create)
				bugs.GET("", perm.Require(services.PermViewProject), bugHandler.List)
				bugs.PUT("/:bugId", perm.Require(services.PermCreateBug), bugHandler.Update)
				bugs.DELETE("/:bugId", perm.Require(services.PermCreateBug), bugHandler.Delete)
			}

			// Members
			memberHandler := handlers.NewMemberHandler(db)
			members := protected.Group("/projects/:projectId/members", perm.RequireProjectAccess())
			{
				members.GET("", perm.Require(services.PermViewProject), memberHandler.List)
				members.PUT("/:userId", memberHandler.UpdateRole)
				members.DELETE("/:userId", memberHandler.Remove)
			}

			// Invites
			inviteHandler := handlers.NewInviteHandler(db)
			protected.POST("/projects/:projectId/invites", perm.RequireProjectAccess(), inviteHandler.Create)
			protected.GET("/invites", inviteHandler.ListSent)
			protected.GET("/invites/received", inviteHandler.ListReceived)
			protected.POST("/invites/:inviteId/accept", inviteHandler.Accept)
			protected.POST("/invites/:inviteId/decline", inviteHandler.Decline)
		}
	}
}
