package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/clinovara/tmf-backend/internal/handlers"
	"github.com/clinovara/tmf-backend/internal/middleware"
	"github.com/clinovara/tmf-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	TMFHandler        *handlers.TMFHandler
	DocumentHandler   *handlers.DocumentHandler
	PackageHandler    *handlers.PackageHandler
	ValidationHandler *handlers.ValidationHandler
	UserHandler       *handlers.UserHandler
	FacilityHandler   *handlers.FacilityHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// Taxonomy hierarchy
	tmf := protected.Group("/tmf")
	{
		tmf.GET("/zones", cfg.TMFHandler.GetZones)
		tmf.GET("/zones/:id/sections", cfg.TMFHandler.GetSections)
		tmf.GET("/sections/:id/artifacts", cfg.TMFHandler.GetArtifacts)
		tmf.GET("/artifacts/:id/sub-artifacts", cfg.TMFHandler.GetSubArtifacts)

		admin := cfg.AuthMiddleware.RequireRole(types.UserRoleAdmin)
		tmf.POST("/zones", admin, cfg.TMFHandler.CreateZone)
		tmf.POST("/sections", admin, cfg.TMFHandler.CreateSection)
		tmf.POST("/artifacts", admin, cfg.TMFHandler.CreateArtifact)
		tmf.POST("/sub-artifacts", admin, cfg.TMFHandler.CreateSubArtifact)

		tmf.GET("/documents", cfg.DocumentHandler.List)
		tmf.GET("/documents/:id", cfg.DocumentHandler.Get)
		tmf.POST("/documents", cfg.DocumentHandler.Create)
		tmf.PUT("/documents/:id/status", cfg.DocumentHandler.UpdateStatus)
		tmf.DELETE("/documents/:id", cfg.DocumentHandler.Delete)
		tmf.POST("/documents/:id/import", cfg.DocumentHandler.Import)
	}

	// Regulatory packages
	pkgs := protected.Group("/regulatory-packages")
	{
		pkgs.GET("", cfg.PackageHandler.List)
		pkgs.POST("", cfg.PackageHandler.Create)
		pkgs.GET("/:id", cfg.PackageHandler.Get)
		pkgs.PUT("/:id", cfg.PackageHandler.Update)
		pkgs.DELETE("/:id", cfg.PackageHandler.Delete)
		pkgs.POST("/:id/documents", cfg.PackageHandler.AddDocument)
		pkgs.DELETE("/:id/documents/:documentId", cfg.PackageHandler.RemoveDocument)
		pkgs.POST("/:id/submit", cfg.PackageHandler.Submit)
		pkgs.POST("/:id/validate", cfg.ValidationHandler.ValidatePackage)
	}

	// Validation
	validation := protected.Group("/validation")
	{
		validation.POST("/validate", cfg.ValidationHandler.Validate)
		validation.GET("/history/:documentId", cfg.ValidationHandler.History)
	}

	// Users
	users := protected.Group("/users")
	{
		users.GET("", cfg.UserHandler.List)
		users.GET("/me", cfg.UserHandler.Me)
		users.GET("/:id", cfg.UserHandler.Get)
		users.PUT("/:id", cfg.AuthMiddleware.RequireRole(types.UserRoleAdmin), cfg.UserHandler.Update)
		users.DELETE("/:id", cfg.AuthMiddleware.RequireRole(types.UserRoleAdmin), cfg.UserHandler.Delete)
	}

	// Facilities
	facilities := protected.Group("/facilities")
	{
		facilities.GET("", cfg.FacilityHandler.List)
		facilities.POST("", cfg.FacilityHandler.Create)
		facilities.GET("/:id", cfg.FacilityHandler.Get)
		facilities.PUT("/:id", cfg.FacilityHandler.Update)
		facilities.DELETE("/:id", cfg.FacilityHandler.Delete)
	}

	return router
}
