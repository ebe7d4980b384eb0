package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/clinovara/tmf-backend/internal/clients/redis"
	"github.com/clinovara/tmf-backend/internal/db"
	"github.com/clinovara/tmf-backend/internal/handlers"
	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/middleware"
	"github.com/clinovara/tmf-backend/internal/repos"
	"github.com/clinovara/tmf-backend/internal/server"
	"github.com/clinovara/tmf-backend/internal/services"
	"github.com/clinovara/tmf-backend/internal/taxonomy"
	"github.com/clinovara/tmf-backend/internal/utils"
	"github.com/clinovara/tmf-backend/internal/validation"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	historyTTL := utils.GetEnvAsInt("VALIDATION_HISTORY_TTL", 7*86400, log)

	// Taxonomy reference tables
	tables, err := taxonomy.Load()
	if err != nil {
		log.Error("Could not load taxonomy tables", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis
	redisClient, err := redis.NewClient(log)
	if err != nil {
		log.Error("Redis init failed", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	zoneRepo := repos.NewZoneRepo(thePG, log)
	sectionRepo := repos.NewSectionRepo(thePG, log)
	artifactRepo := repos.NewArtifactRepo(thePG, log)
	subArtifactRepo := repos.NewSubArtifactRepo(thePG, log)
	documentRepo := repos.NewDocumentRepo(thePG, log)
	packageRepo := repos.NewRegulatoryPackageRepo(thePG, log)
	facilityRepo := repos.NewFacilityRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, userTokenRepo)
	tmfService := services.NewTMFService(thePG, log, tables, zoneRepo, sectionRepo, artifactRepo, subArtifactRepo)
	documentService := services.NewDocumentService(thePG, log, tables, documentRepo, bucketService)
	packageService := services.NewPackageService(thePG, log, packageRepo, documentRepo, bucketService)
	facilityService := services.NewFacilityService(thePG, log, facilityRepo, rand.New(rand.NewSource(time.Now().UnixNano())))
	engine := validation.NewMockEngine(rand.New(rand.NewSource(time.Now().UnixNano())), log)
	historyStore := validation.NewHistoryStore(redisClient, time.Duration(historyTTL)*time.Second, log)
	validationService := services.NewValidationService(log, engine, historyStore, documentRepo, packageRepo)

	if err := tmfService.SeedFromTables(context.Background()); err != nil {
		log.Warn("Taxonomy seed failed", "error", err)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	tmfHandler := handlers.NewTMFHandler(tmfService)
	documentHandler := handlers.NewDocumentHandler(documentService, packageService)
	packageHandler := handlers.NewPackageHandler(packageService, documentService)
	validationHandler := handlers.NewValidationHandler(validationService)
	facilityHandler := handlers.NewFacilityHandler(facilityService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		TMFHandler:        tmfHandler,
		DocumentHandler:   documentHandler,
		PackageHandler:    packageHandler,
		ValidationHandler: validationHandler,
		UserHandler:       userHandler,
		FacilityHandler:   facilityHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
