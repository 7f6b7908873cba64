package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	authAPI "github.com/rawthreads/storefront/internal/auth/api"
	authService "github.com/rawthreads/storefront/internal/auth/service"
	"github.com/rawthreads/storefront/internal/auth/session"
	catalogAPI "github.com/rawthreads/storefront/internal/catalog/api"
	catalogRepo "github.com/rawthreads/storefront/internal/catalog/repository"
	catalogService "github.com/rawthreads/storefront/internal/catalog/service"
	"github.com/rawthreads/storefront/internal/platform/config"
	"github.com/rawthreads/storefront/internal/platform/database"
	"github.com/rawthreads/storefront/internal/platform/logger"
	"github.com/rawthreads/storefront/internal/upload"
)

func main() {
	cfg := config.Load()
	logger.Info("Starting storefront server...")

	// Select the persistence backend once, at startup.
	var repo catalogRepo.ProductRepository
	if cfg.UseDatabase() {
		db, err := database.Connect(cfg.DatabaseDSN)
		if err != nil {
			logger.Error("Failed to connect to database", err)
			return
		}
		defer db.Close()
		repo = catalogRepo.NewPostgresProductRepository(db)
		logger.Info("Catalog backend: Postgres")
	} else {
		repo = catalogRepo.NewFileProductRepository(cfg.DataFile)
		logger.Info("Catalog backend: JSON file at " + cfg.DataFile)
	}

	images, err := upload.NewImageStore(cfg.UploadsDir)
	if err != nil {
		logger.Error("Failed to initialize image store", err)
		return
	}

	sessions := session.NewStore()
	auth := authService.NewAuthService(authService.Credentials{
		Username: cfg.AdminUser,
		Password: cfg.AdminPass,
	}, sessions)
	catalog := catalogService.NewCatalogService(repo, images)

	authHandler := authAPI.NewAuthHandler(auth, sessions)
	catalogHandler := catalogAPI.NewCatalogHandler(catalog, images)

	router := gin.Default()
	router.RedirectTrailingSlash = false
	router.Use(cors.Default())
	router.Static("/uploads", images.Dir())

	apiRoutes := router.Group("/api")
	authHandler.RegisterRoutes(apiRoutes)
	catalogHandler.RegisterRoutes(apiRoutes, authAPI.RequireAdmin(sessions))

	logger.Info("Storefront listening on " + cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Error("Failed to run storefront server", err)
	}
}
