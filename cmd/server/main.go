package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/princeprakhar/shopfront-api/internal/api/routes"
	"github.com/princeprakhar/shopfront-api/internal/config"
	"github.com/princeprakhar/shopfront-api/internal/database"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/pkg/logger"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize logger
	logger.Init()
	if envErr != nil {
		logger.Info("No .env file found, using process environment")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize storage
	backend, err := database.Init(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage: ", err)
	}
	s := store.New(backend)
	if err := database.Seed(s); err != nil {
		logger.Fatal("Failed to seed collections: ", err)
	}
	logger.Infof("Using %s storage backend", backend.Name())

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Setup routes
	if err := routes.SetupRoutes(router, s, cfg); err != nil {
		logger.Fatal("Failed to set up routes: ", err)
	}

	// Start server
	logger.Info("Server starting on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server: ", err)
	}
}
