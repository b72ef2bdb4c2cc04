package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"filedrive/internal/api"
	"filedrive/internal/api/handlers"
	"filedrive/internal/api/middleware"
	"filedrive/internal/engine/access"
	"filedrive/internal/engine/favorites"
	"filedrive/internal/engine/files"
	"filedrive/internal/engine/identity"
	"filedrive/internal/pkg/logger"
	"filedrive/internal/platform/audit"
	"filedrive/internal/platform/auth"
	"filedrive/internal/platform/config"
	"filedrive/internal/platform/database"
	"filedrive/internal/platform/repositories"
	"filedrive/internal/platform/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	blobs, err := storage.NewDiskStore(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	fileRepo := files.NewRepository(db)
	favoriteRepo := favorites.NewRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.Identity)
	authorizer := access.NewAuthorizer(userRepo)
	auditor := audit.NewRecorder(db)
	identitySvc := identity.NewService(userRepo)
	fileSvc := files.NewService(fileRepo, favoriteRepo, authorizer, blobs, auditor)

	// Handlers
	fileHandler := handlers.NewFileHandler(fileSvc)
	uploadHandler := handlers.NewUploadHandler(blobs)
	userHandler := handlers.NewUserHandler(identitySvc)
	webhookHandler := handlers.NewWebhookHandler(identitySvc, cfg.Webhook.IdentitySecret)
	healthHandler := handlers.NewHealthHandler(db, cfg.Storage.RootDir)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	middleware.ConfigureRateLimits(cfg.RateLimit)

	// Router
	deps := &api.Dependencies{
		FileHandler:    fileHandler,
		UploadHandler:  uploadHandler,
		UserHandler:    userHandler,
		WebhookHandler: webhookHandler,
		HealthHandler:  healthHandler,
		AuthMiddleware: authMiddleware,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
