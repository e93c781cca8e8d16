package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pettrack-backend-go/internal/api"
	"pettrack-backend-go/internal/config"
	"pettrack-backend-go/internal/core"
	"pettrack-backend-go/internal/db"
	"pettrack-backend-go/internal/middleware"
	"pettrack-backend-go/internal/storage"
)

func main() {
	// .env is a local-development convenience; in deployed environments the
	// variables are injected and the file is absent.
	_ = godotenv.Load()

	releaseMode := strings.ToLower(os.Getenv("GIN_MODE")) == "release"
	var zapLogger *zap.Logger
	var err error
	if releaseMode {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded",
		zap.String("port", appConfig.Port),
		zap.String("bucket", appConfig.StorageBucket))

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()
	clients, err := db.NewClients(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()
	zapLogger.Info("Firebase Admin SDK initialized (Firestore, Auth, Storage)")

	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	petRepo := db.NewFirestorePetRepository(clients.Firestore)
	reportRepo := db.NewFirestoreReportRepository(clients.Firestore)

	objectStore := storage.NewGCSObjectStore(clients.Bucket, clients.BucketName)

	assetService, err := core.NewAssetService(objectStore, appConfig.MaxFileSize, appConfig.MaxPhotosPerUpload, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize AssetService", zap.Error(err))
	}
	userService := core.NewUserService(userRepo, assetService, zapLogger)
	petService := core.NewPetService(petRepo, userRepo, assetService, zapLogger)
	lifecycleService := core.NewLifecycleService(userRepo, petRepo, reportRepo, clients.Auth, assetService, clients.BucketName, zapLogger)
	zapLogger.Info("Core services initialized")

	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS disabled: CLIENT_URL is not configured")
	}

	api.SetupRoutes(router, zapLogger, userService, petService, lifecycleService)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully")
}
