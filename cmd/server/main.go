package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"tubelens-backend/internal/config"
	"tubelens-backend/internal/database"
	"tubelens-backend/internal/handlers"
	"tubelens-backend/internal/repository"
	"tubelens-backend/internal/router"
	"tubelens-backend/internal/scheduler"
	"tubelens-backend/internal/services"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("🚀 Starting TubeLens Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	if cfg.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.Info("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	logrus.Info("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	logrus.Info("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		logrus.Fatalf("✗ Database migration failed: %v", err)
	}
	logrus.Info("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	credentialRepo := repository.NewCredentialRepo(pool)
	keywordRepo := repository.NewKeywordRepo(pool)
	titleRepo := repository.NewTitleRepo(pool)
	ideaRepo := repository.NewIdeaRepo(pool)
	creditRepo := repository.NewCreditRepo(pool)

	// ──── Step 5: Load API Key Pool ────
	keyPool := services.NewKeyPool(credentialRepo)
	if err := keyPool.Load(context.Background()); err != nil {
		logrus.Fatalf("✗ API key pool load failed: %v", err)
	}
	logrus.Infof("✓ API key pool loaded (%d keys)", keyPool.Size())

	// ──── Step 6: Initialize Generative Provider Chain ────
	gemini, err := services.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logrus.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer gemini.Close()

	openrouter := services.NewOpenRouterProvider(cfg.OpenRouterURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.FrontendURL)
	chain := services.NewChain(gemini, openrouter, time.Duration(cfg.ProviderTimeoutSec)*time.Second)
	logrus.Info("✓ Generative provider chain initialized")

	// ──── Initialize Services ────
	youtubeClient := services.NewYouTubeClient(keyPool, cfg.YouTubeBaseURL, time.Duration(cfg.MetadataTimeoutSec)*time.Second)
	trendingService := services.NewTrendingService(youtubeClient, redisClient)
	analysisService := services.NewKeywordAnalysisService(
		youtubeClient, keywordRepo, chain,
		time.Duration(cfg.FreshnessHours)*time.Hour, cfg.SearchMaxItems,
	)
	titleService := services.NewTitleService(chain, titleRepo, trendingService, cfg.YouTubeRegion)
	ideasService := services.NewIdeasService(ideaRepo, chain, cfg.IdeasMax)
	creditLedger := services.NewCreditLedger(creditRepo)

	// ──── Initialize Handlers ────
	keywordHandler := handlers.NewKeywordHandler(analysisService, creditLedger, keyPool, chain, cfg.AnalysisCreditCost)
	titleHandler := handlers.NewTitleHandler(titleService, creditLedger, cfg.TitleCreditCost)
	ideaHandler := handlers.NewIdeaHandler(ideasService)
	videoHandler := handlers.NewVideoHandler(trendingService, cfg.YouTubeRegion)
	creditHandler := handlers.NewCreditHandler(creditLedger)

	// ──── Step 7: Start Idea Scheduler ────
	ideaScheduler := scheduler.NewService(ideasService, cfg.IdeasCronSpec)
	if err := ideaScheduler.Start(); err != nil {
		logrus.Fatalf("✗ Idea scheduler failed to start: %v", err)
	}
	logrus.Info("✓ Idea scheduler started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		keywordHandler,
		titleHandler,
		ideaHandler,
		videoHandler,
		creditHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logrus.Info("Shutting down...")
		ideaScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logrus.Errorf("Shutdown did not complete cleanly: %v", err)
		}
	}()

	logrus.Infof("✓ TubeLens Backend ready on http://localhost:%s", cfg.Port)
	logrus.Infof("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logrus.Fatalf("Server error: %v", err)
	}
}
