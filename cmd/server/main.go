package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accord/internal/cache"
	"accord/internal/config"
	"accord/internal/repository"
	"accord/internal/service"
	"accord/internal/transport/rest"
	"accord/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Guide:   %s", aiConfig.Models.Guide)
	log.Printf("  Summary: %s", aiConfig.Models.Summary)
	if aiConfig.IsEnabled() {
		log.Println("  API Key: configured ✓")
	} else {
		log.Println("  API Key: NOT SET (using mock guide)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := cfg.RedisAddr
	// Remove redis:// prefix if present
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	templateRepo := repository.NewTemplateRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	reportRepo := repository.NewReportRepo(db)
	scenarioRepo := repository.NewScenarioRepo(db)

	// Initialize caches
	templateCache := cache.NewTemplateCache(rdb)
	sessionCache := cache.NewSessionCache(rdb)
	reportCache := cache.NewReportCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.OwnerUser, cfg.OwnerPass, cfg.JWTSecret)
	templateSvc := service.NewTemplateService(templateRepo, scenarioRepo, templateCache)
	sessionSvc := service.NewSessionService(sessionRepo, templateRepo, sessionCache, authSvc)
	comparisonSvc := service.NewComparisonService(responseRepo, reportRepo, reportCache, sessionCache, templateSvc)
	responseSvc := service.NewResponseService(responseRepo, sessionCache, reportCache, templateSvc, comparisonSvc)
	guideSvc := service.NewGuideService()

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)
	responseSvc.SetBroadcaster(wsHub)
	comparisonSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:       authSvc,
		TemplateService:   templateSvc,
		SessionService:    sessionSvc,
		ResponseService:   responseSvc,
		ComparisonService: comparisonSvc,
		GuideService:      guideSvc,
		WSHub:             wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Owner auth: username=%s", cfg.OwnerUser)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/templates")
		log.Println("  POST/GET /v1/sessions")
		log.Println("  POST /v1/sessions/{code}/join")
		log.Println("  PUT  /v1/sessions/{code}/responses")
		log.Println("  POST /v1/sessions/{code}/submit")
		log.Println("  GET  /v1/sessions/{code}/report")
		log.Println("  GET  /v1/sessions/{code}/guide")
		log.Println("  WS   /v1/ws/sessions/{code}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
