package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/BioTune/biotune/internal/config"
	"github.com/BioTune/biotune/internal/emotion"
	"github.com/BioTune/biotune/internal/history"
	"github.com/BioTune/biotune/internal/movies"
	"github.com/BioTune/biotune/internal/sensor"
	"github.com/BioTune/biotune/internal/session"
	"github.com/BioTune/biotune/internal/watch"
	"github.com/BioTune/biotune/internal/ws"

	_ "github.com/BioTune/biotune/docs" // Swagger docs
)

// @title BioTune API
// @version 1.0
// @description API сервиса биометрического сопровождения просмотра видео.
// @description
// @description ## Описание
// @description Сервис сопровождает просмотр видео выборкой пульса зрителя,
// @description классифицирует эмоциональные реакции и сохраняет эмоциональную
// @description шкалу каждой сессии.
// @description
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@biotune.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	log.Printf("[INFO] Starting BioTune server...")

	cfg := config.Load()
	log.Printf("[INFO] Configuration loaded: http_port=%s sample_period=%v window_size=%d",
		cfg.HTTPPort, cfg.SamplePeriod, cfg.WindowSize)

	// Redis: горячее хранилище сессий и канал пульса
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("[FATAL] Failed to connect to Redis: %v", err)
	}
	log.Printf("[INFO] Connected to Redis at %s", cfg.RedisAddr)
	defer redisClient.Close()

	// PostgreSQL: долговременное хранилище
	sessionRepo, err := session.NewPostgresRepositoryFromDSN(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to PostgreSQL: %v", err)
	}
	log.Printf("[INFO] Connected to PostgreSQL")
	defer sessionRepo.Close()

	movieRepo := movies.NewPostgresRepository(sessionRepo.DB())
	historyStore := history.NewPostgresStore(sessionRepo.DB())

	// Классификатор эмоций
	apiKey := os.Getenv("OPENAI_API_KEY")
	var detector *emotion.Detector
	if apiKey != "" {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		detector = emotion.NewDetector(&client, cfg.OpenAIModel, cfg.BaselineBPM)
		log.Printf("[INFO] Emotion classifier using model %s", cfg.OpenAIModel)
	} else {
		detector = emotion.NewDetector(nil, cfg.OpenAIModel, cfg.BaselineBPM)
		log.Printf("[WARN] OPENAI_API_KEY not set, classifier will use deterministic fallback")
	}

	// Датчик пульса
	bridge := sensor.NewBridge(cfg.SensorBridgeURL)
	feed := sensor.NewRedisFeed(redisClient, cfg.BPMFeedChannel)
	defer feed.Close()

	// Слои приложения
	cache := session.NewRedisStore(redisClient)
	sessionManager := session.NewManager(cache, sessionRepo, movieRepo, cfg.SessionDataTTLSeconds)
	historyManager := history.NewManager(historyStore, movieRepo)

	hub := ws.NewHub()
	go hub.Run()

	registry := watch.NewRegistry()
	watchHandler := watch.NewHTTPHandler(watch.Options{
		SamplePeriod:        cfg.SamplePeriod,
		WindowSize:          cfg.WindowSize,
		TriggerThresholdBPM: cfg.TriggerThresholdBPM,
		TriggerCooldown:     cfg.TriggerCooldown,
		ClassifyTimeout:     cfg.ClassifyTimeout,
	}, sessionManager, historyManager, bridge, feed, detector, hub, registry)

	// Маршруты
	router := mux.NewRouter()

	session.NewHTTPHandler(sessionManager).RegisterRoutes(router)
	movies.NewHTTPHandler(movieRepo).RegisterRoutes(router)
	history.NewHTTPHandler(historyManager).RegisterRoutes(router)
	watchHandler.RegisterRoutes(router)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      enableCORS(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("[INFO] HTTP server listening on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		log.Printf("[ERROR] Server error: %v", err)

	case sig := <-shutdownChan:
		log.Printf("[INFO] Received signal %v, starting graceful shutdown...", sig)

		registry.StopAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] Graceful shutdown failed: %v", err)
		}

		log.Printf("[INFO] Graceful shutdown completed")
	}

	log.Printf("[INFO] Server stopped")
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			return
		}

		next.ServeHTTP(w, r)
	})
}
