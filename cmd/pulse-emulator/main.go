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
	"github.com/redis/go-redis/v9"

	"github.com/BioTune/biotune/internal/config"
	"github.com/BioTune/biotune/internal/emulator"
)

func main() {
	log.Printf("[INFO] Starting pulse emulator...")

	cfg := config.Load()
	port := getEnv("EMULATOR_PORT", "5000")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("[FATAL] Failed to connect to Redis: %v", err)
	}
	log.Printf("[INFO] Connected to Redis at %s", cfg.RedisAddr)
	defer redisClient.Close()

	generator := emulator.NewPulseGenerator(emulator.DefaultGeneratorConfig())
	publisher := emulator.NewPublisher(redisClient, cfg.BPMFeedChannel, generator, time.Second)

	router := mux.NewRouter()
	emulator.NewHTTPServer(publisher).RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Emulator listening on :%s (channel=%s)", port, cfg.BPMFeedChannel)
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
		log.Printf("[INFO] Received signal %v, shutting down...", sig)

		if publisher.Running() {
			publisher.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] Graceful shutdown failed: %v", err)
		}
	}

	log.Printf("[INFO] Emulator stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
