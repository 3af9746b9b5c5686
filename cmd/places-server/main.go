package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/placeseek/places-export/internal/server"
	"github.com/placeseek/places-export/pkg/logging"
	"github.com/placeseek/places-export/pkg/places"
	"github.com/placeseek/places-export/pkg/session"
)

func main() {
	// Configuration from environment
	apiKey := os.Getenv("GOOGLE_API_KEY")
	port := getEnv("PORT", "8080")
	redisURL := os.Getenv("REDIS_URL")
	logLevel := getEnv("LOG_LEVEL", "info")
	logPretty := os.Getenv("LOG_PRETTY") == "true"

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Pretty: logPretty,
		Output: os.Stderr,
	})

	if apiKey == "" {
		log.Fatal().Msg("GOOGLE_API_KEY environment variable is required")
	}

	placesClient, err := places.New(places.DefaultConfig(apiKey))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create places client")
	}

	// Session store: Redis when configured, otherwise process-local memory.
	var store session.Store = session.NewMemoryStore()
	if redisURL != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: redisURL,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
		}
		store = session.NewRedisStore(redisClient, session.DefaultSessionTTL)
		log.Info().Str("redis_url", redisURL).Msg("Using Redis session store")
	} else {
		log.Info().Msg("Using in-memory session store")
	}

	manager := session.NewManager(placesClient, store)
	api := server.New(manager)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting place search server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
