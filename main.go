package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/pokermaster-be/internal/api"
	"github.com/isdelr/pokermaster-be/internal/auth"
	"github.com/isdelr/pokermaster-be/internal/config"
	"github.com/isdelr/pokermaster-be/internal/database"
	"github.com/isdelr/pokermaster-be/internal/logger"
	"github.com/isdelr/pokermaster-be/internal/monitoring"
	"github.com/isdelr/pokermaster-be/internal/services"
	"github.com/isdelr/pokermaster-be/internal/store"
	"github.com/isdelr/pokermaster-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Set up identity store
	users, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to initialize identity store")
	}
	defer users.Close()

	// Set up auth primitives
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	authService, err := services.NewAuthService(users, hasher, tokens)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth service")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up and run the background stats sampler
	sampler := monitoring.NewStatSampler(15 * time.Second)
	go sampler.Run()

	// Set up and run the background scheduler
	scheduler := monitoring.NewScheduler(hub, users, cfg.RoomIdleTimeout)
	if err := scheduler.Run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Set up router
	router := api.NewRouter(api.RouterConfig{
		AuthService:    authService,
		Tokens:         tokens,
		Hub:            hub,
		Users:          users,
		HostStats:      sampler,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Int("port", cfg.ServerPort).
			Str("env", cfg.AppEnv).
			Str("store", cfg.StoreDriver).
			Dur("token_ttl", tokens.TTL()).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sampler.Stop()   // Stop the monitoring service
	scheduler.Stop() // Stop the scheduler
	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver != config.StoreSQLite {
		return store.NewMemoryStore(), nil
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return store.NewSQLiteStore(db), nil
}
