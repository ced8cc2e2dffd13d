package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hcm-suite/hcm-system/internal/api"
	"github.com/hcm-suite/hcm-system/internal/infrastructure/config"
	mongodb "github.com/hcm-suite/hcm-system/internal/infrastructure/db/mongo"
	redisdb "github.com/hcm-suite/hcm-system/internal/infrastructure/db/redis"
	"github.com/hcm-suite/hcm-system/internal/token"
	"github.com/hcm-suite/hcm-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAuth(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "auth-api"})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "auth-api",
	})

	// A missing signing key is a configuration error; refuse to start.
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	credRepo := mongodb.NewCredentialRepository(db)
	if err := credRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	if cfg.Env == "development" {
		if err := mongodb.SeedCredentials(ctx, credRepo, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed credentials")
		}
	}

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		// Login throttling degrades gracefully without Redis.
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// The auth service issues tokens for the people service and accepts
	// them itself: its own issuer name is part of every verifier's
	// accepted audience set.
	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, []string{cfg.JWT.Audience, cfg.JWT.Issuer}, time.Duration(cfg.JWT.ExpiryMinutes)*time.Minute)
	verifier := token.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Issuer)

	e := api.NewAuthRouter(db, rdb, issuer, verifier, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("auth-api listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("auth-api stopped")
}
