package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hcm-suite/hcm-system/internal/api"
	"github.com/hcm-suite/hcm-system/internal/core/service"
	"github.com/hcm-suite/hcm-system/internal/infrastructure/authclient"
	"github.com/hcm-suite/hcm-system/internal/infrastructure/config"
	mongodb "github.com/hcm-suite/hcm-system/internal/infrastructure/db/mongo"
	"github.com/hcm-suite/hcm-system/internal/token"
	"github.com/hcm-suite/hcm-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadPeople(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "people-api"})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "people-api",
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

	personRepo := mongodb.NewPersonRepository(db)
	if err := personRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	if cfg.Env == "development" {
		if err := mongodb.SeedPeople(ctx, personRepo, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed people")
		}
	}

	authClient := authclient.NewClient(cfg.AuthAPIURL, &http.Client{Timeout: 30 * time.Second}, log)

	// Tokens are accepted when issued for this service or for the auth
	// service itself.
	verifier := token.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	var opts []service.Option
	if cfg.BestEffortCreate {
		opts = append(opts, service.WithBestEffortCreate())
	}

	e := api.NewPeopleRouter(db, authClient, verifier, log, opts...)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("people-api listening")
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
	log.Info().Msg("people-api stopped")
}
