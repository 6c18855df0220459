package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/storefront/internal/domain/account"
	authsvc "github.com/your-org/storefront/internal/domain/auth"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/infrastructure/api"
	"github.com/your-org/storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/interfaces/http/routes"
	"github.com/your-org/storefront/internal/pkg/auth"
	"github.com/your-org/storefront/internal/pkg/logger"
	"github.com/your-org/storefront/internal/pkg/pdf"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	log.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront")

	// Connect to database
	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if !skipMigrations {
		if err := postgres.NewMigration(db.DB, log).Run(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Upstream marketplace API and the catalog built on it
	apiClient := api.NewClient(cfg)
	catalogClient := catalog.NewClient(apiClient, redis.NewPageCache(redisClient, cfg.Upstream.CatalogCacheTTL, log), log)
	feeds := catalog.NewFeeds(catalogClient, log)

	// Sessions: guest carts and signed-out tokens in Redis, customer carts in Postgres
	sessions := session.NewManager(cfg,
		redis.NewCartRepository(redisClient, cfg.Session.GuestCartTTL, log),
		postgres.NewCartRepository(db.DB),
		redis.NewRevocationStore(redisClient),
		feeds, log)
	defer sessions.Close()
	go sessions.Run(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTTL)

	tokens := auth.NewTokenManager(cfg)
	carts := session.NewCartService(cfg, catalogClient, log)

	server := http.NewServer(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Sessions: sessions,
		Tokens:   tokens,
		Catalog:  catalogClient,
		Carts:    carts,
		Auth:     authsvc.NewService(apiClient, sessions, tokens, log),
		Checkout: checkout.NewService(apiClient, carts, log),
		Accounts: account.NewService(cfg, apiClient, pdf.NewService(cfg), log),
	}, redisClient.GetClient(), map[string]http.HealthChecker{
		"database": db,
		"redis":    redisClient,
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	log.Info("Server shutdown completed")
	return nil
}
