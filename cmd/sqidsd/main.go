// Package main is the entry point for the sqids HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/gourl/sqids/internal/cache"
	"github.com/gourl/sqids/internal/config"
	"github.com/gourl/sqids/internal/database"
	"github.com/gourl/sqids/internal/repository"
	"github.com/gourl/sqids/internal/server"
	"github.com/gourl/sqids/internal/services"
	"github.com/gourl/sqids/pkg/logger"
	"github.com/gourl/sqids/pkg/sqids"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env", ".env.local"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel).With("env", cfg.App.Env)

	opts, err := cfg.SqidsOptions()
	if err != nil {
		return err
	}
	codec, err := sqids.New(opts)
	if err != nil {
		return err
	}
	log.Info("codec configured",
		"alphabet_length", len(codec.Alphabet()),
		"min_length", codec.MinLength(),
		"blocklist_size", codec.BlocklistSize(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo repository.ResourceRepository
	var checks []namedCheck

	if cfg.DatabaseEnabled() {
		pool, err := database.Connect(ctx, &cfg.Database, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		migrator, err := database.NewMigrator(pool)
		if err != nil {
			return err
		}
		applied, err := migrator.Up(ctx)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database ready", "migrations_applied", applied)

		repo = repository.NewPostgresResourceRepository(pool)
		checks = append(checks, namedCheck{"database", pool.HealthCheck})
	} else {
		log.Warn("DB_HOST not set, resources are kept in memory")
		repo = repository.NewMemoryResourceRepository()
	}

	if cfg.RedisEnabled() {
		// DB_CONNECT_TIMEOUT bounds both startup connections.
		redisCache, err := cache.Connect(ctx, &cfg.Redis, cfg.Database.ConnectTimeout, log)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisCache.Close()

		repo = repository.NewCachedResourceRepository(repo,
			cache.NewResourceCache(redisCache, cfg.Cache.KeyPrefix, cfg.Cache.TTL))
		checks = append(checks, namedCheck{"cache", redisCache.Ping})
		log.Info("resource cache enabled", "ttl", cfg.Cache.TTL.String())
	}

	codecSvc := services.NewCodecService(codec, log.With("component", "codec"))
	srv := server.New(cfg, log, server.Services{
		Codec:     codecSvc,
		Resources: services.NewResourceService(repo, codecSvc, log.With("component", "resources")),
	})
	for _, c := range checks {
		srv.HealthHandler().AddCheck(c.name, c.fn)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type namedCheck struct {
	name string
	fn   func(context.Context) error
}
