package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecommerce-admin/server/internal/config"
	adminhttp "github.com/ecommerce-admin/server/internal/http"
	"github.com/ecommerce-admin/server/internal/model"
	"github.com/ecommerce-admin/server/internal/repo"
	logx "github.com/ecommerce-admin/server/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		logx.Init()
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment, Level: cfg.LogLevel})
	if envErr != nil {
		if config.IsMissingEnvFile(envErr) {
			logx.Debug().Msg("no .env file found, using process environment")
		} else {
			logx.Warn().Err(envErr).Msg("could not load .env file")
		}
	}

	store, closeStore, err := openRepository(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Str("backend", cfg.Backend).Msg("failed to initialise store")
	}
	defer closeStore()

	api := adminhttp.NewAdminAPI(store,
		adminhttp.WithDiagnostics(adminhttp.Diagnostics{
			DatabaseURLSet: cfg.Database.URL != "",
			DatabaseName:   cfg.Database.Name,
		}),
		adminhttp.WithOperationTimeout(operationTimeout(cfg)),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		ReadTimeout:  cfg.HTTP.Read(),
		WriteTimeout: cfg.HTTP.Write(),
		ErrorLog:     log.New(logx.Logger().With().Str("component", "http").Logger(), "", 0),
	}

	serveErr := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", srv.Addr).Str("store", store.Name()).Msg("admin backend listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logx.Error().Err(err).Msg("http server stopped")
		}
		return
	case <-ctx.Done():
	}

	logx.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Shutdown())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openRepository builds the repository for the configured backend. The
// returned func releases its connections.
func openRepository(ctx context.Context, cfg config.AppConfig) (model.Repository, func(), error) {
	switch cfg.Backend {
	case config.BackendMongo:
		client, db, err := cfg.Database.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		if err := cfg.Database.Ping(ctx, client); err != nil {
			logx.Warn().Err(err).Str("database", cfg.Database.Name).Msg("mongo not reachable yet, serving anyway")
		}
		closeFn := func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Shutdown())
			defer cancel()
			if err := client.Disconnect(shutdownCtx); err != nil {
				logx.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}
		return repo.NewMongoRepository(db), closeFn, nil

	case config.BackendRedis:
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				logx.Warn().Err(err).Msg("redis close failed")
			}
		}
		return repo.NewRedisRepository(rdb, cfg.Redis.KeyPrefix), closeFn, nil

	case config.BackendMemory:
		logx.Warn().Msg("using in-memory store, data is lost on exit")
		return repo.NewMemoryRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

func operationTimeout(cfg config.AppConfig) time.Duration {
	return time.Duration(cfg.Database.OperationTimeout) * time.Second
}
