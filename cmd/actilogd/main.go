// Command actilogd runs the activity log service: it ingests host lifecycle
// events, records eligible ones as immutable audit entries, and serves the
// log over a REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/actilog/actilog/internal/api"
	"github.com/actilog/actilog/internal/cache"
	"github.com/actilog/actilog/internal/config"
	"github.com/actilog/actilog/internal/db"
	"github.com/actilog/actilog/internal/db/migrations"
	"github.com/actilog/actilog/internal/dbpool"
	"github.com/actilog/actilog/internal/recorder"
	"github.com/actilog/actilog/internal/service"
	"github.com/actilog/actilog/internal/store"
	"github.com/actilog/actilog/internal/token"
)

// version is set at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("service exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	readCache, err := cache.New(cfg.SearchCacheSize)
	if err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	logStore := store.NewLogStore(base)
	settingsStore := store.NewSettingsStore(base)

	settingsSvc := service.NewSettingsService(settingsStore, log)
	tokens := token.NewIssuer([]byte(cfg.TokenSecret.Value()))
	logSvc := service.NewLogService(logStore, settingsStore, readCache, tokens, log)
	exportSvc := service.NewCSVExportService(logStore, readCache)

	rec := recorder.New(logStore, settingsSvc, readCache, log)
	worker := recorder.NewWorker(rec, log, cfg.RecorderQueueSize)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		Logs:        logSvc,
		Deleter:     logSvc,
		Exporter:    exportSvc,
		Settings:    settingsSvc,
		Tokens:      tokens,
		Events:      worker,
		CORSOrigins: cfg.CORSOrigins,
		Version:     version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"version": version,
		}).Info("starting activity log service")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		worker.Run(gctx)

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("shutdown complete")

	return nil
}
