package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/senyabanana/licitaciones/internal/cpv"
	"github.com/senyabanana/licitaciones/internal/db"
	"github.com/senyabanana/licitaciones/internal/handlers"
	"github.com/senyabanana/licitaciones/internal/logger"
	"github.com/senyabanana/licitaciones/internal/repository"
	"github.com/senyabanana/licitaciones/internal/router"
	"github.com/senyabanana/licitaciones/internal/router/config"
	"github.com/senyabanana/licitaciones/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	appLogger := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "licitaciones",
	})
	log.Logger = appLogger

	runDBMigration(appLogger, cfg.MigrationURL, cfg.PostgresConn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.InitDb(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("error initializing database")
	}
	defer dbPool.Close()

	loc, err := cfg.Location()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("invalid timezone")
	}

	cpvCache := cpv.NewCache(cpv.FileSource(cfg.CPVDictionaryPath), appLogger)
	if err := cpvCache.Prime(); err != nil {
		appLogger.Fatal().Err(err).Str("path", cfg.CPVDictionaryPath).Msg("cannot load cpv dictionary")
	}

	licitacionRepo := repository.NewPostgresLicitacionRepository(dbPool)

	licitacionService := services.NewLicitacionService(licitacionRepo, cpvCache, appLogger, loc)
	cpvService := services.NewCPVService(cpvCache)

	licitacionHandler := handlers.NewLicitacionHandler(licitacionService, appLogger, cfg.RequestTimeout, cfg.DefaultPageSize)
	cpvHandler := handlers.NewCPVHandler(cpvService)

	routes := router.InitRoutes(licitacionHandler, cpvHandler, appLogger)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           routes,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	appLogger.Info().Str("addr", cfg.ServerAddress).Msg("server is listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
	appLogger.Info().Msg("server stopped")
}

func runDBMigration(logger zerolog.Logger, migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create a new migrate instance")
	}

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal().Err(err).Msg("failed to run migrate up")
	}
	logger.Info().Msg("db migrated successfully")
}
