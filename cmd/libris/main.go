// Command libris runs the library management API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/libris/config"
	"github.com/gaborage/libris/database"
	"github.com/gaborage/libris/logger"
	"github.com/gaborage/libris/messaging"
	"github.com/gaborage/libris/migration"
	"github.com/gaborage/libris/modules/authors"
	"github.com/gaborage/libris/modules/books"
	"github.com/gaborage/libris/modules/borrows"
	"github.com/gaborage/libris/modules/categories"
	"github.com/gaborage/libris/modules/students"
	"github.com/gaborage/libris/server"
)

func main() {
	// Optional local overrides; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info", false).Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Application terminated")
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, &cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migration.Run(ctx, pool, log); err != nil {
		return err
	}

	publisher, err := messaging.NewPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event publisher")
		}
	}()

	exec := database.NewExecutor(pool, log, database.NewSettings(&cfg.Database))

	srv := server.New(cfg, log)
	srv.AddReadinessCheck(pool.Ping)

	server.RegisterModules(srv, log,
		students.NewModule(exec, cfg, log),
		authors.NewModule(exec, cfg, log),
		categories.NewModule(exec, cfg, log),
		books.NewModule(exec, cfg, log),
		borrows.NewModule(exec, publisher, cfg, log),
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout.Shutdown)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Shutdown complete")
	return nil
}
