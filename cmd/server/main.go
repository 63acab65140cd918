package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/finance-be/internal/config"
	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/server"
	"github.com/hongminglow/finance-be/internal/storage/backend"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("no .env file found; relying on existing environment")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, backend.Options{
		Driver:      cfg.DBDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("storage ready", "driver", cfg.DBDriver)

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	srv := server.New(cfg, store, publisher, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("ledger backend listening", "addr", srv.Addr(), "api_prefix", cfg.APIPrefix)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newPublisher connects to the broker when one is configured. A broker that
// cannot be reached at startup disables events rather than the API.
func newPublisher(cfg config.Config, logger *slog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.Nop{}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Warn("events disabled", "error", err)
		return events.Nop{}
	}
	logger.Info("publishing events", "exchange", cfg.AMQPExchange)
	return p
}
