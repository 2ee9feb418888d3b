package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/ledger/internal/api"
	"github.com/mmynk/ledger/internal/auth"
	"github.com/mmynk/ledger/internal/clock"
	"github.com/mmynk/ledger/internal/config"
	"github.com/mmynk/ledger/internal/events"
	"github.com/mmynk/ledger/internal/middleware"
	"github.com/mmynk/ledger/internal/service"
	"github.com/mmynk/ledger/internal/storage/sqlite"
	"github.com/mmynk/ledger/internal/uploads"
	"github.com/mmynk/ledger/pkg/logging"
)

const devJWTSecret = "ledger-development-secret"

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	publisher := events.Publisher(events.Nop{})
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		publisher = amqpPublisher
		slog.Info("Publishing group events", "exchange", cfg.AMQPExchange)
	}
	defer publisher.Close()

	pictures, err := uploads.NewStore(cfg.UploadDir, cfg.MaxUploadBytes, clock.Real{})
	if err != nil {
		return err
	}
	janitor, err := uploads.NewJanitor(pictures, store, cfg.JanitorSchedule)
	if err != nil {
		return err
	}

	secret := cfg.JWTSecret
	if secret == "" {
		slog.Warn("JWT_SECRET not set, using development secret")
		secret = devJWTSecret
	}
	jwt := auth.NewJWTManager(secret, cfg.TokenTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []service.Option{service.WithPublisher(publisher)}
	handler := api.NewRouter(api.Config{
		Users:          service.NewUserService(store, auth.NewPasswordAuthenticator(store), jwt, pictures),
		Transactions:   service.NewTransactionService(store, opts...),
		Budgets:        service.NewBudgetService(store, opts...),
		Reports:        service.NewReportService(store, opts...),
		Groups:         service.NewGroupService(store, opts...),
		Expenses:       service.NewExpenseService(store, opts...),
		JWT:            jwt,
		UploadDir:      pictures.Dir(),
		MaxUploadBytes: pictures.MaxBytes(),
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Health:         store.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server starting", "address", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	janitor.Start()
	slog.Info("Upload janitor scheduled", "schedule", cfg.JanitorSchedule)

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		janitor.Stop(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
