package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/httpapi"
	"github.com/nikolayk812/storefront/internal/idempotency"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/migrations"
	"github.com/nikolayk812/storefront/internal/notify"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Storefront cart pricing and order checkout service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file; environment variables override it")

	var migrateFirst bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, migrateFirst)
		},
	}
	serveCmd.Flags().BoolVar(&migrateFirst, "migrate", false, "Apply pending migrations before serving")

	var downSteps int
	migrateCmd := &cobra.Command{
		Use:       "migrate <up|down|version>",
		Short:     "Manage the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runMigrate(cmd, cfg, args[0], downSteps)
		},
	}
	migrateCmd.Flags().IntVar(&downSteps, "steps", 0, "Number of migrations to roll back with down; 0 rolls back all")

	root.AddCommand(serveCmd, migrateCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, cfg config.Config, action string, steps int) error {
	switch action {
	case "up":
		return migrations.Up(cfg.Database.URL)
	case "down":
		return migrations.Down(cfg.Database.URL, steps)
	default:
		version, dirty, err := migrations.Version(cfg.Database.URL)
		if err != nil {
			return err
		}
		cmd.Printf("version %d dirty %t\n", version, dirty)
		return nil
	}
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})), nil
}

func runServe(ctx context.Context, cfg config.Config, migrateFirst bool) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if migrateFirst {
		if err := migrations.Up(cfg.Database.URL); err != nil {
			return fmt.Errorf("migrations.Up: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool.Ping: %w", err)
	}

	store := repository.NewStore(pool, repository.WithTxAttempts(cfg.Database.TxAttempts))

	pricingCfg, err := cfg.PricingConfig()
	if err != nil {
		return err
	}
	engine, err := pricing.NewEngine(pricingCfg)
	if err != nil {
		return fmt.Errorf("pricing.NewEngine: %w", err)
	}

	notifier, closeNotifier := newNotifier(cfg, logger)
	defer closeNotifier()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	carts := service.NewCartService(store, engine, logger)
	checkout := service.NewCheckoutService(store, carts, engine, notifier, logger,
		service.WithCheckoutTimeout(cfg.Checkout.Timeout),
		service.WithCheckoutRecorder(m),
	)
	orders := service.NewOrderService(store, notifier, logger)

	deps := httpapi.Deps{
		Carts:          carts,
		Checkout:       checkout,
		Orders:         orders,
		Requests:       m,
		MetricsHandler: m.Handler(),
		HealthChecks: map[string]httpapi.HealthCheck{
			"postgres": pool.Ping,
		},
		Logger:         logger,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("redis close failed", "err", err)
			}
		}()

		deps.Idempotency = idempotency.NewStore(rdb)
		deps.HealthChecks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	} else {
		logger.Info("REDIS_ADDR not set, checkout idempotency keys are ignored")
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func newNotifier(cfg config.Config, logger *slog.Logger) (port.Notifier, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, order events are logged only")
		return notify.NewLogNotifier(logger), func() {}
	}

	n := notify.NewKafkaNotifier(
		notify.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic),
		notify.DefaultBreakerConfig(),
		logger,
	)
	return n, func() {
		if err := n.Close(); err != nil {
			logger.Warn("kafka writer close failed", "err", err)
		}
	}
}
