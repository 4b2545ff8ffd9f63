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

	"github.com/SscSPs/account_ledger/internal/adapters/approval"
	"github.com/SscSPs/account_ledger/internal/adapters/cache/memorystore"
	"github.com/SscSPs/account_ledger/internal/adapters/cache/redisstore"
	portsrepo "github.com/SscSPs/account_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/SscSPs/account_ledger/internal/core/services"
	"github.com/SscSPs/account_ledger/internal/handlers"
	"github.com/SscSPs/account_ledger/internal/middleware"
	"github.com/SscSPs/account_ledger/internal/platform/config"
	"github.com/SscSPs/account_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/account_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// @title Account Ledger API
// @version 1.0
// @description Bank account ledger: accounts, deposits, withdrawals and fee-bearing transfers.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledger_backend",
		Short: "Account ledger HTTP service",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand(), newMigrateCommand())
	return rootCmd
}

func newServeCommand() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if !skipMigrations {
				if err := migrateUp(cfg, logger); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "start without applying pending migrations")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return migrateUp(cfg, logger)
		},
	}
}

// setup loads configuration and installs the JSON logger as the default.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		return nil, nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func migrateUp(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
	applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, database.PoolOptions{
		DatabaseURL:     cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		CheckConnection: cfg.EnableDBCheck,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		return err
	}
	defer database.ClosePgxPool(dbPool, logger)

	limitStore, closeStore, err := newLimitStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	serviceContainer := services.NewServiceContainer(
		cfg,
		pgsql.NewRepositoryProvider(dbPool, limitStore),
		newApprovalGate(cfg, logger),
	)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSAllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		return err
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// newLimitStore picks Redis when REDIS_URL is set and process memory otherwise.
// The returned func releases the store.
func newLimitStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.TransferLimitStore, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("Daily transfer totals kept in memory")
		return memorystore.New(), func() {}, nil
	}

	store, err := redisstore.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
		return nil, nil, err
	}
	logger.Info("Daily transfer totals kept in redis")
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}, nil
}

func newApprovalGate(cfg *config.Config, logger *slog.Logger) portssvc.TransferApprovalSvc {
	switch cfg.ApprovalMode {
	case config.ApprovalModeStaticApprove:
		logger.Warn("Transfer approval disabled: every transfer is approved")
		return approval.NewStaticGate(true)
	case config.ApprovalModeStaticReject:
		logger.Warn("Transfer approval disabled: every transfer is rejected")
		return approval.NewStaticGate(false)
	default:
		return approval.NewHTTPGate(cfg.ApprovalURL, cfg.ApprovalTimeout)
	}
}
