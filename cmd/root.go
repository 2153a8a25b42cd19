package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ddd-course/config"
	"ddd-course/infrastructure/persistence/mysql"
	"ddd-course/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const closeTimeout = 5 * time.Second

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd ddd-course with serve and worker subcommands
func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "ddd-course",
		Short:        "Course enrollment, shipment and order service",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./config.yaml or ./config/config.yaml)")

	cmd.AddCommand(serveCmd(&configPath), workerCmd(&configPath))
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	var port string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, plus the outbox worker when worker.enabled is set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := NewBuilder(cfg).Build(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			logger.Info("Starting application",
				zap.String("app", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("env", cfg.App.Env),
				zap.String("database_type", cfg.Database.Type),
				zap.Bool("outbox_worker", app.HasWorker()))

			return app.Run(ctx)
		},
	}
	c.Flags().StringVar(&port, "port", "", "override server.port")
	return c
}

func workerCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run only the outbox worker (mysql or sqlite storage)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cfg.Database.Type == config.DatabaseMemory {
				return fmt.Errorf("outbox worker needs a SQL database, database.type is %q", cfg.Database.Type)
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeDatabase(db)(context.Background()) }()

			publisher, _, closePublisher, err := newOutboxPublisher(cfg)
			if err != nil {
				return err
			}
			if closePublisher != nil {
				defer func() { _ = closePublisher(context.Background()) }()
			}

			worker, err := mysql.NewOutboxWorkerFromConfig(mysql.NewOutboxRepository(db), publisher, cfg.Worker)
			if err != nil {
				return fmt.Errorf("create outbox worker: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := worker.Run(ctx); err != nil {
				return fmt.Errorf("outbox worker exited with error: %w", err)
			}
			logger.Info("Outbox worker stopped")
			return nil
		},
	}
}

// loadConfig loads, validates and initializes the global logger
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func closeApp(app *App) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := app.Close(ctx); err != nil {
		logger.Warn("Failed to close application", zap.Error(err))
	}
}
