package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardbazar/cardbazar/marketplace"
	"github.com/cardbazar/cardbazar/marketplace/database"
	"github.com/cardbazar/cardbazar/marketplace/migration"
)

var migrateBatchSize int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import users, cards and collections from the legacy MongoDB deployment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateBatchSize, "batch-size", 1000, "rows per insert batch")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context) error {
	cfg, err := marketplace.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Legacy.MongoURI == "" {
		return fmt.Errorf("legacy.mongo_uri must be set for migration")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.New(connectCtx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.InitializeSchema(connectCtx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	mongoDB, disconnect, err := migration.Connect(connectCtx, cfg.Legacy.MongoURI, cfg.Legacy.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := disconnect(context.Background()); err != nil {
			slog.Warn("Mongo disconnect failed", slog.String("error", err.Error()))
		}
	}()

	migrator := migration.NewMigrator(db.BunDB(), mongoDB)
	migrator.SetBatchSize(migrateBatchSize)

	slog.Info("Starting legacy migration",
		slog.String("database", cfg.Legacy.Database),
		slog.Int("batch_size", migrateBatchSize))

	return migrator.Run(ctx)
}
