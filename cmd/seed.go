package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardbazar/cardbazar/marketplace"
	"github.com/cardbazar/cardbazar/marketplace/database"
	"github.com/cardbazar/cardbazar/marketplace/database/models"
	"github.com/cardbazar/cardbazar/marketplace/database/repositories"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the pack catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seedPacks is the launch pack catalog. Existing rows are left untouched
// so the command is safe to re-run.
var seedPacks = []*models.Pack{
	{
		ID: 1, Name: "Pacote simples", Price: 100, CardsQuantity: 8,
		ImageURL:     "https://via.placeholder.com/150",
		CommonRarity: 0.5, RareRarity: 0.3, EpicRarity: 0.15,
		LegendaryRarity: 0.05, FullLegendaryRarity: 0.01,
	},
	{
		ID: 2, Name: "Pacote raro", Price: 200, CardsQuantity: 8,
		ImageURL:     "https://via.placeholder.com/150",
		CommonRarity: 0.3, RareRarity: 0.4, EpicRarity: 0.2,
		LegendaryRarity: 0.08, FullLegendaryRarity: 0.02,
	},
	{
		ID: 3, Name: "Grande pacote", Price: 400, CardsQuantity: 16,
		ImageURL:     "https://via.placeholder.com/150",
		CommonRarity: 0.4, RareRarity: 0.4, EpicRarity: 0.1,
		LegendaryRarity: 0.05, FullLegendaryRarity: 0.05,
	},
	{
		ID: 4, Name: "Pacote épicos", Price: 2000, CardsQuantity: 3,
		ImageURL:     "https://via.placeholder.com/150",
		CommonRarity: 0.1, RareRarity: 0.2, EpicRarity: 0.4,
		LegendaryRarity: 0.2, FullLegendaryRarity: 0.1,
	},
	{
		ID: 5, Name: "Pacote lendário", Price: 5000, CardsQuantity: 1,
		ImageURL:     "https://via.placeholder.com/150",
		CommonRarity: 0.05, RareRarity: 0.1, EpicRarity: 0.2,
		LegendaryRarity: 0.4, FullLegendaryRarity: 0.25,
	},
	{
		ID: 6, Name: "Pacote tudo ou nada", Price: 10000, CardsQuantity: 1,
		ImageURL:     "https://via.placeholder.com/150",
		CommonRarity: 0.01, RareRarity: 0.02, EpicRarity: 0.05,
		LegendaryRarity: 0.1, FullLegendaryRarity: 0.82,
	},
	{
		ID: 7, Name: "Grande pacote épico", Price: 10000, CardsQuantity: 24,
		ImageURL:     "https://via.placeholder.com/150",
		CommonRarity: 0.1, RareRarity: 0.1, EpicRarity: 0.5,
		LegendaryRarity: 0.15, FullLegendaryRarity: 0.05,
	},
}

func runSeed(ctx context.Context) error {
	cfg, err := marketplace.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
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

	userCards := repositories.NewUserCardRepository(db.BunDB())
	packs := repositories.NewPackRepository(db.BunDB(), userCards)

	for _, pack := range seedPacks {
		if err := packs.Create(ctx, pack); err != nil {
			return fmt.Errorf("failed to seed pack %q: %w", pack.Name, err)
		}
	}

	slog.Info("Pack catalog seeded", slog.Int("packs", len(seedPacks)))
	return nil
}
