package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardbazar/cardbazar/marketplace/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cardbazar",
	Short: "Trading-card marketplace backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(slog.New(logger.NewHandler("CardBazar")))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to the TOML config file")
}
