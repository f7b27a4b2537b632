package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicgrid/landuse-api/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "landuse-api",
	Short: "Land-use rule lookup service",
	Long:  "Resolves an address or coordinate to a point, queries the municipal feature services for the containing regulatory polygon, and returns a normalized, attributed answer.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
