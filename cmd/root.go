package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bizlens/bizlens/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bizlens",
	Short: "Business website crawling and extraction engine",
	Long:  "Crawls a business's public website through a fallback chain of retrieval strategies, extracts structured fields, enriches them with model inference, and merges everything into one normalized business record.",
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
