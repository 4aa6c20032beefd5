package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bizlens/bizlens/internal/model"
)

var crawlJobID string

var crawlCmd = &cobra.Command{
	Use:   "crawl <url>",
	Short: "Crawl one business website and print the merged record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("crawl"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result := env.Engine.Crawl(ctx, args[0], crawlJobID)
		if err := printResult(result); err != nil {
			return err
		}
		if !result.Success {
			return eris.Errorf("crawl failed: %s", result.Error)
		}
		return nil
	},
}

func printResult(result *model.CrawlResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func init() {
	crawlCmd.Flags().StringVar(&crawlJobID, "job-id", "", "external job id to report progress to")
	rootCmd.AddCommand(crawlCmd)
}
