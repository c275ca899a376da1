package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcad/sitegen/internal/scholar"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Fetch citation metrics from the Google Scholar profile",
	Long: `Metrics scrapes the configured public Google Scholar profile for the
citation count, h-index, i10-index, and the most-cited publications, and
replaces the metrics snapshot atomically.

If the fetch fails the previous snapshot is kept and the command still
succeeds; it fails only when no snapshot exists at all.`,
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().String("author", "", "Scholar author ID (overrides config)")
	metricsCmd.Flags().Int("top", 0, "number of most-cited publications to record")
	metricsCmd.Flags().String("out", "", "metrics snapshot path (overrides config)")

	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Scholar
	if author, _ := cmd.Flags().GetString("author"); author != "" {
		cfg.AuthorID = author
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		cfg.TopN = top
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.MetricsFile = out
	}

	fetcher := &scholar.Fetcher{Client: &http.Client{Timeout: cfg.Timeout}}
	_, _, err := fetcher.Refresh(cmd.Context(), cfg, os.Stdout)
	return err
}
