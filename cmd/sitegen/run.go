package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcad/sitegen/internal/render"
	"github.com/lcad/sitegen/internal/scholar"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch fresh metrics and regenerate the site",
	Long: `Run executes the update pipeline end to end: refresh the Scholar
metrics snapshot, then regenerate every derived page. A failed fetch falls
back to the previous snapshot with a warning; the run aborts only when no
snapshot exists at all or page generation fails.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().Bool("update-metrics", true, "refresh the metrics snapshot before generating")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	if update, _ := cmd.Flags().GetBool("update-metrics"); update {
		fetcher := &scholar.Fetcher{Client: &http.Client{Timeout: cfg.Scholar.Timeout}}
		if _, _, err := fetcher.Refresh(cmd.Context(), cfg.Scholar, os.Stdout); err != nil {
			return err
		}
	}

	return render.GenerateAll(cfg.Render, os.Stdout)
}
