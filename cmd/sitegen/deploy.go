package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcad/sitegen/internal/deploy"
	"github.com/lcad/sitegen/internal/render"
	"github.com/lcad/sitegen/internal/scholar"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Mirror the site to the web host over SFTP",
	Long: `Deploy assembles a snapshot of the site tree in the staging
directory and mirrors it to the configured remote. --dry-run lists the
candidate files without opening a connection; --update-metrics refreshes
the metrics snapshot and regenerates the pages first. Every invocation is
recorded in the deploy history ledger.`,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().Bool("dry-run", false, "list the snapshot without transferring anything")
	deployCmd.Flags().Bool("update-metrics", false, "refresh metrics and regenerate pages before deploying")
	deployCmd.Flags().Bool("delete", false, "remove remote files absent from the snapshot")

	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if del, _ := cmd.Flags().GetBool("delete"); del {
		cfg.Deploy.DeleteExtraneous = true
	}

	if update, _ := cmd.Flags().GetBool("update-metrics"); update {
		fetcher := &scholar.Fetcher{Client: &http.Client{Timeout: cfg.Scholar.Timeout}}
		if _, _, err := fetcher.Refresh(cmd.Context(), cfg.Scholar, os.Stdout); err != nil {
			return err
		}
		if err := render.GenerateAll(cfg.Render, os.Stdout); err != nil {
			return err
		}
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	password, err := deployPassword()
	if err != nil {
		return err
	}

	return deploy.Run(cmd.Context(), cfg.Deploy, deploy.Options{
		DryRun:   dryRun,
		Password: password,
	}, os.Stdout)
}
