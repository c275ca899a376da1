package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lcad/sitegen/internal/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerate the site pages from the persisted data files",
	Long: `Generate rewrites the derived pages under the site directory: the
home-page metrics widget, the publications listing, the projects listing,
and the teaching page. All inputs are validated before any page is
replaced; a missing data file or a home page without its injection zones
fails the whole stage with nothing written.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("site-dir", "", "site directory (overrides config)")
	generateCmd.Flags().String("teaching", "", "course history CSV for the teaching page")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Render
	if siteDir, _ := cmd.Flags().GetString("site-dir"); siteDir != "" {
		cfg.SiteDir = siteDir
	}
	if teaching, _ := cmd.Flags().GetString("teaching"); teaching != "" {
		cfg.TeachingFile = teaching
	}

	return render.GenerateAll(cfg, os.Stdout)
}
