// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sitegen CLI, the pipeline that
// keeps an academic personal website in sync with Google Scholar metrics
// and the Lattes CV export.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lcad/sitegen/internal/secrets"
	"github.com/lcad/sitegen/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds per-key credential files kept out of sitegen.yaml.
const secretsDir = ".secrets/"

// rootCmd is the base command for the sitegen CLI.
var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Keep an academic website in sync with Scholar and Lattes",
	Long: `sitegen regenerates an academic personal website from its upstream
sources: citation metrics scraped from the public Google Scholar profile and
publications, projects, and teaching history parsed from the Lattes CV export.

Each pipeline stage is a subcommand: metrics, lattes, generate, run, and
deploy. Generated pages are deterministic; a stage failure never leaves a
partially written page behind.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sitegen.yaml or ~/.config/sitegen/sitegen.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sitegen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sitegen"))
		}
	}

	viper.SetEnvPrefix("SITEGEN")
	viper.AutomaticEnv()

	viper.SetDefault("scholar.timeout", 30*time.Second)
	viper.SetDefault("scholar.user_agent", "sitegen/0.1")
	viper.SetDefault("scholar.top_n", 5)
	viper.SetDefault("scholar.metrics_file", "data/scholar_metrics.json")
	viper.SetDefault("lattes.data_file", "data/lattes_data.json")
	viper.SetDefault("render.translations_file", "data/translations.yaml")
	viper.SetDefault("render.site_dir", "site")
	viper.SetDefault("deploy.port", 22)
	viper.SetDefault("deploy.staging_dir", ".staging")
	viper.SetDefault("deploy.history_db", "data/deploys.db")
	viper.SetDefault("deploy.dial_timeout", 15*time.Second)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configurations from viper. Flags on
// individual subcommands override these values.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Scholar: types.ScholarConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("scholar.timeout"),
				UserAgent: viper.GetString("scholar.user_agent"),
			},
			AuthorID:    viper.GetString("scholar.author_id"),
			TopN:        viper.GetInt("scholar.top_n"),
			MetricsFile: viper.GetString("scholar.metrics_file"),
		},
		Lattes: types.LattesConfig{
			DataFile: viper.GetString("lattes.data_file"),
		},
		Render: types.RenderConfig{
			MetricsFile:      viper.GetString("scholar.metrics_file"),
			DataFile:         viper.GetString("lattes.data_file"),
			TranslationsFile: viper.GetString("render.translations_file"),
			TeachingFile:     viper.GetString("render.teaching_file"),
			SiteDir:          viper.GetString("render.site_dir"),
		},
		Deploy: types.DeployConfig{
			Host:             viper.GetString("deploy.host"),
			Port:             viper.GetInt("deploy.port"),
			User:             viper.GetString("deploy.user"),
			KeyFile:          viper.GetString("deploy.key_file"),
			RemotePath:       viper.GetString("deploy.remote_path"),
			SiteDir:          viper.GetString("render.site_dir"),
			StagingDir:       viper.GetString("deploy.staging_dir"),
			DeleteExtraneous: viper.GetBool("deploy.delete_extraneous"),
			HistoryDB:        viper.GetString("deploy.history_db"),
			DialTimeout:      viper.GetDuration("deploy.dial_timeout"),
		},
	}
}

// deployPassword resolves the SFTP password from the secrets directory.
func deployPassword() (string, error) {
	return secrets.Value(secretsDir, secrets.DeployPassword)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
