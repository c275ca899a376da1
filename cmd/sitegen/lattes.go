package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcad/sitegen/internal/lattes"
)

var lattesCmd = &cobra.Command{
	Use:   "lattes <cv.xml>",
	Short: "Parse a Lattes CV export into the publications data file",
	Long: `Lattes parses the CNPq Currículo Lattes XML export and replaces the
publications data file in full. Records missing a title and duplicate
records are skipped with a notice; a document that is not a Lattes CV at
all is a fatal error.`,
	Args: cobra.ExactArgs(1),
	RunE: runLattes,
}

func init() {
	lattesCmd.Flags().String("out", "", "data file path (overrides config)")

	rootCmd.AddCommand(lattesCmd)
}

func runLattes(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Lattes
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.DataFile = out
	}

	data, stats, err := lattes.ParseFile(args[0], os.Stdout)
	if err != nil {
		return err
	}
	if err := lattes.WriteData(data, cfg.DataFile); err != nil {
		return err
	}

	fmt.Printf("parsed %d articles, %d conference papers, %d books, %d chapters, %d projects (%d skipped)\n",
		len(data.Articles), len(data.ConferencePapers), len(data.Books),
		len(data.BookChapters), len(data.Projects), stats.Skipped)
	fmt.Printf("wrote %s\n", cfg.DataFile)
	return nil
}
