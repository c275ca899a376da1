package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of sitegen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sitegen %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
