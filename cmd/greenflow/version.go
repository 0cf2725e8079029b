package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdanta/greenflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of greenflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("greenflow version %s\n", strings.TrimSpace(greenflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
