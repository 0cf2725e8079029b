package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verdanta/greenflow"
	"github.com/verdanta/greenflow/pkg/adapters/yamlfile"
)

var rootCmd = &cobra.Command{
	Use:   "greenflow",
	Short: "Greenflow assesses environmental product claims",
	Long:  `Greenflow runs questionnaire flows that score green claims and manages the review workflow around them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("graphs", "./graphs", "Directory containing questionnaire export files")
}

// newEngine builds the core engine from the graph directory flag.
func newEngine(cmd *cobra.Command, opts ...greenflow.Option) (*greenflow.Engine, error) {
	dir, _ := cmd.Flags().GetString("graphs")
	opts = append(opts, greenflow.WithSource(yamlfile.NewSource(dir)))
	return greenflow.New(context.Background(), opts...)
}
