package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verdanta/greenflow/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <questionnaire>",
	Short: "Export a questionnaire as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph TD) of the named questionnaire for documentation and review.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine(cmd)
		if err != nil {
			fmt.Printf("Error loading questionnaires: %v\n", err)
			os.Exit(1)
		}

		g, err := engine.Graph(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(g, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
