package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verdanta/greenflow/pkg/adapters/yamlfile"
	"github.com/verdanta/greenflow/pkg/graphcheck"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check questionnaire graphs for consistency",
	Long:  `Loads every export in the graph directory and reports missing start nodes, dangling edges and unreachable ends.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All questionnaires are valid.")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("graphs")
	graphs, err := yamlfile.NewSource(dir).Graphs(context.Background())
	if err != nil {
		return err
	}
	if len(graphs) == 0 {
		return fmt.Errorf("no questionnaires found in %s", dir)
	}

	failed := 0
	for _, g := range graphs {
		res := graphcheck.Validate(g)
		if res.Valid {
			fmt.Printf("  %s: ok\n", g.Name)
			continue
		}
		failed++
		fmt.Printf("  %s:\n", g.Name)
		for _, msg := range res.Errors {
			fmt.Printf("    - %s\n", msg)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d questionnaires invalid", failed, len(graphs))
	}
	return nil
}
