package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verdanta/greenflow/internal/presentation/tui"
	"github.com/verdanta/greenflow/pkg/domain"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [questionnaire]",
	Short: "Run a questionnaire interactively",
	Long:  `Starts an assessment session in the terminal and walks through the questionnaire one answer at a time.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInteractive(cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("plain", false, "Disable markdown rendering and the banner")
}

func runInteractive(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	names := engine.GraphNames()
	if len(names) == 0 {
		return fmt.Errorf("no questionnaires found in graph directory")
	}
	graphName := names[0]
	if len(args) > 0 {
		graphName = args[0]
	}

	plain, _ := cmd.Flags().GetBool("plain")
	isTTY := term.IsTerminal(int(os.Stdin.Fd()))
	render := func(md string) (string, error) { return md, nil }
	if isTTY && !plain {
		tui.PrintBanner()
		render = tui.NewRenderer()
	}

	ctx := context.Background()
	state, outcome, err := engine.Start(ctx, graphName)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		switch outcome.Kind {
		case domain.OutcomeRedirected:
			fmt.Printf("-> continuing on %q\n\n", outcome.RedirectTarget)
			state, outcome, err = engine.FollowRedirect(ctx, state, outcome.RedirectTarget)
			if err != nil {
				return err
			}

		case domain.OutcomeCompleted:
			fmt.Printf("\nAssessment complete. Final score: %.2f\n", outcome.FinalWeight)
			return nil

		case domain.OutcomeQuestion:
			answer, err := askQuestion(scanner, render, state, outcome.Node)
			if err != nil {
				return err
			}
			state, outcome, err = engine.Advance(ctx, state, answer)
			if err != nil {
				return err
			}

		default:
			return fmt.Errorf("unexpected outcome %q", outcome.Kind)
		}
	}
}

// askQuestion prints one question and reads the answer. Multiple choice
// answers are comma separated.
func askQuestion(scanner *bufio.Scanner, render func(string) (string, error), state *domain.TraversalState, node *domain.Node) (any, error) {
	text, err := render("## " + node.Label)
	if err != nil {
		text = node.Label + "\n"
	}
	fmt.Print(text)

	switch node.Kind {
	case domain.KindYesNo:
		fmt.Print("[yes/no] > ")
	case domain.KindSingleChoice, domain.KindMultipleChoice:
		for i, opt := range node.Options {
			fmt.Printf("  %d) %s\n", i+1, opt.Label)
		}
		if node.Kind == domain.KindMultipleChoice {
			fmt.Print("(comma separated) > ")
		} else {
			fmt.Print("> ")
		}
	default:
		fmt.Print("> ")
	}

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("input closed [progress %d%%]", state.Progress)
	}
	input := strings.TrimSpace(scanner.Text())

	// Numeric shortcuts resolve to option labels.
	resolve := func(token string) string {
		token = strings.TrimSpace(token)
		for i, opt := range node.Options {
			if token == fmt.Sprintf("%d", i+1) {
				return opt.Label
			}
		}
		return token
	}

	switch node.Kind {
	case domain.KindMultipleChoice:
		parts := strings.Split(input, ",")
		labels := make([]string, 0, len(parts))
		for _, p := range parts {
			if v := resolve(p); v != "" {
				labels = append(labels, v)
			}
		}
		return labels, nil
	case domain.KindSingleChoice:
		return resolve(input), nil
	default:
		return input, nil
	}
}
