package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/use-agent/distill/modellimit"
	"github.com/use-agent/distill/token"
)

type statsOptions struct {
	jsonOut bool
}

// newStatsCmd creates the stats command.
func newStatsCmd() *cobra.Command {
	opts := &statsOptions{}

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Measure a text and estimate its token count",
		Long: `Computes character, word, and line counts plus three token estimates
(character-based, word-based, punctuation-weighted) for a text, and shows how
the canonical estimate fits into each known model context window.

With no file argument the text is read from stdin.`,
		Example: `  distillctl stats prompt.txt
  cat prompt.txt | distillctl stats
  distillctl stats prompt.txt --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the measurements as JSON")

	return cmd
}

func runStats(opts *statsOptions, args []string) error {
	text, _, err := readInput(args)
	if err != nil {
		return err
	}

	stats := token.ComputeStats(text)
	usage := modellimit.Usage(stats.TokensAdvanced)

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Stats  interface{} `json:"stats"`
			Models interface{} `json:"models"`
		}{stats, usage})
	}

	fmt.Printf("  %s: %d\n", dim("Characters"), stats.Characters)
	fmt.Printf("  %s: %d\n", dim("Words"), stats.Words)
	fmt.Printf("  %s: %d\n", dim("Lines"), stats.Lines)
	fmt.Printf("  %s: %d (char-based %d, word-based %d)\n",
		dim("Tokens"), stats.TokensAdvanced, stats.TokensCharBased, stats.TokensWordBased)

	fmt.Println()
	fmt.Println(dim("Model fit:"))
	for _, m := range usage {
		fmt.Printf("  %s: %.1f%% used, %d remaining\n", m.Name, m.UsageRatio*100, m.Remaining)
	}

	return nil
}
