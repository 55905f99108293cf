package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/use-agent/distill/rewrite"
	"github.com/use-agent/distill/simhash"
)

type optimizeOptions struct {
	write   bool
	output  string
	jsonOut bool
}

// newOptimizeCmd creates the optimize command.
func newOptimizeCmd() *cobra.Command {
	opts := &optimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize [file]",
		Short: "Rewrite a prompt to use fewer tokens",
		Long: `Runs the rewrite pipeline on a prompt and shows the token savings.

By default this command is informational only: it prints the optimized text
and the before/after token counts without modifying any files. Use --write to
save the result back to the input file, or -o to write to a custom file.

With no file argument the prompt is read from stdin.`,
		Example: `  distillctl optimize prompt.txt            # Analyze a file (informational)
  distillctl optimize prompt.txt --write    # Optimize and save in place
  distillctl optimize -o trimmed.txt < p.txt
  cat prompt.txt | distillctl optimize --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Save optimized text back to the input file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write optimized text to file")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the full result as JSON")

	return cmd
}

func runOptimize(opts *optimizeOptions, args []string) error {
	text, source, err := readInput(args)
	if err != nil {
		return err
	}

	result, err := rewrite.Optimize(text)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(result.OptimizedText)
	fmt.Println()
	fmt.Printf("  %s: %d tokens\n", dim("Before"), result.OriginalTokens)
	fmt.Printf("  %s: %d tokens\n", dim("After"), result.OptimizedTokens)
	fmt.Printf("  %s: %d tokens (%.2f%%)\n", dim("Saved"), result.Reduction, result.ReductionPercent)
	fmt.Printf("  %s: %.2f\n", dim("Similarity"), simhash.Similarity(result.OriginalText, result.OptimizedText))
	fmt.Printf("  %s: %s\n", dim("Strategies"), strings.Join(result.AppliedStrategies, ", "))

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(result.OptimizedText), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		printSuccess("Wrote optimized prompt to %s", opts.output)
		return nil
	}

	if opts.write {
		if source == "" {
			return fmt.Errorf("--write requires a file argument (stdin input has nowhere to go)")
		}
		if err := os.WriteFile(source, []byte(result.OptimizedText), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", source, err)
		}
		printSuccess("Applied optimization to %s", source)
		return nil
	}

	// Default: informational only
	fmt.Println()
	fmt.Println(dim("No changes applied. Use --write to save in place, or -o to write to file."))

	return nil
}
