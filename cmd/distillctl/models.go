package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/use-agent/distill/modellimit"
)

type modelsOptions struct {
	tokens  int
	jsonOut bool
}

// newModelsCmd creates the models command.
func newModelsCmd() *cobra.Command {
	opts := &modelsOptions{}

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the known model context windows",
		Long: `Prints the static model context-window catalog. With --tokens, also shows
the usage ratio and remaining budget each model would have for that count.`,
		Example: `  distillctl models
  distillctl models --tokens 1500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(opts)
		},
	}

	cmd.Flags().IntVar(&opts.tokens, "tokens", 0, "Token count to project against each context window")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the catalog as JSON")

	return cmd
}

func runModels(opts *modelsOptions) error {
	if opts.tokens < 0 {
		return fmt.Errorf("--tokens must be non-negative, got %d", opts.tokens)
	}

	usage := modellimit.Usage(opts.tokens)

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(usage)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if opts.tokens > 0 {
		fmt.Fprintln(w, "MODEL\tCONTEXT\tUSED\tREMAINING")
		for _, m := range usage {
			fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%d\n", m.Name, m.ContextSize, m.UsageRatio*100, m.Remaining)
		}
	} else {
		fmt.Fprintln(w, "MODEL\tCONTEXT")
		for _, m := range usage {
			fmt.Fprintf(w, "%s\t%d\n", m.Name, m.ContextSize)
		}
	}
	return w.Flush()
}
