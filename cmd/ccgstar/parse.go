package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/npillmayer/ccgstar/astar"
)

func newParseCommand(opts *appOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <batch.json>",
		Short: "Parse a pre-scored sentence batch",
		Args:  cobra.ExactArgs(1),
		Example: `  # 1-best derivations for an English batch
  ccgstar parse scored.json

  # 5-best with seen-rules filtering, bracketed output
  ccgstar parse scored.json --nbest 5 --seen-rules --format bracket

  # machine-readable output
  ccgstar parse scored.json --format json > parses.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := loadBatch(args[0])
			if err != nil {
				return err
			}
			g, err := newGrammar(opts)
			if err != nil {
				return err
			}
			parser := astar.NewParser(g, newConfig(opts))
			results := parser.ParseBatch(batch.inputs())
			return printResults(results, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "deriv", "Output format [deriv|bracket|tree|json]")
	return cmd
}

func printResults(results []astar.Result, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resultsToJSON(results))
	}
	for i, r := range results {
		pterm.Info.Printf("sentence %d: %d parse(s), %s\n", i, len(r.Trees), r.Diag)
		if r.Err != nil {
			pterm.Error.Println(r.Err.Error())
			continue
		}
		for rank, st := range r.Trees {
			fmt.Printf("#%d  score %.4f\n", rank+1, st.Score)
			switch format {
			case "bracket":
				fmt.Println(st.Tree.Bracketed())
			case "tree":
				renderTree(st.Tree)
			default:
				fmt.Println(st.Tree.Derivation())
			}
		}
	}
	return nil
}
