/*
Command ccgstar is the command-line front-end of the CCG* parser.

It parses pre-scored sentence batches (ccgstar parse), offers an
interactive inspection shell (ccgstar shell), serves the parser as a
JSON REST API (ccgstar serve), and tokenizes raw text for taggers
(ccgstar tokenize).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"

	"github.com/npillmayer/ccgstar/astar"
	"github.com/npillmayer/ccgstar/grammar"
)

// tracer traces with key 'ccgstar.astar'.
func tracer() tracing.Trace {
	return tracing.Select("ccgstar.astar")
}

var traceKeys = []string{"ccgstar.cat", "ccgstar.grammar", "ccgstar.astar"}

type appOptions struct {
	traceLevel string
	lang       string
	grammarDir string
	nbest      int
	beta       float64
	noBeta     bool
	pruning    int
	seenRules  bool
	catDict    bool
	maxLength  int
	maxSteps   int
}

func main() {
	opts := &appOptions{}
	root := &cobra.Command{
		Use:   "ccgstar",
		Short: "A probabilistic A* parser for Combinatory Categorial Grammar",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initTracing(opts.traceLevel)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.traceLevel, "trace", "Error", "Trace level [Debug|Info|Error]")
	pf.StringVar(&opts.lang, "lang", "en", "Grammar variant [en|ja]")
	pf.StringVar(&opts.grammarDir, "grammar", "", "Directory with grammar resource files")
	pf.IntVar(&opts.nbest, "nbest", 1, "Number of parses to return per sentence")
	pf.Float64Var(&opts.beta, "beta", 1e-5, "Supertag pruning threshold ratio")
	pf.BoolVar(&opts.noBeta, "no-beta", false, "Disable beta-pruning")
	pf.IntVar(&opts.pruning, "pruning-size", 50, "Top-K candidates per token and chart cell")
	pf.BoolVar(&opts.seenRules, "seen-rules", false, "Enable the seen-rules filter")
	pf.BoolVar(&opts.catDict, "cat-dict", false, "Enable the lexical category dictionary")
	pf.IntVar(&opts.maxLength, "max-length", 250, "Skip sentences longer than this")
	pf.IntVar(&opts.maxSteps, "max-steps", 100000, "Hard cap on agenda pops per sentence")

	root.AddCommand(newParseCommand(opts))
	root.AddCommand(newShellCommand(opts))
	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newTokenizeCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// initTracing wires the log-based tracing adapter and applies the
// requested level to all ccgstar trace keys.
func initTracing(level string) {
	gtrace.SyntaxTracer = gologadapter.New()
	l := tracing.TraceLevelFromString(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}

// newGrammar builds the grammar variant for the session, optionally
// loading resource files.
func newGrammar(opts *appOptions) (*grammar.Grammar, error) {
	var g *grammar.Grammar
	switch opts.lang {
	case "en":
		g = grammar.English()
	case "ja":
		g = grammar.Japanese()
	default:
		return nil, fmt.Errorf("unknown grammar variant %q", opts.lang)
	}
	if opts.grammarDir != "" {
		if err := grammar.LoadDir(g, opts.grammarDir); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func newConfig(opts *appOptions) astar.Config {
	conf := astar.DefaultConfig()
	conf.Beta = opts.beta
	conf.UseBeta = !opts.noBeta
	conf.PruningSize = opts.pruning
	conf.NBest = opts.nbest
	conf.UseSeenRules = opts.seenRules
	conf.UseCategoryDict = opts.catDict
	conf.MaxLength = opts.maxLength
	conf.MaxSteps = opts.maxSteps
	return conf
}
