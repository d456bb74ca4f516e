package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/npillmayer/ccgstar/astar"
)

func newShellCommand(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [batch.json]",
		Short: "Inspect parses of a batch interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGrammar(opts)
			if err != nil {
				return err
			}
			sh := &shell{
				opts:   opts,
				parser: astar.NewParser(g, newConfig(opts)),
			}
			if len(args) == 1 {
				if err := sh.load(args[0]); err != nil {
					return err
				}
			}
			return sh.run()
		},
	}
}

// shell is the interactive inspection loop. It keeps one loaded batch
// and re-parses sentences on demand.
type shell struct {
	opts    *appOptions
	parser  *astar.Parser
	batch   *batchDoc
	results []astar.Result
}

func (sh *shell) load(path string) error {
	batch, err := loadBatch(path)
	if err != nil {
		return err
	}
	sh.batch = batch
	sh.results = sh.parser.ParseBatch(batch.inputs())
	pterm.Info.Printf("loaded %d sentence(s) from %s\n", len(batch.Sentences), path)
	return nil
}

func (sh *shell) run() error {
	pterm.Info.Println("Welcome to the CCG* shell")
	repl, err := readline.New("ccg> ")
	if err != nil {
		return err
	}
	pterm.Info.Println("Commands: load <file> | show <i> [rank] | deriv <i> [rank] | tokens <i> | quit")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if quit := sh.execute(line); quit {
			break
		}
	}
	println("Good bye!")
	return nil
}

func (sh *shell) execute(line string) (quit bool) {
	args := strings.Fields(line)
	switch args[0] {
	case "quit", "exit":
		return true
	case "load":
		if len(args) != 2 {
			pterm.Error.Println("usage: load <file>")
			return false
		}
		if err := sh.load(args[1]); err != nil {
			pterm.Error.Println(err.Error())
		}
	case "show", "deriv":
		st, ok := sh.pick(args)
		if !ok {
			return false
		}
		if args[0] == "show" {
			renderTree(st.Tree)
		} else {
			fmt.Println(st.Tree.Derivation())
		}
		pterm.Info.Printf("score %.4f\n", st.Score)
	case "tokens":
		i, ok := sh.sentenceArg(args, 1)
		if !ok {
			return false
		}
		fmt.Println(strings.Join(sh.batch.Sentences[i].Tokens, " "))
	default:
		pterm.Error.Printf("unknown command %q\n", args[0])
	}
	return false
}

// pick resolves "<cmd> <sentence> [rank]" to a scored tree.
func (sh *shell) pick(args []string) (astar.ScoredTree, bool) {
	i, ok := sh.sentenceArg(args, 1)
	if !ok {
		return astar.ScoredTree{}, false
	}
	rank := 0
	if len(args) > 2 {
		r, err := strconv.Atoi(args[2])
		if err != nil || r < 1 {
			pterm.Error.Println("rank must be a positive number")
			return astar.ScoredTree{}, false
		}
		rank = r - 1
	}
	res := sh.results[i]
	if res.Err != nil {
		pterm.Error.Println(res.Err.Error())
		return astar.ScoredTree{}, false
	}
	if rank >= len(res.Trees) {
		pterm.Error.Printf("sentence %d has %d parse(s) (%s)\n", i, len(res.Trees), res.Diag)
		return astar.ScoredTree{}, false
	}
	return res.Trees[rank], true
}

func (sh *shell) sentenceArg(args []string, pos int) (int, bool) {
	if sh.batch == nil {
		pterm.Error.Println("no batch loaded; use: load <file>")
		return 0, false
	}
	if len(args) <= pos {
		pterm.Error.Println("missing sentence number")
		return 0, false
	}
	i, err := strconv.Atoi(args[pos])
	if err != nil || i < 0 || i >= len(sh.batch.Sentences) {
		pterm.Error.Printf("sentence number out of range 0…%d\n", len(sh.batch.Sentences)-1)
		return 0, false
	}
	return i, true
}
