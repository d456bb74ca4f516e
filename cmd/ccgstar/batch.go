package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/npillmayer/ccgstar/astar"
)

// --- Batch documents ------------------------------------------------------

// A batch document is the JSON hand-over format between the external
// tagger and the parser: per sentence the tokens plus the two score
// matrices, all log-probabilities.

type constraintDoc struct {
	Cat      string `json:"cat,omitempty"` // empty = wildcard
	Start    int    `json:"start"`
	Length   int    `json:"length,omitempty"`
	Terminal bool   `json:"terminal,omitempty"`
}

type sentenceDoc struct {
	Tokens      []string        `json:"tokens"`
	TagScores   [][]float64     `json:"tag_scores"`
	DepScores   [][]float64     `json:"dep_scores"`
	Constraints []constraintDoc `json:"constraints,omitempty"`
}

type batchDoc struct {
	Sentences []sentenceDoc `json:"sentences"`
}

func loadBatch(path string) (*batchDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batch batchDoc
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("batch %s: %w", path, err)
	}
	return &batch, nil
}

func (b *batchDoc) inputs() []astar.Input {
	inputs := make([]astar.Input, len(b.Sentences))
	for i, s := range b.Sentences {
		inputs[i] = astar.Input{
			Tokens:      s.Tokens,
			TagScores:   s.TagScores,
			DepScores:   s.DepScores,
			Constraints: constraintsOf(s.Constraints),
		}
	}
	return inputs
}

func constraintsOf(docs []constraintDoc) []astar.Constraint {
	if len(docs) == 0 {
		return nil
	}
	cons := make([]astar.Constraint, len(docs))
	for i, d := range docs {
		length := d.Length
		if d.Terminal {
			length = 1
		}
		cons[i] = astar.Constraint{
			Cat:      d.Cat,
			Start:    d.Start,
			Length:   length,
			Terminal: d.Terminal,
		}
	}
	return cons
}

// --- Result rendering -----------------------------------------------------

// treeJSON is the JSON view of one scored parse.
type treeJSON struct {
	Score     float64 `json:"score"`
	Cat       string  `json:"cat"`
	Bracketed string  `json:"bracketed"`
}

type resultJSON struct {
	Sentence int        `json:"sentence"`
	Diag     string     `json:"diag,omitempty"`
	Error    string     `json:"error,omitempty"`
	Trees    []treeJSON `json:"trees"`
}

func resultsToJSON(results []astar.Result) []resultJSON {
	out := make([]resultJSON, len(results))
	for i, r := range results {
		rj := resultJSON{Sentence: i, Trees: []treeJSON{}}
		if r.Diag != astar.DiagNone {
			rj.Diag = r.Diag.String()
		}
		if r.Err != nil {
			rj.Error = r.Err.Error()
		}
		for _, st := range r.Trees {
			rj.Trees = append(rj.Trees, treeJSON{
				Score:     st.Score,
				Cat:       st.Tree.Cat.String(),
				Bracketed: st.Tree.Bracketed(),
			})
		}
		out[i] = rj
	}
	return out
}

// leveledTree flattens a derivation into a pterm LeveledList for
// rendering on a terminal.
func leveledTree(n *astar.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	text := fmt.Sprintf("%s  ⟨%s⟩", n.Cat, n.Rule)
	if n.IsLeaf() {
		text = fmt.Sprintf("%s  %q", n.Cat, n.Word)
	}
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: text})
	if n.Left != nil {
		ll = leveledTree(n.Left, ll, level+1)
	}
	if n.Right != nil {
		ll = leveledTree(n.Right, ll, level+1)
	}
	return ll
}

func renderTree(n *astar.Node) {
	root := pterm.NewTreeFromLeveledList(leveledTree(n, pterm.LeveledList{}, 0))
	_ = pterm.DefaultTree.WithRoot(root).Render()
}
