package main

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token classes of the raw-text tokenizer.
const (
	tokWord = iota
	tokNumber
	tokPunct
)

func newTokenizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize",
		Short: "Tokenize raw text for the external tagger",
		Long: `Tokenize reads one sentence per line from stdin and writes a JSON
array of token arrays, the form the tagger expects. Pre-tokenized
batches skip this step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lexer, err := newTokenLexer()
			if err != nil {
				return err
			}
			var sentences [][]string
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				tokens, err := tokenize(lexer, scanner.Text())
				if err != nil {
					return err
				}
				if len(tokens) > 0 {
					sentences = append(sentences, tokens)
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			return enc.Encode(sentences)
		},
	}
}

// newTokenLexer compiles the DFA for word, number and punctuation
// tokens. Whitespace is skipped.
func newTokenLexer() (*lexmachine.Lexer, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(`[a-zA-Z]+('[a-zA-Z]+)?`), makeToken(tokWord))
	lexer.Add([]byte(`[0-9]+(\.[0-9]+)?`), makeToken(tokNumber))
	lexer.Add([]byte(`[\.,;:!\?\(\)"-]`), makeToken(tokPunct))
	lexer.Add([]byte(`( |\t)+`), skip)
	if err := lexer.Compile(); err != nil {
		return nil, err
	}
	return lexer, nil
}

func tokenize(lexer *lexmachine.Lexer, line string) ([]string, error) {
	scanner, err := lexer.Scanner([]byte(line))
	if err != nil {
		return nil, err
	}
	var tokens []string
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if ui, is := err.(*machines.UnconsumedInput); is {
			scanner.TC = ui.FailTC // resync after unknown input bytes
			continue
		}
		if err != nil {
			return nil, err
		}
		if tok == nil { // skipped whitespace
			continue
		}
		tokens = append(tokens, string(tok.(*lexmachine.Token).Lexeme))
	}
	return tokens, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}
