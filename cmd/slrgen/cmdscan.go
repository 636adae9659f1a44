package main

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token types of REPL command lines.
const (
	tokKeyword = iota + 1
	tokNumber
	tokName
)

var replKeywords = []string{
	"first", "follow", "state", "action", "goto", "conflicts",
	"dump", "rules", "tables", "help", "quit",
}

type cmdToken struct {
	Type   int
	Lexeme string
}

func (t cmdToken) String() string {
	return fmt.Sprintf("<%d|%s>", t.Type, t.Lexeme)
}

// commandScanner splits REPL command lines into tokens. Keywords take
// precedence over symbol names of the same length; grammar symbols may
// consist of any non-space characters.
type commandScanner struct {
	lexer *lexmachine.Lexer
}

func newCommandScanner() (*commandScanner, error) {
	lexer := lexmachine.NewLexer()
	for _, kw := range replKeywords {
		lexer.Add([]byte(kw), makeToken(tokKeyword))
	}
	lexer.Add([]byte(`[0-9]+`), makeToken(tokNumber))
	lexer.Add([]byte(`[^ \t\n\r]+`), makeToken(tokName))
	lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
	if err := lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return &commandScanner{lexer: lexer}, nil
}

// Tokens scans a command line.
func (cs *commandScanner) Tokens(line string) ([]cmdToken, error) {
	scanner, err := cs.lexer.Scanner([]byte(line))
	if err != nil {
		return nil, err
	}
	var toks []cmdToken
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is {
				return nil, fmt.Errorf("cannot read command at column %d", ui.FailTC+1)
			}
			return nil, err
		}
		token := tok.(*lexmachine.Token)
		toks = append(toks, cmdToken{Type: token.Type, Lexeme: string(token.Lexeme)})
	}
	tracer().Debugf("command tokens = %v", toks)
	return toks, nil
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
