package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"gopkg.in/yaml.v3"
)

// grammarFile is the document structure of a grammar file. Rules are kept as
// a YAML node, as decoding them into a map would lose their order.
type grammarFile struct {
	Name      string    `yaml:"name"`
	Start     string    `yaml:"start"`
	Terminals []string  `yaml:"terminals"`
	Rules     yaml.Node `yaml:"rules"`
}

// buildFromFile loads a grammar and constructs its parser tables.
func buildFromFile(path string) (*slrgen.Result, error) {
	g, err := loadGrammar(path)
	if err != nil {
		return nil, err
	}
	return slrgen.BuildGrammar(g), nil
}

func loadGrammar(path string) (*lr.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open grammar file %s: %w", path, err)
	}
	defer f.Close()
	return readGrammar(f, path)
}

// readGrammar reads a grammar in YAML or JSON format. path is used for error
// messages and as the default grammar name.
func readGrammar(r io.Reader, path string) (*lr.Grammar, error) {
	var gf grammarFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&gf); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty grammar file", path)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if gf.Name == "" {
		gf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if gf.Rules.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s:%d: rules must be a mapping from non-terminals to right hand sides",
			path, gf.Rules.Line)
	}
	b := lr.NewGrammarBuilder(gf.Name)
	if gf.Start != "" {
		b.Start(gf.Start)
	}
	if gf.Terminals != nil {
		b.Terminals(gf.Terminals...)
	}
	content := gf.Rules.Content
	for i := 0; i+1 < len(content); i += 2 {
		lhs, rhss := content[i], content[i+1]
		if lhs.Kind != yaml.ScalarNode || lhs.Value == "" {
			return nil, fmt.Errorf("%s:%d: left hand side must be a symbol name", path, lhs.Line)
		}
		bodies, err := ruleBodies(rhss)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: rule for %s: %w", path, rhss.Line, lhs.Value, err)
		}
		for _, body := range bodies {
			rb := b.LHS(lhs.Value)
			if len(body) == 0 {
				rb.Epsilon()
				continue
			}
			for _, sym := range body {
				rb.Sym(sym)
			}
			rb.End()
		}
		tracer().Debugf("%s: %d right hand sides for %s", path, len(bodies), lhs.Value)
	}
	g, err := b.Grammar()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ruleBodies decodes the right hand sides of a rule. Every right hand side is
// either a list of symbols or a string of space separated symbols. An empty
// list, an empty string or "ε" denote an ε-production.
func ruleBodies(node *yaml.Node) ([][]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("right hand sides must be given as a list")
	}
	var bodies [][]string
	for _, rhs := range node.Content {
		var body []string
		switch rhs.Kind {
		case yaml.ScalarNode:
			body = strings.Fields(rhs.Value)
		case yaml.SequenceNode:
			if err := rhs.Decode(&body); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("line %d: right hand side must be a list or a string", rhs.Line)
		}
		if len(body) == 1 && body[0] == lr.EpsilonName {
			body = nil
		}
		bodies = append(bodies, body)
	}
	if len(bodies) == 0 {
		return nil, fmt.Errorf("no right hand sides")
	}
	return bodies, nil
}
