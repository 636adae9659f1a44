package slrgen

import (
	"fmt"
	"io"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/slrgen/lr"
)

// tracer traces with key 'slrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.lr")
}

// Result holds everything constructed for a grammar. The Grammar is shared with
// the caller; tables are immutable.
type Result struct {
	Grammar   *lr.Grammar
	Analysis  *lr.LRAnalysis
	CFSM      *lr.CFSM
	Action    *lr.ActionTable
	Goto      *lr.GotoTable
	Conflicts []lr.Conflict
	gen       *lr.TableGenerator
}

// Build creates a grammar from a map of non-terminals to right hand sides, and
// constructs its SLR(1) parser tables. An empty right hand side (or one
// consisting of just "ε") denotes an ε-production. If terminals is non-nil,
// every symbol on a right hand side has to be either a key of rules or a
// member of terminals.
//
// Build returns an error wrapping lr.ErrMalformedGrammar if the grammar cannot
// be constructed. Conflicts are not errors; they are returned in the Result.
func Build(name, start string, rules map[string][][]string, terminals []string) (*Result, error) {
	g, err := lr.FromRules(name, start, rules, terminals)
	if err != nil {
		return nil, fmt.Errorf("cannot build tables for grammar %s: %w", name, err)
	}
	return BuildGrammar(g), nil
}

// BuildGrammar constructs SLR(1) parser tables for a grammar created with
// lr.GrammarBuilder.
func BuildGrammar(g *lr.Grammar) *Result {
	ga := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	lrgen.CreateTables()
	r := &Result{
		Grammar:   g,
		Analysis:  ga,
		CFSM:      lrgen.CFSM(),
		Action:    lrgen.ActionTable(),
		Goto:      lrgen.GotoTable(),
		Conflicts: lrgen.Conflicts(),
		gen:       lrgen,
	}
	if len(r.Conflicts) > 0 {
		tracer().Infof("grammar %s is not SLR(1), %d conflicts", g.Name, len(r.Conflicts))
	}
	return r
}

// IsSLR1 is true if the tables are free of conflicts.
func (r *Result) IsSLR1() bool {
	return len(r.Conflicts) == 0
}

// Generator returns the table generator used to build the result, giving
// access to exports and the compact table encoding.
func (r *Result) Generator() *lr.TableGenerator {
	return r.gen
}

// First returns FIRST(N) for every non-terminal N, as symbol names ordered by
// symbol value. ε is included for non-terminals deriving the empty string.
func (r *Result) First() map[string][]string {
	return r.setsOf(r.Analysis.FirstSymbols)
}

// Follow returns FOLLOW(N) for every non-terminal N, as symbol names ordered by
// symbol value, possibly including $.
func (r *Result) Follow() map[string][]string {
	return r.setsOf(r.Analysis.FollowSymbols)
}

func (r *Result) setsOf(f func(*lr.Symbol) []*lr.Symbol) map[string][]string {
	m := make(map[string][]string)
	r.Grammar.EachNonTerminal(func(N *lr.Symbol) interface{} {
		syms := f(N)
		names := make([]string, len(syms))
		for i, A := range syms {
			names[i] = A.Name
		}
		m[N.Name] = names
		return nil
	})
	return m
}

// Report writes the rules of the grammar, FIRST and FOLLOW sets, the parser
// tables and all conflicts to w.
func (r *Result) Report(w io.Writer) {
	fmt.Fprintf(w, "Grammar %s\n\n", r.Grammar.Name)
	lr.RulesAsText(r.Grammar, w)
	fmt.Fprintln(w)
	lr.FirstFollowAsText(r.Analysis, w)
	fmt.Fprintln(w)
	lr.TablesAsText(r.gen, w)
	if r.IsSLR1() {
		fmt.Fprintf(w, "\nGrammar %s is SLR(1)\n", r.Grammar.Name)
		return
	}
	fmt.Fprintf(w, "\n%d conflicts:\n", len(r.Conflicts))
	for _, c := range r.Conflicts {
		fmt.Fprintf(w, "    %v\n", c)
	}
}
