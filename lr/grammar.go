package lr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/slrgen/lr/iteratable"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Reserved symbol names. Neither of them may be used as the name of an ordinary
// grammar symbol.
const (
	EpsilonName = "ε" // marks an empty production
	EOFName     = "$" // end of input
)

// Values of the reserved symbols. Ordinary symbols are numbered from FirstValue on.
const (
	EpsilonValue = 0
	EOFValue     = 1
	FirstValue   = 2
)

// ErrMalformedGrammar is returned (wrapped) for grammars which reference undefined
// symbols, use reserved names or are otherwise unusable.
var ErrMalformedGrammar = errors.New("malformed grammar")

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedGrammar, fmt.Sprintf(format, args...))
}

// --- Symbols ---------------------------------------------------------------

type symbolKind int8

const (
	terminalKind symbolKind = iota
	nonterminalKind
	epsilonKind
	eofKind
)

// Symbol is a grammar symbol, either a terminal or a non-terminal.
// Every symbol of a grammar carries a unique serial value, which is used
// as an index for FIRST- and FOLLOW-sets and as a column in parser tables.
type Symbol struct {
	Name  string
	Value int
	kind  symbolKind
}

// IsTerminal returns true if A is a terminal or the end-of-input marker.
func (A *Symbol) IsTerminal() bool {
	return A.kind == terminalKind || A.kind == eofKind
}

// IsEpsilon returns true for the symbol ε.
func (A *Symbol) IsEpsilon() bool {
	return A.kind == epsilonKind
}

// IsEOF returns true for the end-of-input marker $.
func (A *Symbol) IsEOF() bool {
	return A.kind == eofKind
}

func (A *Symbol) String() string {
	return A.Name
}

// --- Rules -----------------------------------------------------------------

// Rule is a production of a grammar. Rule 0 is always the augmented start rule
// S' ➞ S.
type Rule struct {
	Serial int     // ordinal number of this rule within the grammar
	LHS    *Symbol // left hand side, a non-terminal
	rhs    []*Symbol
}

// RHS returns a copy of the right hand side of a rule. It is empty for
// ε-productions.
func (r *Rule) RHS() []*Symbol {
	return append([]*Symbol(nil), r.rhs...)
}

// Len returns the length of the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEps returns true for ε-productions.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	return fmt.Sprintf("%v ➞ %s", r.LHS, rhsString(r.rhs, -1))
}

func rhsString(rhs []*Symbol, dot int) string {
	if len(rhs) == 0 {
		if dot >= 0 {
			return "•"
		}
		return EpsilonName
	}
	var b strings.Builder
	for i, A := range rhs {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == dot {
			b.WriteString("• ")
		}
		b.WriteString(A.Name)
	}
	if dot == len(rhs) {
		b.WriteString(" •")
	}
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for a context-free grammar. Grammars are created either by
// a GrammarBuilder or with FromRules. They are always augmented with a fresh
// start rule and immutable after creation.
type Grammar struct {
	Name         string
	rules        []*Rule
	symbols      []*Symbol // all symbols, indexed by value
	byName       map[string]*Symbol
	terminals    []*Symbol
	nonterminals []*Symbol // without the augmented start symbol
	start        *Symbol
	augmented    *Symbol
}

// Rule returns rule no. i, or nil.
func (g *Grammar) Rule(i int) *Rule {
	if i < 0 || i >= len(g.rules) {
		return nil
	}
	return g.rules[i]
}

// Size returns the number of rules, including the augmented start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Start returns the start symbol as given by the client.
func (g *Grammar) Start() *Symbol {
	return g.start
}

// AugmentedStart returns the fresh start symbol S' of rule 0.
func (g *Grammar) AugmentedStart() *Symbol {
	return g.augmented
}

// Epsilon returns the symbol ε.
func (g *Grammar) Epsilon() *Symbol {
	return g.symbols[EpsilonValue]
}

// EOF returns the end-of-input symbol $.
func (g *Grammar) EOF() *Symbol {
	return g.symbols[EOFValue]
}

// SymbolByName finds a symbol by name, or returns nil. ε and $ are found as
// well.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.byName[name]
}

// SymbolByValue finds a symbol by its serial value, or returns nil.
func (g *Grammar) SymbolByValue(v int) *Symbol {
	if v < 0 || v >= len(g.symbols) {
		return nil
	}
	return g.symbols[v]
}

// IsNonTerminal classifies a symbol name: it is a non-terminal iff it is the left
// hand side of at least one rule. ε and $ are never non-terminals.
func (g *Grammar) IsNonTerminal(name string) bool {
	A := g.byName[name]
	return A != nil && A.kind == nonterminalKind
}

// IsTerminal is true for names of ordinary terminals of g. ε and $ are not
// classified as terminals.
func (g *Grammar) IsTerminal(name string) bool {
	A := g.byName[name]
	return A != nil && A.kind == terminalKind
}

// Terminals returns the ordinary terminals of g, ordered by value.
func (g *Grammar) Terminals() []*Symbol {
	return append([]*Symbol(nil), g.terminals...)
}

// NonTerminals returns the non-terminals of g, ordered by value.
// The augmented start symbol is not included.
func (g *Grammar) NonTerminals() []*Symbol {
	return append([]*Symbol(nil), g.nonterminals...)
}

// EachTerminal calls f for every terminal of g (excluding $).
func (g *Grammar) EachTerminal(f func(A *Symbol) interface{}) {
	for _, A := range g.terminals {
		f(A)
	}
}

// EachNonTerminal calls f for every non-terminal of g, except the augmented
// start symbol.
func (g *Grammar) EachNonTerminal(f func(N *Symbol) interface{}) {
	for _, N := range g.nonterminals {
		f(N)
	}
}

// EachSymbol calls f for every terminal and non-terminal which may occur on the
// right hand side of a rule, terminals first.
func (g *Grammar) EachSymbol(f func(A *Symbol) interface{}) {
	g.EachTerminal(f)
	g.EachNonTerminal(f)
}

// RulesFor returns all rules with left hand side N, in grammar order.
func (g *Grammar) RulesFor(N *Symbol) []*Rule {
	var R []*Rule
	for _, r := range g.rules {
		if r.LHS == N {
			R = append(R, r)
		}
	}
	return R
}

// FindNonTermRules returns a set of start items (dot at position 0) for all
// rules with left hand side N. ε-rules are included if includeEpsRules is set.
func (g *Grammar) FindNonTermRules(N *Symbol, includeEpsRules bool) *iteratable.Set {
	iset := newItemSet()
	for _, r := range g.rules {
		if r.LHS != N || (r.IsEps() && !includeEpsRules) {
			continue
		}
		item, _ := StartItem(r)
		iset.Add(item)
	}
	return iset
}

// Dump is a debugging helper, writing the rules of g to the tracer.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ---------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------------")
}

// --- Grammar Builder -------------------------------------------------------

type symbolHint int8

const (
	hintNone symbolHint = iota
	hintNonTerm
	hintTerm
)

type symRef struct {
	name string
	hint symbolHint
}

type ruleSpec struct {
	lhs string
	rhs []symRef
}

// GrammarBuilder is a builder type for grammars. Clients add rules, consisting
// of a left hand side and a sequence of symbols:
//
//     b := lr.NewGrammarBuilder("G")
//     b.LHS("S").N("C").N("C").End()  // S ➞ C C
//     b.LHS("C").T("c").N("C").End()  // C ➞ c C
//     b.LHS("C").T("d").End()         // C ➞ d
//     g, err := b.Grammar()
//
// Symbols are classified when the grammar is finished: a symbol is a
// non-terminal iff it occurs as the left hand side of a rule.
// The first LHS will be the start symbol, unless Start(…) is called.
type GrammarBuilder struct {
	name      string
	start     string
	rules     []*ruleSpec
	declared  []string
	hasDecl   bool
	buildErrs []error
}

// NewGrammarBuilder creates a builder for a grammar with a given name.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{name: gname}
}

// Start sets the start symbol of the grammar.
func (gb *GrammarBuilder) Start(name string) *GrammarBuilder {
	gb.start = name
	return gb
}

// Terminals declares the terminal vocabulary. If terminals are declared, every
// symbol in a rule has to be either a declared terminal or a non-terminal.
// Otherwise undefined symbols are taken to be terminals.
func (gb *GrammarBuilder) Terminals(names ...string) *GrammarBuilder {
	gb.declared = append(gb.declared, names...)
	gb.hasDecl = true
	return gb
}

// LHS starts a new rule for a non-terminal.
func (gb *GrammarBuilder) LHS(s string) *RuleBuilder {
	return &RuleBuilder{gb: gb, spec: &ruleSpec{lhs: s}}
}

// RuleBuilder collects the right hand side of a rule. It is created by
// GrammarBuilder.LHS.
type RuleBuilder struct {
	gb   *GrammarBuilder
	spec *ruleSpec
	done bool
}

// N appends a non-terminal.
func (rb *RuleBuilder) N(s string) *RuleBuilder {
	rb.spec.rhs = append(rb.spec.rhs, symRef{s, hintNonTerm})
	return rb
}

// T appends a terminal.
func (rb *RuleBuilder) T(s string) *RuleBuilder {
	rb.spec.rhs = append(rb.spec.rhs, symRef{s, hintTerm})
	return rb
}

// Sym appends a symbol and leaves its classification to the grammar.
func (rb *RuleBuilder) Sym(s string) *RuleBuilder {
	rb.spec.rhs = append(rb.spec.rhs, symRef{s, hintNone})
	return rb
}

// End completes the rule.
func (rb *RuleBuilder) End() {
	if rb.done {
		rb.gb.buildErrs = append(rb.gb.buildErrs, fmt.Errorf("rule for %s completed twice", rb.spec.lhs))
		return
	}
	rb.done = true
	rb.gb.rules = append(rb.gb.rules, rb.spec)
}

// Epsilon completes the rule as an ε-production.
func (rb *RuleBuilder) Epsilon() {
	if len(rb.spec.rhs) > 0 {
		rb.gb.buildErrs = append(rb.gb.buildErrs,
			malformed("ε-rule for %s has symbols on its right hand side", rb.spec.lhs))
		return
	}
	rb.End()
}

// Grammar classifies all symbols, augments the grammar with a fresh start rule
// and returns the finished grammar.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(gb.buildErrs) > 0 {
		return nil, gb.buildErrs[0]
	}
	if len(gb.rules) == 0 {
		return nil, malformed("grammar %s has no rules", gb.name)
	}
	heads := make(map[string]bool)
	var headOrder []string
	for _, spec := range gb.rules {
		if spec.lhs == EOFName || spec.lhs == EpsilonName || spec.lhs == "" {
			return nil, malformed("illegal left hand side %q", spec.lhs)
		}
		if !heads[spec.lhs] {
			heads[spec.lhs] = true
			headOrder = append(headOrder, spec.lhs)
		}
	}
	start := gb.start
	if start == "" {
		start = gb.rules[0].lhs
	}
	if !heads[start] {
		return nil, malformed("start symbol %s has no rules", start)
	}
	declared := make(map[string]bool, len(gb.declared))
	for _, t := range gb.declared {
		if t == EOFName || t == EpsilonName || heads[t] {
			return nil, malformed("%q cannot be declared a terminal", t)
		}
		declared[t] = true
	}
	// classify every symbol on a right hand side
	var termOrder []string
	seenTerm := make(map[string]bool)
	addTerm := func(t string) {
		if !seenTerm[t] {
			seenTerm[t] = true
			termOrder = append(termOrder, t)
		}
	}
	for _, t := range gb.declared {
		addTerm(t)
	}
	for _, spec := range gb.rules {
		for _, ref := range spec.rhs {
			switch {
			case ref.name == EpsilonName:
				continue
			case ref.name == EOFName:
				return nil, malformed("reserved symbol %s used in rule for %s", EOFName, spec.lhs)
			case ref.name == "":
				return nil, malformed("empty symbol name in rule for %s", spec.lhs)
			case heads[ref.name]:
				if ref.hint == hintTerm {
					return nil, malformed("terminal %s has rules", ref.name)
				}
			case ref.hint == hintNonTerm:
				return nil, malformed("non-terminal %s (in rule for %s) has no rules", ref.name, spec.lhs)
			case gb.hasDecl && !declared[ref.name]:
				return nil, malformed("symbol %s (in rule for %s) is neither a non-terminal nor a declared terminal",
					ref.name, spec.lhs)
			default:
				addTerm(ref.name)
			}
		}
	}
	g := &Grammar{Name: gb.name, byName: make(map[string]*Symbol)}
	g.symbols = []*Symbol{
		{Name: EpsilonName, Value: EpsilonValue, kind: epsilonKind},
		{Name: EOFName, Value: EOFValue, kind: eofKind},
	}
	for _, A := range g.symbols {
		g.byName[A.Name] = A
	}
	newSymbol := func(name string, kind symbolKind) *Symbol {
		A := &Symbol{Name: name, Value: len(g.symbols), kind: kind}
		g.symbols = append(g.symbols, A)
		g.byName[name] = A
		return A
	}
	for _, t := range termOrder {
		g.terminals = append(g.terminals, newSymbol(t, terminalKind))
	}
	for _, n := range headOrder {
		g.nonterminals = append(g.nonterminals, newSymbol(n, nonterminalKind))
	}
	g.start = g.byName[start]
	g.augmented = newSymbol(freshName(start, g.byName), nonterminalKind)
	g.rules = append(g.rules, &Rule{Serial: 0, LHS: g.augmented, rhs: []*Symbol{g.start}})
	for _, spec := range gb.rules {
		r := &Rule{Serial: len(g.rules), LHS: g.byName[spec.lhs]}
		for _, ref := range spec.rhs {
			if ref.name == EpsilonName {
				continue
			}
			r.rhs = append(r.rhs, g.byName[ref.name])
		}
		g.rules = append(g.rules, r)
	}
	tracer().Infof("grammar %s has %d rules, %d terminals, %d non-terminals",
		g.Name, len(g.rules), len(g.terminals), len(g.nonterminals))
	return g, nil
}

// freshName appends primes to a start symbol name until it does not collide
// with any symbol of the grammar.
func freshName(start string, taken map[string]*Symbol) string {
	name := start + "'"
	for taken[name] != nil || name == EOFName || name == EpsilonName {
		name += "'"
	}
	return name
}

// FromRules creates a grammar from a map of non-terminals to right hand sides.
// An empty right hand side, or one consisting of just "ε", denotes an
// ε-production. If terminals is non-nil, every symbol on a right hand side must
// be either a key of rules or a member of terminals.
//
// Go maps are unordered, therefore rules are ordered as follows: rules for the
// start symbol first, then non-terminals in order of their first reference
// (breadth first from the start symbol), then unreachable non-terminals in
// alphabetical order. Right hand sides keep their order.
func FromRules(gname string, start string, rules map[string][][]string, terminals []string) (*Grammar, error) {
	if start == "" {
		return nil, malformed("no start symbol given for grammar %s", gname)
	}
	if _, ok := rules[start]; !ok {
		return nil, malformed("start symbol %s has no rules", start)
	}
	for lhs, rhss := range rules {
		if len(rhss) == 0 {
			return nil, malformed("non-terminal %s has no productions", lhs)
		}
	}
	order := []string{start}
	seen := map[string]bool{start: true}
	for i := 0; i < len(order); i++ {
		for _, rhs := range rules[order[i]] {
			for _, s := range rhs {
				if _, isNT := rules[s]; isNT && !seen[s] {
					seen[s] = true
					order = append(order, s)
				}
			}
		}
	}
	rest := maps.Keys(rules)
	slices.Sort(rest)
	for _, n := range rest {
		if !seen[n] {
			order = append(order, n)
		}
	}
	b := NewGrammarBuilder(gname).Start(start)
	if terminals != nil {
		b.Terminals(terminals...)
	}
	for _, lhs := range order {
		for _, rhs := range rules[lhs] {
			rb := b.LHS(lhs)
			if len(rhs) == 0 || (len(rhs) == 1 && rhs[0] == EpsilonName) {
				rb.Epsilon()
				continue
			}
			for _, s := range rhs {
				rb.Sym(s)
			}
			rb.End()
		}
	}
	return b.Grammar()
}
