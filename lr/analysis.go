package lr

import (
	"golang.org/x/tools/container/intsets"
)

// LRAnalysis is an object for static grammar analysis. It computes, for every
// non-terminal, whether it derives ε, its FIRST-set and its FOLLOW-set.
// Sets are integer sets of symbol values; ε is represented by EpsilonValue,
// end of input by EOFValue.
//
// FIRST and FOLLOW are computed as fixpoints: passes over all the rules of
// the grammar are repeated until a pass leaves every set unchanged. Sets only
// ever grow, and there are finitely many symbols, so the computation terminates
// for every grammar, including left-recursive and cyclic ones.
type LRAnalysis struct {
	g          *Grammar
	firstSets  map[*Symbol]*intsets.Sparse
	followSets map[*Symbol]*intsets.Sparse
	passes     [2]int // number of FIRST and FOLLOW passes, for tracing
}

// Analysis creates an analyser for a grammar and runs the analysis.
func Analysis(g *Grammar) *LRAnalysis {
	if g == nil {
		tracer().Errorf("cannot analyse nil grammar")
		return nil
	}
	ga := newAnalysis(g)
	for ga.firstPass() {
		ga.passes[0]++
	}
	for ga.followPass() {
		ga.passes[1]++
	}
	tracer().Debugf("FIRST stable after %d passes, FOLLOW after %d passes", ga.passes[0]+1, ga.passes[1]+1)
	return ga
}

func newAnalysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:          g,
		firstSets:  make(map[*Symbol]*intsets.Sparse),
		followSets: make(map[*Symbol]*intsets.Sparse),
	}
	for _, r := range g.rules {
		if ga.firstSets[r.LHS] == nil {
			ga.firstSets[r.LHS] = &intsets.Sparse{}
			ga.followSets[r.LHS] = &intsets.Sparse{}
		}
	}
	ga.followSets[g.augmented].Insert(EOFValue)
	ga.followSets[g.start].Insert(EOFValue)
	return ga
}

// Grammar returns the grammar this analyser is working on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// firstPass runs one pass over all rules, extending the FIRST-sets of the
// rules' left hand sides. It returns true if any set changed.
func (ga *LRAnalysis) firstPass() bool {
	changed := false
	for _, r := range ga.g.rules {
		f := ga.firstOf(r.rhs)
		if ga.firstSets[r.LHS].UnionWith(f) {
			changed = true
		}
	}
	return changed
}

// followPass runs one pass over all rules A ➞ α X β, propagating
// FIRST(β)\{ε} to FOLLOW(X), and FOLLOW(A) to FOLLOW(X) if β ⇒* ε.
// It returns true if any set changed.
func (ga *LRAnalysis) followPass() bool {
	changed := false
	for _, r := range ga.g.rules {
		for k, X := range r.rhs {
			if X.IsTerminal() {
				continue
			}
			follow := ga.followSets[X]
			beta := ga.firstOf(r.rhs[k+1:])
			tailEps := beta.Remove(EpsilonValue)
			if follow.UnionWith(beta) {
				changed = true
			}
			if tailEps && r.LHS != X {
				if follow.UnionWith(ga.followSets[r.LHS]) {
					changed = true
				}
			}
		}
	}
	return changed
}

// firstOf computes FIRST of a sequence of symbols, using the FIRST-sets as far
// as they are known. The result is a fresh set.
func (ga *LRAnalysis) firstOf(syms []*Symbol) *intsets.Sparse {
	result := &intsets.Sparse{}
	for _, A := range syms {
		if A.IsTerminal() {
			result.Remove(EpsilonValue)
			result.Insert(A.Value)
			return result
		}
		if A.IsEpsilon() {
			continue
		}
		f := ga.firstSets[A]
		result.UnionWith(f)
		if !f.Has(EpsilonValue) {
			result.Remove(EpsilonValue)
			return result
		}
	}
	result.Insert(EpsilonValue)
	return result
}

// First returns FIRST(A) as a set of symbol values. It contains EpsilonValue
// if A derives ε. For terminals, FIRST(A) = {A}. The set is a copy.
func (ga *LRAnalysis) First(A *Symbol) *intsets.Sparse {
	if A == nil {
		return &intsets.Sparse{}
	}
	return ga.firstOf([]*Symbol{A})
}

// FirstOfSequence returns FIRST(X1 … Xn). It contains EpsilonValue if every Xi
// derives ε, in particular for an empty sequence.
func (ga *LRAnalysis) FirstOfSequence(syms []*Symbol) *intsets.Sparse {
	return ga.firstOf(syms)
}

// Follow returns FOLLOW(A) as a set of symbol values, possibly including
// EOFValue. The set is empty for terminals. The set is a copy.
func (ga *LRAnalysis) Follow(A *Symbol) *intsets.Sparse {
	s := &intsets.Sparse{}
	if A != nil {
		if f := ga.followSets[A]; f != nil {
			s.Copy(f)
		}
	}
	return s
}

// DerivesEpsilon is a predicate: A ⇒* ε ?
func (ga *LRAnalysis) DerivesEpsilon(A *Symbol) bool {
	if A == nil || A.IsTerminal() {
		return false
	}
	return A.IsEpsilon() || ga.firstSets[A].Has(EpsilonValue)
}

// FirstSymbols returns FIRST(A) as symbols, ordered by value.
func (ga *LRAnalysis) FirstSymbols(A *Symbol) []*Symbol {
	return ga.symbolsOf(ga.First(A))
}

// FollowSymbols returns FOLLOW(A) as symbols, ordered by value.
func (ga *LRAnalysis) FollowSymbols(A *Symbol) []*Symbol {
	return ga.symbolsOf(ga.Follow(A))
}

func (ga *LRAnalysis) symbolsOf(s *intsets.Sparse) []*Symbol {
	vals := s.AppendTo(nil)
	syms := make([]*Symbol, 0, len(vals))
	for _, v := range vals {
		syms = append(syms, ga.g.SymbolByValue(v))
	}
	return syms
}
