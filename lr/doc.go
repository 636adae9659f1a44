/*
Package lr implements the construction of LR parser tables: grammars,
static grammar analysis (FIRST and FOLLOW sets), the characteristic finite
state machine (CFSM) of LR(0) item sets, and SLR(1) ACTION and GOTO tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Grammars may
contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a").End()  // S  ➞  A a
    b.LHS("A").N("B").N("D").End()  // A  ➞  B D
    b.LHS("B").T("b").End()         // B  ➞  b
    b.LHS("B").Epsilon()            // B  ➞
    b.LHS("D").T("d").End()         // D  ➞  d
    b.LHS("D").Epsilon()            // D  ➞
    g, err := b.Grammar()

A symbol is a non-terminal iff it is the left hand side of a rule. Every
grammar is augmented with a fresh start symbol, so the trivial grammar above
becomes:

   g.Dump()

   0: S' ➞ S
   1: S ➞ A a
   2: A ➞ B D
   3: B ➞ b
   4: B ➞ ε
   5: D ➞ d
   6: D ➞ ε

Alternatively, grammars may be given as a map from non-terminals to right hand
sides, see FromRules.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all epsilon-derivable non-terminals.

Although FIRST and FOLLOW-sets are mainly intended to be used for internal
purposes of constructing the parser tables, methods for getting FIRST(N)
and FOLLOW(N) of non-terminals are defined to be public.

    ga := lr.Analysis(g)  // analyser for grammar above
    ga.Grammar().EachNonTerminal(
        func(N *lr.Symbol) interface{} {                       // ad-hoc mapper function
            fmt.Printf("FIRST(%s) = %v\n", N, ga.FirstSymbols(N))
            return nil
        })

    // Output:
    FIRST(S) = [a b d]
    FIRST(A) = [ε b d]
    FIRST(B) = [ε b]
    FIRST(D) = [ε d]

Parser Construction

Using grammar analysis as input, the tables for a bottom-up parser can be
constructed. First a characteristic finite state machine (CFSM) is built from
the grammar. The CFSM will then be transformed into a GOTO table and an ACTION
table for an SLR(1) parser. The CFSM will not be thrown away, but is made
available to the client. This is intended for debugging purposes, but may be
useful for error recovery, too. It can be exported to Graphviz's Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)  // ga is an LRAnalysis, see above
    lrgen.CreateTables()               // construct LR parser tables
    if lrgen.HasConflicts {
        for _, c := range lrgen.Conflicts() { … }
    }

Conflicts are never resolved silently: every cell of the ACTION table with more
than one action is reported. ActionTable.Resolve offers a default
disambiguation (prefer shift, then the earliest rule) for clients which want to
proceed anyway.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'slrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.lr")
}
