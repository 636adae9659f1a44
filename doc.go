/*
Package slrgen generates SLR(1) parser tables from context-free grammars.

slrgen computes FIRST and FOLLOW sets for a grammar, constructs the canonical
collection of LR(0) item sets, and derives ACTION and GOTO tables suitable to
drive a shift-reduce parser. Grammars which are not SLR(1) still produce
tables; every conflicting table cell is reported.

Package structure is as follows:

■ lr: Package lr implements grammars, grammar analysis, the characteristic
finite state machine (CFSM) and the construction of parser tables.

■ lr/sparse: Package sparse implements a sparse integer matrix, used for a
compact encoding of parser tables.

■ lr/iteratable: Package iteratable implements a set type whose iteration
visits items added while iterating, the basis for closure computations.

■ cmd/slrgen: A command line tool reading grammars from YAML files.

The base package contains a single entry point for clients which do not want
to drive the individual construction steps themselves:

    rules := map[string][][]string{
        "S": {{"C", "C"}},
        "C": {{"c", "C"}, {"d"}},
    }
    result, err := slrgen.Build("CC", "S", rules, nil)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package slrgen
