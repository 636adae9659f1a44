/*
Command slrgen generates SLR(1) parser tables for grammars read from a file.

Grammars are given in YAML (or JSON, which is a subset):

    name: CC
    start: S            # optional, defaults to the first rule
    terminals: [c, d]   # optional, enables strict classification
    rules:
      S: [[C, C]]
      C: [[c, C], d]    # a body may be a list or a space separated string
      E: [[], "ε"]      # ε-productions

Rule order within the file is kept, therefore rule serials and state numbers
are stable across runs.

Commands:

    slrgen tables grammar.yaml [--strict] [--compact]
    slrgen dot grammar.yaml -o cfsm.dot
    slrgen html grammar.yaml -o outdir
    slrgen repl grammar.yaml

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'slrgen.cli'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.cli")
}
