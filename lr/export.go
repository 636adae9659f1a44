package lr

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/slrgen/lr/iteratable"
	"github.com/olekukonko/tablewriter"
)

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		fmt.Fprintf(bw, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items))
	}
	c.EachEdge(func(from, to *CFSMState, label *Symbol) {
		fmt.Fprintf(bw, "s%03d -> s%03d [label=\"%s\"]\n", from.ID, to.ID, dotEscape(label.Name))
	})
	bw.WriteString("}\n")
	return bw.Flush()
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(S *iteratable.Set) string {
	var b strings.Builder
	for k, i := range sortedItems(S) {
		if k > 0 {
			b.WriteString("\\l")
		}
		b.WriteString(dotEscape(i.String()))
	}
	b.WriteString("\\l")
	return b.String()
}

var dotReplacer = strings.NewReplacer(
	`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func dotEscape(s string) string {
	return dotReplacer.Replace(s)
}

// ===========================================================================

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.gototable == nil {
		tracer().Errorf("GOTO table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "GOTO", lrgen.g.NonTerminals(), func(state uint, A *Symbol) string {
		if target, ok := lrgen.gototable.Lookup(state, A); ok {
			return fmt.Sprintf("%d", target)
		}
		return ""
	}, w)
}

// ActionTableAsHTML exports the SLR(1) ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.actiontable == nil {
		tracer().Errorf("ACTION table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "ACTION", lrgen.actionColumns(), func(state uint, A *Symbol) string {
		return lrgen.actiontable.Lookup(state, A).String()
	}, w)
}

func parserTableAsHTML(lrgen *TableGenerator, tname string, symvec []*Symbol,
	entry func(uint, *Symbol) string, w io.Writer) {
	//
	io.WriteString(w, "<html><body>\n")
	io.WriteString(w, "<img src=\"cfsm.png\"/><p>")
	io.WriteString(w, fmt.Sprintf("%s table for grammar %s<p>", tname, lrgen.g.Name))
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td></td>\n")
	for _, A := range symvec {
		io.WriteString(w, fmt.Sprintf("<td>%s</td>", A))
	}
	io.WriteString(w, "</tr>\n")
	var td string // table cell
	for _, state := range lrgen.dfa.States() {
		io.WriteString(w, fmt.Sprintf("<tr><td>state %d</td>\n", state.ID))
		for _, A := range symvec {
			if td = entry(state.ID, A); td == "" {
				td = "&nbsp;"
			} else if strings.Contains(td, "/") {
				td = "<font color=red>" + td + "</font>"
			}
			io.WriteString(w, "<td>")
			io.WriteString(w, td)
			io.WriteString(w, "</td>\n")
		}
		io.WriteString(w, "</tr>\n")
	}
	io.WriteString(w, "</table></body></html>\n")
}

// actionColumns returns the terminals including $, ordered by value.
func (lrgen *TableGenerator) actionColumns() []*Symbol {
	return append([]*Symbol{lrgen.g.EOF()}, lrgen.g.Terminals()...)
}

// ===========================================================================

// TablesAsText writes the ACTION and GOTO tables side by side as a text table:
//
//     state | $   | c  | d  | S | C
//     ------+-----+----+----+---+---
//       0   |     | s1 | s2 | 3 | 4
//
// Conflicting cells show all candidates, separated by '/'.
func TablesAsText(lrgen *TableGenerator, w io.Writer) {
	if lrgen.actiontable == nil || lrgen.gototable == nil {
		tracer().Errorf("tables not yet created, cannot export")
		return
	}
	acols := lrgen.actionColumns()
	gcols := lrgen.g.NonTerminals()
	header := []string{"state"}
	for _, A := range acols {
		header = append(header, A.Name)
	}
	for _, N := range gcols {
		header = append(header, N.Name)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	for _, state := range lrgen.dfa.States() {
		row := []string{fmt.Sprintf("%d", state.ID)}
		for _, A := range acols {
			row = append(row, lrgen.actiontable.Lookup(state.ID, A).String())
		}
		for _, N := range gcols {
			if target, ok := lrgen.gototable.Lookup(state.ID, N); ok {
				row = append(row, fmt.Sprintf("%d", target))
			} else {
				row = append(row, "")
			}
		}
		table.Append(row)
	}
	table.Render()
}

// FirstFollowAsText writes FIRST and FOLLOW of every non-terminal as a text table.
func FirstFollowAsText(ga *LRAnalysis, w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"non-terminal", "FIRST", "FOLLOW"})
	table.SetAutoFormatHeaders(false)
	ga.Grammar().EachNonTerminal(func(N *Symbol) interface{} {
		table.Append([]string{
			N.Name,
			symbolList(ga.FirstSymbols(N)),
			symbolList(ga.FollowSymbols(N)),
		})
		return nil
	})
	table.Render()
}

// RulesAsText writes the rules of a grammar, one per line, prefixed by their serial.
func RulesAsText(g *Grammar, w io.Writer) {
	for _, r := range g.rules {
		fmt.Fprintf(w, "%3d: %s\n", r.Serial, r)
	}
}

func symbolList(syms []*Symbol) string {
	names := make([]string, len(syms))
	for i, A := range syms {
		names[i] = A.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}
