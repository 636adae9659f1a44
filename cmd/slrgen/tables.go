package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var tablesFlags = struct {
	strict  *bool
	compact *bool
}{}

var outputFlags = struct {
	dot  *string
	html *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tables",
		Short:   "Print FIRST/FOLLOW sets, ACTION and GOTO tables and conflicts",
		Example: `  slrgen tables grammar.yaml --strict`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTables,
	}
	tablesFlags.strict = cmd.Flags().Bool("strict", false, "fail if the grammar is not SLR(1)")
	tablesFlags.compact = cmd.Flags().Bool("compact", false, "print the compact table encoding, too")
	rootCmd.AddCommand(cmd)
	//
	cmd = &cobra.Command{
		Use:     "dot",
		Short:   "Export the LR(0) automaton in Graphviz Dot format",
		Example: `  slrgen dot grammar.yaml -o cfsm.dot`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDot,
	}
	outputFlags.dot = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
	//
	cmd = &cobra.Command{
		Use:     "html",
		Short:   "Export ACTION and GOTO tables as HTML, and the automaton as Dot",
		Example: `  slrgen html grammar.yaml -o out`,
		Args:    cobra.ExactArgs(1),
		RunE:    runHTML,
	}
	outputFlags.html = cmd.Flags().StringP("output", "o", ".", "output directory")
	rootCmd.AddCommand(cmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	result, err := buildFromFile(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	result.Report(w)
	if *tablesFlags.compact {
		writeCompact(result, w)
	}
	if *tablesFlags.strict && !result.IsSLR1() {
		return fmt.Errorf("grammar %s is not SLR(1), %d conflicts", result.Grammar.Name, len(result.Conflicts))
	}
	return nil
}

// writeCompact writes the sparse encoding of the tables, one line per cell.
func writeCompact(result *slrgen.Result, w io.Writer) {
	gotoT, actionT := result.Generator().Compact()
	if gotoT == nil {
		return
	}
	for _, t := range []struct {
		name  string
		table *lr.Table
	}{{"ACTION", actionT}, {"GOTO", gotoT}} {
		fmt.Fprintf(w, "\n%s (compact, %d cells)\n", t.name, t.table.ValueCount())
		tw := tablewriter.NewWriter(w)
		tw.SetHeader([]string{"state", "symbol", "value", "2nd value"})
		tw.SetAutoFormatHeaders(false)
		null := t.table.NullValue()
		t.table.Each(func(state uint, col int, a, b int32) {
			second := ""
			if b != null {
				second = fmt.Sprintf("%d", b)
			}
			sym := result.Grammar.SymbolByValue(col)
			tw.Append([]string{fmt.Sprintf("%d", state), sym.Name, fmt.Sprintf("%d", a), second})
		})
		tw.Render()
	}
}

func runDot(cmd *cobra.Command, args []string) error {
	result, err := buildFromFile(args[0])
	if err != nil {
		return err
	}
	if *outputFlags.dot == "" {
		return result.CFSM.CFSM2GraphViz(cmd.OutOrStdout())
	}
	return writeFile(*outputFlags.dot, func(w io.Writer) error {
		return result.CFSM.CFSM2GraphViz(w)
	})
}

func runHTML(cmd *cobra.Command, args []string) error {
	result, err := buildFromFile(args[0])
	if err != nil {
		return err
	}
	dir := *outputFlags.html
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	lrgen := result.Generator()
	err = writeFile(filepath.Join(dir, "action.html"), func(w io.Writer) error {
		lr.ActionTableAsHTML(lrgen, w)
		return nil
	})
	if err == nil {
		err = writeFile(filepath.Join(dir, "goto.html"), func(w io.Writer) error {
			lr.GotoTableAsHTML(lrgen, w)
			return nil
		})
	}
	if err == nil {
		err = writeFile(filepath.Join(dir, "cfsm.dot"), func(w io.Writer) error {
			return result.CFSM.CFSM2GraphViz(w)
		})
	}
	if err == nil {
		tracer().Infof("tables written to %s, render cfsm.dot to cfsm.png for the HTML pages", dir)
	}
	return err
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
