package lr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCFSM2GraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	lrgen := makeTables(t, makeCCGrammar(t))
	var buf bytes.Buffer
	if err := lrgen.CFSM().CFSM2GraphViz(&buf); err != nil {
		t.Fatal(err)
	}
	dot := buf.String()
	for _, s := range []string{
		"digraph {",
		`s000 -> s001 [label="c"]`,
		`s004 -> s006 [label="C"]`,
		"s003 [fillcolor=lightgray",
		`S' ➞ • S\l`,
	} {
		if !strings.Contains(dot, s) {
			t.Errorf("expected Dot output to contain %q", s)
		}
	}
	t.Logf("\n%s", dot)
}

func TestTablesAsText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	lrgen := makeTables(t, makeCCGrammar(t))
	var buf bytes.Buffer
	TablesAsText(lrgen, &buf)
	out := buf.String()
	t.Logf("\n%s", out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, separator lines and 7 states
	if len(lines) < 7+3 {
		t.Errorf("expected at least 10 lines of output, have %d", len(lines))
	}
	for _, s := range []string{"state", "acc", "s1", "s2", "r1", "r2", "r3"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected table to contain %q", s)
		}
	}
}

func TestActionTableAsHTML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	lrgen := makeTables(t, makeAmbiguousGrammar(t))
	var buf bytes.Buffer
	ActionTableAsHTML(lrgen, &buf)
	html := buf.String()
	if !strings.Contains(html, "ACTION table for grammar Ambiguous") {
		t.Errorf("expected HTML to have a title")
	}
	if !strings.Contains(html, "<font color=red>") {
		t.Errorf("expected conflicts to be marked red")
	}
	buf.Reset()
	GotoTableAsHTML(lrgen, &buf)
	if !strings.Contains(buf.String(), "GOTO table for grammar Ambiguous") {
		t.Errorf("expected GOTO HTML to have a title")
	}
}

func TestFirstFollowAsText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := makeCCGrammar(t)
	var buf bytes.Buffer
	FirstFollowAsText(Analysis(g), &buf)
	out := buf.String()
	if !strings.Contains(out, "{c, d}") || !strings.Contains(out, "{$, c, d}") {
		t.Errorf("unexpected FIRST/FOLLOW table:\n%s", out)
	}
	buf.Reset()
	RulesAsText(g, &buf)
	if !strings.HasPrefix(buf.String(), "  0: S' ➞ S\n") {
		t.Errorf("unexpected rule listing:\n%s", buf.String())
	}
}
