package slrgen

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/slrgen/lr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ccRules = map[string][][]string{
	"S": {{"C", "C"}},
	"C": {{"c", "C"}, {"d"}},
}

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	result, err := Build("CC", "S", ccRules, []string{"c", "d"})
	require.NoError(t, err)
	assert.True(t, result.IsSLR1())
	assert.Equal(t, 7, result.CFSM.Size())
	assert.Equal(t, []string{"c", "d"}, result.First()["C"])
	assert.Equal(t, []string{"$", "c", "d"}, result.Follow()["C"])
	assert.Equal(t, []string{"$"}, result.Follow()["S"])
	S := result.Grammar.SymbolByName("S")
	s, ok := result.Goto.Lookup(0, S)
	require.True(t, ok)
	a := result.Action.Lookup(s, result.Grammar.EOF())
	assert.Equal(t, lr.AcceptAction, a.Kind)
}

func TestBuildMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	_, err := Build("CC", "S", ccRules, []string{"c"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, lr.ErrMalformedGrammar))
	_, err = Build("CC", "X", ccRules, nil)
	assert.True(t, errors.Is(err, lr.ErrMalformedGrammar))
}

func TestBuildWithConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	result, err := Build("Ambiguous", "E", map[string][][]string{
		"E": {{"E", "+", "E"}, {"id"}},
	}, nil)
	require.NoError(t, err)
	require.False(t, result.IsSLR1())
	for _, c := range result.Conflicts {
		assert.Equal(t, lr.ShiftReduce, c.Type())
		assert.Equal(t, "+", c.Terminal.Name)
	}
	var buf bytes.Buffer
	result.Report(&buf)
	assert.True(t, strings.Contains(buf.String(), "shift/reduce conflict"), buf.String())
}

func TestBuildEpsilon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	result, err := Build("Eps", "S", map[string][][]string{
		"S": {{"A", "a"}},
		"A": {{"B", "D"}},
		"B": {{"b"}, {lr.EpsilonName}},
		"D": {{"d"}, {}},
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.IsSLR1())
	assert.Equal(t, []string{"ε", "b", "d"}, result.First()["A"])
	assert.Equal(t, []string{"a", "d"}, result.Follow()["B"])
	var buf bytes.Buffer
	result.Report(&buf)
	assert.Contains(t, buf.String(), "Grammar Eps is SLR(1)")
}

func TestBuildNullableBeforeTerminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	result, err := Build("Prefix", "S", map[string][][]string{
		"S": {{"X", "N", "t"}, {"Y"}},
		"N": {{}, {"n"}},
		"X": {{"x"}},
		"Y": {{"x"}},
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.IsSLR1(), "unexpected conflicts %v", result.Conflicts)
	assert.ElementsMatch(t, []string{"n", "t"}, result.Follow()["X"])
	assert.Equal(t, []string{"$"}, result.Follow()["Y"])
	assert.Equal(t, []string{"x"}, result.First()["S"])
	g := result.Grammar
	s, ok := result.Goto.Lookup(0, g.SymbolByName("S"))
	require.True(t, ok)
	assert.Equal(t, lr.AcceptAction, result.Action.Lookup(s, g.SymbolByName("$")).Kind)
}

func TestBuildIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	r1, err := Build("CC", "S", ccRules, nil)
	require.NoError(t, err)
	r2, err := Build("CC", "S", ccRules, nil)
	require.NoError(t, err)
	fp1, err := r1.Generator().Fingerprint()
	require.NoError(t, err)
	fp2, err := r2.Generator().Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}
