package lr

import (
	"testing"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTables(t *testing.T, g *Grammar) *TableGenerator {
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	return lrgen
}

// E ➞ E + E | id
func makeAmbiguousGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Ambiguous")
	b.LHS("E").N("E").T("+").N("E").End()
	b.LHS("E").T("id").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := makeCCGrammar(t)
	ga := Analysis(g)
	i, A := StartItem(g.Rule(0))
	if A != g.Start() {
		t.Errorf("expected symbol after dot to be %v, is %v", g.Start(), A)
	}
	C := ga.Closure(i)
	if len(C) != 4 {
		t.Fatalf("expected closure of %v to have 4 items, has %d", i, len(C))
	}
	for k, r := range []int{0, 1, 2, 3} {
		if C[k].Rule().Serial != r || C[k].Dot() != 0 {
			t.Errorf("unexpected item %v at position %d of closure", C[k], k)
		}
	}
	// closure is idempotent
	require.Equal(t, C, ga.Closure(C...))
	// C ➞ c • C
	cc := Item{rule: g.Rule(2), dot: 1}
	require.Equal(t, "C ➞ c • C", cc.String())
	require.Len(t, ga.Closure(cc), 3)
}

func TestGoto(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := makeCCGrammar(t)
	ga := Analysis(g)
	i, _ := StartItem(g.Rule(0))
	I0 := ga.Closure(i)
	Ic := ga.Goto(I0, g.SymbolByName("c"))
	require.Len(t, Ic, 3)
	require.Equal(t, Item{rule: g.Rule(2), dot: 1}, Ic[1])
	require.Equal(t, Ic, ga.Goto(Ic, g.SymbolByName("c")))
	require.Empty(t, ga.Goto(Ic, g.Start()))
	Id := ga.Goto(I0, g.SymbolByName("d"))
	require.Len(t, Id, 1)
	require.True(t, Id[0].IsComplete())
}

func TestCFSM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	gconf.Initialize(testconfig.Conf{"lr-trace-states": true})
	defer gconf.Initialize(testconfig.Conf{})
	g := makeCCGrammar(t)
	lrgen := NewTableGenerator(Analysis(g))
	cfsm := lrgen.CFSM()
	if cfsm.Size() != 7 {
		t.Errorf("expected CFSM for CC to have 7 states, has %d", cfsm.Size())
	}
	if cfsm.S0.ID != 0 || cfsm.S0.Size() != 4 {
		t.Errorf("expected start state 0 with 4 items, is %v", cfsm.S0)
	}
	c, d := g.SymbolByName("c"), g.SymbolByName("d")
	S, C := g.SymbolByName("S"), g.SymbolByName("C")
	for _, tt := range []struct {
		from uint
		A    *Symbol
		to   uint
	}{
		{0, c, 1}, {0, d, 2}, {0, S, 3}, {0, C, 4},
		{1, c, 1}, {1, d, 2}, {1, C, 5},
		{4, c, 1}, {4, d, 2}, {4, C, 6},
	} {
		s, ok := cfsm.Transition(tt.from, tt.A)
		if !ok || s.ID != tt.to {
			t.Errorf("expected transition %d --%v--> %d, got %v", tt.from, tt.A, tt.to, s)
		}
	}
	if _, ok := cfsm.Transition(2, c); ok {
		t.Errorf("did not expect a transition from completed state 2")
	}
	acc := lrgen.AcceptingStates()
	require.Equal(t, []uint{3}, acc)
}

func TestCFSMStatesAreDistinct(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{makeCCGrammar(t), makeExprGrammar(t), makeEpsGrammar(t)} {
		ga := Analysis(g)
		cfsm := NewTableGenerator(ga).CFSM()
		states := cfsm.States()
		for i, s := range states {
			require.Equal(t, uint(i), s.ID)
			require.NotZero(t, s.Size(), "state %d of %s is empty", s.ID, g.Name)
			require.Equal(t, s.Items(), ga.Closure(s.Items()...), "state %d of %s is not closed", s.ID, g.Name)
			for _, s2 := range states[i+1:] {
				require.False(t, s.items.Equals(s2.items), "states %d and %d of %s are equal", s.ID, s2.ID, g.Name)
			}
		}
	}
}

func TestCFSMStatesAreReachable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{makeCCGrammar(t), makeExprGrammar(t), makeEpsGrammar(t)} {
		cfsm := NewTableGenerator(Analysis(g)).CFSM()
		succ := make(map[uint][]uint)
		cfsm.EachEdge(func(from, to *CFSMState, label *Symbol) {
			succ[from.ID] = append(succ[from.ID], to.ID)
		})
		reached := map[uint]bool{cfsm.S0.ID: true}
		queue := []uint{cfsm.S0.ID}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, next := range succ[id] {
				if !reached[next] {
					reached[next] = true
					queue = append(queue, next)
				}
			}
		}
		require.Len(t, reached, cfsm.Size(), "unreachable states in CFSM of %s", g.Name)
	}
}

func TestSLR1TablesCC(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := makeCCGrammar(t)
	lrgen := makeTables(t, g)
	if lrgen.HasConflicts {
		t.Fatalf("did not expect CC to have conflicts: %v", lrgen.Conflicts())
	}
	actions := lrgen.ActionTable()
	expected := map[uint]map[string]string{
		0: {"c": "s1", "d": "s2"},
		1: {"c": "s1", "d": "s2"},
		2: {"c": "r3", "d": "r3", "$": "r3"},
		3: {"$": "acc"},
		4: {"c": "s1", "d": "s2"},
		5: {"c": "r2", "d": "r2", "$": "r2"},
		6: {"$": "r1"},
	}
	cnt := 0
	for state, row := range expected {
		for _, A := range []string{"$", "c", "d"} {
			a := actions.Lookup(state, g.SymbolByName(A))
			if a.String() != row[A] {
				t.Errorf("expected ACTION[%d, %s] = %q, is %q", state, A, row[A], a.String())
			}
			if a.Kind != NoAction {
				cnt++
			}
		}
	}
	assert.Equal(t, 14, cnt)
	assert.Equal(t, 14, actions.Size())
	assert.Equal(t, 7, actions.StateCount())
	//
	gotos := lrgen.GotoTable()
	assert.Equal(t, 4, gotos.Size())
	for _, tt := range []struct {
		state  uint
		N      string
		target uint
	}{{0, "S", 3}, {0, "C", 4}, {1, "C", 5}, {4, "C", 6}} {
		target, ok := gotos.Lookup(tt.state, g.SymbolByName(tt.N))
		assert.True(t, ok)
		assert.Equal(t, tt.target, target, "GOTO[%d, %s]", tt.state, tt.N)
	}
	_, ok := gotos.Lookup(2, g.SymbolByName("C"))
	assert.False(t, ok)
}

func TestShiftOnTerminalAfterDot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	lrgen := makeTables(t, g)
	for _, s := range lrgen.CFSM().States() {
		for _, i := range s.Items() {
			A := i.PeekSymbol()
			if A == nil || !A.IsTerminal() {
				continue
			}
			target, ok := lrgen.CFSM().Transition(s.ID, A)
			require.True(t, ok)
			a := lrgen.ActionTable().Lookup(s.ID, A)
			require.Equal(t, ShiftAction, a.Kind, "item %v in state %d", i, s.ID)
			require.Equal(t, target.ID, a.State)
		}
	}
}

func TestAcceptIsUnique(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{makeCCGrammar(t), makeExprGrammar(t), makeEpsGrammar(t)} {
		lrgen := makeTables(t, g)
		var accepts []uint
		lrgen.ActionTable().Each(func(state uint, la *Symbol, a Action) {
			if a.Kind == AcceptAction {
				require.True(t, la.IsEOF())
				accepts = append(accepts, state)
			}
		})
		target, ok := lrgen.CFSM().Transition(0, g.Start())
		require.True(t, ok)
		require.Equal(t, []uint{target.ID}, accepts, "accept in grammar %s", g.Name)
	}
}

func TestExprGrammarIsSLR1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	lrgen := makeTables(t, g)
	require.False(t, lrgen.HasConflicts, "conflicts: %v", lrgen.Conflicts())
	require.Equal(t, 12, lrgen.CFSM().Size())
	lrgen.ActionTable().Each(func(state uint, la *Symbol, a Action) {
		require.NotEqual(t, ConflictAction, a.Kind)
		require.Len(t, lrgen.ActionTable().Candidates(state, la), 1)
	})
}

func TestShiftReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := makeAmbiguousGrammar(t)
	lrgen := makeTables(t, g)
	require.True(t, lrgen.HasConflicts)
	conflicts := lrgen.Conflicts()
	require.NotEmpty(t, conflicts)
	plus := g.SymbolByName("+")
	for _, c := range conflicts {
		t.Logf("%v", c)
		require.Equal(t, ShiftReduce, c.Type())
		require.Equal(t, plus, c.Terminal)
		a := lrgen.ActionTable().Lookup(c.State, plus)
		require.Equal(t, ConflictAction, a.Kind)
		require.Len(t, a.Candidates, 2)
		resolved := lrgen.ActionTable().Resolve(c.State, plus)
		require.Equal(t, ShiftAction, resolved.Kind)
	}
}

func TestReduceReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Cycle")
	b.LHS("A").N("B").End()
	b.LHS("A").T("a").End()
	b.LHS("B").N("A").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	lrgen := makeTables(t, g)
	require.True(t, lrgen.HasConflicts)
	c := lrgen.Conflicts()[0]
	require.Equal(t, ReduceReduce, c.Type())
	require.True(t, c.Terminal.IsEOF())
	resolved := lrgen.ActionTable().Resolve(c.State, c.Terminal)
	require.Equal(t, AcceptAction, resolved.Kind)
}

func TestLR0Table(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := makeEpsGrammar(t)
	lrgen := makeTables(t, g)
	require.False(t, lrgen.HasConflicts, "conflicts: %v", lrgen.Conflicts())
	lr0, conflicts := lrgen.BuildLR0ActionTable()
	require.NotEmpty(t, conflicts, "expected ε-rules to produce LR(0) conflicts")
	require.True(t, lr0.Size() > lrgen.ActionTable().Size())
	// S0 shifts b and reduces B ➞ ε on every terminal
	a := lr0.Lookup(0, g.SymbolByName("b"))
	require.Equal(t, ConflictAction, a.Kind)
}

func TestFingerprintIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	fp1, err := makeTables(t, makeExprGrammar(t)).Fingerprint()
	require.NoError(t, err)
	fp2, err := makeTables(t, makeExprGrammar(t)).Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
	fp3, err := makeTables(t, makeCCGrammar(t)).Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, fp1, fp3)
	_, err = NewTableGenerator(Analysis(makeCCGrammar(t))).Fingerprint()
	require.Error(t, err)
}

func TestCompactTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{makeCCGrammar(t), makeExprGrammar(t), makeAmbiguousGrammar(t)} {
		lrgen := makeTables(t, g)
		gotoT, actionT := lrgen.Compact()
		require.NotNil(t, gotoT)
		null := actionT.NullValue()
		for _, s := range lrgen.CFSM().States() {
			for _, A := range lrgen.actionColumns() {
				a := lrgen.ActionTable().Resolve(s.ID, A)
				v1, v2 := actionT.Values(s.ID, A.Value)
				switch a.Kind {
				case NoAction:
					require.Equal(t, null, v1)
				case ShiftAction:
					require.True(t, v1 == ShiftCode || v2 == ShiftCode)
					require.Equal(t, int32(a.State), gotoT.Value(s.ID, A.Value))
				case AcceptAction:
					require.True(t, v1 == AcceptCode || v2 == AcceptCode)
				case ReduceAction:
					require.True(t, v1 == int32(a.Rule.Serial) || v2 == int32(a.Rule.Serial))
				}
				if len(lrgen.ActionTable().Candidates(s.ID, A)) < 2 {
					require.Equal(t, null, v2)
				}
			}
			for _, N := range g.NonTerminals() {
				target, ok := lrgen.GotoTable().Lookup(s.ID, N)
				if ok {
					require.Equal(t, int32(target), gotoT.Value(s.ID, N.Value))
				} else {
					require.Equal(t, null, gotoT.Value(s.ID, N.Value))
				}
			}
		}
	}
}

func TestCompactKeepsPreferredActions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Three")
	b.LHS("S").T("a").End()
	b.LHS("S").N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").T("a").End()
	b.LHS("B").T("a").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	lrgen := makeTables(t, g)
	s, ok := lrgen.CFSM().Transition(0, g.SymbolByName("a"))
	require.True(t, ok)
	require.Len(t, lrgen.ActionTable().Candidates(s.ID, g.EOF()), 3)
	_, actionT := lrgen.Compact()
	v1, v2 := actionT.Values(s.ID, EOFValue)
	// S ➞ a is rule 1, the preferred reduce, A ➞ a rule 4 and B ➞ a rule 5
	assert.Equal(t, int32(1), v1)
	assert.Equal(t, int32(4), v2)
}
