package lr

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/slrgen/lr/iteratable"
	"github.com/npillmayer/slrgen/lr/sparse"
)

// Codes for actions in compact parser tables.
const (
	ShiftCode  = -1
	AcceptCode = -2
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Compute the closure of a single item.
func (ga *LRAnalysis) closure(i Item, A *Symbol) *iteratable.Set {
	S := newItemSet()
	S.Add(i)
	return ga.closureSet(S)
}

// Compute the closure of an item set. Items added to C are visited by the
// ongoing iteration, therefore a single walk reaches the fixpoint.
func (ga *LRAnalysis) closureSet(S *iteratable.Set) *iteratable.Set {
	C := S.Copy() // add start items to closure
	C.IterateOnce()
	for C.Next() {
		item := asItem(C.Item())
		A := item.PeekSymbol()           // get symbol A after dot
		if A != nil && !A.IsTerminal() { // A is non-terminal
			R := ga.g.FindNonTermRules(A, true)
			if New := R.Difference(C); !New.Empty() {
				C.Union(New)
			}
		}
	}
	return C
}

func (ga *LRAnalysis) gotoSet(closure *iteratable.Set, A *Symbol) (*iteratable.Set, *Symbol) {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			ii := i.Advance()
			tracer().Debugf("goto(%s) -%s-> %s", i, A, ii)
			gotoset.Add(ii)
		}
	}
	return gotoset, A
}

func (ga *LRAnalysis) gotoSetClosure(i *iteratable.Set, A *Symbol) (*iteratable.Set, *Symbol) {
	gotoset, _ := ga.gotoSet(i, A)
	gclosure := ga.closureSet(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure, A
}

// Closure returns the closure of a set of items, ordered by rule serial and dot.
func (ga *LRAnalysis) Closure(items ...Item) []Item {
	S := newItemSet()
	for _, i := range items {
		S.Add(i)
	}
	return sortedItems(ga.closureSet(S))
}

// Goto returns goto(items, A), i.e. the closure of all items of the set with the
// dot advanced over A. The result is empty if no item has A after its dot.
func (ga *LRAnalysis) Goto(items []Item, A *Symbol) []Item {
	S := newItemSet()
	for _, i := range items {
		S.Add(i)
	}
	gclosure, _ := ga.gotoSetClosure(S, A)
	return sortedItems(gclosure)
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     uint            // serial ID of this state
	items  *iteratable.Set // configuration items within this state
	key    uint64          // fingerprint of items
	Accept bool            // is this an accepting state?
}

// CFSM edge between 2 states, directed and labeled with a grammar symbol.
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

type transition struct {
	from  uint
	label *Symbol
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

// Items returns the items of a state, ordered by rule serial and dot.
func (s *CFSMState) Items() []Item {
	return sortedItems(s.items)
}

// Size returns the number of items in a state.
func (s *CFSMState) Size() int {
	return s.items.Size()
}

// Create a state from an item set
func state(id uint, iset *iteratable.Set) *CFSMState {
	s := &CFSMState{ID: id}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	s.key = itemSetKey(s.items)
	return s
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.PeekSymbol() == nil {
			return true
		}
	}
	return false
}

// Create an edge
func edge(from, to *CFSMState, label *Symbol) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(int(c1.ID), int(c2.ID))
}

// Add a state to the CFSM. Checks first if an equal state is present,
// in which case the present state is returned and isNew is false.
func (c *CFSM) addState(iset *iteratable.Set) (s *CFSMState, isNew bool) {
	if s = c.findStateByItems(iset); s != nil {
		return s, false
	}
	s = state(c.cfsmIds, iset)
	c.cfsmIds++
	c.states.Add(s)
	c.buckets[s.key] = append(c.buckets[s.key], s)
	return s, true
}

// Find a CFSM state by the contained item set. States are compared by
// content: the fingerprint selects candidates, set equality decides.
func (c *CFSM) findStateByItems(iset *iteratable.Set) *CFSMState {
	for _, s := range c.buckets[itemSetKey(iset)] {
		if s.items.Equals(iset) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	c.next[transition{s0.ID, sym}] = s1
	return e
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes, or even to
// compute your own tables from it.
type CFSM struct {
	g       *Grammar                  // this CFSM is for Grammar g
	states  *treeset.Set              // all the states
	edges   *arraylist.List           // all the edges between states
	buckets map[uint64][]*CFSMState   // states by item set fingerprint
	next    map[transition]*CFSMState // transition function
	S0      *CFSMState                // start state
	cfsmIds uint                      // serial IDs for CFSM states
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.buckets = make(map[uint64][]*CFSMState)
	c.next = make(map[transition]*CFSMState)
	return c
}

// Grammar returns the grammar this CFSM has been built for.
func (c *CFSM) Grammar() *Grammar {
	return c.g
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return c.states.Size()
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	S := make([]*CFSMState, 0, c.states.Size())
	for _, x := range c.states.Values() {
		S = append(S, x.(*CFSMState))
	}
	return S
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id uint) *CFSMState {
	if int(id) >= c.states.Size() {
		return nil
	}
	return c.states.Values()[id].(*CFSMState)
}

// Transition returns the state reached from state `from` by symbol A.
func (c *CFSM) Transition(from uint, A *Symbol) (*CFSMState, bool) {
	s, ok := c.next[transition{from, A}]
	return s, ok
}

// EachEdge calls f for every edge of the CFSM, in order of creation.
func (c *CFSM) EachEdge(f func(from, to *CFSMState, label *Symbol)) {
	it := c.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		f(e.from, e.to, e.label)
	}
}

// Accepting returns the states containing the completed start item S' ➞ S •.
func (c *CFSM) Accepting() []*CFSMState {
	var acc []*CFSMState
	for _, s := range c.States() {
		if s.Accept {
			acc = append(acc, s)
		}
	}
	return acc
}

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LR-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *GotoTable
	actiontable  *ActionTable
	conflicts    []Conflict
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *GotoTable {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *ActionTable {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Conflicts returns the conflicts found while building the SLR(1) ACTION table.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return append([]Conflict(nil), lrgen.conflicts...)
}

// CreateTables creates the necessary data structures for an SLR parser.
func (lrgen *TableGenerator) CreateTables() {
	lrgen.CFSM()
	lrgen.gototable = lrgen.BuildGotoTable()
	lrgen.actiontable, lrgen.conflicts = lrgen.BuildSLR1ActionTable()
	lrgen.HasConflicts = len(lrgen.conflicts) > 0
	for _, c := range lrgen.conflicts {
		tracer().Infof("grammar %s: %v", lrgen.g.Name, c)
	}
}

// AcceptingStates returns the IDs of all states of the CFSM which contain an
// accept action.
func (lrgen *TableGenerator) AcceptingStates() []uint {
	if lrgen.dfa == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	acc := make([]uint, 0, 1)
	for _, s := range lrgen.dfa.Accepting() {
		acc = append(acc, s.ID)
	}
	return acc
}

// Construct the characteristic finite state machine CFSM for a grammar.
// States are processed in order of their IDs; a goto-set which is equal to
// an existing state is linked to that state, an empty goto-set is dropped.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	closure0 := lrgen.ga.closure(StartItem(G.rules[0]))
	item, sym := StartItem(G.rules[0])
	tracer().Debugf("Start item=%v/%v", item, sym)
	cfsm.S0, _ = cfsm.addState(closure0)
	cfsm.S0.Dump()
	traceStates := gconf.GetBool("lr-trace-states")
	S := treeset.NewWith(stateComparator)
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		G.EachSymbol(func(A *Symbol) interface{} {
			gotoset, _ := lrgen.ga.gotoSetClosure(s.items, A)
			if gotoset.Empty() {
				return nil
			}
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				S.Add(snew)
				if snew.containsCompletedStartRule() {
					snew.Accept = true
				}
				if traceStates {
					snew.Dump()
				}
			}
			cfsm.addEdge(s, snew, A)
			return nil
		})
	}
	tracer().Infof("CFSM for grammar %s has %d states and %d edges", G.Name, cfsm.Size(), cfsm.edges.Size())
	return cfsm
}

// ===========================================================================

// BuildGotoTable builds the GOTO table. This is normally not called directly, but rather
// via CreateTables().
func (lrgen *TableGenerator) BuildGotoTable() *GotoTable {
	dfa := lrgen.CFSM()
	gototable := newGotoTable(lrgen.g, dfa.Size())
	dfa.EachEdge(func(from, to *CFSMState, label *Symbol) {
		if !label.IsTerminal() {
			gototable.set(from.ID, label, to.ID)
		}
	})
	tracer().Infof("GOTO table of size %d x %d has %d entries", dfa.Size(), len(lrgen.g.nonterminals), gototable.Size())
	return gototable
}

// BuildSLR1ActionTable constructs the SLR(1) Action table. This method is normally not called
// by clients, but rather via CreateTables(). It builds an action table including
// lookahead (using the FOLLOW-set created by the grammar analyzer).
func (lrgen *TableGenerator) BuildSLR1ActionTable() (*ActionTable, []Conflict) {
	return lrgen.buildActionTable(func(r *Rule) []*Symbol {
		return lrgen.ga.FollowSymbols(r.LHS)
	})
}

// BuildLR0ActionTable contructs the LR(0) Action table. This method is not called by
// CreateTables(), as we normally use an SLR(1) parser and therefore an action table with
// lookahead included. This method is provided as an add-on: completed items
// produce reduce entries for every terminal.
func (lrgen *TableGenerator) BuildLR0ActionTable() (*ActionTable, []Conflict) {
	all := append(lrgen.g.Terminals(), lrgen.g.EOF())
	return lrgen.buildActionTable(func(*Rule) []*Symbol {
		return all
	})
}

// For building an ACTION table we iterate over all the states of the CFSM.
// An inner loop iterates over all the items within a CFSM-state.
// If an item has a terminal immediately after the dot, we produce a shift
// entry. If an item's dot is behind the complete RHS of a rule, then
// - for the start rule: we produce an accept entry for $
// - for any other rule: we produce a reduce-entry for the rule for each
//   lookahead terminal.
//
// Cells may receive more than one action. These cells are returned as conflicts.
func (lrgen *TableGenerator) buildActionTable(lookaheads func(*Rule) []*Symbol) (*ActionTable, []Conflict) {
	dfa := lrgen.CFSM()
	actions := newActionTable(lrgen.g, dfa.Size())
	for _, state := range dfa.States() {
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, i := range state.Items() {
			A := i.PeekSymbol()
			if A != nil && A.IsTerminal() { // create a shift entry
				target, ok := dfa.Transition(state.ID, A)
				if !ok {
					panic(fmt.Sprintf("CFSM has no transition from state %d on %v", state.ID, A))
				}
				tracer().Debugf("    creating action entry --%v--> %d", A, target.ID)
				actions.add(state.ID, A, Action{Kind: ShiftAction, State: target.ID})
			}
			if A == nil { // we are at the end of a rule
				if i.rule.Serial == 0 {
					tracer().Debugf("    creating accept action entry @ %v", lrgen.g.EOF())
					actions.add(state.ID, lrgen.g.EOF(), Action{Kind: AcceptAction, Rule: i.rule})
					continue
				}
				for _, la := range lookaheads(i.rule) {
					tracer().Debugf("    creating reduce_%d action entry @ %v for %v", i.rule.Serial, la, i.rule)
					actions.add(state.ID, la, Action{Kind: ReduceAction, Rule: i.rule})
				}
			}
		}
	}
	conflicts := actions.conflicts()
	tracer().Infof("ACTION table of size %d x %d has %d entries, %d conflicts",
		dfa.Size(), len(lrgen.g.terminals)+1, actions.Size(), len(conflicts))
	return actions, conflicts
}

// ===========================================================================

type actionRecord struct {
	State  uint
	Symbol string
	Kind   int
	Target uint
	Rule   int
}

type gotoRecord struct {
	State  uint
	Symbol string
	Target uint
}

type tableSnapshot struct {
	Grammar string
	Actions []actionRecord
	Gotos   []gotoRecord
}

// Fingerprint returns a hash over the contents of the ACTION and GOTO tables.
// Building tables twice from the same grammar yields the same fingerprint.
func (lrgen *TableGenerator) Fingerprint() (string, error) {
	if lrgen.actiontable == nil || lrgen.gototable == nil {
		return "", fmt.Errorf("tables not yet generated; call CreateTables() first")
	}
	snap := tableSnapshot{Grammar: lrgen.g.Name}
	lrgen.actiontable.Each(func(state uint, la *Symbol, a Action) {
		acts := []Action{a}
		if a.Kind == ConflictAction {
			acts = preferredFirst(a.Candidates, lrgen.actiontable.Resolve(state, la))
		}
		for _, act := range acts {
			rec := actionRecord{State: state, Symbol: la.Name, Kind: int(act.Kind), Target: act.State, Rule: -1}
			if act.Rule != nil {
				rec.Rule = act.Rule.Serial
			}
			snap.Actions = append(snap.Actions, rec)
		}
	})
	lrgen.gototable.Each(func(state uint, N *Symbol, target uint) {
		snap.Gotos = append(snap.Gotos, gotoRecord{State: state, Symbol: N.Name, Target: target})
	})
	return structhash.Hash(snap, 1)
}

// --- Compact tables --------------------------------------------------------

// Compact encodes the ACTION and GOTO tables as sparse integer matrices, with
// symbol values as column indices. This is the format used by table-driven
// parser runtimes:
//
//     action(state, terminal) = ShiftCode  → next state is goto(state, terminal)
//     action(state, terminal) = AcceptCode → accept
//     action(state, terminal) = n > 0      → reduce rule n
//     goto(state, non-terminal)            → next state after a reduce
//
// A cell holds up to two values; Table.Values reports both for conflicting cells.
// The first value is the action ActionTable.Resolve selects. Cells with more
// than two candidate actions lose the surplus ones (traced as errors), so
// ActionTable.Candidates remains the complete source for conflict reports.
func (lrgen *TableGenerator) Compact() (gotoT *Table, actionT *Table) {
	if lrgen.actiontable == nil || lrgen.gototable == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil, nil
	}
	rows, cols := lrgen.dfa.Size(), len(lrgen.g.symbols)
	gotoT = &Table{matrix: sparse.NewIntMatrix(rows, cols, sparse.DefaultNullValue)}
	actionT = &Table{matrix: sparse.NewIntMatrix(rows, cols, sparse.DefaultNullValue)}
	lrgen.gototable.Each(func(state uint, N *Symbol, target uint) {
		gotoT.set(state, N.Value, int32(target))
	})
	lrgen.actiontable.Each(func(state uint, la *Symbol, a Action) {
		acts := []Action{a}
		if a.Kind == ConflictAction {
			acts = preferredFirst(a.Candidates, lrgen.actiontable.Resolve(state, la))
		}
		for _, act := range acts {
			switch act.Kind {
			case ShiftAction:
				gotoT.set(state, la.Value, int32(act.State))
				actionT.add(state, la.Value, ShiftCode)
			case AcceptAction:
				actionT.add(state, la.Value, AcceptCode)
			case ReduceAction:
				actionT.add(state, la.Value, int32(act.Rule.Serial))
			}
		}
	})
	return gotoT, actionT
}

// preferredFirst moves best to the front of acts.
func preferredFirst(acts []Action, best Action) []Action {
	ordered := []Action{best}
	for _, a := range acts {
		if !a.same(best) {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

// Table is a compact parser table, backed by a sparse matrix.
type Table struct {
	matrix *sparse.IntMatrix
}

func (t *Table) add(i uint, col int, val int32) {
	if col < 0 {
		panic(fmt.Sprintf("lr.Table.add() with index < 0: %d", col))
	}
	t.matrix.Add(int(i), col, val)
}

func (t *Table) set(i uint, col int, val int32) {
	if col < 0 {
		panic(fmt.Sprintf("lr.Table.set() with index < 0: %d", col))
	}
	t.matrix.Set(int(i), col, val)
}

// NullValue is the value of empty cells.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the (first) value at row i and the column of symbol value col.
func (t *Table) Value(i uint, col int) int32 {
	return t.matrix.Value(int(i), col)
}

// Values returns both values of a cell.
func (t *Table) Values(i uint, col int) (int32, int32) {
	return t.matrix.Values(int(i), col)
}

// ValueCount returns the number of non-empty cells.
func (t *Table) ValueCount() int {
	return t.matrix.ValueCount()
}

// Each calls f for every non-empty cell, ordered by state and column.
// b is NullValue() unless the cell holds two values.
func (t *Table) Each(f func(state uint, col int, a, b int32)) {
	t.matrix.Each(func(i, j int, a, b int32) {
		f(uint(i), j, a, b)
	})
}
