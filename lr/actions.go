package lr

import (
	"fmt"
	"sort"
	"strings"
)

// ActionKind tags the entries of an ACTION table.
type ActionKind int8

// Kinds of parser actions. NoAction denotes an empty table cell, i.e. a syntax
// error for the state/lookahead combination.
const (
	NoAction ActionKind = iota
	ShiftAction
	ReduceAction
	AcceptAction
	ConflictAction
)

func (k ActionKind) String() string {
	switch k {
	case ShiftAction:
		return "shift"
	case ReduceAction:
		return "reduce"
	case AcceptAction:
		return "accept"
	case ConflictAction:
		return "conflict"
	}
	return "none"
}

// Action is an entry of an ACTION table.
//
//     Shift:    State is the state to push
//     Reduce:   Rule is the rule to reduce
//     Accept:   Rule is the augmented start rule
//     Conflict: Candidates holds the competing actions
type Action struct {
	Kind       ActionKind
	State      uint
	Rule       *Rule
	Candidates []Action
}

func (a Action) same(b Action) bool {
	return a.Kind == b.Kind && a.State == b.State && a.Rule == b.Rule
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftAction:
		return fmt.Sprintf("s%d", a.State)
	case ReduceAction:
		return fmt.Sprintf("r%d", a.Rule.Serial)
	case AcceptAction:
		return "acc"
	case ConflictAction:
		s := make([]string, len(a.Candidates))
		for i, c := range a.Candidates {
			s[i] = c.String()
		}
		return strings.Join(s, "/")
	}
	return ""
}

type cell struct {
	state uint
	sym   *Symbol
}

func sortCells(cells []cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].state != cells[j].state {
			return cells[i].state < cells[j].state
		}
		return cells[i].sym.Value < cells[j].sym.Value
	})
}

// --- ACTION table ----------------------------------------------------------

// ActionTable is the ACTION table of an LR parser, indexed by CFSM state and
// terminal (including $). A cell may hold more than one action if the grammar
// has conflicts. ActionTables are immutable once built.
type ActionTable struct {
	g       *Grammar
	states  int
	entries map[cell][]Action
}

func newActionTable(g *Grammar, states int) *ActionTable {
	return &ActionTable{
		g:       g,
		states:  states,
		entries: make(map[cell][]Action),
	}
}

// add adds an action to a cell. Adding an action twice is a no-op.
func (t *ActionTable) add(state uint, la *Symbol, a Action) {
	c := cell{state, la}
	for _, b := range t.entries[c] {
		if b.same(a) {
			return
		}
	}
	t.entries[c] = append(t.entries[c], a)
}

// Lookup returns the action for a state and a lookahead terminal. For empty
// cells an action of kind NoAction is returned, for cells with more than one
// action an action of kind ConflictAction.
func (t *ActionTable) Lookup(state uint, la *Symbol) Action {
	acts := t.entries[cell{state, la}]
	switch len(acts) {
	case 0:
		return Action{Kind: NoAction}
	case 1:
		return acts[0]
	}
	return Action{Kind: ConflictAction, Candidates: append([]Action(nil), acts...)}
}

// Candidates returns all actions of a cell, in the order they were entered.
func (t *ActionTable) Candidates(state uint, la *Symbol) []Action {
	return append([]Action(nil), t.entries[cell{state, la}]...)
}

// Resolve returns the action of a cell, applying a default disambiguation for
// conflicting cells: shift wins over reduce, and among reduces the rule with
// the lowest serial wins. The conflict itself is still reported by the table
// generator.
func (t *ActionTable) Resolve(state uint, la *Symbol) Action {
	acts := t.entries[cell{state, la}]
	if len(acts) == 0 {
		return Action{Kind: NoAction}
	}
	best := acts[0]
	for _, a := range acts[1:] {
		if preferred(a, best) {
			best = a
		}
	}
	return best
}

func preferred(a, b Action) bool {
	if a.Kind == ShiftAction || b.Kind == ShiftAction {
		return a.Kind == ShiftAction && b.Kind != ShiftAction
	}
	return a.Rule.Serial < b.Rule.Serial
}

// StateCount returns the number of rows.
func (t *ActionTable) StateCount() int {
	return t.states
}

// Size returns the number of non-empty cells.
func (t *ActionTable) Size() int {
	return len(t.entries)
}

// Each calls f for every non-empty cell, ordered by state and symbol value.
func (t *ActionTable) Each(f func(state uint, la *Symbol, a Action)) {
	for _, c := range t.cells() {
		f(c.state, c.sym, t.Lookup(c.state, c.sym))
	}
}

func (t *ActionTable) cells() []cell {
	cells := make([]cell, 0, len(t.entries))
	for c := range t.entries {
		cells = append(cells, c)
	}
	sortCells(cells)
	return cells
}

// conflicts collects all cells with more than one action.
func (t *ActionTable) conflicts() []Conflict {
	var C []Conflict
	for _, c := range t.cells() {
		if acts := t.entries[c]; len(acts) > 1 {
			C = append(C, Conflict{
				State:    c.state,
				Terminal: c.sym,
				Actions:  append([]Action(nil), acts...),
			})
		}
	}
	return C
}

// --- GOTO table ------------------------------------------------------------

// GotoTable is the GOTO table of an LR parser, indexed by CFSM state and
// non-terminal. GotoTables are immutable once built.
type GotoTable struct {
	g       *Grammar
	states  int
	entries map[cell]uint
}

func newGotoTable(g *Grammar, states int) *GotoTable {
	return &GotoTable{
		g:       g,
		states:  states,
		entries: make(map[cell]uint),
	}
}

func (t *GotoTable) set(state uint, N *Symbol, target uint) {
	t.entries[cell{state, N}] = target
}

// Lookup returns the target state for a state and a non-terminal.
func (t *GotoTable) Lookup(state uint, N *Symbol) (uint, bool) {
	target, ok := t.entries[cell{state, N}]
	return target, ok
}

// StateCount returns the number of rows.
func (t *GotoTable) StateCount() int {
	return t.states
}

// Size returns the number of non-empty cells.
func (t *GotoTable) Size() int {
	return len(t.entries)
}

// Each calls f for every non-empty cell, ordered by state and symbol value.
func (t *GotoTable) Each(f func(state uint, N *Symbol, target uint)) {
	cells := make([]cell, 0, len(t.entries))
	for c := range t.entries {
		cells = append(cells, c)
	}
	sortCells(cells)
	for _, c := range cells {
		f(c.state, c.sym, t.entries[c])
	}
}

// --- Conflicts -------------------------------------------------------------

// ConflictType distinguishes shift/reduce from reduce/reduce conflicts.
type ConflictType int8

// Types of conflicts. Accept counts as a reduction of the start rule.
const (
	ShiftReduce ConflictType = iota
	ReduceReduce
)

func (ct ConflictType) String() string {
	if ct == ShiftReduce {
		return "shift/reduce"
	}
	return "reduce/reduce"
}

// Conflict is an ACTION table cell with more than one action. A grammar with
// conflicts is not SLR(1).
type Conflict struct {
	State    uint
	Terminal *Symbol
	Actions  []Action
}

// Type returns the type of the conflict.
func (c Conflict) Type() ConflictType {
	for _, a := range c.Actions {
		if a.Kind == ShiftAction {
			return ShiftReduce
		}
	}
	return ReduceReduce
}

func (c Conflict) String() string {
	s := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		if a.Rule != nil && a.Kind != ShiftAction {
			s[i] = fmt.Sprintf("%s (%v)", a, a.Rule)
		} else {
			s[i] = a.String()
		}
	}
	return fmt.Sprintf("%v conflict in state %d on %v: %s", c.Type(), c.State, c.Terminal,
		strings.Join(s, " vs "))
}
