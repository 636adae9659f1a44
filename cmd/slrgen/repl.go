package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/k0kubun/pp"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "repl",
		Short:   "Explore sets, states and tables of a grammar interactively",
		Example: `  slrgen repl grammar.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	result, err := buildFromFile(args[0])
	if err != nil {
		return err
	}
	intp, err := NewIntp(result)
	if err != nil {
		return err
	}
	repl, err := readline.New("slrgen> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	intp.repl = repl
	pterm.Info.Println("Welcome to the slrgen REPL") // colored welcome message
	pterm.Info.Println(fmt.Sprintf("grammar %s: %d rules, %d states, %d conflicts", result.Grammar.Name,
		result.Grammar.Size(), result.CFSM.Size(), len(result.Conflicts)))
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()
	return nil
}

// Intp is our interpreter object.
type Intp struct {
	result *slrgen.Result
	scan   *commandScanner
	repl   *readline.Instance
}

var errUsage = errors.New("usage")

// NewIntp creates an interpreter for REPL commands on the tables of a grammar.
func NewIntp(result *slrgen.Result) (*Intp, error) {
	scan, err := newCommandScanner()
	if err != nil {
		return nil, err
	}
	return &Intp{result: result, scan: scan}, nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval executes a single command line. It returns true for the quit command.
func (intp *Intp) Eval(line string) (bool, error) {
	toks, err := intp.scan.Tokens(line)
	if err != nil {
		return false, err
	}
	if len(toks) == 0 {
		return false, nil
	}
	if toks[0].Type != tokKeyword {
		return false, fmt.Errorf("unknown command %q, try 'help'", toks[0].Lexeme)
	}
	args := toks[1:]
	switch toks[0].Lexeme {
	case "quit":
		return true, nil
	case "help":
		intp.help()
	case "rules":
		lr.RulesAsText(intp.result.Grammar, os.Stdout)
	case "tables":
		lr.TablesAsText(intp.result.Generator(), os.Stdout)
	case "conflicts":
		intp.conflicts()
	case "first", "follow":
		err = intp.sets(toks[0].Lexeme, args)
	case "state":
		err = intp.state(args)
	case "action":
		err = intp.action(args)
	case "goto":
		err = intp.gotoEntry(args)
	case "dump":
		err = intp.dump(args)
	}
	if errors.Is(err, errUsage) {
		err = fmt.Errorf("%w of %s, try 'help'", err, toks[0].Lexeme)
	}
	return false, err
}

func (intp *Intp) help() {
	pterm.Println(`commands:
    first X          FIRST set of symbol X
    follow X         FOLLOW set of non-terminal X
    state N          items and transitions of state N
    action N t       ACTION table entry for state N and terminal t
    goto N X         GOTO table entry for state N and non-terminal X
    conflicts        all conflicts
    dump N           dump state N with its table row
    rules | tables   print rules or tables
    quit`)
}

func (intp *Intp) sets(which string, args []cmdToken) error {
	A, err := intp.symbolArg(args, 0, false)
	if err != nil {
		return err
	}
	ga := intp.result.Analysis
	var syms []*lr.Symbol
	if which == "first" {
		syms = ga.FirstSymbols(A)
	} else {
		if A.IsTerminal() {
			return fmt.Errorf("FOLLOW is defined for non-terminals only, %s is a terminal", A)
		}
		syms = ga.FollowSymbols(A)
	}
	pterm.Info.Println(fmt.Sprintf("%s(%s) = %s", strings.ToUpper(which), A, symbolNames(syms)))
	return nil
}

func (intp *Intp) state(args []cmdToken) error {
	s, err := intp.stateArg(args, 0)
	if err != nil {
		return err
	}
	ll := pterm.LeveledList{pterm.LeveledListItem{Level: 0, Text: fmt.Sprintf("state %d", s.ID)}}
	for _, i := range s.Items() {
		ll = append(ll, pterm.LeveledListItem{Level: 1, Text: i.String()})
	}
	intp.result.Grammar.EachSymbol(func(A *lr.Symbol) interface{} {
		if to, ok := intp.result.CFSM.Transition(s.ID, A); ok {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: fmt.Sprintf("--%s--> %d", A, to.ID)})
		}
		return nil
	})
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
	return nil
}

func (intp *Intp) action(args []cmdToken) error {
	s, err := intp.stateArg(args, 0)
	if err != nil {
		return err
	}
	t, err := intp.symbolArg(args, 1, true)
	if err != nil {
		return err
	}
	if !t.IsTerminal() {
		return fmt.Errorf("ACTION is defined for terminals only, %s is a non-terminal", t)
	}
	a := intp.result.Action.Lookup(s.ID, t)
	switch a.Kind {
	case lr.NoAction:
		pterm.Info.Println(fmt.Sprintf("ACTION[%d, %s] is empty (syntax error)", s.ID, t))
	case lr.ConflictAction:
		pterm.Error.Println(fmt.Sprintf("ACTION[%d, %s] = %s (conflict, default: %s)", s.ID, t, a,
			intp.result.Action.Resolve(s.ID, t)))
	default:
		pterm.Info.Println(fmt.Sprintf("ACTION[%d, %s] = %s", s.ID, t, a))
	}
	return nil
}

func (intp *Intp) gotoEntry(args []cmdToken) error {
	s, err := intp.stateArg(args, 0)
	if err != nil {
		return err
	}
	N, err := intp.symbolArg(args, 1, false)
	if err != nil {
		return err
	}
	if N.IsTerminal() {
		return fmt.Errorf("GOTO is defined for non-terminals only, %s is a terminal", N)
	}
	if target, ok := intp.result.Goto.Lookup(s.ID, N); ok {
		pterm.Info.Println(fmt.Sprintf("GOTO[%d, %s] = %d", s.ID, N, target))
	} else {
		pterm.Info.Println(fmt.Sprintf("GOTO[%d, %s] is empty", s.ID, N))
	}
	return nil
}

func (intp *Intp) conflicts() {
	if len(intp.result.Conflicts) == 0 {
		pterm.Info.Println(fmt.Sprintf("grammar %s is SLR(1)", intp.result.Grammar.Name))
		return
	}
	for _, c := range intp.result.Conflicts {
		pterm.Error.Println(c.String())
	}
}

// stateDump is what the dump command shows for a state.
type stateDump struct {
	ID      uint
	Accept  bool
	Items   []string
	Actions map[string]string
	Gotos   map[string]uint
}

func (intp *Intp) dump(args []cmdToken) error {
	s, err := intp.stateArg(args, 0)
	if err != nil {
		return err
	}
	d := stateDump{
		ID:      s.ID,
		Accept:  s.Accept,
		Actions: make(map[string]string),
		Gotos:   make(map[string]uint),
	}
	for _, i := range s.Items() {
		d.Items = append(d.Items, i.String())
	}
	g := intp.result.Grammar
	for _, t := range append([]*lr.Symbol{g.EOF()}, g.Terminals()...) {
		if a := intp.result.Action.Lookup(s.ID, t); a.Kind != lr.NoAction {
			d.Actions[t.Name] = a.String()
		}
	}
	for _, N := range g.NonTerminals() {
		if target, ok := intp.result.Goto.Lookup(s.ID, N); ok {
			d.Gotos[N.Name] = target
		}
	}
	pp.Println(d)
	return nil
}

// --- Arguments -------------------------------------------------------------

func (intp *Intp) stateArg(args []cmdToken, k int) (*lr.CFSMState, error) {
	if k >= len(args) || args[k].Type != tokNumber {
		return nil, errUsage
	}
	n, err := strconv.Atoi(args[k].Lexeme)
	if err != nil {
		return nil, err
	}
	s := intp.result.CFSM.State(uint(n))
	if s == nil {
		return nil, fmt.Errorf("no state %d, states are 0…%d", n, intp.result.CFSM.Size()-1)
	}
	return s, nil
}

// symbolArg interprets argument k as a grammar symbol. Keywords and numbers
// are valid symbol names, too. $ is accepted if allowEOF is set.
func (intp *Intp) symbolArg(args []cmdToken, k int, allowEOF bool) (*lr.Symbol, error) {
	if k >= len(args) {
		return nil, errUsage
	}
	name := args[k].Lexeme
	g := intp.result.Grammar
	if name == lr.EOFName && allowEOF {
		return g.EOF(), nil
	}
	if g.IsTerminal(name) || g.IsNonTerminal(name) {
		return g.SymbolByName(name), nil
	}
	return nil, fmt.Errorf("%s is not a symbol of grammar %s", name, g.Name)
}

func symbolNames(syms []*lr.Symbol) string {
	names := make([]string, len(syms))
	for i, A := range syms {
		names[i] = A.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}
