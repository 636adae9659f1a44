package main

import (
	"strconv"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	trace       *string
	traceStates *bool
}{}

var rootCmd = &cobra.Command{
	Use:   "slrgen",
	Short: "Generate SLR(1) parser tables from a grammar",
	Long: `slrgen computes FIRST and FOLLOW sets, the LR(0) automaton and the
SLR(1) ACTION and GOTO tables for a context-free grammar.
Conflicts are reported, never resolved silently.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: configure,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
	rootFlags.traceStates = rootCmd.PersistentFlags().Bool("lr-trace-states", false,
		"trace every CFSM state during construction (needs --trace=Debug)")
}

// Execute runs the command given on the command line.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	return nil
}

// configure makes the command line flags the global configuration and sets up
// tracing. Tracing is set up last, as gconf.Initialize resets the global tracers.
func configure(cmd *cobra.Command, args []string) error {
	gconf.Initialize(flagConfig{cmd: cmd})
	tr := gologadapter.New()
	tr.SetTraceLevel(tracing.TraceLevelFromString(*rootFlags.trace))
	gtrace.SyntaxTracer = tr
	tracing.SetTraceSelector(tracing.SelectorForAdapter(func() tracing.Trace {
		return tr
	}))
	tracer().Debugf("trace level is %s", *rootFlags.trace)
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// --- Configuration from flags ----------------------------------------------

// flagConfig serves the flags of a command, including inherited persistent
// flags, as an application configuration.
type flagConfig struct {
	cmd *cobra.Command
}

var _ schuko.Configuration = flagConfig{}

func (c flagConfig) InitDefaults() {}

func (c flagConfig) IsSet(key string) bool {
	f := c.cmd.Flags().Lookup(key)
	return f != nil && f.Changed
}

func (c flagConfig) GetString(key string) string {
	if f := c.cmd.Flags().Lookup(key); f != nil {
		return f.Value.String()
	}
	return ""
}

// GetInt returns 0 for unknown keys and for malformed values. The latter are
// traced as errors.
func (c flagConfig) GetInt(key string) int {
	v := c.GetString(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		tracer().Errorf("configuration %s: %v", key, err)
	}
	return n
}

// GetBool returns false for unknown keys and for malformed values. The latter
// are traced as errors.
func (c flagConfig) GetBool(key string) bool {
	v := c.GetString(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		tracer().Errorf("configuration %s: %v", key, err)
	}
	return b
}

func (c flagConfig) IsInteractive() bool {
	return c.cmd.Name() == "repl"
}
