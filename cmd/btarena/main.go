// btarena runs turn-based combat sessions in which a behavior tree, written
// in a small indentation DSL, chooses the player's action each turn.
// Usage: btarena [--version] [--plain] [--auto] [--script <file>] [--trace]
//
//	[--config <file>] [--enemy <name>] [--roster <dir>] [--seed <n>]
//	[--turns <n>] [--trials <n>] [--pdf <file>] [--log-level <lvl>]
//	[--log-format text|json] [tree_file]
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/btarena/cli"
	"github.com/nathoo/btarena/config"
	"github.com/nathoo/btarena/engine"
	"github.com/nathoo/btarena/engine/events"
	"github.com/nathoo/btarena/engine/parser"
	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/loader"
	"github.com/nathoo/btarena/logger"
	"github.com/nathoo/btarena/transcript"
	"github.com/nathoo/btarena/tui"
	"github.com/nathoo/btarena/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: btarena [--version] [--plain] [--auto] [--script <file>] [--trace] " +
	"[--config <file>] [--enemy <name>] [--roster <dir>] [--seed <n>] [--turns <n>] " +
	"[--trials <n>] [--pdf <file>] [--log-level <lvl>] [--log-format text|json] [tree_file]\n"

// flags holds command-line settings. Empty strings and negative numbers
// mean "not given", leaving the config value in place.
type flags struct {
	plain, auto, trace bool
	script, pdf        string

	configFile string
	enemy      string
	tree       string
	roster     string
	seed       int64
	seedSet    bool
	turns      int
	trials     int
	logLevel   string
	logFormat  string
}

func main() {
	f := parseArgs(os.Args[1:])

	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.Log.WithFields(logrus.Fields{"enemy": cfg.Enemy, "seed": cfg.Seed})

	// Definitions: built-ins, optionally extended by a Lua roster.
	defs := state.DefaultDefs()
	if cfg.RosterDir != "" {
		var err error
		if defs, err = loader.Load(cfg.RosterDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading roster: %v\n", err)
			os.Exit(1)
		}
	}
	defs.Player = cfg.ApplyPlayer(defs.Player)

	var tree *types.Node
	if cfg.Tree != "" {
		text, err := os.ReadFile(cfg.Tree)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading tree: %v\n", err)
			os.Exit(1)
		}
		if tree, err = parser.ParseAndValidate(string(text)); err != nil {
			fmt.Fprintf(os.Stderr, "Error in tree %s: %v\n", cfg.Tree, err)
			os.Exit(1)
		}
		log.WithField("tree", cfg.Tree).Debug("tree loaded")
	} else {
		log.Warnf("no behavior tree given, the tree will always choose %s", engine.DefaultAction)
	}

	opts := engine.Options{
		Archetype: cfg.Enemy,
		Tree:      tree,
		Seed:      cfg.Seed,
		TurnLimit: cfg.TurnLimit,
	}

	// Trial mode: many silent sessions, aggregate report.
	if cfg.Trials > 1 {
		report, err := cli.RunTrials(defs, opts, cfg.Trials)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cli.PrintTrials(os.Stdout, report)
		log.WithFields(logrus.Fields{"trials": cfg.Trials, "win_rate": report.WinRate()}).Info("trials complete")
		return
	}

	rec := &events.Recorder{}
	opts.Sink = events.Multi{rec, &events.LogSink{Log: logger.Log, Fields: logrus.Fields{"seed": cfg.Seed}}}
	eng, err := engine.New(defs, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case f.auto:
		c := cli.New(eng)
		c.Trace = f.trace
		c.Auto()

	// Script mode: read actions from a file and echo them.
	case f.script != "":
		file, err := os.Open(f.script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		c := cli.New(eng)
		c.In = file
		c.EchoInput = true
		c.Trace = f.trace
		c.Run()

	// Use plain CLI if --plain flag or stdout is not a terminal.
	case f.plain || !isTerminal():
		c := cli.New(eng)
		c.Trace = f.trace
		c.Run()

	default:
		if err := tui.Run(eng); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if f.pdf != "" {
		if err := writePDF(f.pdf, eng, rec); err != nil {
			log.WithError(err).Error("writing transcript")
			os.Exit(1)
		}
		log.WithField("path", f.pdf).Info("transcript written")
	}
}

func writePDF(path string, eng *engine.Engine, rec *events.Recorder) error {
	arch := eng.Archetype()
	title := fmt.Sprintf("btarena: player vs %s", arch.Name)
	body := transcript.Log(transcript.Header(arch, eng.Defs.Player), rec.Turns())
	b, err := transcript.PDF(title, body, transcript.Summary(arch, eng.State))
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func parseArgs(args []string) flags {
	f := flags{turns: -1, trials: -1}

	value := func(i *int, name string) string {
		if *i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", name)
			os.Exit(1)
		}
		*i++
		return args[*i]
	}
	number := func(i *int, name string) int64 {
		v := value(i, name)
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %q is not a number\n", name, v)
			os.Exit(1)
		}
		return n
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("btarena %s (commit %s, built %s)\n", version, commit, date)
			os.Exit(0)
		case "--help", "-h":
			fmt.Print(usage)
			os.Exit(0)
		case "--plain":
			f.plain = true
		case "--auto":
			f.auto = true
		case "--trace":
			f.trace = true
		case "--script":
			f.script = value(&i, "--script")
		case "--pdf":
			f.pdf = value(&i, "--pdf")
		case "--config":
			f.configFile = value(&i, "--config")
		case "--enemy":
			f.enemy = value(&i, "--enemy")
		case "--tree":
			f.tree = value(&i, "--tree")
		case "--roster":
			f.roster = value(&i, "--roster")
		case "--seed":
			f.seed = number(&i, "--seed")
			f.seedSet = true
		case "--turns":
			f.turns = int(number(&i, "--turns"))
		case "--trials":
			f.trials = int(number(&i, "--trials"))
		case "--log-level":
			f.logLevel = value(&i, "--log-level")
		case "--log-format":
			f.logFormat = value(&i, "--log-format")
		default:
			if f.tree == "" {
				f.tree = args[i]
			}
		}
	}
	return f
}

// apply overlays the given flags onto cfg.
func (f flags) apply(cfg *config.Config) {
	if f.enemy != "" {
		cfg.Enemy = f.enemy
	}
	if f.tree != "" {
		cfg.Tree = f.tree
	}
	if f.roster != "" {
		cfg.RosterDir = f.roster
	}
	if f.seedSet {
		cfg.Seed = f.seed
	}
	if f.turns >= 0 {
		cfg.TurnLimit = f.turns
	}
	if f.trials >= 0 {
		cfg.Trials = f.trials
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
