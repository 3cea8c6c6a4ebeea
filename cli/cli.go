// Package cli provides terminal I/O, turn formatting, and meta-command
// dispatch for btarena combat sessions.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/btarena/engine"
	"github.com/nathoo/btarena/engine/parser"
	"github.com/nathoo/btarena/engine/rules"
	"github.com/nathoo/btarena/transcript"
	"github.com/nathoo/btarena/types"
)

// CLI handles terminal interaction for one combat session.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the interactive loop: each line names an action, an empty
// line or "auto" lets the tree decide, and "/" lines are meta-commands.
// The loop ends when the combat does.
func (c *CLI) Run() {
	c.printLine(transcript.Header(c.Engine.Archetype(), c.Engine.Defs.Player))
	c.printStatus()

	scanner := bufio.NewScanner(c.In)
	for !c.Engine.Done() {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last action.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input, lower = c.lastCmd, strings.ToLower(c.lastCmd)
		}

		var result types.TurnResult
		if lower == "" || lower == "auto" || lower == "a" {
			d := c.Engine.Decide()
			if c.Trace {
				c.printDecision(d)
			}
			result = c.Engine.ProcessTurn(d.Action)
		} else {
			action, ok := rules.ResolveAction(input)
			if !ok {
				c.printSystem(fmt.Sprintf("Unknown action: %s. Type /help for available actions.", input))
				continue
			}
			c.lastCmd = input
			result = c.Engine.ProcessTurn(action)
		}

		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
	}

	if c.Engine.Done() {
		c.printLine("")
		c.printLine(transcript.Summary(c.Engine.Archetype(), c.Engine.State))
	}
}

// Auto lets the tree play the whole session, printing every turn, and
// returns the final turn.
func (c *CLI) Auto() types.TurnResult {
	c.printLine(transcript.Header(c.Engine.Archetype(), c.Engine.Defs.Player))
	var last types.TurnResult
	for !c.Engine.Done() {
		d := c.Engine.Decide()
		if c.Trace {
			c.printDecision(d)
		}
		last = c.Engine.ProcessTurn(d.Action)
		c.printResult(last)
		if c.Trace {
			c.printTrace(last)
		}
	}
	c.printLine("")
	c.printLine(transcript.Summary(c.Engine.Archetype(), c.Engine.State))
	return last
}

// handleMeta dispatches meta-commands. Returns true if the session should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/tree":
		if c.Engine.Tree == nil {
			c.printSystem("No behavior tree loaded.")
		} else {
			c.print(parser.Serialize(c.Engine.Tree))
		}

	case "/why":
		c.printDecision(c.Engine.Decide())

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit   Exit",
		"  /help   Show this help",
		"  /state  Dump the combat state",
		"  /tree   Print the loaded behavior tree",
		"  /why    Show what the tree would choose now, and why",
		"  /trace  Toggle effect and decision trace output",
		"",
		"Actions:",
		"  attack, charge, firespell, icespell,",
		"  defend, heal, scan, cleanse",
		"  <enter> or auto   Let the behavior tree decide",
		"  again (g)         Repeat your last action",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	c.printSystem(fmt.Sprintf("Turn: %d/%d", s.Turn, c.Engine.TurnLimit))
	c.printSystem(fmt.Sprintf("Player: HP %d/%d, MP %d/%d, statuses %v",
		s.Player.CurrentHealth, s.Player.MaxHealth, s.PlayerMP.Current, s.PlayerMP.Max, s.PlayerStatus))
	if s.Enemy != nil {
		c.printSystem(fmt.Sprintf("%s: HP %d/%d, MP %d/%d, element %s, statuses %v",
			s.Archetype, s.Enemy.CurrentHealth, s.Enemy.MaxHealth, s.EnemyMP.Current, s.EnemyMP.Max,
			s.Enemy.Element, s.EnemyStatus))
	}
	c.printSystem(fmt.Sprintf("Heal cooldown: %d, scanned: %v", s.HealCooldown, s.Scanned))
	if len(s.History) > 0 {
		c.printSystem(fmt.Sprintf("Enemy history: %s", strings.Join(s.History, ", ")))
	}
}

func (c *CLI) printDecision(d rules.Decision) {
	for _, line := range d.Trace {
		c.printSystem("[tree] " + line)
	}
	c.printSystem(fmt.Sprintf("[tree] chose %s", d.Action))
}

func (c *CLI) printTrace(result types.TurnResult) {
	if len(result.Effects) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
}

func (c *CLI) printResult(result types.TurnResult) {
	c.printLine(fmt.Sprintf("-- Turn %d --", result.Turn))
	for _, line := range result.Output {
		c.printLine(line)
	}
	for _, tick := range result.Ticks {
		c.printLine(fmt.Sprintf("%s deals %d damage to the %s.", tick.Ailment, tick.Damage, tick.Target))
	}
	if result.Outcome != types.OutcomeActive {
		c.printSystem(fmt.Sprintf("%s: %s", result.Outcome, result.Reason))
		return
	}
	c.printStatus()
}

// printStatus shows both sides and any telegraph.
func (c *CLI) printStatus() {
	s := c.Engine.State
	line := fmt.Sprintf("HP %d/%d  MP %d/%d", s.Player.CurrentHealth, s.Player.MaxHealth, s.PlayerMP.Current, s.PlayerMP.Max)
	if s.Enemy != nil {
		line += fmt.Sprintf("  |  %s HP %d/%d", s.Archetype, s.Enemy.CurrentHealth, s.Enemy.MaxHealth)
	}
	c.printSystem(line)
	if s.Telegraph != "" {
		c.printSystem(fmt.Sprintf("The %s is preparing %s!", s.Archetype, s.Telegraph))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
