package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/btarena/engine"
	"github.com/nathoo/btarena/engine/parser"
	"github.com/nathoo/btarena/engine/rules"
	"github.com/nathoo/btarena/transcript"
	"github.com/nathoo/btarena/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for a combat session.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string
	lines    []string
	isSystem bool
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "attack, defend, heal... or Enter for the tree"
	ti.Focus()
	ti.CharLimit = 64
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine) error {
	p := tea.NewProgram(New(eng), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that prints the combat header.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		header := transcript.Header(m.engine.Archetype(), m.engine.Defs.Player)
		return gameOutputMsg{lines: strings.Split(strings.TrimRight(header, "\n"), "\n")}
	}
}

// Update handles key presses, window resizes and engine output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 3 // status bar, hint bar, input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	return m, inputCmd
}

// handleEnter processes the submitted input line. An empty line lets the
// tree choose the action.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input != "" {
		m.history.Push(input)
	}
	m.history.ResetCursor()

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{input: input, lines: []string{"Nothing to repeat."}, isSystem: true})
			return m, nil
		}
		input, lower = m.lastCmd, strings.ToLower(m.lastCmd)
	}

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.engine.Done() {
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{"The fight is over. Type /quit to exit."}, isSystem: true})
		return m, nil
	}

	var (
		action types.ActionID
		lines  []string
	)
	if lower == "" || lower == "auto" || lower == "a" {
		d := m.engine.Decide()
		action = d.Action
		if m.trace {
			lines = append(lines, decisionLines(d)...)
		}
	} else {
		a, ok := rules.ResolveAction(input)
		if !ok {
			m = m.appendOutput(gameOutputMsg{input: input, lines: []string{
				fmt.Sprintf("Unknown action: %s. Type /help for available actions.", input),
			}})
			return m, nil
		}
		action = a
		m.lastCmd = input
	}

	result := m.engine.ProcessTurn(action)
	lines = append(lines, turnLines(result)...)
	if m.trace {
		lines = append(lines, traceLines(result)...)
	}
	if m.engine.Done() {
		lines = append(lines, "")
		summary := transcript.Summary(m.engine.Archetype(), m.engine.State)
		lines = append(lines, strings.Split(strings.TrimRight(summary, "\n"), "\n")...)
	}

	echo := input
	if echo == "" {
		echo = "(tree) " + string(action)
	}
	m = m.appendOutput(gameOutputMsg{input: echo, lines: lines})
	return m, nil
}

// turnLines formats one turn for the log.
func turnLines(r types.TurnResult) []string {
	lines := []string{fmt.Sprintf("-- Turn %d --", r.Turn)}
	for _, tick := range r.Ticks {
		lines = append(lines, fmt.Sprintf("%s deals %d damage to the %s.", tick.Ailment, tick.Damage, tick.Target))
	}
	lines = append(lines, r.Output...)
	if r.Outcome != types.OutcomeActive {
		lines = append(lines, fmt.Sprintf("%s: %s", outcomeLabel(r.Outcome), r.Reason))
	}
	return lines
}

func decisionLines(d rules.Decision) []string {
	lines := make([]string, 0, len(d.Trace)+1)
	for _, t := range d.Trace {
		lines = append(lines, "[tree] "+t)
	}
	return append(lines, fmt.Sprintf("[tree] chose %s", d.Action))
}

func traceLines(r types.TurnResult) []string {
	var lines []string
	if len(r.Effects) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Effects: %d", len(r.Effects)))
		for _, e := range r.Effects {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(r.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(r.Events)))
		for _, e := range r.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
	return lines
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line, m.engine.State.Archetype)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within width, breaking at word boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			lineLen = len(word)
		case lineLen+1+len(word) > width:
			b.WriteString("\n")
			lineLen = len(word)
		default:
			b.WriteString(" ")
			lineLen += 1 + len(word)
		}
		b.WriteString(word)
	}
	return b.String()
}

// View renders the log, the two bars and the input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.renderHintBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	switch cmd := strings.Fields(input)[0]; cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/tree":
		if m.engine.Tree == nil {
			return []string{"No behavior tree loaded."}, false
		}
		return strings.Split(strings.TrimRight(parser.Serialize(m.engine.Tree), "\n"), "\n"), false

	case "/why":
		if m.engine.Done() {
			return []string{"The fight is over."}, false
		}
		return decisionLines(m.engine.Decide()), false

	case "/summary":
		summary := transcript.Summary(m.engine.Archetype(), m.engine.State)
		return strings.Split(strings.TrimRight(summary, "\n"), "\n"), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func cmdHelp() []string {
	return []string{
		"System:",
		"  /quit     Exit",
		"  /help     Show this help",
		"  /state    Dump the combat state",
		"  /tree     Print the loaded behavior tree",
		"  /why      Show what the tree would choose now, and why",
		"  /summary  Show the combat summary so far",
		"  /trace    Toggle effect and decision trace output",
		"",
		"Actions:",
		"  attack, charge, firespell, icespell,",
		"  defend, heal, scan, cleanse",
		"  Enter (or auto)   Let the behavior tree decide",
		"  again (g)         Repeat your last action",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for input history",
	}
}

func (m *Model) cmdState() []string {
	s := m.engine.State
	output := []string{
		fmt.Sprintf("Turn: %d/%d", s.Turn, m.engine.TurnLimit),
		fmt.Sprintf("Player: HP %d/%d, MP %d/%d, statuses %v",
			s.Player.CurrentHealth, s.Player.MaxHealth, s.PlayerMP.Current, s.PlayerMP.Max, s.PlayerStatus),
	}
	if s.Enemy != nil {
		output = append(output, fmt.Sprintf("%s: HP %d/%d, MP %d/%d, element %s, statuses %v",
			s.Archetype, s.Enemy.CurrentHealth, s.Enemy.MaxHealth, s.EnemyMP.Current, s.EnemyMP.Max,
			s.Enemy.Element, s.EnemyStatus))
	}
	output = append(output, fmt.Sprintf("Heal cooldown: %d, scanned: %v", s.HealCooldown, s.Scanned))
	if len(s.History) > 0 {
		output = append(output, "Enemy history: "+strings.Join(s.History, ", "))
	}
	return output
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
