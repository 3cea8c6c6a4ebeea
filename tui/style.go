package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleTelegraphBar = lipgloss.NewStyle().
				Background(lipgloss.Color("52")).
				Foreground(lipgloss.Color("229")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	stylePlayerAction = lipgloss.NewStyle().
				Foreground(lipgloss.Color("81"))

	styleEnemyAction = lipgloss.NewStyle().
				Foreground(lipgloss.Color("209"))

	styleTick = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	styleTurnHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleVictory = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindTurnHeader
	kindPlayer
	kindEnemy
	kindTick
	kindSystem
	kindError
	kindTrace
	kindVictory
)

// classifyLine determines what kind of output line this is. arch is the
// enemy's name, used to pick out its narration.
func classifyLine(line, arch string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"), strings.HasPrefix(line, "[tree]"):
		return kindTrace
	case strings.HasPrefix(line, "-- Turn "):
		return kindTurnHeader
	case strings.HasPrefix(line, "VICTORY"):
		return kindVictory
	case strings.HasPrefix(line, "DEFEAT"), strings.HasPrefix(line, "Unknown action"):
		return kindError
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.Contains(line, " deals ") && strings.HasSuffix(line, "damage to the player."),
		strings.Contains(line, " deals ") && strings.HasSuffix(line, "damage to the enemy."):
		return kindTick
	case strings.HasPrefix(line, "You "), strings.HasPrefix(line, "Scanned!"):
		return kindPlayer
	case arch != "" && strings.HasPrefix(line, "The "+arch):
		return kindEnemy
	default:
		return kindNarration
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurnHeader:
		return styleTurnHeader.Render(line)
	case kindPlayer:
		return stylePlayerAction.Render(line)
	case kindEnemy:
		return styleEnemyAction.Render(line)
	case kindTick:
		return styleTick.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	case kindVictory:
		return styleVictory.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
