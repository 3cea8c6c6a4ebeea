package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/btarena/types"
)

const gaugeWidth = 10

// gauge renders cur/max as a fixed-width bar: "[######....]".
func gauge(cur, max int) string {
	filled := 0
	if max > 0 && cur > 0 {
		filled = (cur*gaugeWidth + max - 1) / max
		if filled > gaugeWidth {
			filled = gaugeWidth
		}
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", gaugeWidth-filled) + "]"
}

// statusTags lists active statuses as "Burn:2 Freeze:1".
func statusTags(list []types.StatusEffect) string {
	tags := make([]string, 0, len(list))
	for _, st := range list {
		tags = append(tags, fmt.Sprintf("%s:%d", st.Ailment, st.Duration))
	}
	return strings.Join(tags, " ")
}

// renderStatusBar produces a full-width inverted status line showing both
// combatants and the turn count.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	left := fmt.Sprintf(" HP %s %d/%d  MP %d/%d", gauge(s.Player.CurrentHealth, s.Player.MaxHealth),
		s.Player.CurrentHealth, s.Player.MaxHealth, s.PlayerMP.Current, s.PlayerMP.Max)
	if tags := statusTags(s.PlayerStatus); tags != "" {
		left += "  " + tags
	}

	enemy := s.Archetype + " defeated"
	if s.Enemy != nil {
		enemy = fmt.Sprintf("%s (%s) HP %s %d/%d", s.Archetype, s.Enemy.Element,
			gauge(s.Enemy.CurrentHealth, s.Enemy.MaxHealth), s.Enemy.CurrentHealth, s.Enemy.MaxHealth)
		if tags := statusTags(s.EnemyStatus); tags != "" {
			enemy += "  " + tags
		}
	}
	right := fmt.Sprintf("%s | T:%d/%d ", enemy, s.Turn, m.engine.TurnLimit)

	// Drop the gauges when the terminal is narrow.
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		left = fmt.Sprintf(" HP %d/%d MP %d/%d", s.Player.CurrentHealth, s.Player.MaxHealth, s.PlayerMP.Current, s.PlayerMP.Max)
		right = fmt.Sprintf("%s | T:%d ", enemyShort(s), s.Turn)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func enemyShort(s *types.CombatState) string {
	if s.Enemy == nil {
		return s.Archetype + " down"
	}
	return fmt.Sprintf("%s %d/%d", s.Archetype, s.Enemy.CurrentHealth, s.Enemy.MaxHealth)
}

// renderHintBar shows the visible telegraph, or the session outcome once
// the fight has ended.
func (m Model) renderHintBar() string {
	s := m.engine.State
	switch {
	case s.Outcome != types.OutcomeActive:
		return styleStatusBar.Width(m.width).Render(fmt.Sprintf(" %s: %s  (/quit to exit)", outcomeLabel(s.Outcome), s.Reason))
	case s.Telegraph != "":
		return styleTelegraphBar.Width(m.width).Render(fmt.Sprintf(" [!] %s is preparing %s", s.Archetype, s.Telegraph))
	default:
		return styleStatusBar.Width(m.width).Render(" Type an action, or press Enter to let the tree decide")
	}
}

func outcomeLabel(o types.Outcome) string {
	switch o {
	case types.OutcomeVictory:
		return "VICTORY"
	case types.OutcomeDefeat:
		return "DEFEAT"
	case types.OutcomeTurnLimit:
		return "TURN LIMIT"
	default:
		return "IN PROGRESS"
	}
}
