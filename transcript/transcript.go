// Package transcript renders combat sessions as compact text logs, end of
// combat summaries, and printable PDF reports.
package transcript

import (
	"fmt"
	"strings"

	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// Header describes the matchup before the first turn.
func Header(arch types.ArchetypeDef, player types.PlayerProfile) string {
	var b strings.Builder
	b.WriteString("=== COMBAT START ===\n")
	fmt.Fprintf(&b, "Enemy: %s (%s)\n", arch.Name, elementName(arch.Stats.Element))
	fmt.Fprintf(&b, "Player: %d HP, %d MP\n", player.Stats.MaxHealth, player.MP.Max)
	fmt.Fprintf(&b, "Enemy: %d HP, %d MP\n", arch.Stats.MaxHealth, arch.MP.Max)
	return b.String()
}

// Turn renders one turn in the compact log format.
func Turn(r types.TurnResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== TURN %d ===\n", r.Turn)
	if r.TelegraphShown != "" {
		fmt.Fprintf(&b, "[!] ENEMY TELEGRAPHS: %s\n", r.TelegraphShown)
	}

	for _, tick := range r.Ticks {
		fmt.Fprintf(&b, "%s on %s: %d dmg\n", tick.Ailment, tick.Target, tick.Damage)
	}

	if r.Player.Action != "" {
		b.WriteString(playerLine(r.Player))
	}
	if r.Enemy != nil {
		b.WriteString(enemyLine(*r.Enemy))
	}

	for _, c := range r.StatusApplied {
		fmt.Fprintf(&b, "+ %s on %s (%d turns)\n", c.Ailment, c.Target, c.Duration)
	}
	for _, c := range r.StatusRemoved {
		fmt.Fprintf(&b, "- %s off %s\n", c.Ailment, c.Target)
	}
	for _, c := range r.ElementChanges {
		fmt.Fprintf(&b, "Element: %s -> %s (%s)\n", elementName(c.From), elementName(c.To), c.Reason)
	}

	fmt.Fprintf(&b, "Player: HP %d, MP %d | Enemy: HP %d, MP %d\n", r.PlayerHP, r.PlayerMP, r.EnemyHP, r.EnemyMP)
	if r.Outcome != "" && r.Outcome != types.OutcomeActive {
		fmt.Fprintf(&b, "Result: %s (%s)\n", r.Outcome, r.Reason)
	}
	return b.String()
}

// Log renders a whole session: the header followed by every turn.
func Log(header string, turns []types.TurnResult) string {
	var b strings.Builder
	b.WriteString(header)
	for _, r := range turns {
		b.WriteString("\n")
		b.WriteString(Turn(r))
	}
	return b.String()
}

func playerLine(a types.ActionReport) string {
	switch {
	case a.Skipped:
		return fmt.Sprintf("Action: %s (frozen, skipped)\n", a.Action)
	case !a.Success:
		return fmt.Sprintf("Action: %s failed: %s\n", a.Action, a.Message)
	}
	line := "Action: " + a.Action
	if a.Cost > 0 {
		line += fmt.Sprintf(" (MP -%d)", a.Cost)
	}
	if a.Missed {
		line += " -> miss"
	} else if a.Damage > 0 {
		line += fmt.Sprintf(" -> %d dmg", a.Damage)
	}
	if a.Heal > 0 {
		line += fmt.Sprintf(" -> Healed %d HP", a.Heal)
	}
	return line + "\n"
}

func enemyLine(a types.ActionReport) string {
	switch {
	case a.Skipped:
		return fmt.Sprintf("Enemy: %s (frozen, skipped)\n", a.Action)
	case !a.Success:
		return fmt.Sprintf("Enemy: %s failed\n", a.Action)
	}
	line := "Enemy: " + a.Action
	if a.Missed {
		line += " -> miss"
	} else if a.Damage > 0 {
		line += fmt.Sprintf(" -> %d dmg", a.Damage)
	}
	if a.Heal > 0 {
		line += fmt.Sprintf(" -> Healed %d HP", a.Heal)
	}
	return line + "\n"
}

// Summary renders the end of combat statistics from the final state.
func Summary(arch types.ArchetypeDef, s *types.CombatState) string {
	var b strings.Builder
	b.WriteString("=== COMBAT SUMMARY ===\n\n")
	fmt.Fprintf(&b, "Result: %s\n", resultName(s.Outcome))
	if s.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", s.Reason)
	}
	fmt.Fprintf(&b, "Turns: %d\n", s.Turn)
	fmt.Fprintf(&b, "Final Player HP: %d/%d (%d%%)\n",
		s.Player.CurrentHealth, s.Player.MaxHealth, int(state.HPPercent(s.Player)))

	enemyHP, element := 0, arch.Stats.Element
	if s.Enemy != nil {
		enemyHP, element = s.Enemy.CurrentHealth, s.Enemy.Element
	}
	pct := 0
	if arch.Stats.MaxHealth > 0 {
		pct = enemyHP * 100 / arch.Stats.MaxHealth
	}
	fmt.Fprintf(&b, "Final Enemy HP: %d/%d (%d%%)\n\n", enemyHP, arch.Stats.MaxHealth, pct)

	fmt.Fprintf(&b, "Enemy: %s (%s)\n", arch.Name, elementName(element))
	if s.Scanned {
		weakness := "None"
		if c := state.Counter(element); c != "" {
			weakness = string(c)
		}
		fmt.Fprintf(&b, "Weakness: %s (scanned)\n", weakness)
	} else {
		b.WriteString("Weakness: Unknown (not scanned)\n")
	}
	if len(s.History) > 0 {
		fmt.Fprintf(&b, "Enemy Action History (last %d): %s\n", state.HistorySize, strings.Join(s.History, ", "))
	}
	fmt.Fprintf(&b, "\nResources Remaining: MP %d/%d\n", s.PlayerMP.Current, s.PlayerMP.Max)
	return b.String()
}

func resultName(o types.Outcome) string {
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

func elementName(e types.Element) string {
	if e == "" {
		return string(types.Neutral)
	}
	return string(e)
}
