package engine

import (
	"fmt"

	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// ActivePhase returns the index of the archetype phase for an HP percentage:
// the first phase whose threshold the HP is strictly above. The last phase
// is a catch-all.
func ActivePhase(arch types.ArchetypeDef, hpPct float64) int {
	for i, p := range arch.Phases {
		if hpPct > float64(p.Above) {
			return i
		}
	}
	return len(arch.Phases) - 1
}

// SelectEnemyAction picks the enemy's next move from the active phase's
// weighted table. The first selection in a phase also returns that phase's
// one-shot entry effects.
func SelectEnemyAction(s *types.CombatState, arch types.ArchetypeDef, rng Random) (string, []types.Effect) {
	if s.Enemy == nil || len(arch.Phases) == 0 {
		return "", nil
	}
	idx := ActivePhase(arch, state.HPPercent(*s.Enemy))
	phase := arch.Phases[idx]

	// 1. One-shot phase entry.
	var effs []types.Effect
	if !s.PhasesEntered[idx] {
		effs = append(effs, types.Effect{Type: "enter_phase", Params: map[string]any{"phase": idx}})
		if phase.EnterElement != "" {
			effs = append(effs, types.Effect{Type: "set_element", Params: map[string]any{"element": phase.EnterElement, "turns": 0}})
		}
		for _, g := range phase.EnterStatus {
			effs = append(effs, addStatus("enemy", g.Ailment, g.Duration, g.Magnitude))
		}
	}

	// 2. Weighted choice.
	if len(phase.Actions) == 0 {
		return "", effs
	}
	weights := make([]int, len(phase.Actions))
	for i, w := range phase.Actions {
		weights[i] = w.Weight
	}
	return phase.Actions[rng.WeightedSelect(weights)].Move, effs
}

// enemyAction builds the effects for the enemy executing move. Lifesteal
// depends on damage actually dealt, so it is returned as a percentage for
// the caller to apply after the damage lands.
func (e *Engine) enemyAction(move string) (types.ActionReport, []types.Effect, int) {
	s := e.State
	report := types.ActionReport{Actor: "enemy", Action: move}
	record := types.Effect{Type: "record_enemy_action", Params: map[string]any{"action": move}}

	// 1. Frozen enemies lose the turn and thaw.
	if state.HasStatus(s.EnemyStatus, types.Freeze) {
		report.Skipped = true
		report.Message = fmt.Sprintf("The %s is frozen! Turn skipped.", s.Archetype)
		return report, []types.Effect{removeStatus("enemy", types.Freeze, "consumed"), say(report.Message)}, 0
	}

	def, ok := e.arch.Moves[move]
	if !ok {
		report.Message = fmt.Sprintf("The %s hesitates.", s.Archetype)
		return report, []types.Effect{say(report.Message)}, 0
	}

	// 2. Resource check.
	if s.EnemyMP.Current < def.Cost {
		report.Message = fmt.Sprintf("The %s tries %s but lacks the MP.", s.Archetype, move)
		return report, []types.Effect{record, say(report.Message)}, 0
	}

	var effs []types.Effect
	if def.Cost > 0 {
		report.Cost = def.Cost
		effs = append(effs, types.Effect{Type: "spend_mp", Params: map[string]any{"target": "enemy", "amount": def.Cost}})
	}
	report.Success = true

	// 3. Damage.
	hitLanded := false
	if def.Power > 0 {
		hit := ComputeDamage(s, "enemy", def.Power, def.Element, e.RNG)
		report.Missed = hit.Missed
		if !hit.Missed {
			effs = append(effs, types.Effect{Type: "damage", Params: map[string]any{"target": "player", "amount": hit.Damage}})
			hitLanded = hit.Damage > 0
		}
		if hit.ConsumedCharge {
			effs = append(effs, removeStatus("enemy", types.Charged, "consumed"))
		}
	}

	// 4. Statuses and element.
	for _, g := range def.Inflict {
		if g.Chance == 0 || e.RNG.Chance(g.Chance) {
			effs = append(effs, addStatus("player", g.Ailment, g.Duration, g.Magnitude))
		}
	}
	for _, g := range def.SelfStatus {
		if g.Chance == 0 || e.RNG.Chance(g.Chance) {
			effs = append(effs, addStatus("enemy", g.Ailment, g.Duration, g.Magnitude))
		}
	}
	if def.GrantElement != "" && def.GrantTurns > 0 {
		effs = append(effs, types.Effect{Type: "set_element", Params: map[string]any{"element": def.GrantElement, "turns": def.GrantTurns}})
	}
	if hitLanded && state.HasStatus(s.EnemyStatus, types.FrostAura) && e.RNG.Chance(frostAuraChance) {
		effs = append(effs, addStatus("player", types.Freeze, 2, 0))
	}

	effs = append(effs, record)
	report.Message = describeEnemyMove(s.Archetype, def, report.Missed)
	effs = append(effs, say(report.Message))

	lifesteal := 0
	if hitLanded {
		lifesteal = e.arch.Phases[ActivePhase(e.arch, state.HPPercent(*s.Enemy))].Lifesteal
	}
	return report, effs, lifesteal
}

func describeEnemyMove(name string, def types.MoveDef, missed bool) string {
	if missed {
		return fmt.Sprintf("The %s uses %s but misses!", name, def.Name)
	}
	if def.Description != "" {
		return fmt.Sprintf("The %s uses %s: %s", name, def.Name, def.Description)
	}
	return fmt.Sprintf("The %s uses %s!", name, def.Name)
}
