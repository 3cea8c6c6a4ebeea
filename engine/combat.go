package engine

import (
	"fmt"

	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

const (
	// paralyzeMissChance is the percent chance a paralyzed attacker misses.
	paralyzeMissChance = 50
	burnChance         = 25
	freezeChance       = 25
	frostAuraChance    = 30
)

// ElementMultiplier returns the damage factor for an attack element against
// a defender element: 1.5 when the attack counters the defender, 1.0 when
// either side is Neutral or the pairing is not a counter.
func ElementMultiplier(attack, defender types.Element) float64 {
	if attack == types.Neutral || defender == types.Neutral || attack == "" || defender == "" {
		return 1.0
	}
	if state.Counter(defender) == attack {
		return 1.5
	}
	return 1.0
}

// Hit is the outcome of one damage calculation.
type Hit struct {
	Damage         int
	Missed         bool
	Multiplier     float64
	ConsumedCharge bool
}

// ComputeDamage runs the damage pipeline for attacker ("player" or "enemy")
// hitting the other side with a move of the given base power and element.
//
//	atk  = attack power adjusted by AttackDown, Rage, Enrage
//	dmg  = power * atk / ReferenceAttack * element multiplier
//	dmg *= 2 if Charged, * (100+m)% if PowerBoost
//	paralyzed attackers miss half the time
//	dmg -= Defending m% on the defender, then defense, floor 0
func ComputeDamage(s *types.CombatState, attacker string, power int, el types.Element, rng Random) Hit {
	defender := state.Opponent(attacker)
	atkStats := state.Combatant(s, attacker)
	defStats := state.Combatant(s, defender)
	if atkStats == nil || defStats == nil || power <= 0 {
		return Hit{Multiplier: 1.0}
	}
	atkStatus := state.Statuses(s, attacker)
	defStatus := state.Statuses(s, defender)

	// 1. Attack modifiers.
	atk := atkStats.AttackPower
	if se, ok := state.FindStatus(atkStatus, types.AttackDown); ok {
		atk = atk * (100 - se.Magnitude) / 100
	}
	if se, ok := state.FindStatus(atkStatus, types.Rage); ok {
		atk = atk * (100 + se.Magnitude) / 100
	}
	if se, ok := state.FindStatus(atkStatus, types.Enrage); ok {
		atk = atk * (100 + se.Magnitude) / 100
	}

	// 2. Scale and element.
	hit := Hit{Multiplier: ElementMultiplier(el, defStats.Element)}
	dmg := float64(power) * float64(atk) / state.ReferenceAttack * hit.Multiplier

	// 3. Offensive buffs.
	if state.HasStatus(atkStatus, types.Charged) {
		dmg *= 2
		hit.ConsumedCharge = true
	}
	if se, ok := state.FindStatus(atkStatus, types.PowerBoost); ok {
		dmg = dmg * float64(100+se.Magnitude) / 100
	}

	// 4. Paralysis.
	if state.HasStatus(atkStatus, types.Paralyze) && rng.Chance(paralyzeMissChance) {
		hit.Missed = true
		return hit
	}

	// 5. Defensive reduction.
	final := int(dmg)
	if se, ok := state.FindStatus(defStatus, types.Defending); ok {
		final = final * (100 - se.Magnitude) / 100
	}
	final -= defStats.Defense
	if final < 0 {
		final = 0
	}
	hit.Damage = final
	return hit
}

// playerAction builds the effects for the player's action. Resource and
// cooldown checks happen here; a failed check yields no effects and a
// descriptive message.
func (e *Engine) playerAction(id types.ActionID) (types.ActionReport, []types.Effect) {
	s := e.State
	report := types.ActionReport{Actor: "player", Action: string(id)}

	// 1. Frozen players lose the turn and thaw.
	if state.HasStatus(s.PlayerStatus, types.Freeze) {
		report.Skipped = true
		report.Message = "You are frozen! Turn skipped."
		return report, []types.Effect{removeStatus("player", types.Freeze, "consumed"), say(report.Message)}
	}

	def, ok := e.Defs.Action(id)
	if !ok {
		report.Message = fmt.Sprintf("Unknown action %q.", id)
		return report, []types.Effect{say(report.Message)}
	}

	// 2. Gate checks.
	if id == types.ActionHeal && s.HealCooldown > 0 {
		report.Message = fmt.Sprintf("Heal on cooldown (%d turns left).", s.HealCooldown)
		return report, []types.Effect{say(report.Message)}
	}
	if s.PlayerMP.Current < def.Cost {
		report.Message = "Not enough MP!"
		return report, []types.Effect{say(report.Message)}
	}

	// 3. Cost is deducted before anything else.
	var effs []types.Effect
	if def.Cost > 0 {
		report.Cost = def.Cost
		effs = append(effs, types.Effect{Type: "spend_mp", Params: map[string]any{"target": "player", "amount": def.Cost}})
	}
	report.Success = true

	// 4. Damage.
	if def.Power > 0 {
		hit := ComputeDamage(s, "player", def.Power, def.Element, e.RNG)
		report.Missed = hit.Missed
		if !hit.Missed {
			effs = append(effs, types.Effect{Type: "damage", Params: map[string]any{"target": "enemy", "amount": hit.Damage}})
		}
		if hit.ConsumedCharge {
			effs = append(effs, removeStatus("player", types.Charged, "consumed"))
		}
	}

	// 5. Action specifics.
	switch id {
	case types.ActionAttack:
		effs = append(effs, types.Effect{Type: "gain_mp", Params: map[string]any{"target": "player", "amount": state.AttackMPGain}})

	case types.ActionCharge:
		effs = append(effs, addStatus("player", types.Charged, 2, 0))

	case types.ActionFireSpell:
		if e.RNG.Chance(burnChance) {
			effs = append(effs, addStatus("enemy", types.Burn, 3, 5))
		}

	case types.ActionIceSpell:
		if e.RNG.Chance(freezeChance) {
			effs = append(effs, addStatus("enemy", types.Freeze, 2, 0))
		}

	case types.ActionDefend:
		effs = append(effs, addStatus("player", types.Defending, 1, 50))

	case types.ActionHeal:
		effs = append(effs,
			types.Effect{Type: "heal", Params: map[string]any{"target": "player", "amount": state.HealAmount}},
			types.Effect{Type: "set_cooldown", Params: map[string]any{"turns": state.HealCooldown}},
		)

	case types.ActionScan:
		effs = append(effs, types.Effect{Type: "scan"})

	case types.ActionCleanse:
		effs = append(effs,
			removeStatus("player", types.Burn, "cleansed"),
			removeStatus("player", types.AttackDown, "cleansed"),
			addStatus("player", types.PowerBoost, 2, 10),
		)
	}

	report.Message = e.describePlayerAction(id, report.Missed)
	effs = append(effs, say(report.Message))
	return report, effs
}

func (e *Engine) describePlayerAction(id types.ActionID, missed bool) string {
	if missed {
		return fmt.Sprintf("You use %s but miss!", id)
	}
	switch id {
	case types.ActionDefend:
		return "You brace yourself. Incoming damage reduced by 50%."
	case types.ActionHeal:
		return "You channel a healing light."
	case types.ActionScan:
		weakness := "None"
		if e.State.Enemy != nil {
			if c := state.Counter(e.State.Enemy.Element); c != "" {
				weakness = string(c)
			}
		}
		return fmt.Sprintf("Scanned! Enemy is %s (Weak to %s).", e.State.Archetype, weakness)
	case types.ActionCleanse:
		return "You cleanse yourself and feel empowered."
	case types.ActionCharge:
		return "You strike and gather power for the next blow."
	default:
		return fmt.Sprintf("You use %s.", id)
	}
}

func say(text string) types.Effect {
	return types.Effect{Type: "say", Params: map[string]any{"text": text}}
}

func addStatus(target string, a types.Ailment, duration, magnitude int) types.Effect {
	return types.Effect{Type: "add_status", Params: map[string]any{
		"target": target, "ailment": a, "duration": duration, "magnitude": magnitude,
	}}
}

func removeStatus(target string, a types.Ailment, reason string) types.Effect {
	return types.Effect{Type: "remove_status", Params: map[string]any{"target": target, "ailment": a, "reason": reason}}
}
