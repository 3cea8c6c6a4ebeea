// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation. No decisions are made here:
// costs, hit rolls and proc chances are resolved before effects are built.
package effects

import (
	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// Context identifies who produced the effects being applied.
type Context struct {
	Actor  string // "player", "enemy", or "system" for turn upkeep
	Source string // action or move name, for event data
}

// Apply applies a list of effects to the combat state, mutating it.
// Returns events emitted and output text collected.
func Apply(s *types.CombatState, effects []types.Effect, ctx Context) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	emit := func(typ string, data map[string]any) {
		events = append(events, types.Event{Type: typ, Data: data})
	}

	for _, eff := range effects {
		target, _ := eff.Params["target"].(string)

		switch eff.Type {
		case "say":
			text, _ := eff.Params["text"].(string)
			output = append(output, text)

		case "spend_mp":
			amount := toInt(eff.Params["amount"])
			pool := state.Pool(s, target)
			pool.Current = clamp(pool.Current-amount, 0, pool.Max)
			emit("mp_spent", map[string]any{"target": target, "amount": amount, "current": pool.Current})

		case "gain_mp":
			amount := toInt(eff.Params["amount"])
			pool := state.Pool(s, target)
			before := pool.Current
			pool.Current = clamp(pool.Current+amount, 0, pool.Max)
			emit("mp_gained", map[string]any{"target": target, "amount": pool.Current - before, "current": pool.Current})

		case "regen":
			pool := state.Pool(s, target)
			before := pool.Current
			pool.Current = clamp(pool.Current+pool.Regen, 0, pool.Max)
			if gained := pool.Current - before; gained > 0 {
				emit("mp_regen", map[string]any{"target": target, "amount": gained, "current": pool.Current})
			}

		case "damage":
			amount := toInt(eff.Params["amount"])
			events = append(events, applyDamage(s, target, amount, ctx.Source)...)

		case "heal":
			amount := toInt(eff.Params["amount"])
			c := state.Combatant(s, target)
			if c == nil {
				continue
			}
			before := c.CurrentHealth
			c.CurrentHealth = clamp(c.CurrentHealth+amount, 0, c.MaxHealth)
			emit("healed", map[string]any{"target": target, "amount": c.CurrentHealth - before, "current": c.CurrentHealth, "source": ctx.Source})

		case "add_status":
			ailment := toAilment(eff.Params["ailment"])
			se := types.StatusEffect{
				Ailment:   ailment,
				Duration:  toInt(eff.Params["duration"]),
				Magnitude: toInt(eff.Params["magnitude"]),
			}
			state.SetStatuses(s, target, state.AddStatus(state.Statuses(s, target), se))
			emit("status_applied", map[string]any{
				"target": target, "ailment": ailment,
				"duration": se.Duration, "magnitude": se.Magnitude, "source": ctx.Source,
			})

		case "remove_status":
			ailment := toAilment(eff.Params["ailment"])
			list, removed := state.RemoveStatus(state.Statuses(s, target), ailment)
			if removed {
				state.SetStatuses(s, target, list)
				emit("status_removed", map[string]any{"target": target, "ailment": ailment, "reason": eff.Params["reason"]})
			}

		case "tick_status":
			events = append(events, tickStatuses(s, target)...)

		case "set_element":
			if s.Enemy == nil {
				continue
			}
			el := toElement(eff.Params["element"])
			turns := toInt(eff.Params["turns"])
			from := s.Enemy.Element
			s.Enemy.Element = el
			if turns > 0 {
				s.EnemyElementTurns = turns
			} else {
				s.EnemyBaseElement = el
				s.EnemyElementTurns = 0
			}
			emit("element_changed", map[string]any{"from": from, "to": el, "turns": turns, "reason": ctx.Source})

		case "element_tick":
			if s.Enemy == nil || s.EnemyElementTurns <= 0 {
				continue
			}
			s.EnemyElementTurns--
			if s.EnemyElementTurns == 0 && s.Enemy.Element != s.EnemyBaseElement {
				from := s.Enemy.Element
				s.Enemy.Element = s.EnemyBaseElement
				emit("element_changed", map[string]any{"from": from, "to": s.EnemyBaseElement, "turns": 0, "reason": "expired"})
			}

		case "set_cooldown":
			s.HealCooldown = toInt(eff.Params["turns"])

		case "cooldown_tick":
			if s.HealCooldown > 0 {
				s.HealCooldown--
			}

		case "scan":
			s.Scanned = true
			emit("enemy_scanned", map[string]any{"archetype": s.Archetype})

		case "record_enemy_action":
			action, _ := eff.Params["action"].(string)
			state.PushHistory(s, action)

		case "enter_phase":
			phase := toInt(eff.Params["phase"])
			if s.PhasesEntered == nil {
				s.PhasesEntered = map[int]bool{}
			}
			s.PhasesEntered[phase] = true
			emit("phase_entered", map[string]any{"archetype": s.Archetype, "phase": phase})
		}
	}

	return events, output
}

// applyDamage subtracts health directly. Defense and modifiers are applied
// by the caller when computing the amount.
func applyDamage(s *types.CombatState, target string, amount int, source string) []types.Event {
	c := state.Combatant(s, target)
	if c == nil {
		return nil
	}
	before := c.CurrentHealth
	c.CurrentHealth = clamp(c.CurrentHealth-amount, 0, c.MaxHealth)
	events := []types.Event{{
		Type: "damage_dealt",
		Data: map[string]any{"target": target, "amount": before - c.CurrentHealth, "remaining": c.CurrentHealth, "source": source},
	}}
	if c.CurrentHealth == 0 && before > 0 {
		events = append(events, types.Event{Type: "defeated", Data: map[string]any{"target": target}})
	}
	return events
}

// tickStatuses applies periodic damage and decrements every active effect on
// target, removing those that reach zero.
func tickStatuses(s *types.CombatState, target string) []types.Event {
	var events []types.Event
	list := state.Statuses(s, target)
	kept := list[:0:0]
	for _, se := range list {
		if se.Ailment == types.Burn && se.Magnitude > 0 {
			dmg := applyDamage(s, target, se.Magnitude, string(se.Ailment))
			if len(dmg) > 0 {
				dealt := toInt(dmg[0].Data["amount"])
				events = append(events, types.Event{
					Type: "dot_tick",
					Data: map[string]any{"target": target, "ailment": se.Ailment, "amount": dealt},
				})
			}
			events = append(events, dmg...)
		}
		se.Duration--
		if se.Duration <= 0 {
			events = append(events, types.Event{
				Type: "status_removed",
				Data: map[string]any{"target": target, "ailment": se.Ailment, "reason": "expired"},
			})
			continue
		}
		kept = append(kept, se)
	}
	state.SetStatuses(s, target, kept)
	return events
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toInt converts an any value to int, handling float64 from Lua/YAML.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}

func toAilment(v any) types.Ailment {
	switch a := v.(type) {
	case types.Ailment:
		return a
	case string:
		return types.Ailment(a)
	default:
		return ""
	}
}

func toElement(v any) types.Element {
	switch e := v.(type) {
	case types.Element:
		return e
	case string:
		return types.Element(e)
	default:
		return types.Neutral
	}
}
