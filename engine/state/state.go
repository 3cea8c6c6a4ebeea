// Package state manages combat definitions and the query/mutation helpers
// shared by the rules, effects, and engine packages.
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/btarena/types"
)

const (
	// ReferenceAttack is the attack power at which base damage is unscaled.
	ReferenceAttack = 15
	// HealAmount is the HP restored by Heal.
	HealAmount = 40
	// HealCooldown is the number of turns Heal is unavailable after use.
	HealCooldown = 3
	// AttackMPGain is the MP a basic attack restores.
	AttackMPGain = 10
	// HistorySize bounds the enemy action history.
	HistorySize = 5
	// DefaultTurnLimit is the turn cap when none is configured.
	DefaultTurnLimit = 35
)

// Defs holds the immutable combat definitions.
type Defs struct {
	Player     types.PlayerProfile
	Archetypes map[string]types.ArchetypeDef
	Actions    map[types.ActionID]types.ActionDef
}

// UnknownArchetypeError is returned when a session names an archetype
// that is not defined.
type UnknownArchetypeError struct {
	Name  string
	Known []string
}

func (e *UnknownArchetypeError) Error() string {
	return fmt.Sprintf("unknown archetype %q (known: %v)", e.Name, e.Known)
}

// ArchetypeNames returns the defined archetype names in sorted order.
func (d *Defs) ArchetypeNames() []string {
	names := make([]string, 0, len(d.Archetypes))
	for name := range d.Archetypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Action returns the definition of a player action.
func (d *Defs) Action(id types.ActionID) (types.ActionDef, bool) {
	a, ok := d.Actions[id]
	return a, ok
}

// NewState creates a fresh combat state against the named archetype.
func NewState(defs *Defs, archetype string) (*types.CombatState, error) {
	arch, ok := defs.Archetypes[archetype]
	if !ok {
		return nil, &UnknownArchetypeError{Name: archetype, Known: defs.ArchetypeNames()}
	}

	enemy := arch.Stats
	enemy.CurrentHealth = enemy.MaxHealth
	if enemy.Element == "" {
		enemy.Element = types.Neutral
	}
	player := defs.Player.Stats
	player.CurrentHealth = player.MaxHealth
	if player.Element == "" {
		player.Element = types.Neutral
	}

	return &types.CombatState{
		Turn:             0,
		Player:           player,
		PlayerMP:         defs.Player.MP,
		Enemy:            &enemy,
		Archetype:        arch.Name,
		EnemyMP:          arch.MP,
		EnemyBaseElement: enemy.Element,
		PhasesEntered:    map[int]bool{},
		Outcome:          types.OutcomeActive,
	}, nil
}

// Statuses returns the status list for "player" or "enemy".
func Statuses(s *types.CombatState, target string) []types.StatusEffect {
	if target == "player" {
		return s.PlayerStatus
	}
	return s.EnemyStatus
}

// SetStatuses replaces the status list for "player" or "enemy".
func SetStatuses(s *types.CombatState, target string, list []types.StatusEffect) {
	if target == "player" {
		s.PlayerStatus = list
		return
	}
	s.EnemyStatus = list
}

// FindStatus returns the active effect for an ailment, if any.
func FindStatus(list []types.StatusEffect, a types.Ailment) (types.StatusEffect, bool) {
	for _, se := range list {
		if se.Ailment == a {
			return se, true
		}
	}
	return types.StatusEffect{}, false
}

// HasStatus returns true if the list carries the ailment.
func HasStatus(list []types.StatusEffect, a types.Ailment) bool {
	_, ok := FindStatus(list, a)
	return ok
}

// AddStatus applies an effect. An existing effect with the same ailment is
// replaced in place, so there is never more than one instance per ailment.
func AddStatus(list []types.StatusEffect, se types.StatusEffect) []types.StatusEffect {
	for i := range list {
		if list[i].Ailment == se.Ailment {
			list[i] = se
			return list
		}
	}
	return append(list, se)
}

// RemoveStatus removes an ailment from the list.
// Returns the new list and whether anything was removed.
func RemoveStatus(list []types.StatusEffect, a types.Ailment) ([]types.StatusEffect, bool) {
	out := list[:0:0]
	removed := false
	for _, se := range list {
		if se.Ailment == a {
			removed = true
			continue
		}
		out = append(out, se)
	}
	return out, removed
}

// HPPercent returns current health as a percentage of max health.
func HPPercent(c types.CombatantStats) float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.CurrentHealth) * 100 / float64(c.MaxHealth)
}

// EnemyHPPercent returns the enemy's health percentage. The bool is false
// once the enemy has been defeated.
func EnemyHPPercent(s *types.CombatState) (float64, bool) {
	if s.Enemy == nil {
		return 0, false
	}
	return HPPercent(*s.Enemy), true
}

// Counter returns the element that counters e, or "" if none does.
func Counter(e types.Element) types.Element {
	switch e {
	case types.Fire:
		return types.Ice
	case types.Ice:
		return types.Fire
	default:
		return ""
	}
}

// PushHistory records an enemy action, keeping the last HistorySize.
func PushHistory(s *types.CombatState, action string) {
	s.LastEnemyAction = action
	s.History = append(s.History, action)
	if len(s.History) > HistorySize {
		s.History = s.History[len(s.History)-HistorySize:]
	}
}

// UsedRecently returns true if the enemy used action within the history.
func UsedRecently(s *types.CombatState, action string) bool {
	for _, a := range s.History {
		if a == action {
			return true
		}
	}
	return false
}

// Combatant returns the stats for "player" or "enemy". The enemy result is
// nil once it has been defeated.
func Combatant(s *types.CombatState, target string) *types.CombatantStats {
	if target == "player" {
		return &s.Player
	}
	return s.Enemy
}

// Pool returns the MP pool for "player" or "enemy".
func Pool(s *types.CombatState, target string) *types.ResourcePool {
	if target == "player" {
		return &s.PlayerMP
	}
	return &s.EnemyMP
}

// Opponent returns the other side's tag.
func Opponent(target string) string {
	if target == "player" {
		return "enemy"
	}
	return "player"
}
