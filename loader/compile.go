// Package loader compiles Lua roster files into archetype and player
// definitions. The Lua VM is discarded after loading.
package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/btarena/engine/rules"
	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field and whether it was present.
func getInt(tbl *lua.LTable, key string) (int, bool) {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n), true
	}
	return 0, false
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// list returns the array part of tbl as tables. Non-table entries are
// reported by position.
func list(tbl *lua.LTable, what string) ([]*lua.LTable, error) {
	if tbl == nil {
		return nil, nil
	}
	var out []*lua.LTable
	for i := 1; i <= tbl.MaxN(); i++ {
		t, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%s entry %d is not a table", what, i)
		}
		out = append(out, t)
	}
	return out, nil
}

// compile folds the collected definitions into defs and returns the names
// of the archetypes that were defined, in source order.
func compile(coll *collector, defs *state.Defs) ([]string, error) {
	// Player.
	switch len(coll.players) {
	case 0:
	case 1:
		p, err := compilePlayer(coll.players[0], defs.Player)
		if err != nil {
			return nil, fmt.Errorf("compiling player: %w", err)
		}
		defs.Player = p
	default:
		return nil, fmt.Errorf("Player{} defined %d times", len(coll.players))
	}

	// Archetypes.
	seen := map[string]bool{}
	var names []string
	for _, raw := range coll.archetypes {
		if seen[raw.name] {
			return nil, fmt.Errorf("archetype %q defined twice", raw.name)
		}
		seen[raw.name] = true
		arch, err := compileArchetype(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling archetype %s: %w", raw.name, err)
		}
		defs.Archetypes[arch.Name] = arch
		names = append(names, arch.Name)
	}
	return names, nil
}

// compilePlayer overlays the fields present in tbl on base.
func compilePlayer(tbl *lua.LTable, base types.PlayerProfile) (types.PlayerProfile, error) {
	p := base
	if n, ok := getInt(tbl, "max_health"); ok {
		p.Stats.MaxHealth = n
		p.Stats.CurrentHealth = n
	}
	if n, ok := getInt(tbl, "attack"); ok {
		p.Stats.AttackPower = n
	}
	if n, ok := getInt(tbl, "defense"); ok {
		p.Stats.Defense = n
	}
	if n, ok := getInt(tbl, "mp"); ok {
		p.MP.Max = n
		p.MP.Current = n
	}
	if n, ok := getInt(tbl, "mp_regen"); ok {
		p.MP.Regen = n
	}
	if s := getString(tbl, "element"); s != "" {
		el, err := element(s)
		if err != nil {
			return p, err
		}
		p.Stats.Element = el
	}
	return p, nil
}

func compileArchetype(raw rawArchetype) (types.ArchetypeDef, error) {
	tbl := raw.table
	arch := types.ArchetypeDef{
		Name:        raw.name,
		Description: getString(tbl, "description"),
		Moves:       map[string]types.MoveDef{},
	}

	// Stats.
	arch.Stats.MaxHealth, _ = getInt(tbl, "max_health")
	arch.Stats.CurrentHealth = arch.Stats.MaxHealth
	arch.Stats.AttackPower, _ = getInt(tbl, "attack")
	arch.Stats.Defense, _ = getInt(tbl, "defense")
	el, err := element(getString(tbl, "element"))
	if err != nil {
		return arch, err
	}
	arch.Stats.Element = el
	arch.MP.Max, _ = getInt(tbl, "mp")
	arch.MP.Current = arch.MP.Max
	arch.MP.Regen, _ = getInt(tbl, "mp_regen")

	// Moves.
	moves, err := list(getTable(tbl, "moves"), "moves")
	if err != nil {
		return arch, err
	}
	for _, m := range moves {
		move, err := compileMove(m)
		if err != nil {
			return arch, err
		}
		if _, dup := arch.Moves[move.Name]; dup {
			return arch, fmt.Errorf("move %q defined twice", move.Name)
		}
		arch.Moves[move.Name] = move
	}

	// Phases.
	phases, err := list(getTable(tbl, "phases"), "phases")
	if err != nil {
		return arch, err
	}
	for i, p := range phases {
		phase, err := compilePhase(p)
		if err != nil {
			return arch, fmt.Errorf("phase %d: %w", i+1, err)
		}
		arch.Phases = append(arch.Phases, phase)
	}
	return arch, nil
}

func compileMove(tbl *lua.LTable) (types.MoveDef, error) {
	name := getString(tbl, "__move")
	if name == "" {
		return types.MoveDef{}, fmt.Errorf("moves entries must be built with Move \"Name\" { ... }")
	}
	m := types.MoveDef{
		Name:        name,
		Telegraphed: getBool(tbl, "telegraphed", false),
		Description: getString(tbl, "description"),
	}
	m.Power, _ = getInt(tbl, "power")
	m.Cost, _ = getInt(tbl, "cost")
	el, err := element(getString(tbl, "element"))
	if err != nil {
		return m, fmt.Errorf("move %s: %w", name, err)
	}
	m.Element = el

	effs, err := list(getTable(tbl, "effects"), "effects")
	if err != nil {
		return m, fmt.Errorf("move %s: %w", name, err)
	}
	for _, e := range effs {
		switch typ := getString(e, "type"); typ {
		case "apply_status":
			g, err := compileGrant(e)
			if err != nil {
				return m, fmt.Errorf("move %s: %w", name, err)
			}
			m.Inflict = append(m.Inflict, g)
		case "grant_status":
			g, err := compileGrant(e)
			if err != nil {
				return m, fmt.Errorf("move %s: %w", name, err)
			}
			m.SelfStatus = append(m.SelfStatus, g)
		case "grant_element":
			el, err := element(getString(e, "element"))
			if err != nil {
				return m, fmt.Errorf("move %s: %w", name, err)
			}
			turns, _ := getInt(e, "turns")
			if turns <= 0 {
				return m, fmt.Errorf("move %s: GrantElement needs a positive turn count", name)
			}
			m.GrantElement = el
			m.GrantTurns = turns
		default:
			return m, fmt.Errorf("move %s: unsupported effect %q", name, typ)
		}
	}
	return m, nil
}

func compilePhase(tbl *lua.LTable) (types.PhaseDef, error) {
	if !getBool(tbl, "__phase", false) {
		return types.PhaseDef{}, fmt.Errorf("phases entries must be built with Phase { ... }")
	}
	var p types.PhaseDef
	p.Above, _ = getInt(tbl, "above")
	p.Lifesteal, _ = getInt(tbl, "lifesteal")

	// Entry effects.
	enter, err := list(getTable(tbl, "enter"), "enter")
	if err != nil {
		return p, err
	}
	for _, e := range enter {
		switch typ := getString(e, "type"); typ {
		case "grant_element":
			el, err := element(getString(e, "element"))
			if err != nil {
				return p, err
			}
			p.EnterElement = el
		case "grant_status":
			g, err := compileGrant(e)
			if err != nil {
				return p, err
			}
			p.EnterStatus = append(p.EnterStatus, g)
		default:
			return p, fmt.Errorf("unsupported phase entry %q", typ)
		}
	}

	// Weighted actions are the array part of the phase table.
	weights, err := list(tbl, "phase")
	if err != nil {
		return p, err
	}
	for _, w := range weights {
		if getString(w, "type") != "weight" {
			return p, fmt.Errorf("phase entries must be Weight(\"Move\", n)")
		}
		n, _ := getInt(w, "weight")
		p.Actions = append(p.Actions, types.PhaseWeight{Move: getString(w, "move"), Weight: n})
	}
	return p, nil
}

func compileGrant(tbl *lua.LTable) (types.StatusGrant, error) {
	name := getString(tbl, "ailment")
	a, ok := rules.ParseAilment(name)
	if !ok {
		return types.StatusGrant{}, fmt.Errorf("unknown ailment %q", name)
	}
	g := types.StatusGrant{Ailment: a}
	g.Duration, _ = getInt(tbl, "duration")
	g.Magnitude, _ = getInt(tbl, "magnitude")
	g.Chance, _ = getInt(tbl, "chance")
	return g, nil
}

// element parses an element name; empty means Neutral.
func element(s string) (types.Element, error) {
	if s == "" {
		return types.Neutral, nil
	}
	el, ok := rules.ParseElement(s)
	if !ok {
		return "", fmt.Errorf("unknown element %q", s)
	}
	return el, nil
}
