package rules

import (
	"strings"

	"github.com/nathoo/btarena/types"
)

var elements = map[string]types.Element{
	"fire":    types.Fire,
	"ice":     types.Ice,
	"neutral": types.Neutral,
	"none":    types.Neutral,
}

var ailments = map[string]types.Ailment{
	"burn":       types.Burn,
	"freeze":     types.Freeze,
	"frozen":     types.Freeze,
	"paralyze":   types.Paralyze,
	"attackdown": types.AttackDown,
	"defending":  types.Defending,
	"defend":     types.Defending,
	"rage":       types.Rage,
	"ragebuff":   types.Rage,
	"enrage":     types.Enrage,
	"frostaura":  types.FrostAura,
	"charged":    types.Charged,
	"powerboost": types.PowerBoost,
}

// actionAliases maps every accepted action spelling, including legacy
// names from older tree generations, to its action.
var actionAliases = map[string]types.ActionID{
	"attack":      types.ActionAttack,
	"lightattack": types.ActionAttack,
	"charge":      types.ActionCharge,
	"powerstrike": types.ActionCharge,
	"heavyattack": types.ActionCharge,
	"firespell":   types.ActionFireSpell,
	"icespell":    types.ActionIceSpell,
	"defend":      types.ActionDefend,
	"heal":        types.ActionHeal,
	"scan":        types.ActionScan,
	"cleanse":     types.ActionCleanse,
}

// fold lower-cases s and drops separators so "Attack_Down", "attack-down"
// and "AttackDown" compare equal.
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// ParseElement matches an element name case-insensitively.
func ParseElement(s string) (types.Element, bool) {
	e, ok := elements[fold(s)]
	return e, ok
}

// ParseAilment matches an ailment name case-insensitively.
func ParseAilment(s string) (types.Ailment, bool) {
	a, ok := ailments[fold(s)]
	return a, ok
}

// ParseAction matches an action name or legacy alias case-insensitively.
func ParseAction(s string) (types.ActionID, bool) {
	a, ok := actionAliases[fold(s)]
	return a, ok
}

// sameName compares move names case-insensitively.
func sameName(a, b string) bool {
	return a != "" && fold(a) == fold(b)
}
