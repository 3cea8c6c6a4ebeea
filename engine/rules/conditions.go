package rules

import (
	"strconv"
	"strings"

	"github.com/nathoo/btarena/engine/resolve"
	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// Condition names, in their canonical spelling. Lookup is case-insensitive.
var conditionNames = []string{
	"IsPlayerHPLow", "IsPlayerHPHigh",
	"IsEnemyHPLow", "IsEnemyHPHigh",
	"HasMP", "CanHeal",
	"EnemyHasElement", "EnemyWeakTo",
	"HasScannedEnemy", "IsScanned",
	"EnemyHasBuff", "HasStatus",
	"EnemyIsTelegraphing", "EnemyWillUse",
	"EnemyLastAction", "EnemyUsedRecently",
	"IsTurnEarly",
}

// ConditionNames returns the closed condition vocabulary.
func ConditionNames() []string {
	out := make([]string, len(conditionNames))
	copy(out, conditionNames)
	return out
}

// IsCondition reports whether name is a known condition.
func IsCondition(name string) bool {
	for _, n := range conditionNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// EvalCondition evaluates a single condition against the current state.
// Unknown names and malformed arguments evaluate to false, and so does
// their negation.
func EvalCondition(c types.Call, s *types.CombatState, defs *state.Defs) bool {
	result, known := evalCall(c, s, defs)
	if !known {
		return false
	}
	if c.Negate {
		return !result
	}
	return result
}

// EvalText parses and evaluates condition text such as "HasMP(20)".
func EvalText(text string, s *types.CombatState, defs *state.Defs) bool {
	c, err := resolve.Call(text)
	if err != nil {
		return false
	}
	return EvalCondition(c, s, defs)
}

func evalCall(c types.Call, s *types.CombatState, defs *state.Defs) (result, known bool) {
	switch strings.ToLower(c.Name) {
	case "isplayerhplow":
		n, ok := intArg(c.Arg, 30)
		return state.HPPercent(s.Player) < float64(n), ok

	case "isplayerhphigh":
		n, ok := intArg(c.Arg, 70)
		return state.HPPercent(s.Player) > float64(n), ok

	case "isenemyhplow":
		n, ok := intArg(c.Arg, 30)
		pct, alive := state.EnemyHPPercent(s)
		return alive && pct < float64(n), ok

	case "isenemyhphigh":
		n, ok := intArg(c.Arg, 70)
		pct, alive := state.EnemyHPPercent(s)
		return alive && pct > float64(n), ok

	case "hasmp":
		n, ok := intArg(c.Arg, 20)
		return s.PlayerMP.Current >= n, ok

	case "canheal":
		cost := 0
		if heal, ok := defs.Action(types.ActionHeal); ok {
			cost = heal.Cost
		}
		return s.HealCooldown == 0 && s.PlayerMP.Current >= cost, true

	case "enemyhaselement":
		el, ok := ParseElement(c.Arg)
		return ok && s.Enemy != nil && s.Enemy.Element == el, ok

	case "enemyweakto":
		el, ok := ParseElement(c.Arg)
		return ok && s.Scanned && s.Enemy != nil && state.Counter(s.Enemy.Element) == el, ok

	case "hasscannedenemy", "isscanned":
		return s.Scanned, true

	case "enemyhasbuff":
		a, ok := ParseAilment(c.Arg)
		return ok && state.HasStatus(s.EnemyStatus, a), ok

	case "hasstatus":
		a, ok := ParseAilment(c.Arg)
		return ok && state.HasStatus(s.PlayerStatus, a), ok

	case "enemyistelegraphing", "enemywilluse":
		if c.Arg == "" || strings.EqualFold(c.Arg, "any") {
			return s.Telegraph != "", true
		}
		return sameName(s.Telegraph, c.Arg), true

	case "enemylastaction":
		return sameName(s.LastEnemyAction, c.Arg), c.Arg != ""

	case "enemyusedrecently":
		for _, a := range s.History {
			if sameName(a, c.Arg) {
				return true, true
			}
		}
		return false, c.Arg != ""

	case "isturnearly":
		n, ok := intArg(c.Arg, 3)
		return s.Turn+1 <= n, ok

	default:
		return false, false
	}
}

// intArg parses an integer argument, returning def when the argument is
// empty. The bool is false for a malformed argument.
func intArg(arg string, def int) (int, bool) {
	if arg == "" {
		return def, true
	}
	n, err := strconv.Atoi(strings.TrimSuffix(arg, "%"))
	if err != nil {
		return 0, false
	}
	return n, true
}
