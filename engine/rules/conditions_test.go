package rules

import (
	"testing"

	"github.com/nathoo/btarena/types"
)

func TestEvalText(t *testing.T) {
	s, defs := testState(t)
	s.Player.CurrentHealth = 25
	s.PlayerMP.Current = 20
	s.Enemy.CurrentHealth = 45 // 25% of 180
	s.Enemy.Element = types.Fire
	s.Turn = 2
	s.Telegraph = "HeavySlam"
	s.LastEnemyAction = "Slam"
	s.History = []string{"Slam", "FlameStrike", "Slam"}
	s.EnemyStatus = []types.StatusEffect{{Ailment: types.Enrage, Duration: 999, Magnitude: 50}}
	s.PlayerStatus = []types.StatusEffect{{Ailment: types.Burn, Duration: 2, Magnitude: 10}}

	tests := []struct {
		cond string
		want bool
	}{
		{"IsPlayerHPLow(30)", true},
		{"IsPlayerHPLow(25)", false},
		{"IsPlayerHPLow()", true},
		{"IsPlayerHPHigh(20)", true},
		{"IsPlayerHPHigh()", false},
		{"IsEnemyHPLow(30)", true},
		{"IsEnemyHPHigh(50)", false},
		{"HasMP(20)", true},
		{"HasMP(21)", false},
		{"HasMP(abc)", false},
		{"NOT HasMP(abc)", false},
		{"CanHeal()", false},
		{"EnemyHasElement(Fire)", true},
		{"EnemyHasElement(fire)", true},
		{"EnemyHasElement(Ice)", false},
		{"EnemyHasElement(Lightning)", false},
		{"EnemyWeakTo(Ice)", false},
		{"HasScannedEnemy()", false},
		{"NOT HasScannedEnemy()", true},
		{"EnemyHasBuff(Enrage)", true},
		{"EnemyHasBuff(Rage)", false},
		{"HasStatus(Burn)", true},
		{"HasStatus(Freeze)", false},
		{"EnemyIsTelegraphing(HeavySlam)", true},
		{"EnemyIsTelegraphing(heavyslam)", true},
		{"EnemyIsTelegraphing(FlameStrike)", false},
		{"EnemyIsTelegraphing()", true},
		{"EnemyWillUse(HeavySlam)", true},
		{"EnemyLastAction(Slam)", true},
		{"EnemyUsedRecently(FlameStrike)", true},
		{"EnemyUsedRecently(HeavySlam)", false},
		{"IsTurnEarly(3)", true},
		{"IsTurnEarly(2)", false},
		{"Not(IsTurnEarly(2))", true},
		{"UnknownThing()", false},
		{"broken(", false},
	}
	for _, tt := range tests {
		if got := EvalText(tt.cond, s, defs); got != tt.want {
			t.Errorf("EvalText(%q) = %v, want %v", tt.cond, got, tt.want)
		}
	}
}

func TestEvalText_CanHeal(t *testing.T) {
	s, defs := testState(t)
	tests := []struct {
		cooldown, mp int
		want         bool
	}{
		{0, 30, true},
		{0, 29, false},
		{1, 100, false},
	}
	for _, tt := range tests {
		s.HealCooldown, s.PlayerMP.Current = tt.cooldown, tt.mp
		if got := EvalText("CanHeal()", s, defs); got != tt.want {
			t.Errorf("CanHeal with cooldown %d mp %d = %v, want %v", tt.cooldown, tt.mp, got, tt.want)
		}
	}
}

func TestEvalText_EnemyWeakToNeedsScan(t *testing.T) {
	s, defs := testState(t)
	s.Enemy.Element = types.Ice
	if EvalText("EnemyWeakTo(Fire)", s, defs) {
		t.Error("EnemyWeakTo(Fire) = true before scanning")
	}
	s.Scanned = true
	if !EvalText("EnemyWeakTo(Fire)", s, defs) {
		t.Error("EnemyWeakTo(Fire) = false after scanning an Ice enemy")
	}
	if EvalText("EnemyWeakTo(Ice)", s, defs) {
		t.Error("EnemyWeakTo(Ice) = true for an Ice enemy")
	}
}

func TestEvalText_DefeatedEnemy(t *testing.T) {
	s, defs := testState(t)
	s.Enemy = nil
	for _, c := range []string{"IsEnemyHPLow(100)", "IsEnemyHPHigh(0)", "EnemyHasElement(Neutral)"} {
		if EvalText(c, s, defs) {
			t.Errorf("%s = true with no enemy", c)
		}
	}
}

func TestIsCondition(t *testing.T) {
	for _, name := range ConditionNames() {
		if !IsCondition(name) {
			t.Errorf("IsCondition(%q) = false", name)
		}
	}
	if !IsCondition("hasmp") {
		t.Error("IsCondition is case-sensitive")
	}
	if IsCondition("IsMoonFull") {
		t.Error("IsCondition(IsMoonFull) = true")
	}
}

func TestParseElementAndAilment(t *testing.T) {
	if e, ok := ParseElement("ICE"); !ok || e != types.Ice {
		t.Errorf("ParseElement(ICE) = (%q, %v)", e, ok)
	}
	if a, ok := ParseAilment("attack_down"); !ok || a != types.AttackDown {
		t.Errorf("ParseAilment(attack_down) = (%q, %v)", a, ok)
	}
	if _, ok := ParseAilment("Poison"); ok {
		t.Error("ParseAilment(Poison) ok = true")
	}
}
