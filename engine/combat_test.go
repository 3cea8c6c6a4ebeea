package engine

import (
	"testing"

	"github.com/nathoo/btarena/engine/effects"
	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

func TestElementMultiplier(t *testing.T) {
	tests := []struct {
		attack, defender types.Element
		want             float64
	}{
		{types.Ice, types.Fire, 1.5},
		{types.Fire, types.Ice, 1.5},
		{types.Fire, types.Fire, 1.0},
		{types.Ice, types.Ice, 1.0},
		{types.Neutral, types.Fire, 1.0},
		{types.Fire, types.Neutral, 1.0},
		{types.Neutral, types.Neutral, 1.0},
		{"", types.Fire, 1.0},
	}
	for _, tt := range tests {
		if got := ElementMultiplier(tt.attack, tt.defender); got != tt.want {
			t.Errorf("ElementMultiplier(%q, %q) = %v, want %v", tt.attack, tt.defender, got, tt.want)
		}
	}
}

func effectsCtx(source string) effects.Context {
	return effects.Context{Actor: "enemy", Source: source}
}

func damageState(t *testing.T) *types.CombatState {
	t.Helper()
	s, err := state.NewState(state.DefaultDefs(), "FireGolem")
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

func TestComputeDamage(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(s *types.CombatState)
		power  int
		el     types.Element
		want   int
		charge bool
	}{
		{"plain", nil, 14, types.Neutral, 9, false},
		{"counter element", func(s *types.CombatState) { s.Enemy.Element = types.Fire }, 15, types.Ice, 17, false},
		{"charged", func(s *types.CombatState) {
			s.PlayerStatus = []types.StatusEffect{{Ailment: types.Charged, Duration: 1}}
		}, 14, types.Neutral, 23, true},
		{"power boost", func(s *types.CombatState) {
			s.PlayerStatus = []types.StatusEffect{{Ailment: types.PowerBoost, Duration: 2, Magnitude: 50}}
		}, 14, types.Neutral, 16, false},
		{"attack down", func(s *types.CombatState) {
			s.PlayerStatus = []types.StatusEffect{{Ailment: types.AttackDown, Duration: 3, Magnitude: 20}}
		}, 15, types.Neutral, 7, false},
		{"defender stance", func(s *types.CombatState) {
			s.EnemyStatus = []types.StatusEffect{{Ailment: types.Defending, Duration: 2, Magnitude: 50}}
		}, 30, types.Neutral, 10, false},
		{"armor floors at zero", func(s *types.CombatState) { s.Enemy.Defense = 100 }, 14, types.Neutral, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := damageState(t)
			if tt.setup != nil {
				tt.setup(s)
			}
			hit := ComputeDamage(s, "player", tt.power, tt.el, &scripted{})
			if hit.Damage != tt.want {
				t.Errorf("Damage = %d, want %d", hit.Damage, tt.want)
			}
			if hit.ConsumedCharge != tt.charge {
				t.Errorf("ConsumedCharge = %v, want %v", hit.ConsumedCharge, tt.charge)
			}
		})
	}
}

func TestComputeDamage_EnemyEnrage(t *testing.T) {
	s := damageState(t)
	s.EnemyStatus = []types.StatusEffect{{Ailment: types.Enrage, Duration: 999, Magnitude: 50}}
	// atk 15 -> 22, 18*22/15 = 26.4 -> 26, minus 5.
	hit := ComputeDamage(s, "enemy", 18, types.Neutral, &scripted{})
	if hit.Damage != 21 {
		t.Errorf("Damage = %d, want 21", hit.Damage)
	}
}

func TestComputeDamage_ParalysisMiss(t *testing.T) {
	s := damageState(t)
	s.PlayerStatus = []types.StatusEffect{{Ailment: types.Paralyze, Duration: 2}}

	hit := ComputeDamage(s, "player", 14, types.Neutral, &scripted{chances: []bool{true}})
	if !hit.Missed || hit.Damage != 0 {
		t.Errorf("hit = %+v, want a miss", hit)
	}
	hit = ComputeDamage(s, "player", 14, types.Neutral, &scripted{chances: []bool{false}})
	if hit.Missed || hit.Damage != 9 {
		t.Errorf("hit = %+v, want 9 damage", hit)
	}
}

func TestComputeDamage_NoTarget(t *testing.T) {
	s := damageState(t)
	s.Enemy = nil
	if hit := ComputeDamage(s, "player", 14, types.Neutral, &scripted{}); hit.Damage != 0 {
		t.Errorf("Damage = %d against a defeated enemy", hit.Damage)
	}
}

func TestActivePhase(t *testing.T) {
	golem := state.FireGolem()
	tests := []struct {
		hp   float64
		want int
	}{
		{100, 0},
		{50.5, 0},
		{50, 1},
		{26, 1},
		{25, 2},
		{0, 2},
	}
	for _, tt := range tests {
		if got := ActivePhase(golem, tt.hp); got != tt.want {
			t.Errorf("ActivePhase(%v) = %d, want %d", tt.hp, got, tt.want)
		}
	}
}

func TestSelectEnemyAction_EntryEffectsOnce(t *testing.T) {
	s := damageState(t)
	golem := state.FireGolem()
	s.Enemy.CurrentHealth = 20 // final phase

	move, effs := SelectEnemyAction(s, golem, &scripted{picks: []int{1}})
	if move != "FlameStrike" {
		t.Errorf("move = %q, want FlameStrike", move)
	}
	var sawEnter, sawEnrage bool
	for _, e := range effs {
		switch e.Type {
		case "enter_phase":
			sawEnter = e.Params["phase"] == 2
		case "add_status":
			sawEnrage = e.Params["ailment"] == types.Enrage
		}
	}
	if !sawEnter || !sawEnrage {
		t.Errorf("entry effects = %+v", effs)
	}

	s.PhasesEntered[2] = true
	if _, effs := SelectEnemyAction(s, golem, &scripted{}); len(effs) != 0 {
		t.Errorf("second selection returned entry effects %+v", effs)
	}
}

func TestEnemyAction_InsufficientMP(t *testing.T) {
	e := newEngine(t, "FireGolem", &scripted{}, "")
	e.State.EnemyMP.Current = 5

	report, effs, lifesteal := e.enemyAction("HeavySlam")
	if report.Success || lifesteal != 0 {
		t.Errorf("report = %+v lifesteal %d, want a failed move", report, lifesteal)
	}
	for _, eff := range effs {
		if eff.Type == "damage" || eff.Type == "spend_mp" {
			t.Errorf("unexpected effect %q", eff.Type)
		}
	}
	e.apply(&types.TurnResult{}, effs, effectsCtx("HeavySlam"))
	if e.State.EnemyMP.Current != 5 {
		t.Errorf("enemy MP = %d, want 5", e.State.EnemyMP.Current)
	}
	if got := e.State.History; len(got) != 1 || got[0] != "HeavySlam" {
		t.Errorf("History = %v, want the attempted move", got)
	}
}

func TestEnemyAction_FrostAuraFreezes(t *testing.T) {
	e := newEngine(t, "IceWraith", &scripted{chances: []bool{true}}, "")
	e.State.EnemyStatus = []types.StatusEffect{{Ailment: types.FrostAura, Duration: 999}}

	_, effs, _ := e.enemyAction("FrostTouch")
	e.apply(&types.TurnResult{}, effs, effectsCtx("FrostTouch"))
	if !state.HasStatus(e.State.PlayerStatus, types.Freeze) {
		t.Error("FrostAura hit did not freeze the player")
	}
}

func TestPlayerAction_UnknownAction(t *testing.T) {
	e := newEngine(t, "FireGolem", &scripted{}, "")
	report, effs := e.playerAction("Teleport")
	if report.Success || len(effs) != 1 {
		t.Errorf("report = %+v effects %d", report, len(effs))
	}
}

func TestPlayerAction_ScanMessage(t *testing.T) {
	e := newEngine(t, "FireGolem", &scripted{}, "")
	e.State.Enemy.Element = types.Fire
	report, _ := e.playerAction(types.ActionScan)
	if want := "Scanned! Enemy is FireGolem (Weak to Ice)."; report.Message != want {
		t.Errorf("Message = %q, want %q", report.Message, want)
	}
}
