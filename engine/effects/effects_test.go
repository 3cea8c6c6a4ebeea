package effects

import (
	"testing"

	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

func testSetup(t *testing.T) (*types.CombatState, Context) {
	t.Helper()
	s, err := state.NewState(state.DefaultDefs(), "IceWraith")
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s, Context{Actor: "player", Source: "test"}
}

func findEvent(events []types.Event, typ string) (types.Event, bool) {
	for _, e := range events {
		if e.Type == typ {
			return e, true
		}
	}
	return types.Event{}, false
}

func TestApply_Say(t *testing.T) {
	s, ctx := testSetup(t)
	_, out := Apply(s, []types.Effect{{Type: "say", Params: map[string]any{"text": "hello"}}}, ctx)
	if len(out) != 1 || out[0] != "hello" {
		t.Errorf("output = %v, want [hello]", out)
	}
}

func TestApply_SpendAndGainMP(t *testing.T) {
	s, ctx := testSetup(t)
	s.PlayerMP.Current = 50

	Apply(s, []types.Effect{{Type: "spend_mp", Params: map[string]any{"target": "player", "amount": 20}}}, ctx)
	if s.PlayerMP.Current != 30 {
		t.Errorf("after spend MP = %d, want 30", s.PlayerMP.Current)
	}

	Apply(s, []types.Effect{{Type: "spend_mp", Params: map[string]any{"target": "player", "amount": 100}}}, ctx)
	if s.PlayerMP.Current != 0 {
		t.Errorf("overspend MP = %d, want clamp to 0", s.PlayerMP.Current)
	}

	evts, _ := Apply(s, []types.Effect{{Type: "gain_mp", Params: map[string]any{"target": "player", "amount": 500}}}, ctx)
	if s.PlayerMP.Current != s.PlayerMP.Max {
		t.Errorf("gain MP = %d, want clamp to %d", s.PlayerMP.Current, s.PlayerMP.Max)
	}
	e, ok := findEvent(evts, "mp_gained")
	if !ok || e.Data["amount"] != s.PlayerMP.Max {
		t.Errorf("mp_gained = %+v, want amount %d", e, s.PlayerMP.Max)
	}
}

func TestApply_Regen(t *testing.T) {
	s, ctx := testSetup(t)
	s.PlayerMP.Current = 97
	s.EnemyMP.Current = 10
	Apply(s, []types.Effect{
		{Type: "regen", Params: map[string]any{"target": "player"}},
		{Type: "regen", Params: map[string]any{"target": "enemy"}},
	}, ctx)
	if s.PlayerMP.Current != 100 {
		t.Errorf("player MP = %d, want 100 (capped)", s.PlayerMP.Current)
	}
	if s.EnemyMP.Current != 20 {
		t.Errorf("enemy MP = %d, want 20", s.EnemyMP.Current)
	}
}

func TestApply_DamageClampsAndReportsDefeat(t *testing.T) {
	s, ctx := testSetup(t)
	s.Enemy.CurrentHealth = 15

	evts, _ := Apply(s, []types.Effect{{Type: "damage", Params: map[string]any{"target": "enemy", "amount": 40}}}, ctx)
	if s.Enemy.CurrentHealth != 0 {
		t.Errorf("enemy HP = %d, want 0", s.Enemy.CurrentHealth)
	}
	dealt, ok := findEvent(evts, "damage_dealt")
	if !ok || dealt.Data["amount"] != 15 {
		t.Errorf("damage_dealt = %+v, want amount 15", dealt)
	}
	if _, ok := findEvent(evts, "defeated"); !ok {
		t.Error("no defeated event")
	}
}

func TestApply_DamageAbsentEnemy(t *testing.T) {
	s, ctx := testSetup(t)
	s.Enemy = nil
	evts, _ := Apply(s, []types.Effect{{Type: "damage", Params: map[string]any{"target": "enemy", "amount": 10}}}, ctx)
	if len(evts) != 0 {
		t.Errorf("events = %v, want none", evts)
	}
}

func TestApply_HealClamps(t *testing.T) {
	s, ctx := testSetup(t)
	s.Player.CurrentHealth = 80
	evts, _ := Apply(s, []types.Effect{{Type: "heal", Params: map[string]any{"target": "player", "amount": 40}}}, ctx)
	if s.Player.CurrentHealth != 100 {
		t.Errorf("HP = %d, want 100", s.Player.CurrentHealth)
	}
	e, _ := findEvent(evts, "healed")
	if e.Data["amount"] != 20 {
		t.Errorf("healed amount = %v, want 20", e.Data["amount"])
	}
}

func TestApply_AddStatusReplaces(t *testing.T) {
	s, ctx := testSetup(t)
	add := func(d, m int) {
		Apply(s, []types.Effect{{Type: "add_status", Params: map[string]any{
			"target": "enemy", "ailment": types.Burn, "duration": d, "magnitude": m,
		}}}, ctx)
	}
	add(3, 5)
	add(2, 9)
	if len(s.EnemyStatus) != 1 {
		t.Fatalf("statuses = %v, want exactly one", s.EnemyStatus)
	}
	if got := s.EnemyStatus[0]; got.Duration != 2 || got.Magnitude != 9 {
		t.Errorf("Burn = %+v, want duration 2 magnitude 9", got)
	}
}

func TestApply_RemoveStatus(t *testing.T) {
	s, ctx := testSetup(t)
	s.PlayerStatus = []types.StatusEffect{{Ailment: types.Defending, Duration: 1, Magnitude: 50}}
	evts, _ := Apply(s, []types.Effect{{Type: "remove_status", Params: map[string]any{"target": "player", "ailment": types.Defending}}}, ctx)
	if len(s.PlayerStatus) != 0 {
		t.Errorf("statuses = %v, want none", s.PlayerStatus)
	}
	if _, ok := findEvent(evts, "status_removed"); !ok {
		t.Error("no status_removed event")
	}

	evts, _ = Apply(s, []types.Effect{{Type: "remove_status", Params: map[string]any{"target": "player", "ailment": types.Defending}}}, ctx)
	if len(evts) != 0 {
		t.Errorf("removing absent status emitted %v", evts)
	}
}

func TestApply_TickStatus(t *testing.T) {
	s, ctx := testSetup(t)
	s.Player.CurrentHealth = 50
	s.PlayerStatus = []types.StatusEffect{
		{Ailment: types.Burn, Duration: 1, Magnitude: 10},
		{Ailment: types.AttackDown, Duration: 3, Magnitude: 20},
	}

	evts, _ := Apply(s, []types.Effect{{Type: "tick_status", Params: map[string]any{"target": "player"}}}, ctx)

	if s.Player.CurrentHealth != 40 {
		t.Errorf("HP = %d, want 40 after burn tick", s.Player.CurrentHealth)
	}
	if state.HasStatus(s.PlayerStatus, types.Burn) {
		t.Error("Burn should have expired")
	}
	down, ok := state.FindStatus(s.PlayerStatus, types.AttackDown)
	if !ok || down.Duration != 2 {
		t.Errorf("AttackDown = %+v, want duration 2", down)
	}
	tick, ok := findEvent(evts, "dot_tick")
	if !ok || tick.Data["amount"] != 10 {
		t.Errorf("dot_tick = %+v, want amount 10", tick)
	}
	removed, ok := findEvent(evts, "status_removed")
	if !ok || removed.Data["ailment"] != types.Burn {
		t.Errorf("status_removed = %+v, want Burn", removed)
	}
}

func TestApply_BurnIgnoresDefense(t *testing.T) {
	s, ctx := testSetup(t)
	s.Enemy.Defense = 50
	before := s.Enemy.CurrentHealth
	s.EnemyStatus = []types.StatusEffect{{Ailment: types.Burn, Duration: 3, Magnitude: 5}}
	Apply(s, []types.Effect{{Type: "tick_status", Params: map[string]any{"target": "enemy"}}}, ctx)
	if got := before - s.Enemy.CurrentHealth; got != 5 {
		t.Errorf("burn dealt %d, want 5", got)
	}
}

func TestApply_ElementTemporaryAndExpiry(t *testing.T) {
	s, ctx := testSetup(t)
	Apply(s, []types.Effect{{Type: "set_element", Params: map[string]any{"element": types.Ice, "turns": 2}}}, ctx)
	if s.Enemy.Element != types.Ice || s.EnemyElementTurns != 2 {
		t.Fatalf("element = %q turns %d, want Ice 2", s.Enemy.Element, s.EnemyElementTurns)
	}

	tick := []types.Effect{{Type: "element_tick"}}
	Apply(s, tick, ctx)
	if s.Enemy.Element != types.Ice {
		t.Errorf("element after one tick = %q, want Ice", s.Enemy.Element)
	}
	evts, _ := Apply(s, tick, ctx)
	if s.Enemy.Element != types.Neutral {
		t.Errorf("element after expiry = %q, want Neutral", s.Enemy.Element)
	}
	if e, ok := findEvent(evts, "element_changed"); !ok || e.Data["reason"] != "expired" {
		t.Errorf("element_changed = %+v, want reason expired", e)
	}
}

func TestApply_ElementPermanentBecomesBase(t *testing.T) {
	s, ctx := testSetup(t)
	Apply(s, []types.Effect{{Type: "set_element", Params: map[string]any{"element": types.Fire, "turns": 0}}}, ctx)
	Apply(s, []types.Effect{{Type: "set_element", Params: map[string]any{"element": types.Ice, "turns": 1}}}, ctx)
	Apply(s, []types.Effect{{Type: "element_tick"}}, ctx)
	if s.Enemy.Element != types.Fire {
		t.Errorf("element = %q, want revert to permanent Fire", s.Enemy.Element)
	}
}

func TestApply_Cooldown(t *testing.T) {
	s, ctx := testSetup(t)
	Apply(s, []types.Effect{{Type: "set_cooldown", Params: map[string]any{"turns": 3}}}, ctx)
	for i := 0; i < 5; i++ {
		Apply(s, []types.Effect{{Type: "cooldown_tick"}}, ctx)
	}
	if s.HealCooldown != 0 {
		t.Errorf("HealCooldown = %d, want floor 0", s.HealCooldown)
	}
}

func TestApply_ScanAndHistory(t *testing.T) {
	s, ctx := testSetup(t)
	Apply(s, []types.Effect{
		{Type: "scan"},
		{Type: "record_enemy_action", Params: map[string]any{"action": "FrostTouch"}},
		{Type: "enter_phase", Params: map[string]any{"phase": 2}},
	}, ctx)
	if !s.Scanned {
		t.Error("Scanned = false")
	}
	if s.LastEnemyAction != "FrostTouch" || len(s.History) != 1 {
		t.Errorf("history = %v last %q", s.History, s.LastEnemyAction)
	}
	if !s.PhasesEntered[2] {
		t.Error("phase 2 not recorded")
	}
}
