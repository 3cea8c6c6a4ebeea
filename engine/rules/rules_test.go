package rules

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/btarena/engine/parser"
	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

func testState(t *testing.T) (*types.CombatState, *state.Defs) {
	t.Helper()
	defs := state.DefaultDefs()
	s, err := state.NewState(defs, "FireGolem")
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s, defs
}

func mustParse(t *testing.T, text string) *types.Node {
	t.Helper()
	root, err := parser.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return root
}

func TestExecute_TrivialSelectorAlwaysAttacks(t *testing.T) {
	root := mustParse(t, "root :\n    selector :\n        task : Attack()\n")
	s, defs := testState(t)

	variants := []func(){
		func() {},
		func() { s.Player.CurrentHealth = 1 },
		func() { s.PlayerMP.Current = 0 },
		func() { s.Telegraph = "HeavySlam" },
		func() { s.Enemy.Element = types.Fire; s.Scanned = true },
		func() { s.Turn = 30; s.HealCooldown = 3 },
	}
	for i, mutate := range variants {
		mutate()
		d := Execute(root, s, defs)
		if !d.OK || d.Action != types.ActionAttack {
			t.Errorf("variant %d: Execute = (%q, %v), want (Attack, true)", i, d.Action, d.OK)
		}
	}
}

func TestExecute_HealFirstWhenLow(t *testing.T) {
	root := mustParse(t, `root :
    selector :
        sequence :
            condition : IsPlayerHPLow(30)
            condition : CanHeal()
            task : Heal()
        task : Attack()
`)
	s, defs := testState(t)
	s.Player.CurrentHealth = 10
	s.HealCooldown = 0
	s.PlayerMP.Current = 50

	d := Execute(root, s, defs)
	if d.Action != types.ActionHeal {
		t.Errorf("Action = %q, want Heal", d.Action)
	}

	s.HealCooldown = 2
	d = Execute(root, s, defs)
	if d.Action != types.ActionAttack {
		t.Errorf("on cooldown: Action = %q, want Attack", d.Action)
	}
}

func TestExecute_DefendAgainstTelegraph(t *testing.T) {
	root := mustParse(t, `root :
    selector :
        sequence :
            condition : EnemyIsTelegraphing(HeavySlam)
            task : Defend()
        task : Attack()
`)
	s, defs := testState(t)
	s.Telegraph = "HeavySlam"
	if d := Execute(root, s, defs); d.Action != types.ActionDefend {
		t.Errorf("Action = %q, want Defend", d.Action)
	}
	s.Telegraph = ""
	if d := Execute(root, s, defs); d.Action != types.ActionAttack {
		t.Errorf("no telegraph: Action = %q, want Attack", d.Action)
	}
}

func TestExecute_SequenceShortCircuit(t *testing.T) {
	root := mustParse(t, `root :
    selector :
        sequence :
            condition : IsPlayerHPLow(30)
            condition : HasMP(10)
            task : Heal()
        task : Attack()
`)
	s, defs := testState(t)
	before := *s
	beforeStatus := append([]types.StatusEffect(nil), s.PlayerStatus...)
	beforeEnemy := *s.Enemy

	d := Execute(root, s, defs)
	if d.Action != types.ActionAttack {
		t.Fatalf("Action = %q, want Attack", d.Action)
	}
	for _, line := range d.Trace {
		if strings.Contains(line, "HasMP") || strings.Contains(line, "Heal()") {
			t.Errorf("trace visited a node after the failing condition: %q", line)
		}
	}

	after := *s
	after.Enemy, before.Enemy = nil, nil
	if !reflect.DeepEqual(before, after) {
		t.Error("Execute mutated the combat state")
	}
	if *s.Enemy != beforeEnemy {
		t.Error("Execute mutated the enemy")
	}
	if !reflect.DeepEqual(beforeStatus, s.PlayerStatus) {
		t.Error("Execute mutated player statuses")
	}
}

func TestExecute_NonFinalCompositeFailureAborts(t *testing.T) {
	root := mustParse(t, `root :
    selector :
        sequence :
            selector :
                sequence :
                    condition : HasScannedEnemy()
                    task : Scan()
            task : Charge()
        task : Attack()
`)
	s, defs := testState(t)
	if d := Execute(root, s, defs); d.Action != types.ActionAttack {
		t.Errorf("Action = %q, want Attack (inner selector failed)", d.Action)
	}
	s.Scanned = true
	if d := Execute(root, s, defs); d.Action != types.ActionCharge {
		t.Errorf("Action = %q, want Charge (last task wins)", d.Action)
	}
}

func TestExecute_FinalTaskFailureKeepsEarlierResult(t *testing.T) {
	root := mustParse(t, `root :
    sequence :
        task : Defend()
        task : Teleport()
`)
	s, defs := testState(t)
	d := Execute(root, s, defs)
	if !d.OK || d.Action != types.ActionDefend {
		t.Errorf("Execute = (%q, %v), want (Defend, true)", d.Action, d.OK)
	}
}

func TestExecute_UnknownNamesFail(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.ActionID
		ok   bool
	}{
		{
			"unknown condition gates",
			"root :\n    selector :\n        sequence :\n            condition : IsMoonFull()\n            task : Heal()\n        task : Attack()\n",
			types.ActionAttack, true,
		},
		{
			"negated unknown condition still fails",
			"root :\n    selector :\n        sequence :\n            condition : NOT IsMoonFull()\n            task : Heal()\n        task : Attack()\n",
			types.ActionAttack, true,
		},
		{
			"unknown action falls through",
			"root :\n    selector :\n        task : Teleport()\n        task : Defend()\n",
			types.ActionDefend, true,
		},
		{
			"all unknown yields none",
			"root :\n    selector :\n        task : Teleport()\n",
			"", false,
		},
		{
			"standalone condition is inert",
			"root :\n    selector :\n        condition : HasMP(0)\n        task : Scan()\n",
			types.ActionScan, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, defs := testState(t)
			d := Execute(mustParse(t, tt.text), s, defs)
			if d.Action != tt.want || d.OK != tt.ok {
				t.Errorf("Execute = (%q, %v), want (%q, %v)", d.Action, d.OK, tt.want, tt.ok)
			}
		})
	}
}

func TestExecute_Deterministic(t *testing.T) {
	root := mustParse(t, `root :
    selector :
        sequence :
            condition : EnemyHasElement(Fire)
            task : IceSpell()
        task : FireSpell()
`)
	s, defs := testState(t)
	s.Enemy.Element = types.Fire
	first := Execute(root, s, defs)
	for i := 0; i < 10; i++ {
		d := Execute(root, s, defs)
		if d.Action != first.Action || !reflect.DeepEqual(d.Trace, first.Trace) {
			t.Fatalf("run %d diverged: %q vs %q", i, d.Action, first.Action)
		}
	}
	if first.Action != types.ActionIceSpell {
		t.Errorf("Action = %q, want IceSpell", first.Action)
	}
}

func TestResolveAction(t *testing.T) {
	tests := []struct {
		in   string
		want types.ActionID
		ok   bool
	}{
		{"Attack()", types.ActionAttack, true},
		{"attack", types.ActionAttack, true},
		{"LightAttack()", types.ActionAttack, true},
		{"PowerStrike()", types.ActionCharge, true},
		{"HeavyAttack", types.ActionCharge, true},
		{"Fire_Spell()", types.ActionFireSpell, true},
		{"IceSpell()", types.ActionIceSpell, true},
		{"Cleanse()", types.ActionCleanse, true},
		{"NOT Attack()", "", false},
		{"LightningSpell()", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveAction(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveAction(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
