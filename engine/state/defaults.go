package state

import "github.com/nathoo/btarena/types"

// Permanent is the duration used for phase-entry statuses that last for the
// rest of the fight.
const Permanent = 999

// DefaultActions returns the player action table.
func DefaultActions() map[types.ActionID]types.ActionDef {
	return map[types.ActionID]types.ActionDef{
		types.ActionAttack:    {ID: types.ActionAttack, Cost: 0, Power: 14, Element: types.Neutral},
		types.ActionCharge:    {ID: types.ActionCharge, Cost: 15, Power: 12, Element: types.Neutral},
		types.ActionFireSpell: {ID: types.ActionFireSpell, Cost: 20, Power: 12, Element: types.Fire},
		types.ActionIceSpell:  {ID: types.ActionIceSpell, Cost: 20, Power: 15, Element: types.Ice},
		types.ActionDefend:    {ID: types.ActionDefend, Cost: 0},
		types.ActionHeal:      {ID: types.ActionHeal, Cost: 30},
		types.ActionScan:      {ID: types.ActionScan, Cost: 15},
		types.ActionCleanse:   {ID: types.ActionCleanse, Cost: 25},
	}
}

// DefaultPlayer returns the standard player profile.
func DefaultPlayer() types.PlayerProfile {
	return types.PlayerProfile{
		Stats: types.CombatantStats{
			MaxHealth:     100,
			CurrentHealth: 100,
			AttackPower:   15,
			Defense:       5,
			Element:       types.Neutral,
		},
		MP: types.ResourcePool{Current: 100, Max: 100, Regen: 5},
	}
}

// FireGolem is a slow bruiser that turns to fire and then enrages.
func FireGolem() types.ArchetypeDef {
	return types.ArchetypeDef{
		Name:        "FireGolem",
		Description: "A lumbering construct of magma and stone.",
		Stats: types.CombatantStats{
			MaxHealth:     180,
			CurrentHealth: 180,
			AttackPower:   15,
			Defense:       5,
			Element:       types.Neutral,
		},
		MP: types.ResourcePool{Current: 60, Max: 60, Regen: 10},
		Moves: map[string]types.MoveDef{
			"Slam": {Name: "Slam", Power: 18, Element: types.Neutral},
			"HeavySlam": {
				Name: "HeavySlam", Power: 45, Element: types.Neutral, Cost: 20,
				Telegraphed: true,
			},
			"FlameStrike": {
				Name: "FlameStrike", Power: 20, Element: types.Fire, Cost: 15,
				Telegraphed: true,
				Inflict:     []types.StatusGrant{{Ailment: types.Burn, Duration: 3, Magnitude: 10}},
			},
		},
		Phases: []types.PhaseDef{
			{
				Above:     50,
				Lifesteal: 20,
				Actions:   []types.PhaseWeight{{Move: "Slam", Weight: 60}, {Move: "HeavySlam", Weight: 40}},
			},
			{
				Above:        25,
				Lifesteal:    10,
				EnterElement: types.Fire,
				Actions: []types.PhaseWeight{
					{Move: "FlameStrike", Weight: 40}, {Move: "HeavySlam", Weight: 35}, {Move: "Slam", Weight: 25},
				},
			},
			{
				Above:       -1,
				Lifesteal:   10,
				EnterStatus: []types.StatusGrant{{Ailment: types.Enrage, Duration: Permanent, Magnitude: 50}},
				Actions: []types.PhaseWeight{
					{Move: "HeavySlam", Weight: 45}, {Move: "FlameStrike", Weight: 35}, {Move: "Slam", Weight: 20},
				},
			},
		},
	}
}

// IceWraith is a debuffer that hardens itself and freezes on contact late
// in the fight.
func IceWraith() types.ArchetypeDef {
	return types.ArchetypeDef{
		Name:        "IceWraith",
		Description: "A drifting shade wrapped in frost.",
		Stats: types.CombatantStats{
			MaxHealth:     200,
			CurrentHealth: 200,
			AttackPower:   13,
			Defense:       8,
			Element:       types.Neutral,
		},
		MP: types.ResourcePool{Current: 80, Max: 80, Regen: 10},
		Moves: map[string]types.MoveDef{
			"FrostTouch": {Name: "FrostTouch", Power: 16, Element: types.Neutral},
			"FrostBlast": {
				Name: "FrostBlast", Power: 22, Element: types.Ice, Cost: 15,
				GrantElement: types.Ice, GrantTurns: 3,
			},
			"Debuff": {
				Name: "Debuff", Element: types.Neutral, Cost: 20, Telegraphed: true,
				Inflict: []types.StatusGrant{{Ailment: types.AttackDown, Duration: 3, Magnitude: 20}},
			},
			"DefensiveStance": {
				Name: "DefensiveStance", Element: types.Neutral, Cost: 10, Telegraphed: true,
				SelfStatus: []types.StatusGrant{
					{Ailment: types.Defending, Duration: 2, Magnitude: 25},
					{Ailment: types.PowerBoost, Duration: 2, Magnitude: 20},
				},
			},
		},
		Phases: []types.PhaseDef{
			{
				Above: 60,
				Actions: []types.PhaseWeight{
					{Move: "FrostTouch", Weight: 35}, {Move: "FrostBlast", Weight: 35},
					{Move: "Debuff", Weight: 20}, {Move: "DefensiveStance", Weight: 10},
				},
			},
			{
				Above: 30,
				Actions: []types.PhaseWeight{
					{Move: "FrostBlast", Weight: 40}, {Move: "Debuff", Weight: 25},
					{Move: "DefensiveStance", Weight: 20}, {Move: "FrostTouch", Weight: 15},
				},
			},
			{
				Above:       -1,
				EnterStatus: []types.StatusGrant{{Ailment: types.FrostAura, Duration: Permanent}},
				Actions: []types.PhaseWeight{
					{Move: "FrostBlast", Weight: 50}, {Move: "FrostTouch", Weight: 30}, {Move: "Debuff", Weight: 20},
				},
			},
		},
	}
}

// DefaultDefs returns the built-in player profile, action table, and
// archetype roster.
func DefaultDefs() *Defs {
	golem, wraith := FireGolem(), IceWraith()
	return &Defs{
		Player:  DefaultPlayer(),
		Actions: DefaultActions(),
		Archetypes: map[string]types.ArchetypeDef{
			golem.Name:  golem,
			wraith.Name: wraith,
		},
	}
}
