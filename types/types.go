// Package types defines the shared data structures for the btarena engine.
// This package contains only type definitions, no logic and no methods.
package types

// Element is a combatant's or an attack's elemental alignment.
type Element string

const (
	Neutral Element = "Neutral"
	Fire    Element = "Fire"
	Ice     Element = "Ice"
)

// Ailment is the tag of a timed status effect.
type Ailment string

const (
	Burn       Ailment = "Burn"
	Freeze     Ailment = "Freeze"
	Paralyze   Ailment = "Paralyze"
	AttackDown Ailment = "AttackDown"
	Defending  Ailment = "Defending"
	Rage       Ailment = "Rage"
	Enrage     Ailment = "Enrage"
	FrostAura  Ailment = "FrostAura"
	Charged    Ailment = "Charged"
	PowerBoost Ailment = "PowerBoost"
)

// StatusEffect is one active ailment on a combatant. Magnitude is damage per
// tick for Burn and a percentage for the stat modifiers.
type StatusEffect struct {
	Ailment   Ailment
	Duration  int
	Magnitude int
}

// ResourcePool is a regenerating resource such as MP.
type ResourcePool struct {
	Current int
	Max     int
	Regen   int
}

// CombatantStats holds health and combat stats for one side.
type CombatantStats struct {
	MaxHealth     int
	CurrentHealth int
	AttackPower   int
	Defense       int
	Element       Element
}

// NodeKind is the kind of a behavior tree node.
type NodeKind string

const (
	KindRoot      NodeKind = "root"
	KindSelector  NodeKind = "selector"
	KindSequence  NodeKind = "sequence"
	KindCondition NodeKind = "condition"
	KindTask      NodeKind = "task"
	KindAction    NodeKind = "action"
)

// Node is one behavior tree node. Trees are built once by the parser and
// are read-only afterwards.
type Node struct {
	Kind     NodeKind
	Param    string // raw parameter text, e.g. "IsPlayerHPLow(30)"
	Line     int    // 1-based source line
	Children []*Node
}

// Call is a parsed condition or action parameter.
type Call struct {
	Name   string
	Arg    string // empty when no argument was given
	Negate bool   // true if wrapped in NOT/Not()
}

// ActionID identifies a player action.
type ActionID string

const (
	ActionAttack    ActionID = "Attack"
	ActionCharge    ActionID = "Charge"
	ActionFireSpell ActionID = "FireSpell"
	ActionIceSpell  ActionID = "IceSpell"
	ActionDefend    ActionID = "Defend"
	ActionHeal      ActionID = "Heal"
	ActionScan      ActionID = "Scan"
	ActionCleanse   ActionID = "Cleanse"
)

// ActionDef describes the fixed cost and damage profile of a player action.
type ActionDef struct {
	ID      ActionID
	Cost    int
	Power   int // base damage; 0 for non-damaging actions
	Element Element
}

// Outcome is the session status after a turn.
type Outcome string

const (
	OutcomeActive    Outcome = "active"
	OutcomeVictory   Outcome = "player_victory"
	OutcomeDefeat    Outcome = "player_defeat"
	OutcomeTurnLimit Outcome = "turn_limit_exceeded"
)

// StatusGrant is a status an action or phase applies. Chance is a percent;
// zero means the grant always applies.
type StatusGrant struct {
	Ailment   Ailment
	Duration  int
	Magnitude int
	Chance    int
}

// MoveDef is one enemy move.
type MoveDef struct {
	Name         string
	Power        int
	Element      Element
	Cost         int
	Telegraphed  bool
	Inflict      []StatusGrant // applied to the player on use
	SelfStatus   []StatusGrant // applied to the enemy on use
	GrantElement Element       // temporary element for the enemy, "" for none
	GrantTurns   int
	Description  string
}

// PhaseWeight is one entry in a phase's weighted action table.
type PhaseWeight struct {
	Move   string
	Weight int
}

// PhaseDef is an HP bracket of an archetype. The phase is active while the
// enemy's HP percentage is strictly above Above.
type PhaseDef struct {
	Above        int
	Lifesteal    int           // percent of dealt damage healed back
	EnterElement Element       // permanent element granted on first entry
	EnterStatus  []StatusGrant // statuses granted on first entry
	Actions      []PhaseWeight
}

// ArchetypeDef is an enemy archetype definition.
type ArchetypeDef struct {
	Name        string
	Description string
	Stats       CombatantStats
	MP          ResourcePool
	Moves       map[string]MoveDef
	Phases      []PhaseDef // ordered by descending Above
}

// PlayerProfile holds the player's starting stats and resources.
type PlayerProfile struct {
	Stats CombatantStats
	MP    ResourcePool
}

// CombatState is the complete mutable state of one combat session.
type CombatState struct {
	Turn         int
	Player       CombatantStats
	PlayerMP     ResourcePool
	PlayerStatus []StatusEffect

	Enemy       *CombatantStats // nil once defeated
	Archetype   string
	EnemyMP     ResourcePool
	EnemyStatus []StatusEffect

	HealCooldown int
	Scanned      bool

	Telegraph          string // visible to the tree; "" when hidden
	PendingEnemyAction string // the move the enemy will actually use
	LastEnemyAction    string
	History            []string // most recent last, at most 5 entries

	EnemyElementTurns int
	EnemyBaseElement  Element
	PhasesEntered     map[int]bool

	LastPlayerAction ActionID
	Outcome          Outcome
	Reason           string
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted after effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// ActionReport describes what one side did during a turn.
type ActionReport struct {
	Actor   string // "player" or "enemy"
	Action  string
	Success bool
	Skipped bool // turn lost to Freeze
	Missed  bool
	Cost    int
	Damage  int
	Heal    int
	Message string
}

// StatusChange records a status applied to or removed from a combatant.
type StatusChange struct {
	Target    string
	Ailment   Ailment
	Duration  int
	Magnitude int
}

// TickReport records periodic damage dealt during the status tick.
type TickReport struct {
	Target  string
	Ailment Ailment
	Damage  int
}

// ElementChange records a change to the enemy's element.
type ElementChange struct {
	From   Element
	To     Element
	Reason string
}

// TurnResult is the per-turn record handed to sinks.
type TurnResult struct {
	Turn           int
	TelegraphShown string
	Player         ActionReport
	Enemy          *ActionReport // nil when the enemy did not act
	Ticks          []TickReport
	StatusApplied  []StatusChange
	StatusRemoved  []StatusChange
	ElementChanges []ElementChange
	NextTelegraph  string
	Outcome        Outcome
	Reason         string

	PlayerHP int
	PlayerMP int
	EnemyHP  int
	EnemyMP  int

	Effects []Effect
	Events  []Event
	Output  []string
}
