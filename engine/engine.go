// Package engine provides the ProcessTurn orchestrator that wires together
// the tree interpreter, effects, enemy selection and sinks into one turn.
package engine

import (
	"fmt"

	"github.com/nathoo/btarena/engine/effects"
	"github.com/nathoo/btarena/engine/events"
	"github.com/nathoo/btarena/engine/rules"
	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// DefaultAction is substituted when the tree selects nothing.
const DefaultAction = types.ActionAttack

// Options configures a new session.
type Options struct {
	Archetype string
	Tree      *types.Node // may be nil for manually driven sessions
	Seed      int64
	RNG       Random // overrides Seed when set
	TurnLimit int    // DefaultTurnLimit when zero
	Sink      events.Sink
}

// Engine holds one combat session: definitions, mutable state, the random
// source and the player's tree. It is not safe for concurrent use.
type Engine struct {
	Defs      *state.Defs
	State     *types.CombatState
	RNG       Random
	Tree      *types.Node
	TurnLimit int
	Sink      events.Sink

	arch types.ArchetypeDef
}

// New creates a session and selects the enemy's opening move so that the
// first turn already carries a telegraph.
func New(defs *state.Defs, opts Options) (*Engine, error) {
	s, err := state.NewState(defs, opts.Archetype)
	if err != nil {
		return nil, err
	}
	rng := opts.RNG
	if rng == nil {
		rng = NewRNG(opts.Seed)
	}
	limit := opts.TurnLimit
	if limit <= 0 {
		limit = state.DefaultTurnLimit
	}
	e := &Engine{
		Defs:      defs,
		State:     s,
		RNG:       rng,
		Tree:      opts.Tree,
		TurnLimit: limit,
		Sink:      opts.Sink,
		arch:      defs.Archetypes[opts.Archetype],
	}
	e.selectNext(nil)
	return e, nil
}

// Archetype returns the enemy definition for this session.
func (e *Engine) Archetype() types.ArchetypeDef {
	return e.arch
}

// Done reports whether the session has reached a terminal outcome.
func (e *Engine) Done() bool {
	return e.State.Outcome != types.OutcomeActive
}

// Decide evaluates the tree against the current state. When the tree is
// missing or selects nothing, DefaultAction is returned.
func (e *Engine) Decide() rules.Decision {
	if e.Tree == nil {
		return rules.Decision{Action: DefaultAction}
	}
	d := rules.Execute(e.Tree, e.State, e.Defs)
	if !d.OK {
		d.Action = DefaultAction
		d.Trace = append(d.Trace, fmt.Sprintf("no action selected, defaulting to %s", DefaultAction))
	}
	return d
}

// Step decides the player's action with the tree and processes the turn.
func (e *Engine) Step() types.TurnResult {
	return e.ProcessTurn(e.Decide().Action)
}

// Run steps until the session ends and returns the final turn.
func (e *Engine) Run() types.TurnResult {
	var last types.TurnResult
	for !e.Done() {
		last = e.Step()
	}
	if last.Turn == 0 {
		last = e.terminalResult()
	}
	return last
}

// ProcessTurn resolves one full turn with the given player action.
func (e *Engine) ProcessTurn(action types.ActionID) types.TurnResult {
	s := e.State

	// 0. Terminal sessions do not change.
	if e.Done() {
		return e.terminalResult()
	}

	result := types.TurnResult{TelegraphShown: s.Telegraph}
	system := effects.Context{Actor: "system", Source: "upkeep"}

	// 1. Turn limit.
	s.Turn++
	result.Turn = s.Turn
	if s.Turn > e.TurnLimit {
		e.finish(&result, types.OutcomeTurnLimit, fmt.Sprintf("turn limit of %d exceeded", e.TurnLimit))
		return result
	}

	// 2. Cooldowns. 3. Regeneration. 4. Status ticks, player then enemy.
	// 5. Enemy element expiry.
	e.apply(&result, []types.Effect{
		{Type: "cooldown_tick"},
		{Type: "regen", Params: map[string]any{"target": "player"}},
		{Type: "regen", Params: map[string]any{"target": "enemy"}},
		{Type: "tick_status", Params: map[string]any{"target": "player"}},
		{Type: "tick_status", Params: map[string]any{"target": "enemy"}},
		{Type: "element_tick"},
	}, system)

	// 6. Player action.
	s.LastPlayerAction = action
	report, effs := e.playerAction(action)
	evts := e.apply(&result, effs, effects.Context{Actor: "player", Source: string(action)})
	report.Damage = sumAmount(evts, "damage_dealt", "enemy")
	report.Heal = sumAmount(evts, "healed", "player")
	result.Player = report

	// 7. Victory check.
	if s.Enemy != nil && s.Enemy.CurrentHealth == 0 {
		e.finish(&result, types.OutcomeVictory, fmt.Sprintf("%s defeated", s.Archetype))
		return result
	}

	// 8. Enemy executes the move selected at the end of the previous turn.
	if s.PendingEnemyAction != "" {
		move := s.PendingEnemyAction
		enemyReport, effs, lifesteal := e.enemyAction(move)
		ctx := effects.Context{Actor: "enemy", Source: move}
		evts := e.apply(&result, effs, ctx)
		enemyReport.Damage = sumAmount(evts, "damage_dealt", "player")
		if lifesteal > 0 && enemyReport.Damage > 0 {
			if heal := enemyReport.Damage * lifesteal / 100; heal > 0 {
				healEvts := e.apply(&result, []types.Effect{
					{Type: "heal", Params: map[string]any{"target": "enemy", "amount": heal}},
				}, ctx)
				enemyReport.Heal = sumAmount(healEvts, "healed", "enemy")
			}
		}
		result.Enemy = &enemyReport
	}

	// 9. Defeat check.
	if s.Player.CurrentHealth == 0 {
		e.finish(&result, types.OutcomeDefeat, fmt.Sprintf("defeated by %s", s.Archetype))
		return result
	}

	// 10. The defensive stance lasts a single enemy action.
	e.apply(&result, []types.Effect{removeStatus("player", types.Defending, "expired")}, system)

	// 11. Next enemy move and telegraph.
	e.selectNext(&result)
	result.NextTelegraph = s.Telegraph

	result.Outcome = types.OutcomeActive
	e.snapshot(&result)
	e.record(result)
	return result
}

// selectNext chooses the enemy's next move, applying any phase-entry
// effects, and exposes it as a telegraph only for telegraphed moves.
// result is nil when called before the first turn.
func (e *Engine) selectNext(result *types.TurnResult) {
	s := e.State
	move, entry := SelectEnemyAction(s, e.arch, e.RNG)
	if len(entry) > 0 {
		ctx := effects.Context{Actor: "enemy", Source: "phase"}
		if result != nil {
			e.apply(result, entry, ctx)
		} else {
			effects.Apply(s, entry, ctx)
		}
	}
	s.PendingEnemyAction = move
	s.Telegraph = ""
	if def, ok := e.arch.Moves[move]; ok && def.Telegraphed {
		s.Telegraph = move
	}
}

// apply runs effects and folds their events and output into result.
func (e *Engine) apply(result *types.TurnResult, effs []types.Effect, ctx effects.Context) []types.Event {
	evts, out := effects.Apply(e.State, effs, ctx)
	result.Effects = append(result.Effects, effs...)
	result.Events = append(result.Events, evts...)
	result.Output = append(result.Output, out...)

	for _, ev := range evts {
		target, _ := ev.Data["target"].(string)
		switch ev.Type {
		case "dot_tick":
			a, _ := ev.Data["ailment"].(types.Ailment)
			result.Ticks = append(result.Ticks, types.TickReport{Target: target, Ailment: a, Damage: intOf(ev.Data["amount"])})
		case "status_applied":
			a, _ := ev.Data["ailment"].(types.Ailment)
			result.StatusApplied = append(result.StatusApplied, types.StatusChange{
				Target: target, Ailment: a, Duration: intOf(ev.Data["duration"]), Magnitude: intOf(ev.Data["magnitude"]),
			})
		case "status_removed":
			a, _ := ev.Data["ailment"].(types.Ailment)
			result.StatusRemoved = append(result.StatusRemoved, types.StatusChange{Target: target, Ailment: a})
		}
	}
	result.ElementChanges = append(result.ElementChanges, elementChanges(evts)...)
	return evts
}

// finish marks the session terminal and emits the final record.
func (e *Engine) finish(result *types.TurnResult, outcome types.Outcome, reason string) {
	s := e.State
	s.Outcome = outcome
	s.Reason = reason
	result.Outcome = outcome
	result.Reason = reason
	e.snapshot(result)
	if outcome == types.OutcomeVictory {
		s.Enemy = nil
		s.Telegraph = ""
		s.PendingEnemyAction = ""
	}
	e.record(*result)
}

func (e *Engine) terminalResult() types.TurnResult {
	r := types.TurnResult{Turn: e.State.Turn, Outcome: e.State.Outcome, Reason: e.State.Reason}
	e.snapshot(&r)
	return r
}

func (e *Engine) snapshot(r *types.TurnResult) {
	s := e.State
	r.PlayerHP = s.Player.CurrentHealth
	r.PlayerMP = s.PlayerMP.Current
	r.EnemyMP = s.EnemyMP.Current
	if s.Enemy != nil {
		r.EnemyHP = s.Enemy.CurrentHealth
	}
}

func (e *Engine) record(r types.TurnResult) {
	if e.Sink != nil {
		e.Sink.RecordTurn(r)
	}
}

func elementChanges(evts []types.Event) []types.ElementChange {
	var out []types.ElementChange
	for _, ev := range evts {
		if ev.Type != "element_changed" {
			continue
		}
		from, _ := ev.Data["from"].(types.Element)
		to, _ := ev.Data["to"].(types.Element)
		reason, _ := ev.Data["reason"].(string)
		out = append(out, types.ElementChange{From: from, To: to, Reason: reason})
	}
	return out
}

// sumAmount totals the "amount" of events of one type aimed at target.
func sumAmount(evts []types.Event, typ, target string) int {
	total := 0
	for _, ev := range evts {
		if ev.Type == typ && ev.Data["target"] == target {
			total += intOf(ev.Data["amount"])
		}
	}
	return total
}

func intOf(v any) int {
	if n, ok := v.(int); ok {
		return n
	}
	return 0
}
