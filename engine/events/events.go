// Package events delivers per-turn combat records to external consumers.
// Sinks observe results; they never feed back into the turn processor.
package events

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/btarena/types"
)

// Sink receives one record per processed turn.
type Sink interface {
	RecordTurn(r types.TurnResult)
}

// Recorder keeps every turn in memory.
type Recorder struct {
	mu    sync.Mutex
	turns []types.TurnResult
}

// RecordTurn appends r.
func (rec *Recorder) RecordTurn(r types.TurnResult) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.turns = append(rec.turns, r)
}

// Turns returns a copy of the recorded turns.
func (rec *Recorder) Turns() []types.TurnResult {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]types.TurnResult, len(rec.turns))
	copy(out, rec.turns)
	return out
}

// Last returns the most recent turn, if any.
func (rec *Recorder) Last() (types.TurnResult, bool) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.turns) == 0 {
		return types.TurnResult{}, false
	}
	return rec.turns[len(rec.turns)-1], true
}

// LogSink writes one structured log entry per turn.
type LogSink struct {
	Log    logrus.FieldLogger
	Fields logrus.Fields // extra fields attached to every entry, e.g. trial id
}

// RecordTurn logs r at debug level, or info level when the session ends.
func (l *LogSink) RecordTurn(r types.TurnResult) {
	fields := logrus.Fields{
		"turn":      r.Turn,
		"action":    r.Player.Action,
		"damage":    r.Player.Damage,
		"player_hp": r.PlayerHP,
		"enemy_hp":  r.EnemyHP,
		"outcome":   r.Outcome,
	}
	if r.Enemy != nil {
		fields["enemy_action"] = r.Enemy.Action
		fields["enemy_damage"] = r.Enemy.Damage
	}
	if r.NextTelegraph != "" {
		fields["telegraph"] = r.NextTelegraph
	}
	for k, v := range l.Fields {
		fields[k] = v
	}
	entry := l.Log.WithFields(fields)
	if r.Outcome != types.OutcomeActive {
		entry.Info(r.Reason)
		return
	}
	entry.Debug("turn processed")
}

// Multi fans a record out to several sinks in order.
type Multi []Sink

// RecordTurn forwards r to every sink.
func (m Multi) RecordTurn(r types.TurnResult) {
	for _, s := range m {
		if s != nil {
			s.RecordTurn(r)
		}
	}
}

// Func adapts a function to the Sink interface.
type Func func(types.TurnResult)

// RecordTurn calls f(r).
func (f Func) RecordTurn(r types.TurnResult) { f(r) }
