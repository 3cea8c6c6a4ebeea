package events

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/btarena/types"
)

func TestRecorder(t *testing.T) {
	var rec Recorder
	if _, ok := rec.Last(); ok {
		t.Error("Last on empty recorder ok = true")
	}
	rec.RecordTurn(types.TurnResult{Turn: 1})
	rec.RecordTurn(types.TurnResult{Turn: 2})

	turns := rec.Turns()
	if len(turns) != 2 || turns[0].Turn != 1 || turns[1].Turn != 2 {
		t.Errorf("Turns = %+v", turns)
	}
	turns[0].Turn = 99
	if rec.Turns()[0].Turn != 1 {
		t.Error("Turns returned a shared slice")
	}
	last, _ := rec.Last()
	if last.Turn != 2 {
		t.Errorf("Last.Turn = %d, want 2", last.Turn)
	}
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	var calls int
	m := Multi{&a, nil, &b, Func(func(types.TurnResult) { calls++ })}
	m.RecordTurn(types.TurnResult{Turn: 3})
	if len(a.Turns()) != 1 || len(b.Turns()) != 1 || calls != 1 {
		t.Errorf("fan out: a=%d b=%d func=%d", len(a.Turns()), len(b.Turns()), calls)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)

	sink := &LogSink{Log: log, Fields: logrus.Fields{"trial": 4}}
	sink.RecordTurn(types.TurnResult{
		Turn:          2,
		Player:        types.ActionReport{Action: "IceSpell", Damage: 18},
		Enemy:         &types.ActionReport{Action: "Slam", Damage: 13},
		NextTelegraph: "HeavySlam",
		Outcome:       types.OutcomeActive,
	})
	sink.RecordTurn(types.TurnResult{Turn: 3, Outcome: types.OutcomeVictory, Reason: "enemy defeated"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2:\n%s", len(lines), buf.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first["action"] != "IceSpell" || first["enemy_action"] != "Slam" || first["telegraph"] != "HeavySlam" {
		t.Errorf("fields = %v", first)
	}
	if first["trial"] != float64(4) {
		t.Errorf("trial = %v, want 4", first["trial"])
	}
	if first["level"] != "debug" {
		t.Errorf("level = %v, want debug", first["level"])
	}
	var second map[string]any
	_ = json.Unmarshal([]byte(lines[1]), &second)
	if second["level"] != "info" || second["msg"] != "enemy defeated" {
		t.Errorf("terminal entry = %v", second)
	}
}
