package resolve

import (
	"errors"
	"testing"

	"github.com/nathoo/btarena/types"
)

func TestCall(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Call
	}{
		{"bare name", "Attack", types.Call{Name: "Attack"}},
		{"empty parens", "Attack()", types.Call{Name: "Attack"}},
		{"int arg", "IsPlayerHPLow(30)", types.Call{Name: "IsPlayerHPLow", Arg: "30"}},
		{"enum arg", "EnemyHasElement(Fire)", types.Call{Name: "EnemyHasElement", Arg: "Fire"}},
		{"quoted arg", `EnemyIsTelegraphing("HeavySlam")`, types.Call{Name: "EnemyIsTelegraphing", Arg: "HeavySlam"}},
		{"spaces", "  HasMP( 20 )  ", types.Call{Name: "HasMP", Arg: "20"}},
		{"NOT prefix", "NOT HasScannedEnemy()", types.Call{Name: "HasScannedEnemy", Negate: true}},
		{"lowercase not", "not CanHeal()", types.Call{Name: "CanHeal", Negate: true}},
		{"bang prefix", "!IsScanned", types.Call{Name: "IsScanned", Negate: true}},
		{"Not wrapper", "Not(EnemyHasBuff(Enrage))", types.Call{Name: "EnemyHasBuff", Arg: "Enrage", Negate: true}},
		{"double negation", "NOT Not(CanHeal())", types.Call{Name: "CanHeal"}},
		{"name starting with not", "Nothing()", types.Call{Name: "Nothing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Call(tt.input)
			if err != nil {
				t.Fatalf("Call(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Call(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCall_Errors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"HasMP(20",
		"Has MP(20)",
		"(20)",
		"NOT !",
		"9Lives",
	}
	for _, in := range inputs {
		_, err := Call(in)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Call(%q) err = %v, want *SyntaxError", in, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  FiRe "); got != "fire" {
		t.Errorf("Normalize = %q, want fire", got)
	}
}
