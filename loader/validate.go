package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the player profile and the named archetypes for
// consistency. Built-in archetypes are not re-checked.
func validate(defs *state.Defs, names []string) *ValidationError {
	ve := &ValidationError{}

	if defs.Player.Stats.MaxHealth <= 0 {
		ve.Errors = append(ve.Errors, "player max_health must be positive")
	}
	if defs.Player.MP.Max < 0 || defs.Player.MP.Regen < 0 {
		ve.Errors = append(ve.Errors, "player MP values must not be negative")
	}

	for _, name := range names {
		validateArchetype(defs.Archetypes[name], ve)
	}
	return ve
}

func validateArchetype(arch types.ArchetypeDef, ve *ValidationError) {
	errorf := func(format string, args ...any) {
		ve.Errors = append(ve.Errors, fmt.Sprintf("archetype %q: ", arch.Name)+fmt.Sprintf(format, args...))
	}
	warnf := func(format string, args ...any) {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("archetype %q: ", arch.Name)+fmt.Sprintf(format, args...))
	}

	// Stats.
	if arch.Stats.MaxHealth <= 0 {
		errorf("max_health must be positive")
	}
	if arch.Stats.AttackPower < 0 || arch.Stats.Defense < 0 {
		errorf("attack and defense must not be negative")
	}
	if len(arch.Moves) == 0 {
		errorf("no moves defined")
	}

	// Phases: descending thresholds ending in a catch-all.
	if len(arch.Phases) == 0 {
		errorf("no phases defined")
		return
	}
	for i, p := range arch.Phases {
		if i > 0 && p.Above >= arch.Phases[i-1].Above {
			errorf("phase %d threshold %d is not below the previous threshold %d", i+1, p.Above, arch.Phases[i-1].Above)
		}
		if len(p.Actions) == 0 {
			errorf("phase %d has no weighted moves", i+1)
		}
		if p.Lifesteal < 0 || p.Lifesteal > 100 {
			errorf("phase %d lifesteal %d is outside 0-100", i+1, p.Lifesteal)
		}
		for _, w := range p.Actions {
			if _, ok := arch.Moves[w.Move]; !ok {
				errorf("phase %d references undefined move %q", i+1, w.Move)
			}
			if w.Weight <= 0 {
				errorf("phase %d weight for %q must be positive", i+1, w.Move)
			}
		}
	}
	if last := arch.Phases[len(arch.Phases)-1]; last.Above >= 0 {
		errorf("last phase must be a catch-all (above < 0), got %d", last.Above)
	}

	// Warnings: moves that can never be chosen or afforded.
	used := map[string]bool{}
	for _, p := range arch.Phases {
		for _, w := range p.Actions {
			used[w.Move] = true
		}
	}
	moveNames := make([]string, 0, len(arch.Moves))
	for name := range arch.Moves {
		moveNames = append(moveNames, name)
	}
	sort.Strings(moveNames)
	for _, name := range moveNames {
		m := arch.Moves[name]
		if !used[name] {
			warnf("move %q is not used by any phase", name)
		}
		if m.Cost > arch.MP.Max {
			warnf("move %q costs %d MP but the pool holds %d", name, m.Cost, arch.MP.Max)
		}
	}
}
