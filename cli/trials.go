package cli

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/nathoo/btarena/engine"
	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// TrialResult is the outcome of one independent session.
type TrialResult struct {
	Seed     int64
	Outcome  types.Outcome
	Turns    int
	PlayerHP int
	EnemyHP  int
}

// TrialReport aggregates a batch of sessions, in seed order.
type TrialReport struct {
	Archetype string
	Results   []TrialResult
	Wins      int
	Losses    int
	Timeouts  int
}

// WinRate returns the fraction of sessions the player won.
func (r TrialReport) WinRate() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	return float64(r.Wins) / float64(len(r.Results))
}

// AverageTurns returns the mean session length.
func (r TrialReport) AverageTurns() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	total := 0
	for _, t := range r.Results {
		total += t.Turns
	}
	return float64(total) / float64(len(r.Results))
}

// RunTrials plays n tree-driven sessions, trial i seeded with opts.Seed+i,
// on a pool of workers. Each session owns its state and random source; the
// definitions and tree are shared read-only. opts.RNG and opts.Sink are
// ignored.
func RunTrials(defs *state.Defs, opts engine.Options, n int) (TrialReport, error) {
	report := TrialReport{Archetype: opts.Archetype}
	if n <= 0 {
		return report, fmt.Errorf("trial count must be positive, got %d", n)
	}
	if _, ok := defs.Archetypes[opts.Archetype]; !ok {
		return report, &state.UnknownArchetypeError{Name: opts.Archetype, Known: defs.ArchetypeNames()}
	}

	results := make([]TrialResult, n)
	errs := make([]error, n)
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				o := opts
				o.Seed = opts.Seed + int64(i)
				o.RNG = nil
				o.Sink = nil
				e, err := engine.New(defs, o)
				if err != nil {
					errs[i] = err
					continue
				}
				final := e.Run()
				results[i] = TrialResult{
					Seed:     o.Seed,
					Outcome:  final.Outcome,
					Turns:    final.Turn,
					PlayerHP: final.PlayerHP,
					EnemyHP:  final.EnemyHP,
				}
			}
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return report, fmt.Errorf("trial %d: %w", i, err)
		}
	}
	report.Results = results
	for _, r := range results {
		switch r.Outcome {
		case types.OutcomeVictory:
			report.Wins++
		case types.OutcomeDefeat:
			report.Losses++
		case types.OutcomeTurnLimit:
			report.Timeouts++
		}
	}
	return report, nil
}

// PrintTrials writes a per-trial table and the aggregate line.
func PrintTrials(w io.Writer, r TrialReport) {
	for _, t := range r.Results {
		fmt.Fprintf(w, "seed %-6d %-20s turns %-3d player HP %-4d enemy HP %d\n",
			t.Seed, t.Outcome, t.Turns, t.PlayerHP, t.EnemyHP)
	}
	fmt.Fprintf(w, "[%s: %d trials, %d wins, %d losses, %d timeouts, win rate %.1f%%, avg %.1f turns]\n",
		r.Archetype, len(r.Results), r.Wins, r.Losses, r.Timeouts, r.WinRate()*100, r.AverageTurns())
}
