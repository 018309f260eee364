// Package stats runs many brawls between the same groups and tallies who wins.
package stats

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
)

var (
	// ErrNoTrials is returned by Run when asked for fewer than one trial.
	ErrNoTrials = errors.New("stats: trials must be >= 1")
	// ErrGroupMismatch is returned when trials disagree on the number of groups.
	ErrGroupMismatch = errors.New("stats: trials built different group counts")
)

// Result is one finished trial.
type Result struct {
	Trial   int
	Groups  []string
	Outcome combat.Outcome
}

// WinnerName returns the winning group's name, or "" for a draw.
func (r Result) WinnerName() string {
	if r.Outcome.IsDraw() {
		return ""
	}
	return r.Groups[r.Outcome.Winner]
}

// Recorder persists trial results as they finish.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// BuildFunc builds a fresh arena for one trial. src is the trial's own
// randomness and should back the arena's engine.
type BuildFunc func(trial int, src dice.Source) (*combat.Arena, error)

// Tally aggregates the results of a run.
type Tally struct {
	Groups []string
	Trials int
	Wins   []int
	Draws  int
	Turns  int
	Damage []int
}

// WinRate returns the fraction of trials group i won.
func (t Tally) WinRate(i int) float64 {
	if t.Trials == 0 {
		return 0
	}
	return float64(t.Wins[i]) / float64(t.Trials)
}

// AverageTurns returns the mean brawl length.
func (t Tally) AverageTurns() float64 {
	if t.Trials == 0 {
		return 0
	}
	return float64(t.Turns) / float64(t.Trials)
}

// String renders one line per group followed by the draw count.
func (t Tally) String() string {
	var b strings.Builder
	for i, g := range t.Groups {
		fmt.Fprintf(&b, "%-20s wins %5d (%5.1f%%)  damage %d\n", g, t.Wins[i], 100*t.WinRate(i), t.Damage[i])
	}
	fmt.Fprintf(&b, "%-20s      %5d  avg turns %.1f\n", "draws", t.Draws, t.AverageTurns())
	return b.String()
}

func (t *Tally) add(r Result) error {
	if t.Groups == nil {
		t.Groups = r.Groups
		t.Wins = make([]int, len(r.Groups))
		t.Damage = make([]int, len(r.Groups))
	}
	if len(r.Groups) != len(t.Groups) {
		return fmt.Errorf("%w: trial %d has %d, want %d", ErrGroupMismatch, r.Trial, len(r.Groups), len(t.Groups))
	}
	t.Trials++
	t.Turns += r.Outcome.Turns
	if r.Outcome.IsDraw() {
		t.Draws++
	} else {
		t.Wins[r.Outcome.Winner]++
	}
	for i, d := range r.Outcome.Damage {
		t.Damage[i] += d
	}
	return nil
}

// Statistician runs trials concurrently.
type Statistician struct {
	src      dice.Source
	workers  int
	recorder Recorder
	logger   *zap.Logger
}

// Option configures a Statistician.
type Option func(*Statistician)

// WithWorkers bounds the number of trials in flight. n <= 0 selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Statistician) { s.workers = n }
}

// WithRecorder persists every trial through r.
func WithRecorder(r Recorder) Option {
	return func(s *Statistician) { s.recorder = r }
}

// NewStatistician creates a Statistician drawing per-trial seeds from src.
//
// Precondition: src must be non-nil. A nil logger disables logging.
func NewStatistician(src dice.Source, logger *zap.Logger, opts ...Option) *Statistician {
	if src == nil {
		panic("stats.NewStatistician: src must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Statistician{src: src, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers <= 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	return s
}

// Run fights n brawls and tallies them.
//
// Each trial gets a Source forked from the statistician's source before any
// trial starts, so a seeded source yields the same tally regardless of
// scheduling. The first build, brawl or record error cancels the run.
//
// Postcondition: On success Tally.Trials == n and Wins sum to n - Draws.
func (s *Statistician) Run(ctx context.Context, n int, build BuildFunc) (Tally, error) {
	if n < 1 {
		return Tally{}, ErrNoTrials
	}
	sources := make([]dice.Source, n)
	for i := range sources {
		sources[i] = dice.Fork(s.src)
	}

	results := make([]Result, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			arena, err := build(i, sources[i])
			if err != nil {
				return fmt.Errorf("trial %d: building arena: %w", i, err)
			}
			out, err := arena.Brawl(gctx)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			names := make([]string, len(arena.Groups()))
			for gi, grp := range arena.Groups() {
				names[gi] = grp.Name
			}
			results[i] = Result{Trial: i, Groups: names, Outcome: out}
			if s.recorder != nil {
				if err := s.recorder.Record(gctx, results[i]); err != nil {
					return fmt.Errorf("trial %d: recording: %w", i, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Tally{}, err
	}

	var t Tally
	for _, r := range results {
		if err := t.add(r); err != nil {
			return Tally{}, err
		}
	}
	s.logger.Info("trials complete",
		zap.Int("trials", t.Trials),
		zap.Strings("groups", t.Groups),
		zap.Ints("wins", t.Wins),
		zap.Int("draws", t.Draws),
		zap.Float64("avg_turns", t.AverageTurns()),
	)
	return t, nil
}
