package combat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/power"
)

// DefaultMaxTurns bounds a brawl when no limit is configured.
const DefaultMaxTurns = 100

// Draw is the Outcome.Winner value when no single group survives.
const Draw = -1

// ErrTooFewGroups is returned by Brawl when fewer than two groups are present.
var ErrTooFewGroups = errors.New("combat: a brawl needs at least two groups")

// Outcome summarises one finished brawl.
type Outcome struct {
	ID uuid.UUID
	// Winner is the index of the surviving group, or Draw.
	Winner int
	Turns  int
	// Damage is the hit point damage dealt by each group, indexed like the groups.
	Damage    []int
	Survivors []string
}

// IsDraw reports whether the brawl ended without a winner.
func (o Outcome) IsDraw() bool { return o.Winner == Draw }

// Arena holds the groups of one brawl.
type Arena struct {
	engine   *Engine
	src      dice.Source
	maxTurns int
	groups   []*Group
	logger   *zap.Logger
}

// NewArena creates an empty arena. Target choice and initiative draw from
// the engine's roller. maxTurns <= 0 selects DefaultMaxTurns.
//
// Precondition: engine must be non-nil.
func NewArena(engine *Engine, maxTurns int, logger *zap.Logger) *Arena {
	if engine == nil {
		panic("combat.NewArena: engine must not be nil")
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arena{engine: engine, src: engine.Roller(), maxTurns: maxTurns, logger: logger}
}

// AddGroup adds g as the next side.
func (a *Arena) AddGroup(g *Group) {
	team := len(a.groups)
	for _, c := range g.Members {
		c.team = team
	}
	a.groups = append(a.groups, g)
}

// Groups returns the arena's groups in insertion order.
func (a *Arena) Groups() []*Group { return a.groups }

// Brawl fights until one group is left standing, every group is wiped out,
// or the turn limit is reached.
//
// Each turn every living combatant, in initiative order, gains its block and
// attacks a random living enemy. Powers age once all actions are done.
//
// Postcondition: Returns the outcome, ErrTooFewGroups, or ctx.Err() when ctx
// is cancelled between turns.
func (a *Arena) Brawl(ctx context.Context) (Outcome, error) {
	if len(a.groups) < 2 {
		return Outcome{}, ErrTooFewGroups
	}
	out := Outcome{ID: uuid.New(), Winner: Draw, Damage: make([]int, len(a.groups))}

	var order []*Combatant
	for _, g := range a.groups {
		order = append(order, g.Members...)
	}
	RollInitiative(order, a.src)
	for _, c := range order {
		a.engine.Enter(c)
	}

	for out.Turns < a.maxTurns {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		if a.standing() < 2 {
			break
		}
		out.Turns++
		for _, c := range order {
			if c.IsDead() {
				continue
			}
			a.engine.StartTurn(c)
			enemies := a.enemies(c)
			if len(enemies) == 0 {
				continue
			}
			target := enemies[a.src.Intn(len(enemies))]
			res := a.engine.Attack(c, target, power.SourceAttack)
			out.Damage[c.team] += res.Dealt
		}
		for _, c := range order {
			if !c.IsDead() {
				a.engine.EndTurn(c)
			}
		}
	}

	if a.standing() == 1 {
		for i, g := range a.groups {
			if g.Alive() {
				out.Winner = i
			}
		}
	}
	for _, c := range order {
		if !c.IsDead() {
			out.Survivors = append(out.Survivors, c.ID)
		}
	}
	a.logger.Debug("brawl finished",
		zap.Stringer("brawl", out.ID),
		zap.Int("winner", out.Winner),
		zap.Int("turns", out.Turns),
		zap.Ints("damage", out.Damage),
		zap.Strings("survivors", out.Survivors),
	)
	return out, nil
}

func (a *Arena) standing() int {
	n := 0
	for _, g := range a.groups {
		if g.Alive() {
			n++
		}
	}
	return n
}

func (a *Arena) enemies(c *Combatant) []*Combatant {
	var out []*Combatant
	for i, g := range a.groups {
		if i != c.team {
			out = append(out, g.Living()...)
		}
	}
	return out
}
