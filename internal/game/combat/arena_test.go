package combat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/power"
)

func group(name string, members ...*combat.Combatant) *combat.Group {
	return &combat.Group{Name: name, Members: members}
}

func TestArena_Brawl_StrongerGroupWins(t *testing.T) {
	a := combat.NewArena(newEngine(1), 0, nil)
	a.AddGroup(group("giants", fixed("g1", 100, 20), fixed("g2", 100, 20)))
	a.AddGroup(group("rats", fixed("r1", 5, 1), fixed("r2", 5, 1)))

	out, err := a.Brawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Winner)
	assert.False(t, out.IsDraw())
	assert.Equal(t, 1, out.Turns)
	assert.Equal(t, 10, out.Damage[0])
	assert.ElementsMatch(t, []string{"g1", "g2"}, out.Survivors)
	assert.NotEqual(t, [16]byte{}, [16]byte(out.ID))
}

func TestArena_Brawl_MaxTurnsIsDraw(t *testing.T) {
	a := combat.NewArena(newEngine(1), 3, nil)
	a.AddGroup(group("left", fixed("l", 1000, 1)))
	a.AddGroup(group("right", fixed("r", 1000, 1)))

	out, err := a.Brawl(context.Background())
	require.NoError(t, err)
	assert.True(t, out.IsDraw())
	assert.Equal(t, 3, out.Turns)
	assert.Equal(t, []int{3, 3}, out.Damage)
	assert.Len(t, out.Survivors, 2)
}

func TestArena_Brawl_BlockGainAndPowerAging(t *testing.T) {
	wall := fixed("wall", 1000, 1)
	wall.BlockGain = 5
	wall.SetBlock(10)
	require.NoError(t, wall.Grant(power.NewVulnerable(power.Turns(1))))
	a := combat.NewArena(newEngine(1), 2, nil)
	a.AddGroup(group("wall", wall))
	a.AddGroup(group("hitter", fixed("h", 1000, 4)))

	_, err := a.Brawl(context.Background())
	require.NoError(t, err)
	assert.False(t, wall.Powers().Has(power.NameVulnerable), "vulnerable expires after its turn")
	assert.Equal(t, 1000, wall.CurrentHP, "block gained each turn soaks every hit")
}

func TestArena_Brawl_EmptyGroupLoses(t *testing.T) {
	a := combat.NewArena(newEngine(1), 0, nil)
	a.AddGroup(group("nobody"))
	a.AddGroup(group("someone", fixed("s", 3, 1)))
	out, err := a.Brawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Winner)
	assert.Equal(t, 0, out.Turns)
}

func TestArena_Brawl_TooFewGroups(t *testing.T) {
	a := combat.NewArena(newEngine(1), 0, nil)
	a.AddGroup(group("alone", fixed("a", 3, 1)))
	_, err := a.Brawl(context.Background())
	assert.ErrorIs(t, err, combat.ErrTooFewGroups)
}

func TestArena_Brawl_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := combat.NewArena(newEngine(1), 0, nil)
	a.AddGroup(group("l", fixed("l", 10, 1)))
	a.AddGroup(group("r", fixed("r", 10, 1)))
	_, err := a.Brawl(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArena_Brawl_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := combat.NewArena(newEngine(1), 0, zap.New(core))
	a.AddGroup(group("l", fixed("l", 10, 10)))
	a.AddGroup(group("r", fixed("r", 1, 1)))
	_, err := a.Brawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("brawl finished").Len())
}

func TestArena_AddGroup_AssignsTeams(t *testing.T) {
	x, y := fixed("x", 1, 1), fixed("y", 1, 1)
	a := combat.NewArena(newEngine(1), 0, nil)
	a.AddGroup(group("one", x))
	a.AddGroup(group("two", y))
	assert.Equal(t, 0, x.Team())
	assert.Equal(t, 1, y.Team())
	assert.Len(t, a.Groups(), 2)
}

func TestNewArena_PanicsOnNilEngine(t *testing.T) {
	assert.Panics(t, func() { combat.NewArena(nil, 0, nil) })
}

func TestPropertyArena_BrawlDeterministicUnderSeed(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		sizes := []int{rapid.IntRange(1, 4).Draw(rt, "left"), rapid.IntRange(1, 4).Draw(rt, "right")}
		run := func() combat.Outcome {
			a := combat.NewArena(newEngine(seed), 50, nil)
			for gi, n := range sizes {
				g := group(string(rune('a' + gi)))
				for i := 0; i < n; i++ {
					c := combat.NewCombatant(string(rune('a'+gi))+string(rune('0'+i)), "m", 20, dice.MustParse("2d4"), 1)
					g.Members = append(g.Members, c)
				}
				a.AddGroup(g)
			}
			out, err := a.Brawl(context.Background())
			require.NoError(rt, err)
			return out
		}
		first, second := run(), run()
		assert.Equal(rt, first.Winner, second.Winner)
		assert.Equal(rt, first.Turns, second.Turns)
		assert.Equal(rt, first.Damage, second.Damage)
		assert.Equal(rt, first.Survivors, second.Survivors)
		assert.LessOrEqual(rt, first.Turns, 50)
		if !first.IsDraw() {
			assert.NotEmpty(rt, first.Survivors)
		}
	})
}
