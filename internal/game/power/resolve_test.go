package power_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/power"
)

func TestResolve_NoMatchingPowers_ReturnsValue(t *testing.T) {
	owner := newEntity(0, power.NewVulnerable(power.Turns(1)))
	target := newEntity(0)
	assert.Equal(t, 7, power.Resolve(power.Offense, 7, power.SourceAttack, owner, target, nil))
}

func TestResolve_OffenseOrdering_StrengthShacklesWeak(t *testing.T) {
	// Insert in the reverse of resolution order to prove sorting happens.
	owner := newEntity(0, power.NewWeak(power.Turns(2)), power.NewShackles(1), power.NewStrength(2))
	target := newEntity(0)
	got := power.Resolve(power.Offense, 10, power.SourceAttack, owner, target, nil)
	// floor(max(0, (10+2)-1) * 0.75)
	assert.Equal(t, 8, got)
}

func TestResolve_DefenseCollectsFromTarget(t *testing.T) {
	attacker := newEntity(0, power.NewVulnerable(power.Turns(1)))
	defender := newEntity(0, power.NewIntangible(power.Turns(1)))
	got := power.Resolve(power.Defense, 10, power.SourceAttack, attacker, defender, nil)
	assert.Equal(t, 1, got, "defender's Intangible applies, attacker's Vulnerable does not")
}

func TestResolve_BlockUse_PartialBlock(t *testing.T) {
	attacker := newEntity(0)
	defender := newEntity(5, power.NewBlockUse())
	got := power.Resolve(power.Defense, 8, power.SourceAttack, attacker, defender, nil)
	assert.Equal(t, 3, got)
	assert.Equal(t, 0, defender.Block())
}

func TestResolve_BlockUse_FullBlock(t *testing.T) {
	attacker := newEntity(0)
	defender := newEntity(10, power.NewBlockUse())
	got := power.Resolve(power.Defense, 8, power.SourceAttack, attacker, defender, nil)
	assert.Equal(t, 0, got)
	assert.Equal(t, 2, defender.Block())
}

func TestResolve_BlockResolvesLast_EvenWhenGrantedFirst(t *testing.T) {
	attacker := newEntity(0)
	defender := newEntity(5, power.NewBlockUse(), power.NewIntangible(power.Turns(1)), power.NewVulnerable(power.Turns(1)))
	// Vulnerable: 8 -> 12, Intangible: 12 -> 1, Block: 1 -> 0 spending one block.
	got := power.Resolve(power.Defense, 8, power.SourceAttack, attacker, defender, nil)
	assert.Equal(t, 0, got)
	assert.Equal(t, 4, defender.Block())
}

func TestResolve_SideEffectsVisibleToLaterPowers(t *testing.T) {
	attacker := newEntity(0)
	// Two Block-use powers: the second sees the block the first spent.
	defender := newEntity(4, power.NewBlockUse(), power.NewBlockUse())
	got := power.Resolve(power.Defense, 10, power.SourceAttack, attacker, defender, nil)
	assert.Equal(t, 6, got)
	assert.Equal(t, 0, defender.Block())
}

func TestResolve_PayloadOverridesCapturedAmount(t *testing.T) {
	owner := newEntity(0, power.NewStrength(2))
	got := power.Resolve(power.Offense, 10, power.SourceAttack, owner, newEntity(0), power.Amount{N: 5})
	assert.Equal(t, 15, got)
}

func TestResolver_LogsEachStep(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := power.NewResolver(zap.New(core))
	owner := newEntity(0, power.NewStrength(2), power.NewWeak(power.Turns(1)))
	got := r.Resolve(power.Offense, 10, power.SourceSkill, owner, newEntity(0), nil)
	assert.Equal(t, 9, got)
	entries := logs.FilterMessage("power applied").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "strength", entries[0].ContextMap()["power"])
	assert.Equal(t, int64(12), entries[0].ContextMap()["out"])
	assert.Equal(t, "weak", entries[1].ContextMap()["power"])
	assert.Equal(t, "skill", entries[1].ContextMap()["source"])
}

func TestPropertyResolve_EmptySetIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Int().Draw(t, "value")
		tr := rapid.SampledFrom(power.AllTriggers()).Draw(t, "trigger")
		assert.Equal(t, v, power.Resolve(tr, v, power.SourceAttack, newEntity(0), newEntity(0), nil))
	})
}

func TestPropertyResolve_OffenseMatchesManualFold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.IntRange(0, 1000).Draw(t, "value")
		str := rapid.IntRange(0, 20).Draw(t, "strength")
		sh := rapid.IntRange(0, 20).Draw(t, "shackles")
		owner := newEntity(0, power.NewWeak(power.Turns(1)), power.NewStrength(str), power.NewShackles(sh))
		want := max(0, v+str-sh) * 3 / 4
		assert.Equal(t, want, power.Resolve(power.Offense, v, power.SourceAttack, owner, newEntity(0), nil))
	})
}

func TestPropertyResolve_BlockNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.IntRange(-50, 200).Draw(t, "value")
		block := rapid.IntRange(0, 200).Draw(t, "block")
		defender := newEntity(block, power.NewBlockUse())
		got := power.Resolve(power.Defense, v, power.SourceAttack, newEntity(0), defender, nil)
		assert.GreaterOrEqual(t, defender.Block(), 0)
		assert.LessOrEqual(t, defender.Block(), block)
		assert.Equal(t, v-(block-defender.Block()), got)
	})
}
