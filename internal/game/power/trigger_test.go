package power_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/power"
)

func TestParseTrigger_RoundTripsEveryTrigger(t *testing.T) {
	all := power.AllTriggers()
	assert.Len(t, all, 18)
	for _, tr := range all {
		got, err := power.ParseTrigger(tr.String())
		require.NoError(t, err)
		assert.Equal(t, tr, got)
	}
}

func TestParseTrigger_Unknown_ReturnsError(t *testing.T) {
	_, err := power.ParseTrigger("sometimes")
	assert.ErrorIs(t, err, power.ErrTriggerUnknown)
}

func TestParseSource(t *testing.T) {
	for _, s := range []power.Source{power.SourceAttack, power.SourceSkill, power.SourcePower, power.SourceFx} {
		got, err := power.ParseSource(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := power.ParseSource("magic")
	assert.ErrorIs(t, err, power.ErrTriggerUnknown)
}

func TestTrigger_Side(t *testing.T) {
	target := []power.Trigger{power.Defense, power.VsAttack, power.VsSkill, power.VsPowerGain,
		power.VsPowerLose, power.VsHPReduce, power.AfterAttacked}
	for _, tr := range target {
		assert.Equal(t, power.SideTarget, tr.Side(), "%s", tr)
	}
	owner := []power.Trigger{power.Offense, power.OnAttack, power.OnTurn, power.OnKill, power.AfterAttack}
	for _, tr := range owner {
		assert.Equal(t, power.SideOwner, tr.Side(), "%s", tr)
	}
}

func TestTrigger_String_Invalid(t *testing.T) {
	assert.Equal(t, "trigger(99)", power.Trigger(99).String())
	assert.False(t, power.Trigger(0).Valid())
}

func TestNewTriggerSet_DropsDuplicates(t *testing.T) {
	s := power.NewTriggerSet(power.Offense, power.Defense, power.Offense)
	assert.Equal(t, []power.Trigger{power.Offense, power.Defense}, s.Triggers())
	assert.Equal(t, 2, s.Len())
}

func TestNewTriggerSet_Empty(t *testing.T) {
	s := power.NewTriggerSet()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(power.Offense))
}

func TestPropertyTriggerSet_SingleEqualsOneElementSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := rapid.SampledFrom(power.AllTriggers()).Draw(t, "trigger")
		single := power.NewTriggerSet(tr)
		seq := power.NewTriggerSet([]power.Trigger{tr}...)
		for _, probe := range power.AllTriggers() {
			assert.Equal(t, single.Contains(probe), seq.Contains(probe))
		}
		assert.Equal(t, single.Triggers(), seq.Triggers())
	})
}

func TestPropertyTriggerSet_ContainsEveryInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.SliceOf(rapid.SampledFrom(power.AllTriggers())).Draw(t, "triggers")
		s := power.NewTriggerSet(in...)
		for _, tr := range in {
			assert.True(t, s.Contains(tr))
		}
		assert.LessOrEqual(t, s.Len(), len(in))
	})
}
