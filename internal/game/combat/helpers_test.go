package combat_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/power"
)

func newEngine(seed int64) *combat.Engine {
	return combat.NewEngine(dice.NewLoggedRoller(dice.NewSeededSource(seed), nil), nil)
}

// fixed returns a combatant whose attacks always roll dmg.
func fixed(id string, hp, dmg int) *combat.Combatant {
	return combat.NewCombatant(id, id, hp, dice.MustParse(fmt.Sprintf("1d1%+d", dmg-1)), 0)
}

// probe is an effect that records its name and passes the value through.
type probe struct {
	name string
	log  *[]string
}

func (p probe) Name() string { return p.name }

func (p probe) Affect(value int, _ power.Source, _, _ power.Actor, _ power.Payload) int {
	*p.log = append(*p.log, p.name)
	return value
}

func grantProbe(t *testing.T, c *combat.Combatant, log *[]string, triggers ...power.Trigger) {
	t.Helper()
	for _, tr := range triggers {
		p, err := power.New(power.NewTriggerSet(tr), 1, power.Permanent(), probe{name: tr.String(), log: log})
		require.NoError(t, err)
		require.NoError(t, c.Grant(p))
	}
}
