package combat

import (
	"sort"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// RollInitiative sets each combatant's Initiative to 1d20 and sorts
// combatants into acting order.
//
// Postcondition: combatants is ordered by Initiative descending; ties keep
// their previous relative order.
func RollInitiative(combatants []*Combatant, src dice.Source) {
	for _, c := range combatants {
		c.Initiative = src.Intn(20) + 1
	}
	sort.SliceStable(combatants, func(i, j int) bool {
		return combatants[i].Initiative > combatants[j].Initiative
	})
}
