// Package combat drives brawls between monster groups: it owns combatant
// state (hit points, block, active powers) and fires power triggers at each
// step of an attack.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/power"
)

// Combatant is one participant in a brawl.
//
// Invariant: 0 <= CurrentHP <= MaxHP; Block() >= 0.
type Combatant struct {
	ID         string
	Name       string
	MaxHP      int
	CurrentHP  int
	Damage     dice.Expression
	BlockGain  int
	Initiative int

	team   int
	block  int
	powers *power.ActiveSet
}

// NewCombatant creates a combatant at full health that carries the block-use
// power, so block it gains soaks attack damage.
//
// Precondition: maxHP >= 1.
func NewCombatant(id, name string, maxHP int, damage dice.Expression, blockGain int) *Combatant {
	if maxHP < 1 {
		panic(fmt.Sprintf("combat.NewCombatant: maxHP must be >= 1, got %d", maxHP))
	}
	c := &Combatant{
		ID:        id,
		Name:      name,
		MaxHP:     maxHP,
		CurrentHP: maxHP,
		Damage:    damage,
		BlockGain: blockGain,
		powers:    power.NewActiveSet(),
	}
	if err := c.powers.Add(power.NewBlockUse()); err != nil {
		panic(err)
	}
	return c
}

// Block returns the current block.
func (c *Combatant) Block() int { return c.block }

// SetBlock sets block, flooring at zero.
func (c *Combatant) SetBlock(n int) { c.block = max(n, 0) }

// Powers returns the combatant's active powers.
func (c *Combatant) Powers() *power.ActiveSet { return c.powers }

// Team returns the index of the group the combatant fights for.
func (c *Combatant) Team() int { return c.team }

// Grant adds p to the combatant's active powers.
func (c *Combatant) Grant(p *power.Power) error {
	if err := c.powers.Add(p); err != nil {
		return fmt.Errorf("granting to %s: %w", c.ID, err)
	}
	return nil
}

// IsDead reports whether CurrentHP has reached zero.
func (c *Combatant) IsDead() bool { return c.CurrentHP <= 0 }

// ApplyDamage reduces CurrentHP by amount, flooring at zero, and returns
// the hit points actually lost.
//
// Postcondition: 0 <= returned <= max(amount, 0).
func (c *Combatant) ApplyDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	lost := min(amount, c.CurrentHP)
	c.CurrentHP -= lost
	return lost
}

// Die removes the combatant from play: hit points drop to zero and every
// power is released.
//
// Postcondition: IsDead() and Powers().Len() == 0.
func (c *Combatant) Die() []*power.Power {
	c.CurrentHP = 0
	return c.powers.Clear()
}

// String returns "Name(id) hp/max block".
func (c *Combatant) String() string {
	return fmt.Sprintf("%s(%s) %d/%d block %d", c.Name, c.ID, c.CurrentHP, c.MaxHP, c.block)
}
