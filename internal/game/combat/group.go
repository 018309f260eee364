package combat

import (
	"fmt"
	"strconv"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/monster"
	"github.com/cory-johannsen/arena/internal/game/power"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

// Group is a named set of combatants fighting on the same side.
type Group struct {
	Name    string
	Members []*Combatant
}

// Alive reports whether any member is still standing.
func (g *Group) Alive() bool {
	for _, c := range g.Members {
		if !c.IsDead() {
			return true
		}
	}
	return false
}

// Living returns the members still standing.
func (g *Group) Living() []*Combatant {
	var out []*Combatant
	for _, c := range g.Members {
		if !c.IsDead() {
			out = append(out, c)
		}
	}
	return out
}

// Builder turns roster entries into combatants.
//
// An entry's type names a monster template. Params override the template:
// max_hp and block take integers, damage takes a dice expression, and any
// other key names a power definition granted with the value as its amount.
// Overrides obey the same bounds as templates: block and amounts must be >= 0.
//
// Monsters must hold validated templates, as LoadCatalog produces.
type Builder struct {
	Monsters *monster.Catalog
	Powers   *power.Registry
	Factory  *power.Factory
}

// Combatant builds one combatant from e.
//
// Postcondition: Returns a fresh combatant, or an error naming the roster line.
func (b *Builder) Combatant(e roster.Entry) (*Combatant, error) {
	tmpl, err := b.Monsters.Get(e.Type)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", e.Line, err)
	}

	maxHP, err := e.Int("max_hp", tmpl.MaxHP)
	if err != nil {
		return nil, err
	}
	if maxHP < 1 {
		return nil, fmt.Errorf("%w: line %d: max_hp must be >= 1", roster.ErrSyntax, e.Line)
	}
	blockGain, err := e.Int("block", tmpl.Block)
	if err != nil {
		return nil, err
	}
	if blockGain < 0 {
		return nil, fmt.Errorf("%w: line %d: block must be >= 0", roster.ErrSyntax, e.Line)
	}
	dmg := tmpl.DamageExpr()
	if v, ok := e.Get("damage"); ok {
		if dmg, err = dice.Parse(v); err != nil {
			return nil, fmt.Errorf("line %d: %w", e.Line, err)
		}
	}

	powers, err := tmpl.BuildPowers(b.Powers, b.Factory)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", e.Line, err)
	}
	for _, p := range e.Params {
		switch p.Key {
		case "max_hp", "block", "damage":
			continue
		}
		n, err := strconv.Atoi(p.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: power %s amount %q is not an integer", roster.ErrSyntax, e.Line, p.Key, p.Value)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: line %d: power %s amount must be >= 0", roster.ErrSyntax, e.Line, p.Key)
		}
		pw, err := monster.BuildGrant(b.Powers, b.Factory, monster.Grant{Power: p.Key, Amount: n})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", e.Line, err)
		}
		powers = append(powers, pw)
	}

	c := NewCombatant(e.ID, tmpl.Name, maxHP, dmg, blockGain)
	for _, pw := range powers {
		if err := c.Grant(pw); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Group builds a group from entries.
func (b *Builder) Group(name string, entries []roster.Entry) (*Group, error) {
	g := &Group{Name: name}
	for _, e := range entries {
		c, err := b.Combatant(e)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", name, err)
		}
		g.Members = append(g.Members, c)
	}
	return g, nil
}
