// Package monster provides monster templates: the hit points, damage dice,
// per-turn block and granted powers a combatant starts a brawl with.
package monster

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/power"
)

// ErrUnknownTemplate is returned when a template ID is not in a Catalog.
var ErrUnknownTemplate = errors.New("monster: unknown template")

// Grant names a power definition and the stack count it is granted with.
type Grant struct {
	Power  string `yaml:"power"`
	Amount int    `yaml:"amount"`
}

// Template defines a reusable monster archetype loaded from YAML.
type Template struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	MaxHP       int     `yaml:"max_hp"`
	Damage      string  `yaml:"damage"` // dice expression rolled for each attack
	Block       int     `yaml:"block"`  // block gained at the start of each turn
	Powers      []Grant `yaml:"powers"`
}

// Validate checks the template's invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1,
// Damage parses, Block >= 0 and every grant names a power with amount >= 0.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("monster template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("monster template %q: name must not be empty", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("monster template %q: max_hp must be >= 1", t.ID)
	}
	if _, err := dice.Parse(t.Damage); err != nil {
		return fmt.Errorf("monster template %q: damage: %w", t.ID, err)
	}
	if t.Block < 0 {
		return fmt.Errorf("monster template %q: block must be >= 0", t.ID)
	}
	for i, g := range t.Powers {
		if g.Power == "" {
			return fmt.Errorf("monster template %q: powers[%d]: power must not be empty", t.ID, i)
		}
		if g.Amount < 0 {
			return fmt.Errorf("monster template %q: powers[%d]: amount must be >= 0", t.ID, i)
		}
	}
	return nil
}

// DamageExpr returns the parsed damage expression.
//
// Precondition: t passed Validate.
func (t *Template) DamageExpr() dice.Expression {
	return dice.MustParse(t.Damage)
}

// BuildPowers builds one fresh Power per grant. Each grant's amount is
// passed to Build as an Amount payload.
//
// Postcondition: Returns len(t.Powers) unowned powers, or an error naming the grant.
func (t *Template) BuildPowers(reg *power.Registry, f *power.Factory) ([]*power.Power, error) {
	out := make([]*power.Power, 0, len(t.Powers))
	for _, g := range t.Powers {
		p, err := BuildGrant(reg, f, g)
		if err != nil {
			return nil, fmt.Errorf("monster template %q: %w", t.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// BuildGrant builds the power a single grant names.
func BuildGrant(reg *power.Registry, f *power.Factory, g Grant) (*power.Power, error) {
	def, ok := reg.Get(g.Power)
	if !ok {
		return nil, fmt.Errorf("power %q: %w", g.Power, power.ErrInvalidDefinition)
	}
	p, err := f.Build(def, power.Amount{N: g.Amount})
	if err != nil {
		return nil, fmt.Errorf("power %q: %w", g.Power, err)
	}
	return p, nil
}

// LoadTemplateFromBytes parses and validates a single template.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or the first error; partial results are discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading monster dir %q: %w", dir, err)
	}
	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// Catalog indexes templates by ID.
type Catalog struct {
	byID map[string]*Template
}

// NewCatalog builds a Catalog. A later template replaces an earlier one with the same ID.
func NewCatalog(templates []*Template) *Catalog {
	c := &Catalog{byID: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		c.byID[t.ID] = t
	}
	return c
}

// LoadCatalog loads every template in dir into a Catalog.
func LoadCatalog(dir string) (*Catalog, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	return NewCatalog(templates), nil
}

// Get returns the template for id.
func (c *Catalog) Get(id string) (*Template, error) {
	t, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return t, nil
}

// IDs returns every template ID in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
