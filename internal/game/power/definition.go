package power

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PowerDef is the static definition of a power, loaded from YAML.
type PowerDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Effect      string   `yaml:"effect"` // factory kind, e.g. "strength" or "script"
	Triggers    []string `yaml:"triggers"`
	Priority    int      `yaml:"priority"`
	Duration    string   `yaml:"duration"` // "permanent" or a positive turn count
	ResolveLast bool     `yaml:"resolve_last"`
	Script      string   `yaml:"script"` // Lua function name; only for effect "script"
}

// Validate checks the definition's static invariants.
//
// Postcondition: Returns nil iff ID and Effect are non-empty, every trigger
// parses, at least one trigger is given and Duration parses.
func (d *PowerDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidDefinition)
	}
	if d.Effect == "" {
		return fmt.Errorf("%w: power %q: effect must not be empty", ErrInvalidDefinition, d.ID)
	}
	if _, err := d.TriggerSet(); err != nil {
		return fmt.Errorf("power %q: %w", d.ID, err)
	}
	if _, err := ParseDuration(d.Duration); err != nil {
		return fmt.Errorf("power %q: %w", d.ID, err)
	}
	return nil
}

// TriggerSet parses Triggers.
func (d *PowerDef) TriggerSet() (TriggerSet, error) {
	if len(d.Triggers) == 0 {
		return TriggerSet{}, fmt.Errorf("%w: triggers must not be empty", ErrInvalidDefinition)
	}
	ts := make([]Trigger, 0, len(d.Triggers))
	for _, name := range d.Triggers {
		t, err := ParseTrigger(name)
		if err != nil {
			return TriggerSet{}, err
		}
		ts = append(ts, t)
	}
	return NewTriggerSet(ts...), nil
}

// ParseDuration parses "permanent" or a positive integer turn count.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "permanent" {
		return Permanent(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return Duration{}, fmt.Errorf("%w: duration must be \"permanent\" or >= 1, got %q", ErrInvalidDefinition, s)
	}
	return Turns(n), nil
}

// EffectFactory builds a fresh Effect for def.
type EffectFactory func(def *PowerDef) (Effect, error)

// Factory maps effect kinds to constructors.
type Factory struct {
	kinds map[string]EffectFactory
}

// NewFactory returns a Factory pre-populated with the builtin effects.
func NewFactory() *Factory {
	f := &Factory{kinds: make(map[string]EffectFactory)}
	f.RegisterEffect(NameWeak, func(*PowerDef) (Effect, error) { return WeakEffect(), nil })
	f.RegisterEffect(NameShackles, func(*PowerDef) (Effect, error) { return ShacklesEffect(), nil })
	f.RegisterEffect(NameStrength, func(*PowerDef) (Effect, error) { return StrengthEffect(), nil })
	f.RegisterEffect(NameVulnerable, func(*PowerDef) (Effect, error) { return VulnerableEffect(), nil })
	f.RegisterEffect(NameIntangible, func(*PowerDef) (Effect, error) { return IntangibleEffect(), nil })
	f.RegisterEffect(NameBlock, func(*PowerDef) (Effect, error) { return BlockUseEffect(), nil })
	return f
}

// RegisterEffect adds or replaces the constructor for kind.
func (f *Factory) RegisterEffect(kind string, fn EffectFactory) {
	f.kinds[kind] = fn
}

// Kinds returns the registered effect kinds in sorted order.
func (f *Factory) Kinds() []string {
	out := make([]string, 0, len(f.kinds))
	for k := range f.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build constructs a new Power from def. When p is non-nil it is passed to
// the new power's Prepare, which is how stack counts are granted.
//
// Precondition: def must not be nil.
// Postcondition: Returns a fresh Power, or an error if def is invalid or its
// effect kind is not registered.
func (f *Factory) Build(def *PowerDef, p Payload) (*Power, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	fn, ok := f.kinds[def.Effect]
	if !ok {
		return nil, fmt.Errorf("%w: power %q: unknown effect %q", ErrInvalidDefinition, def.ID, def.Effect)
	}
	e, err := fn(def)
	if err != nil {
		return nil, fmt.Errorf("power %q: %w", def.ID, err)
	}
	ts, _ := def.TriggerSet()
	d, _ := ParseDuration(def.Duration)
	opts := []Option{WithDescriptions("", def.Description)}
	if def.ResolveLast {
		opts = append(opts, ResolveLast())
	}
	pw, err := New(ts, def.Priority, d, e, opts...)
	if err != nil {
		return nil, fmt.Errorf("power %q: %w", def.ID, err)
	}
	if p != nil {
		pw.Prepare(p)
	}
	return pw, nil
}

// Registry holds all known PowerDefs keyed by ID.
type Registry struct {
	defs map[string]*PowerDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*PowerDef)}
}

// DefaultRegistry returns a Registry holding definitions of the builtin powers
// under their builtin names. Weak, Vulnerable and Intangible default to one turn.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, d := range []*PowerDef{
		{ID: NameWeak, Name: "Weak", Description: DescWeak, Effect: NameWeak, Triggers: []string{"offense"}, Priority: PriorityWeak, Duration: "1"},
		{ID: NameShackles, Name: "Shackles", Description: DescShackles, Effect: NameShackles, Triggers: []string{"offense"}, Priority: PriorityShackles, Duration: "1"},
		{ID: NameStrength, Name: "Strength", Description: DescStrength, Effect: NameStrength, Triggers: []string{"offense"}, Priority: PriorityStrength, Duration: "permanent"},
		{ID: NameVulnerable, Name: "Vulnerable", Description: DescVulnerable, Effect: NameVulnerable, Triggers: []string{"defense"}, Priority: PriorityVulnerable, Duration: "1"},
		{ID: NameIntangible, Name: "Intangible", Description: DescIntangible, Effect: NameIntangible, Triggers: []string{"defense"}, Priority: PriorityIntangible, Duration: "1"},
		{ID: NameBlock, Name: "Block", Description: DescBlock, Effect: NameBlock, Triggers: []string{"defense"}, Priority: PriorityBlock, Duration: "permanent", ResolveLast: true},
	} {
		reg.Register(d)
	}
	return reg
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *PowerDef) {
	r.defs[def.ID] = def
}

// Get returns the PowerDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*PowerDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot of all registered PowerDefs sorted by ID.
func (r *Registry) All() []*PowerDef {
	out := make([]*PowerDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir into reg. Later files override
// earlier definitions with the same ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns an error if any file fails to parse or validate.
func (r *Registry) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading power dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		var def PowerDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("validating %q: %w", path, err)
		}
		r.Register(&def)
	}
	return nil
}
