// Package power implements powers: modifiers that intercept a numeric combat
// value at a trigger point, transform it and optionally apply side effects to
// the entities involved, while tracking their own remaining lifespan.
package power

import (
	"errors"
	"fmt"
)

// ErrTriggerUnknown is returned when a trigger or source name cannot be parsed.
var ErrTriggerUnknown = errors.New("unknown trigger")

// Trigger identifies when a power may fire.
type Trigger int

const (
	Offense Trigger = iota + 1
	Defense
	OnDeath
	OnKill
	OnAttack
	VsAttack
	OnSkill
	VsSkill
	OnPowerGain
	VsPowerGain
	OnPowerLose
	VsPowerLose
	OnTurn
	OnPlay
	OnHPReduce
	VsHPReduce
	AfterAttack
	AfterAttacked
)

var triggerNames = map[Trigger]string{
	Offense:       "offense",
	Defense:       "defense",
	OnDeath:       "on_death",
	OnKill:        "on_kill",
	OnAttack:      "on_attack",
	VsAttack:      "vs_attack",
	OnSkill:       "on_skill",
	VsSkill:       "vs_skill",
	OnPowerGain:   "on_power_gain",
	VsPowerGain:   "vs_power_gain",
	OnPowerLose:   "on_power_lose",
	VsPowerLose:   "vs_power_lose",
	OnTurn:        "on_turn",
	OnPlay:        "on_play",
	OnHPReduce:    "on_hp_reduce",
	VsHPReduce:    "vs_hp_reduce",
	AfterAttack:   "after_attack",
	AfterAttacked: "after_attacked",
}

// AllTriggers returns every trigger in declaration order.
func AllTriggers() []Trigger {
	out := make([]Trigger, 0, len(triggerNames))
	for t := Offense; t <= AfterAttacked; t++ {
		out = append(out, t)
	}
	return out
}

// String returns the snake_case name of the trigger.
func (t Trigger) String() string {
	if n, ok := triggerNames[t]; ok {
		return n
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

// Valid reports whether t is one of the declared triggers.
func (t Trigger) Valid() bool {
	_, ok := triggerNames[t]
	return ok
}

// ParseTrigger returns the trigger whose String() is name.
//
// Postcondition: Returns ErrTriggerUnknown (wrapped) when name matches no trigger.
func ParseTrigger(name string) (Trigger, error) {
	for t, n := range triggerNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrTriggerUnknown, name)
}

// Side selects which entity of a resolution holds the listening powers.
type Side int

const (
	// SideOwner collects powers from the acting entity.
	SideOwner Side = iota
	// SideTarget collects powers from the entity being acted upon.
	SideTarget
)

// Side reports which entity's powers listen to t. Defense, every Vs* trigger
// and AfterAttacked are answered by the target; everything else by the owner.
func (t Trigger) Side() Side {
	switch t {
	case Defense, VsAttack, VsSkill, VsPowerGain, VsPowerLose, VsHPReduce, AfterAttacked:
		return SideTarget
	default:
		return SideOwner
	}
}

// Source is the category of action that caused a trigger to fire.
type Source int

const (
	SourceAttack Source = iota + 1
	SourceSkill
	SourcePower
	SourceFx
)

var sourceNames = map[Source]string{
	SourceAttack: "attack",
	SourceSkill:  "skill",
	SourcePower:  "power",
	SourceFx:     "fx",
}

// String returns the lowercase name of the source.
func (s Source) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// ParseSource returns the source whose String() is name.
func ParseSource(name string) (Source, error) {
	for s, n := range sourceNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: source %q", ErrTriggerUnknown, name)
}

// TriggerSet is a normalized, duplicate-free sequence of triggers kept in
// insertion order.
type TriggerSet struct {
	triggers []Trigger
}

// NewTriggerSet normalizes one or more triggers into a set. A single trigger
// and a one-element sequence of the same trigger produce equal sets.
// Duplicates are dropped; the first occurrence keeps its position.
func NewTriggerSet(triggers ...Trigger) TriggerSet {
	out := make([]Trigger, 0, len(triggers))
	for _, t := range triggers {
		if !containsTrigger(out, t) {
			out = append(out, t)
		}
	}
	return TriggerSet{triggers: out}
}

func containsTrigger(ts []Trigger, t Trigger) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

// Contains reports whether t is in the set.
func (s TriggerSet) Contains(t Trigger) bool {
	return containsTrigger(s.triggers, t)
}

// Len returns the number of distinct triggers.
func (s TriggerSet) Len() int { return len(s.triggers) }

// Triggers returns a copy of the triggers in insertion order.
func (s TriggerSet) Triggers() []Trigger {
	out := make([]Trigger, len(s.triggers))
	copy(out, s.triggers)
	return out
}
