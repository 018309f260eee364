package power

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidDefinition is returned when a Power is constructed without
// triggers, without an effect, or with a non-positive finite duration.
var ErrInvalidDefinition = errors.New("invalid power definition")

// ErrMissingArgument is the panic value raised when an effect that requires
// an auxiliary argument is applied without one.
var ErrMissingArgument = errors.New("missing power argument")

// Payload is the typed auxiliary argument passed to Prepare and Affect.
// The set of variants is closed: NoPayload and Amount.
type Payload interface {
	isPayload()
}

// NoPayload carries nothing.
type NoPayload struct{}

// Amount carries an integer magnitude, e.g. stacks of Strength.
type Amount struct {
	N int
}

func (NoPayload) isPayload() {}
func (Amount) isPayload() {}

// AmountOf extracts the magnitude from p.
//
// Postcondition: Returns (n, true) iff p is an Amount.
func AmountOf(p Payload) (int, bool) {
	if a, ok := p.(Amount); ok {
		return a.N, true
	}
	return 0, false
}

// Actor is the entity contract the power engine reads and mutates.
// Block must never be negative; an entity without block reports zero.
type Actor interface {
	Block() int
	SetBlock(n int)
}

// Holder is an Actor that owns a collection of active powers.
type Holder interface {
	Actor
	Powers() *ActiveSet
}

// Effect transforms a value and may apply side effects to owner and target.
// Affect must be a function of its arguments and the effect's own state only.
type Effect interface {
	Name() string
	Affect(value int, src Source, owner, target Actor, p Payload) int
}

// Preparer is implemented by effects that capture situational state ahead of
// a future Affect call.
type Preparer interface {
	Prepare(p Payload)
}

type noopPreparer struct{}

func (noopPreparer) Prepare(Payload) {}

// Duration is either permanent or a count of remaining turns.
// Permanence is fixed when the value is created.
type Duration struct {
	turns     int
	permanent bool
}

// Permanent returns a duration that never expires through aging.
func Permanent() Duration { return Duration{permanent: true} }

// Turns returns a finite duration of n turns. n must be >= 1 for the
// duration to be accepted by New.
func Turns(n int) Duration { return Duration{turns: n} }

// IsPermanent reports whether the duration never expires.
func (d Duration) IsPermanent() bool { return d.permanent }

// Remaining returns the number of turns left; -1 for permanent durations.
func (d Duration) Remaining() int {
	if d.permanent {
		return -1
	}
	return d.turns
}

// String renders "infinity" for permanent durations and the turn count otherwise.
func (d Duration) String() string {
	if d.permanent {
		return "infinity"
	}
	return strconv.Itoa(d.turns)
}

// Power is a named, stateful modifier bound to a set of triggers.
// A Power belongs to at most one ActiveSet at a time.
type Power struct {
	triggers           TriggerSet
	priority           int
	duration           Duration
	effect             Effect
	preparer           Preparer
	prepareDescription string
	affectDescription  string
	last               bool
	owned              bool
}

// Option customizes a Power at construction.
type Option func(*Power)

// WithPreparer installs pr as the Prepare behavior, overriding any Preparer
// the effect itself implements.
func WithPreparer(pr Preparer) Option {
	return func(p *Power) {
		if pr != nil {
			p.preparer = pr
		}
	}
}

// WithDescriptions sets the display text for the prepare and affect behaviors.
func WithDescriptions(prepare, affect string) Option {
	return func(p *Power) {
		p.prepareDescription = prepare
		p.affectDescription = affect
	}
}

// ResolveLast orders the power after every other power listening to the same
// trigger, regardless of priority.
func ResolveLast() Option {
	return func(p *Power) { p.last = true }
}

// New constructs a Power.
//
// Precondition: triggers must be non-empty; e must be non-nil; finite durations must be >= 1.
// Postcondition: Returns a Power or an error wrapping ErrInvalidDefinition.
// If e implements Preparer it becomes the default Prepare behavior; otherwise
// Prepare is a no-op.
func New(triggers TriggerSet, priority int, d Duration, e Effect, opts ...Option) (*Power, error) {
	if triggers.Len() == 0 {
		return nil, fmt.Errorf("%w: trigger set must not be empty", ErrInvalidDefinition)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: effect must not be nil", ErrInvalidDefinition)
	}
	for _, t := range triggers.triggers {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, t)
		}
	}
	if !d.permanent && d.turns < 1 {
		return nil, fmt.Errorf("%w: duration must be permanent or >= 1 turn, got %d", ErrInvalidDefinition, d.turns)
	}
	p := &Power{
		triggers: triggers,
		priority: priority,
		duration: d,
		effect:   e,
		preparer: noopPreparer{},
	}
	if pr, ok := e.(Preparer); ok {
		p.preparer = pr
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MustNew is New that panics on error. Intended for builtin constructors.
func MustNew(triggers TriggerSet, priority int, d Duration, e Effect, opts ...Option) *Power {
	p, err := New(triggers, priority, d, e, opts...)
	if err != nil {
		panic("power: MustNew: " + err.Error())
	}
	return p
}

// Name returns the effect's name.
func (p *Power) Name() string { return p.effect.Name() }

// Priority returns the ordering key; higher resolves earlier.
func (p *Power) Priority() int { return p.priority }

// Triggers returns the trigger set.
func (p *Power) Triggers() TriggerSet { return p.triggers }

// Duration returns the remaining duration.
func (p *Power) Duration() Duration { return p.duration }

// Listens reports whether the power fires on t.
func (p *Power) Listens(t Trigger) bool { return p.triggers.Contains(t) }

// Prepare updates the power's internal state from p ahead of a later Affect.
func (p *Power) Prepare(pl Payload) {
	if pl == nil {
		pl = NoPayload{}
	}
	p.preparer.Prepare(pl)
}

// Affect applies the effect to value and returns the transformed value.
func (p *Power) Affect(value int, src Source, owner, target Actor, pl Payload) int {
	if pl == nil {
		pl = NoPayload{}
	}
	return p.effect.Affect(value, src, owner, target, pl)
}

// TurnTick ages the power by one turn.
//
// Postcondition: Returns true exactly when a finite duration reaches zero.
// Permanent powers always return false.
func (p *Power) TurnTick() bool {
	if p.duration.permanent {
		return false
	}
	p.duration.turns--
	return p.duration.turns == 0
}

// String renders the power for display, e.g.
//
//	strength [Priority 3, infinity turns left, Affect: "Increase damage by 1 per stack"]
func (p *Power) String() string {
	definition := ""
	switch {
	case p.prepareDescription != "" && p.affectDescription != "":
		definition = fmt.Sprintf(", Prepare: %q, Affect: %q", p.prepareDescription, p.affectDescription)
	case p.prepareDescription != "":
		definition = fmt.Sprintf(", Prepare: %q", p.prepareDescription)
	case p.affectDescription != "":
		definition = fmt.Sprintf(", Affect: %q", p.affectDescription)
	}
	return fmt.Sprintf("%s [Priority %d, %s turns left%s]", p.Name(), p.priority, p.duration, definition)
}
