package scripting

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/power"
)

// EffectKind is the power.Factory kind served by scripted effects.
const EffectKind = "script"

// Effect is a power.Effect backed by a Lua function.
// The stack count passed to the function comes from an Amount payload, or
// the amount captured by Prepare, or zero.
type Effect struct {
	m      *Manager
	name   string
	fn     string
	amount int
}

// NewEffect returns an effect named name that calls the Lua function fn.
func (m *Manager) NewEffect(name, fn string) *Effect {
	return &Effect{m: m, name: name, fn: fn}
}

// Name returns the power name the effect was built for.
func (e *Effect) Name() string { return e.name }

// Prepare captures the amount carried by an Amount payload.
func (e *Effect) Prepare(p power.Payload) {
	if n, ok := power.AmountOf(p); ok {
		e.amount = n
	}
}

// Affect runs the Lua function. Script failures are logged at Warn and leave
// value unchanged.
func (e *Effect) Affect(value int, src power.Source, owner, target power.Actor, p power.Payload) int {
	amount := e.amount
	if n, ok := power.AmountOf(p); ok {
		amount = n
	}
	out, err := e.m.Call(e.fn, value, src, amount, owner, target)
	if err != nil {
		e.m.logger.Warn("scripting: effect failed",
			zap.String("power", e.name),
			zap.String("function", e.fn),
			zap.Error(err),
		)
		return value
	}
	return out
}

// Install registers the "script" effect kind on f. A def's Script field names
// the Lua function; the def's ID becomes the effect name.
//
// Postcondition: Building a def whose script is not defined fails.
func (m *Manager) Install(f *power.Factory) {
	f.RegisterEffect(EffectKind, func(def *power.PowerDef) (power.Effect, error) {
		if def.Script == "" {
			return nil, fmt.Errorf("%w: script must not be empty", power.ErrInvalidDefinition)
		}
		if !m.Defined(def.Script) {
			return nil, fmt.Errorf("%w: %q", ErrUndefined, def.Script)
		}
		return m.NewEffect(def.ID, def.Script), nil
	})
}
