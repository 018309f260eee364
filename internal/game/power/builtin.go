package power

import "fmt"

// Builtin effect names.
const (
	NameWeak       = "weak"
	NameShackles   = "shackles"
	NameStrength   = "strength"
	NameVulnerable = "vulnerable"
	NameIntangible = "intangible"
	NameBlock      = "block"
)

// Builtin priorities. Block shares priority 2 with Intangible but is
// constructed with ResolveLast, so it always applies after every other
// defense power.
const (
	PriorityWeak       = 1
	PriorityShackles   = 2
	PriorityStrength   = 3
	PriorityVulnerable = 3
	PriorityIntangible = 2
	PriorityBlock      = 2
)

// Display text for the builtin powers.
const (
	DescWeak       = "Reduce attack damage by 25%"
	DescShackles   = "Reduce Strength for 1 turn by 1 per stack"
	DescStrength   = "Increase damage by 1 per stack"
	DescVulnerable = "Increase attack damage by 50%"
	DescIntangible = "Reduce attack damage to 1"
	DescBlock      = "Reduce attack damage by 1 per stack, then remove that many stacks"
	DescAmount     = "Set the stack count"
)

type weak struct{}

func (weak) Name() string { return NameWeak }

// Affect truncates toward zero. Dividing first keeps large values from overflowing.
func (weak) Affect(value int, _ Source, _, _ Actor, _ Payload) int {
	return value/4*3 + value%4*3/4
}

type vulnerable struct{}

func (vulnerable) Name() string { return NameVulnerable }

func (vulnerable) Affect(value int, _ Source, _, _ Actor, _ Payload) int {
	return value/2*3 + value%2*3/2
}

type intangible struct{}

func (intangible) Name() string { return NameIntangible }

func (intangible) Affect(value int, _ Source, _, _ Actor, _ Payload) int {
	return min(value, 1)
}

type blockUse struct{}

func (blockUse) Name() string { return NameBlock }

// Affect absorbs up to target.Block() of value and removes the absorbed
// amount from the target's block.
func (blockUse) Affect(value int, _ Source, _, target Actor, _ Payload) int {
	available := target.Block()
	blocked := max(min(value, available), 0)
	target.SetBlock(available - blocked)
	return value - blocked
}

// amountEffect is an effect parameterised by a stack count that is captured
// at grant time, replaced by Prepare, or overridden per call by an Amount payload.
type amountEffect struct {
	name   string
	amount int
	armed  bool
	apply  func(value, amount int) int
}

func (e *amountEffect) Name() string { return e.name }

// Prepare captures the amount carried by p. Other payloads are ignored.
func (e *amountEffect) Prepare(p Payload) {
	if n, ok := AmountOf(p); ok {
		e.amount = n
		e.armed = true
	}
}

// Affect panics with ErrMissingArgument when no amount is available.
func (e *amountEffect) Affect(value int, _ Source, _, _ Actor, p Payload) int {
	amount, ok := AmountOf(p)
	if !ok {
		if !e.armed {
			panic(fmt.Errorf("%s: %w: amount", e.name, ErrMissingArgument))
		}
		amount = e.amount
	}
	return e.apply(value, amount)
}

func shacklesApply(value, amount int) int { return max(0, value-amount) }
func strengthApply(value, amount int) int { return value + amount }

// WeakEffect returns the Weak effect: value → trunc(value × 0.75).
func WeakEffect() Effect { return weak{} }

// VulnerableEffect returns the Vulnerable effect: value → trunc(value × 1.5).
func VulnerableEffect() Effect { return vulnerable{} }

// IntangibleEffect returns the Intangible effect: value → min(value, 1).
func IntangibleEffect() Effect { return intangible{} }

// BlockUseEffect returns the Block-use effect, which spends the target's block.
func BlockUseEffect() Effect { return blockUse{} }

// ShacklesEffect returns an unarmed Shackles effect; its amount must arrive
// through Prepare or an Amount payload.
func ShacklesEffect() Effect {
	return &amountEffect{name: NameShackles, apply: shacklesApply}
}

// StrengthEffect returns an unarmed Strength effect.
func StrengthEffect() Effect {
	return &amountEffect{name: NameStrength, apply: strengthApply}
}

func armed(e Effect, amount int) Effect {
	e.(*amountEffect).Prepare(Amount{N: amount})
	return e
}

// NewWeak grants Weak for d.
func NewWeak(d Duration) *Power {
	return MustNew(NewTriggerSet(Offense), PriorityWeak, d, WeakEffect(),
		WithDescriptions("", DescWeak))
}

// NewShackles grants Shackles of amount for one turn.
func NewShackles(amount int) *Power {
	return MustNew(NewTriggerSet(Offense), PriorityShackles, Turns(1), armed(ShacklesEffect(), amount),
		WithDescriptions(DescAmount, DescShackles))
}

// NewStrength grants permanent Strength of amount.
func NewStrength(amount int) *Power {
	return MustNew(NewTriggerSet(Offense), PriorityStrength, Permanent(), armed(StrengthEffect(), amount),
		WithDescriptions(DescAmount, DescStrength))
}

// NewVulnerable grants Vulnerable for d.
func NewVulnerable(d Duration) *Power {
	return MustNew(NewTriggerSet(Defense), PriorityVulnerable, d, VulnerableEffect(),
		WithDescriptions("", DescVulnerable))
}

// NewIntangible grants Intangible for d.
func NewIntangible(d Duration) *Power {
	return MustNew(NewTriggerSet(Defense), PriorityIntangible, d, IntangibleEffect(),
		WithDescriptions("", DescIntangible))
}

// NewBlockUse returns the always-on Block-use power every combatant carries.
func NewBlockUse() *Power {
	return MustNew(NewTriggerSet(Defense), PriorityBlock, Permanent(), BlockUseEffect(),
		ResolveLast(), WithDescriptions("", DescBlock))
}
