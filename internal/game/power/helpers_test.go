package power_test

import "github.com/cory-johannsen/arena/internal/game/power"

// entity is a minimal power.Holder for tests.
type entity struct {
	block  int
	powers *power.ActiveSet
}

func newEntity(block int, powers ...*power.Power) *entity {
	e := &entity{block: block, powers: power.NewActiveSet()}
	for _, p := range powers {
		if err := e.powers.Add(p); err != nil {
			panic(err)
		}
	}
	return e
}

func (e *entity) Block() int { return e.block }
func (e *entity) SetBlock(n int) { e.block = n }
func (e *entity) Powers() *power.ActiveSet { return e.powers }

// recorder is an Effect that appends its name to a shared log and adds delta.
type recorder struct {
	name  string
	delta int
	log   *[]string
}

func (r recorder) Name() string { return r.name }

func (r recorder) Affect(value int, _ power.Source, _, _ power.Actor, _ power.Payload) int {
	*r.log = append(*r.log, r.name)
	return value + r.delta
}

func recorded(name string, priority int, log *[]string, opts ...power.Option) *power.Power {
	return power.MustNew(power.NewTriggerSet(power.Offense), priority, power.Permanent(),
		recorder{name: name, log: log}, opts...)
}
