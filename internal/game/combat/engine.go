package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/power"
)

// Engine fires power triggers around combat actions. It holds no per-brawl
// state and may be shared by arenas running on one goroutine at a time.
type Engine struct {
	resolver *power.Resolver
	roller   *dice.Roller
	logger   *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: roller must be non-nil. A nil logger disables logging.
func NewEngine(roller *dice.Roller, logger *zap.Logger) *Engine {
	if roller == nil {
		panic("combat.NewEngine: roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{resolver: power.NewResolver(logger), roller: roller, logger: logger}
}

// Roller returns the engine's roller.
func (e *Engine) Roller() *dice.Roller { return e.roller }

// Enter fires OnPlay for c as it enters the arena.
func (e *Engine) Enter(c *Combatant) {
	e.resolver.Resolve(power.OnPlay, 0, power.SourcePower, c, c, nil)
}

// StartTurn gives c its per-turn block, then fires OnTurn.
func (e *Engine) StartTurn(c *Combatant) {
	c.SetBlock(c.Block() + c.BlockGain)
	e.resolver.Resolve(power.OnTurn, 0, power.SourcePower, c, c, nil)
}

// Attack resolves one attack from attacker on defender.
//
// The rolled damage is announced through OnAttack and VsAttack, transformed
// by the attacker's Offense powers and then the defender's Defense powers,
// and applied to the defender's hit points. OnHPReduce and VsHPReduce fire
// when hit points were lost, then AfterAttack and AfterAttacked. When the
// defender dies OnKill and OnDeath fire and the defender is removed from play.
//
// Precondition: neither combatant is dead.
func (e *Engine) Attack(attacker, defender *Combatant, src power.Source) AttackResult {
	r := e.resolver
	res := AttackResult{AttackerID: attacker.ID, DefenderID: defender.ID}
	res.Rolled = e.roller.Roll(attacker.Damage).Total()

	r.Resolve(power.OnAttack, res.Rolled, src, attacker, defender, nil)
	r.Resolve(power.VsAttack, res.Rolled, src, attacker, defender, nil)

	blockBefore := defender.Block()
	dmg := r.Resolve(power.Offense, res.Rolled, src, attacker, defender, nil)
	dmg = r.Resolve(power.Defense, dmg, src, attacker, defender, nil)
	res.Damage = max(dmg, 0)
	res.Blocked = max(blockBefore-defender.Block(), 0)

	res.Dealt = defender.ApplyDamage(res.Damage)
	if res.Dealt > 0 {
		r.Resolve(power.OnHPReduce, res.Dealt, src, attacker, defender, nil)
		r.Resolve(power.VsHPReduce, res.Dealt, src, attacker, defender, nil)
	}
	r.Resolve(power.AfterAttack, res.Dealt, src, attacker, defender, nil)
	r.Resolve(power.AfterAttacked, res.Dealt, src, attacker, defender, nil)

	if defender.IsDead() {
		res.Killed = true
		r.Resolve(power.OnKill, res.Dealt, src, attacker, defender, nil)
		r.Resolve(power.OnDeath, res.Dealt, src, defender, attacker, nil)
		defender.Die()
	}

	e.logger.Debug("attack",
		zap.String("attacker", attacker.ID),
		zap.String("defender", defender.ID),
		zap.Int("rolled", res.Rolled),
		zap.Int("damage", res.Damage),
		zap.Int("blocked", res.Blocked),
		zap.Int("dealt", res.Dealt),
		zap.Int("defender_hp", defender.CurrentHP),
		zap.Bool("killed", res.Killed),
	)
	return res
}

// Grant adds p to receiver on behalf of giver, firing OnPowerGain on the
// receiver and VsPowerGain on the giver. giver may equal receiver.
func (e *Engine) Grant(giver, receiver *Combatant, p *power.Power) error {
	if err := receiver.Grant(p); err != nil {
		return err
	}
	e.resolver.Resolve(power.OnPowerGain, 0, power.SourcePower, receiver, giver, nil)
	if giver != receiver {
		e.resolver.Resolve(power.VsPowerGain, 0, power.SourcePower, receiver, giver, nil)
	}
	return nil
}

// Strip removes p from holder on behalf of remover, firing OnPowerLose on the
// holder and VsPowerLose on the remover.
//
// Postcondition: Returns false and fires nothing when holder did not carry p.
func (e *Engine) Strip(remover, holder *Combatant, p *power.Power) bool {
	if !holder.Powers().Remove(p) {
		return false
	}
	e.powerLost(holder, remover)
	return true
}

// EndTurn ages c's powers and fires OnPowerLose once per expired power.
func (e *Engine) EndTurn(c *Combatant) []*power.Power {
	expired := c.Powers().Tick()
	for _, p := range expired {
		e.logger.Debug("power expired", zap.String("combatant", c.ID), zap.String("power", p.Name()))
		e.powerLost(c, c)
	}
	return expired
}

func (e *Engine) powerLost(holder, other *Combatant) {
	e.resolver.Resolve(power.OnPowerLose, 0, power.SourcePower, holder, other, nil)
	if other != holder {
		e.resolver.Resolve(power.VsPowerLose, 0, power.SourcePower, holder, other, nil)
	}
}
