package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/power"
)

// RegisterModules installs the engine table into L:
//
//	engine.owner_block(), engine.target_block()
//	engine.set_owner_block(n), engine.set_target_block(n)   -- clamped at 0
//	engine.dice.roll(expr)                                   -- total of a dice expression
//	engine.log.debug(msg), engine.log.info(msg), engine.log.warn(msg)
//
// The block accessors raise a Lua error outside of Call.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	L.SetField(engine, "owner_block", L.NewFunction(m.getBlock("owner_block", func() power.Actor { return m.owner })))
	L.SetField(engine, "target_block", L.NewFunction(m.getBlock("target_block", func() power.Actor { return m.target })))
	L.SetField(engine, "set_owner_block", L.NewFunction(m.setBlock("set_owner_block", func() power.Actor { return m.owner })))
	L.SetField(engine, "set_target_block", L.NewFunction(m.setBlock("set_target_block", func() power.Actor { return m.target })))

	diceMod := L.NewTable()
	L.SetField(diceMod, "roll", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		res, err := m.roller.RollExpr(expr)
		if err != nil {
			L.RaiseError("engine.dice.roll: %s", err.Error())
			return 0
		}
		L.Push(lua.LNumber(res.Total()))
		return 1
	}))
	L.SetField(engine, "dice", diceMod)

	logMod := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
	} {
		logFn := fn
		L.SetField(logMod, name, L.NewFunction(func(L *lua.LState) int {
			logFn(L.CheckString(1), zap.String("component", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", logMod)

	L.SetGlobal("engine", engine)
}

func (m *Manager) getBlock(name string, who func() power.Actor) lua.LGFunction {
	return func(L *lua.LState) int {
		a := who()
		if a == nil {
			L.RaiseError("engine.%s: no resolution in progress", name)
			return 0
		}
		L.Push(lua.LNumber(a.Block()))
		return 1
	}
}

func (m *Manager) setBlock(name string, who func() power.Actor) lua.LGFunction {
	return func(L *lua.LState) int {
		n := L.CheckInt(1)
		a := who()
		if a == nil {
			L.RaiseError("engine.%s: no resolution in progress", name)
			return 0
		}
		a.SetBlock(max(n, 0))
		return 0
	}
}
