package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/power"
)

// ErrNotLoaded is returned by Call when no scripts have been loaded.
var ErrNotLoaded = errors.New("scripting: no scripts loaded")

// ErrUndefined is returned by Call when the named function does not exist.
var ErrUndefined = errors.New("scripting: function not defined")

// Manager owns one sandboxed LState holding every power script.
//
// Calls are serialised: the engine.* module is bound to the owner and target
// of the call in progress.
type Manager struct {
	mu        sync.Mutex
	L         *lua.LState
	instLimit int
	roller    *dice.Roller
	logger    *zap.Logger

	owner  power.Actor
	target power.Actor
}

// NewManager creates a Manager. instLimit <= 0 selects DefaultInstructionLimit.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a Manager with no scripts loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{roller: roller, logger: logger, instLimit: instLimit}
}

// LoadDir creates a fresh VM, registers the engine.* modules, then executes
// every *.lua file in dir in lexicographic order. A previously loaded VM is
// replaced only when every file loads.
//
// Precondition: dir must be a readable directory.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	return m.load(func(L *lua.LState) error {
		for _, path := range files {
			if err := L.DoFile(path); err != nil {
				return fmt.Errorf("scripting: loading %q: %w", path, err)
			}
		}
		return nil
	})
}

// LoadString executes src in a fresh VM, replacing any previous one.
func (m *Manager) LoadString(src string) error {
	return m.load(func(L *lua.LState) error {
		if err := L.DoString(src); err != nil {
			return fmt.Errorf("scripting: loading source: %w", err)
		}
		return nil
	})
}

func (m *Manager) load(run func(L *lua.LState) error) error {
	L := NewSandboxedState()
	m.RegisterModules(L)
	release := Limit(L, m.instLimit)
	err := run(L)
	release()
	if err != nil {
		L.Close()
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
	}
	m.L = L
	return nil
}

// Defined reports whether fn is a global Lua function in the loaded VM.
func (m *Manager) Defined(fn string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L == nil {
		return false
	}
	_, ok := m.L.GetGlobal(fn).(*lua.LFunction)
	return ok
}

// Call invokes the Lua function fn(value, source, amount) with engine.*
// bound to owner and target, and returns its numeric result truncated to an int.
//
// Postcondition: On any error value is returned unchanged alongside the error.
func (m *Manager) Call(fn string, value int, src power.Source, amount int, owner, target power.Actor) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.L == nil {
		return value, ErrNotLoaded
	}
	f, ok := m.L.GetGlobal(fn).(*lua.LFunction)
	if !ok {
		return value, fmt.Errorf("%w: %q", ErrUndefined, fn)
	}

	m.owner, m.target = owner, target
	defer func() { m.owner, m.target = nil, nil }()

	release := Limit(m.L, m.instLimit)
	defer release()
	if err := m.L.CallByParam(lua.P{Fn: f, NRet: 1, Protect: true},
		lua.LNumber(value), lua.LString(src.String()), lua.LNumber(amount)); err != nil {
		return value, fmt.Errorf("scripting: %s: %w", fn, err)
	}
	ret := m.L.Get(-1)
	m.L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return value, fmt.Errorf("scripting: %s returned %s, want number", fn, ret.Type())
	}
	return int(n), nil
}

// Close releases the VM. Subsequent calls return ErrNotLoaded.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}
