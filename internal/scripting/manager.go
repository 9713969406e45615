package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/game/dice"
)

// Manager owns one sandboxed LState loaded from a script directory and
// exposes hook dispatch.
//
// Manager is safe for concurrent use. The LState is single-threaded, so
// calls are serialized.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	budget *opBudget
	limit  int
	roller *dice.Roller
	// active overrides roller during CallHookWith.
	active *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: roller and logger must be non-nil. The roller's source must
// be safe for concurrent use if the Manager is shared between goroutines.
// Postcondition: Returns a non-nil Manager.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{roller: roller, logger: logger}
}

// Load creates a sandboxed VM, registers the engine.* modules, then executes
// every *.lua file in scriptDir in lexicographic order. A successful Load
// replaces any previously loaded VM.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: returns an error on read or Lua load failure, leaving the
// previous VM in place.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	for _, path := range luaFiles {
		b := install(L, instLimit)
		err := L.DoFile(path)
		b.release()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	m.state = L
	m.limit = instLimit
	m.logger.Info("scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Loaded reports whether a VM is available.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != nil
}

// CallHook calls the named Lua global function with engine.dice bound to the
// Manager's own roller. See CallHookWith.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.CallHookWith(nil, hook, args...)
}

// CallHookWith calls the named Lua global function with engine.dice drawing
// from roller for the duration of the call; a nil roller uses the Manager's
// own. Returns (LNil, nil) if the hook is not defined or no VM is loaded. Lua
// runtime errors, including an exhausted instruction budget, are logged at
// Warn level and returned.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil with a
// non-nil error when the hook failed.
func (m *Manager) CallHookWith(roller *dice.Roller, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		m.logger.Info("scripting: no VM loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	L := m.state

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	if roller != nil {
		m.active = roller
		defer func() { m.active = nil }()
	}
	if m.budget != nil {
		m.budget.release()
	}
	m.budget = install(L, m.limit)

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Int("opcodes", m.budget.used()),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("scripting: hook %q: %w", hook, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	m.logger.Debug("scripting: hook returned",
		zap.String("hook", hook),
		zap.Int("opcodes", m.budget.used()),
	)
	return ret, nil
}

// callRoller returns the roller engine.dice draws from: the one bound by the
// current CallHookWith, else the Manager's own.
//
// Precondition: m.mu is held.
func (m *Manager) callRoller() *dice.Roller {
	if m.active != nil {
		return m.active
	}
	return m.roller
}

// Close releases the VM. CallHook after Close is a no-op.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Manager) closeLocked() {
	if m.budget != nil {
		m.budget.release()
		m.budget = nil
	}
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}
