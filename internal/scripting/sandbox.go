// Package scripting provides a sandboxed GopherLua execution environment for
// narrative hooks. Content authors script what bosses say when they change
// phase; the decision engines never wait on a script.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode allowance of one script call when no
// override is configured.
const DefaultInstructionLimit = 100_000

// unsafeGlobals are removed from every sandboxed state after OpenBase.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"}

// opBudget is the context installed on an LState for one call. GopherLua polls
// Done once per opcode, so counting the polls bounds the opcodes executed;
// the context cancels itself when the allowance runs out.
type opBudget struct {
	context.Context
	cancel context.CancelFunc
	limit  int64
	spent  atomic.Int64
}

func newOpBudget(instLimit int) *opBudget {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &opBudget{Context: ctx, cancel: cancel, limit: int64(instLimit)}
}

// Done charges one opcode against the budget.
func (b *opBudget) Done() <-chan struct{} {
	if b.spent.Add(1) >= b.limit {
		b.cancel()
	}
	return b.Context.Done()
}

// used returns the opcodes charged so far, capped at the limit.
func (b *opBudget) used() int {
	return int(min(b.spent.Load(), b.limit))
}

// release frees the budget's context.
func (b *opBudget) release() { b.cancel() }

// install gives L a fresh budget of instLimit opcodes, spent by every call
// made until the next install.
func install(L *lua.LState, instLimit int) *opBudget {
	b := newOpBudget(instLimit)
	L.SetContext(b)
	return b
}

// NewSandboxedState creates a GopherLua LState that loads only the base,
// table, string and math libraries, strips the globals that reach the file
// system or the loader, and stops after instLimit opcodes.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil LState ready for RegisterModules and DoFile.
// The caller owns the LState and must call L.Close() when done.
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	install(L, instLimit)
	return L
}
