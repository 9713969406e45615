package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/game/ai"
	"github.com/cory-johannsen/dreamfall/internal/game/dice"
)

// PhaseHook is the Lua global called on every boss phase transition as
// on_boss_phase(name, from, to, message). A string return value is a line of
// narration; anything else is ignored.
const PhaseHook = "on_boss_phase"

// NarrativeSink is an ai.EventSink that hands phase events to the Lua
// PhaseHook and forwards any narration it returns.
type NarrativeSink struct {
	mgr    *Manager
	roller *dice.Roller
	logger *zap.Logger
	emit   func(line string)
}

// NewNarrativeSink returns a sink dispatching through mgr. The hook's
// engine.dice draws come from roller, the battle's own, so narration replays
// with the battle's seed; a nil roller falls back to mgr's. emit receives
// every narration line and may be nil.
//
// Precondition: mgr and logger must be non-nil.
func NewNarrativeSink(mgr *Manager, roller *dice.Roller, logger *zap.Logger, emit func(line string)) *NarrativeSink {
	if mgr == nil {
		panic("scripting.NewNarrativeSink: mgr must not be nil")
	}
	if logger == nil {
		panic("scripting.NewNarrativeSink: logger must not be nil")
	}
	return &NarrativeSink{mgr: mgr, roller: roller, logger: logger, emit: emit}
}

// Notify calls the phase hook for ev.
func (s *NarrativeSink) Notify(ev ai.PhaseEvent) {
	ret, err := s.mgr.CallHookWith(s.roller, PhaseHook,
		lua.LString(ev.Actor),
		lua.LNumber(ev.From),
		lua.LNumber(ev.To),
		lua.LString(ev.Message),
	)
	if err != nil {
		s.logger.Warn("narration failed", zap.String("actor", ev.Actor), zap.Error(err))
		return
	}
	line, ok := ret.(lua.LString)
	if !ok || line == "" {
		return
	}
	s.logger.Info("narration",
		zap.String("actor", ev.Actor),
		zap.Int("to_phase", ev.To),
		zap.String("line", string(line)),
	)
	if s.emit != nil {
		s.emit(string(line))
	}
}
