package ai

import "go.uber.org/zap"

// PhaseEvent announces a unique boss entering a new phase.
type PhaseEvent struct {
	Actor   string
	From    int
	To      int
	Message string
}

// EventSink receives narrative events. Delivery is one-way: engines never
// wait on or react to a sink.
type EventSink interface {
	Notify(ev PhaseEvent)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ev PhaseEvent)

// Notify calls f(ev).
func (f EventSinkFunc) Notify(ev PhaseEvent) { f(ev) }

// LogSink writes phase events to a logger at warn level.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a LogSink writing to logger.
//
// Precondition: logger must not be nil.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs ev.
func (s *LogSink) Notify(ev PhaseEvent) {
	s.logger.Warn(ev.Message,
		zap.String("actor", ev.Actor),
		zap.Int("from_phase", ev.From),
		zap.Int("to_phase", ev.To),
	)
}

// MultiSink fans an event out to every non-nil sink in order.
type MultiSink []EventSink

// Notify delivers ev to each sink.
func (m MultiSink) Notify(ev PhaseEvent) {
	for _, s := range m {
		if s != nil {
			s.Notify(ev)
		}
	}
}

// nopSink drops every event.
type nopSink struct{}

func (nopSink) Notify(PhaseEvent) {}
