package ai

import "fmt"

// Registry holds the engines bound for one battle, keyed by combatant ID.
// It is created at battle start and discarded at battle end.
//
// Invariant: each combatant ID is bound at most once.
type Registry struct {
	factory *Factory
	engines map[string]Engine
}

// NewRegistry returns an empty Registry that binds through factory.
//
// Precondition: factory must not be nil.
func NewRegistry(factory *Factory) *Registry {
	if factory == nil {
		panic("ai.NewRegistry: factory must not be nil")
	}
	return &Registry{factory: factory, engines: make(map[string]Engine)}
}

// Bind creates and stores the engine for the combatant entering battle.
//
// Postcondition: returns an error on ID collision; otherwise EngineFor(id) succeeds.
func (r *Registry) Bind(id string, a Actor) (Engine, error) {
	if _, exists := r.engines[id]; exists {
		return nil, fmt.Errorf("ai.Registry: combatant %q already bound", id)
	}
	e := r.factory.For(a)
	r.engines[id] = e
	return e, nil
}

// EngineFor returns the engine bound to id, or false if none.
func (r *Registry) EngineFor(id string) (Engine, bool) {
	e, ok := r.engines[id]
	return e, ok
}

// Len returns the number of bound engines.
func (r *Registry) Len() int { return len(r.engines) }
