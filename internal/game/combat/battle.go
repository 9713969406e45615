package combat

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/dreamfall/internal/game/ai"
)

// Battle holds the live roster of a single encounter.
type Battle struct {
	// ID identifies the battle within an Arena.
	ID string
	// Combatants is the initiative-ordered list of participants.
	Combatants []*Combatant
	// Round is the current round number, starting at 0 and incrementing each StartRound call.
	Round int
}

// NewBattle creates a battle from combatants, sorted by Initiative descending.
//
// Precondition: combatant IDs must be unique and both sides must be represented.
// Postcondition: Returns the new Battle or an error describing the first violation.
func NewBattle(id string, combatants []*Combatant) (*Battle, error) {
	seen := make(map[string]bool, len(combatants))
	sides := make(map[Side]bool, 2)
	for _, c := range combatants {
		if seen[c.ID] {
			return nil, fmt.Errorf("combat.NewBattle: duplicate combatant id %q", c.ID)
		}
		seen[c.ID] = true
		sides[c.Side] = true
	}
	if !sides[SideParty] || !sides[SideEnemy] {
		return nil, fmt.Errorf("combat.NewBattle: battle %q needs combatants on both sides", id)
	}

	sorted := make([]*Combatant, len(combatants))
	copy(sorted, combatants)
	sortByInitiativeDesc(sorted)
	return &Battle{ID: id, Combatants: sorted}, nil
}

// StartRound increments Round.
func (b *Battle) StartRound() { b.Round++ }

// Side returns every member of s in initiative order, dead ones included.
func (b *Battle) Side(s Side) []ai.Actor {
	var out []ai.Actor
	for _, c := range b.Combatants {
		if c.Side == s {
			out = append(out, c)
		}
	}
	return out
}

// AlliesOf returns c's side, c included.
func (b *Battle) AlliesOf(c *Combatant) []ai.Actor { return b.Side(c.Side) }

// EnemiesOf returns the side opposing c.
func (b *Battle) EnemiesOf(c *Combatant) []ai.Actor { return b.Side(c.Side.Opponent()) }

// Find returns the combatant with id.
func (b *Battle) Find(id string) (*Combatant, bool) {
	for _, c := range b.Combatants {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// LivingCombatants returns a snapshot of combatants with CurrentHP > 0.
//
// Postcondition: All returned combatants have CurrentHP > 0.
func (b *Battle) LivingCombatants() []*Combatant {
	var alive []*Combatant
	for _, c := range b.Combatants {
		if c.Alive() {
			alive = append(alive, c)
		}
	}
	return alive
}

// HasLiving reports whether any member of s is still alive.
func (b *Battle) HasLiving(s Side) bool {
	for _, c := range b.Combatants {
		if c.Side == s && c.Alive() {
			return true
		}
	}
	return false
}

// Over reports whether at most one side has living members.
func (b *Battle) Over() bool {
	return !b.HasLiving(SideParty) || !b.HasLiving(SideEnemy)
}

// Winner returns the only side left standing.
//
// Postcondition: ok is false while both sides live, or when neither does.
func (b *Battle) Winner() (Side, bool) {
	party, enemy := b.HasLiving(SideParty), b.HasLiving(SideEnemy)
	switch {
	case party && !enemy:
		return SideParty, true
	case enemy && !party:
		return SideEnemy, true
	default:
		return 0, false
	}
}

// Arena tracks the battles currently in progress, keyed by battle ID.
// All methods are safe for concurrent use.
type Arena struct {
	mu      sync.RWMutex
	battles map[string]*Battle
}

// NewArena creates an empty Arena.
//
// Postcondition: Returns a non-nil Arena ready for use.
func NewArena() *Arena {
	return &Arena{battles: make(map[string]*Battle)}
}

// Start registers b.
//
// Postcondition: Returns an error if a battle with the same ID is already active.
func (a *Arena) Start(b *Battle) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.battles[b.ID]; exists {
		return fmt.Errorf("battle %q already active", b.ID)
	}
	a.battles[b.ID] = b
	return nil
}

// Get returns the active battle with id.
//
// Postcondition: Returns (battle, true) if found, or (nil, false) otherwise.
func (a *Arena) Get(id string) (*Battle, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	b, ok := a.battles[id]
	return b, ok
}

// End removes the battle record for id.
func (a *Arena) End(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.battles, id)
}

// Active returns the number of battles in progress.
func (a *Arena) Active() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.battles)
}

// sortByInitiativeDesc sorts combatants in place, highest initiative first.
// Ties keep their input order.
func sortByInitiativeDesc(combatants []*Combatant) {
	n := len(combatants)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && combatants[j].Initiative > combatants[j-1].Initiative; j-- {
			combatants[j], combatants[j-1] = combatants[j-1], combatants[j]
		}
	}
}
