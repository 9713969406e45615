package combat

import "github.com/cory-johannsen/dreamfall/internal/game/dice"

// RollInitiative rolls initiative for all combatants and sets their Initiative field.
// Formula: d20 + Speed.
//
// Precondition: combatants must be non-nil; src must be non-nil.
// Postcondition: Each combatant's Initiative field is set to d20+Speed.
func RollInitiative(combatants []*Combatant, src dice.Source) {
	for _, c := range combatants {
		c.Initiative = src.Intn(20) + 1 + c.Stats.Speed
	}
}
