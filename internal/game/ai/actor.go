// Package ai implements the enemy combat decision engines.
//
// Each combatant entering battle is bound to one Engine by the Factory. Once
// per turn the engine reads the battle snapshot and returns exactly one
// Decision: a basic attack, a skill with its targets, or defend. Engines keep
// no state beyond their actor's skill cooldowns and, for the unique boss, a
// phase counter.
package ai

import "github.com/cory-johannsen/dreamfall/internal/game/skill"

// Actor is the combatant surface the decision engines read.
//
// Skills returns the actor's own, live skill instances; engines tick and
// commit their cooldowns in place.
type Actor interface {
	skill.Caster
	Name() string
	Alive() bool
	Skills() []*skill.Instance
}

// currentHP returns a's current hit points, 0 when a has no HP pool.
func currentHP(a Actor) int {
	hp, _ := a.HP()
	return hp.Current
}

// hpFraction returns a's hit point fraction, 0 when a has no HP pool.
func hpFraction(a Actor) float64 {
	hp, ok := a.HP()
	if !ok {
		return 0
	}
	return hp.Fraction()
}

// living returns the alive members of side, preserving order.
func living(side []Actor) []Actor {
	var out []Actor
	for _, a := range side {
		if a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

// weakestOf returns the member with the lowest current HP; ties go to the
// first encountered. nil for an empty slice.
func weakestOf(actors []Actor) Actor {
	if len(actors) == 0 {
		return nil
	}
	weakest := actors[0]
	for _, a := range actors[1:] {
		if currentHP(a) < currentHP(weakest) {
			weakest = a
		}
	}
	return weakest
}

// strongestOf returns the member with the highest current HP; ties go to the
// first encountered. nil for an empty slice.
func strongestOf(actors []Actor) Actor {
	if len(actors) == 0 {
		return nil
	}
	strongest := actors[0]
	for _, a := range actors[1:] {
		if currentHP(a) > currentHP(strongest) {
			strongest = a
		}
	}
	return strongest
}
