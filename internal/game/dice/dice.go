// Package dice provides the randomness abstraction shared by the combat AI.
//
// Every random decision in a battle flows through a Source so that a whole
// battle can be replayed from a single seed.
package dice

// Source is the randomness provider for decisions and rolls.
//
// Implementations are not required to be safe for concurrent use; each battle
// owns its own Source.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}
