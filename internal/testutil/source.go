// Package testutil provides test helpers shared across packages.
package testutil

// ScriptedSource is a dice.Source that replays fixed values so a test can
// steer every random branch of a decision. Floats and Ints are consumed in
// order and wrap around when exhausted; an empty list yields zero.
type ScriptedSource struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	f := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return f
}

// Intn returns the next scripted int reduced modulo n.
//
// Precondition: n > 0.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("testutil: Intn called with n <= 0")
	}
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	return ((v % n) + n) % n
}

// FloatDraws returns how many floats have been consumed.
func (s *ScriptedSource) FloatDraws() int { return s.fi }
