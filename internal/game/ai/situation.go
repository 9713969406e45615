package ai

// Situation is the tactical snapshot an engine computes at the start of a
// decision. It is recomputed every turn and never stored.
type Situation struct {
	SelfHPFraction float64
	AllyHPAvg      float64
	EnemyHPAvg     float64
	AliveAllies    int
	AliveEnemies   int
	Weakest        Actor // alive enemy with the lowest current HP; nil if none
	Strongest      Actor // alive enemy with the highest current HP; nil if none

	Desperate   bool // SelfHPFraction < 0.3
	LowHP       bool // SelfHPFraction < 0.5
	Outnumbered bool // AliveAllies < AliveEnemies
	Winning     bool // AllyHPAvg > EnemyHPAvg * 1.5
}

const (
	desperateThreshold = 0.3
	lowHPThreshold     = 0.5
	winningRatio       = 1.5
)

// Analyze computes the Situation for self against the given sides.
//
// Precondition: self must not be nil.
// Postcondition: averages and counts consider alive members only; ties for
// Weakest and Strongest resolve to the first in iteration order.
func Analyze(self Actor, allies, enemies []Actor) Situation {
	liveAllies := living(allies)
	liveEnemies := living(enemies)

	s := Situation{
		SelfHPFraction: hpFraction(self),
		AllyHPAvg:      meanHP(liveAllies),
		EnemyHPAvg:     meanHP(liveEnemies),
		AliveAllies:    len(liveAllies),
		AliveEnemies:   len(liveEnemies),
		Weakest:        weakestOf(liveEnemies),
		Strongest:      strongestOf(liveEnemies),
	}
	s.Desperate = s.SelfHPFraction < desperateThreshold
	s.LowHP = s.SelfHPFraction < lowHPThreshold
	s.Outnumbered = s.AliveAllies < s.AliveEnemies
	s.Winning = s.AllyHPAvg > s.EnemyHPAvg*winningRatio
	return s
}

func meanHP(actors []Actor) float64 {
	if len(actors) == 0 {
		return 0
	}
	total := 0
	for _, a := range actors {
		total += currentHP(a)
	}
	return float64(total) / float64(len(actors))
}
