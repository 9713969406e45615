package ai

import (
	"github.com/cory-johannsen/dreamfall/internal/game/dice"
	"github.com/cory-johannsen/dreamfall/internal/game/skill"
)

// Situational score multipliers.
const (
	desperateHealBonus  = 3.0
	desperateBuffBonus  = 2.5
	desperateNukeBonus  = 2.0
	lowHPHealBonus      = 2.0
	outnumberedAoEBonus = 1.5
	winningDamageBonus  = 1.3
	lowManaCheapBonus   = 1.5
	lowManaThreshold    = 0.3
	cheapSkillMPCost    = 20
	desperateNukeDamage = 100
)

// SkillSelector picks one skill from a set of usable candidates in two
// independent stages: a weighted draw over situational scores, then a
// Bernoulli gate on the drawn skill's own weight scaled by the difficulty
// multiplier.
type SkillSelector struct {
	roller     *dice.Roller
	multiplier float64
}

// NewSkillSelector constructs a SkillSelector.
//
// Precondition: roller must not be nil; multiplier >= 0.
func NewSkillSelector(roller *dice.Roller, multiplier float64) *SkillSelector {
	if roller == nil {
		panic("ai.NewSkillSelector: roller must not be nil")
	}
	return &SkillSelector{roller: roller, multiplier: multiplier}
}

// Multiplier returns the difficulty multiplier applied by Gate.
func (s *SkillSelector) Multiplier() float64 { return s.multiplier }

// Score returns the situational score of every candidate, index-aligned.
// Every matching modifier applies; they compound multiplicatively.
func (s *SkillSelector) Score(self Actor, candidates []*skill.Instance, sit Situation) []float64 {
	mp, hasMP := self.MP()
	lowMana := hasMP && mp.Fraction() < lowManaThreshold

	scores := make([]float64, len(candidates))
	for i, sk := range candidates {
		score := sk.UseWeight
		if sit.Desperate {
			if sk.Heal > 0 {
				score *= desperateHealBonus
			}
			if sk.HasBuffs() {
				score *= desperateBuffBonus
			}
			if sk.Damage > desperateNukeDamage {
				score *= desperateNukeBonus
			}
		} else if sit.LowHP && sk.Heal > 0 {
			score *= lowHPHealBonus
		}
		if sit.Outnumbered && sk.Target == skill.TargetAllEnemies {
			score *= outnumberedAoEBonus
		}
		if sit.Winning && sk.Damage > 0 {
			score *= winningDamageBonus
		}
		if lowMana && sk.MPCost < cheapSkillMPCost {
			score *= lowManaCheapBonus
		}
		scores[i] = score
	}
	return scores
}

// Draw picks one candidate with probability proportional to its score.
//
// Postcondition: returns (nil, false) when no candidate has a positive score.
func (s *SkillSelector) Draw(self Actor, candidates []*skill.Instance, sit Situation) (*skill.Instance, bool) {
	idx, ok := s.roller.Weighted("skill.draw", s.Score(self, candidates, sit))
	if !ok {
		return nil, false
	}
	return candidates[idx], true
}

// Gate performs the usage trial for sk: pass iff a uniform draw in [0, 1) is
// below sk.UseWeight × multiplier.
func (s *SkillSelector) Gate(sk *skill.Instance) bool {
	return s.roller.Chance("skill.gate", sk.UseWeight*s.multiplier)
}

// Select runs Draw then Gate. A true result is only provisional: the caller
// still has to find a target before committing the cooldown.
func (s *SkillSelector) Select(self Actor, candidates []*skill.Instance, sit Situation) (*skill.Instance, bool) {
	sk, ok := s.Draw(self, candidates, sit)
	if !ok {
		return nil, false
	}
	if !s.Gate(sk) {
		return nil, false
	}
	return sk, true
}
