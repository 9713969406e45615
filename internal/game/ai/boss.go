package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/game/dice"
	"github.com/cory-johannsen/dreamfall/internal/game/skill"
)

// BossPhase is the HP band that drives a boss's skill pre-filter.
type BossPhase int

const (
	BossAggressive BossPhase = iota // hp fraction >= 0.7
	BossBalanced                    // 0.3 <= hp fraction < 0.7
	BossDesperate                   // hp fraction < 0.3
)

// String returns the phase label used in logs.
func (p BossPhase) String() string {
	switch p {
	case BossAggressive:
		return "aggressive"
	case BossBalanced:
		return "balanced"
	case BossDesperate:
		return "desperate"
	default:
		return "unknown"
	}
}

const (
	bossDesperateBelow  = 0.3
	bossAggressiveAbove = 0.7
	bossNukeDamage      = 100
	bossBigHeal         = 50
)

// BossPhaseFor maps a hit point fraction to its BossPhase.
func BossPhaseFor(hpFraction float64) BossPhase {
	switch {
	case hpFraction < bossDesperateBelow:
		return BossDesperate
	case hpFraction < bossAggressiveAbove:
		return BossBalanced
	default:
		return BossAggressive
	}
}

// keeps reports whether sk survives the pre-filter of phase p.
func (p BossPhase) keeps(sk *skill.Instance) bool {
	switch p {
	case BossDesperate:
		return sk.Damage > bossNukeDamage || sk.Heal > bossBigHeal
	case BossAggressive:
		return sk.Damage > 0 || sk.HasDebuffs()
	default:
		return true
	}
}

// BossEngine is the base engine with a phase pre-filter on usable skills.
// When the filter leaves nothing, the boss falls back to the full usable set
// rather than idling.
type BossEngine struct {
	*BaseEngine
}

// NewBossEngine constructs a boss engine for self.
//
// Precondition: self, roller and logger must not be nil.
func NewBossEngine(self Actor, roller *dice.Roller, multiplier float64, logger *zap.Logger) *BossEngine {
	base := NewEngine(self, roller, multiplier, logger)
	base.filter = func(usable []*skill.Instance, sit Situation) []*skill.Instance {
		return bossFilter(base.logger, usable, sit)
	}
	return &BossEngine{BaseEngine: base}
}

func bossFilter(logger *zap.Logger, usable []*skill.Instance, sit Situation) []*skill.Instance {
	phase := BossPhaseFor(sit.SelfHPFraction)
	var kept []*skill.Instance
	for _, sk := range usable {
		if phase.keeps(sk) {
			kept = append(kept, sk)
		}
	}
	if len(kept) == 0 {
		logger.Debug("boss phase filter empty, using all usable skills",
			zap.Stringer("phase", phase),
		)
		return usable
	}
	return kept
}
