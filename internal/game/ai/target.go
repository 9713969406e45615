package ai

import (
	"github.com/cory-johannsen/dreamfall/internal/game/dice"
	"github.com/cory-johannsen/dreamfall/internal/game/skill"
)

const (
	// finisherDamage is the damage above which a single-target skill goes to
	// the weakest enemy.
	finisherDamage = 100
	// chipChance is the probability a non-finisher single-target skill picks
	// a random enemy instead of the strongest one.
	chipChance = 0.7
)

// Targeting is the resolved target set of a skill.
type Targeting struct {
	Targets []Actor
	// Area is true when Targets is an entire side, passed through unfiltered.
	Area bool
}

// SelectTarget resolves who sk is aimed at.
//
//   - self: the acting actor.
//   - single ally: alive ally with the lowest current HP.
//   - all allies / all enemies: the whole side as supplied, without
//     filtering dead members; the resolver skips them.
//   - single enemy: the weakest alive enemy for damage > 100; otherwise a
//     random alive enemy 70% of the time and the strongest 30%.
//   - random enemy: a uniform random alive enemy.
//
// Postcondition: ok is false when the relevant side has no candidate.
func SelectTarget(sk *skill.Instance, self Actor, allies, enemies []Actor, roller *dice.Roller) (Targeting, bool) {
	switch sk.Target {
	case skill.TargetSelf:
		return single(self)
	case skill.TargetSingleAlly:
		return single(weakestOf(living(allies)))
	case skill.TargetAllAllies:
		return side(allies)
	case skill.TargetAllEnemies:
		return side(enemies)
	case skill.TargetSingleEnemy:
		alive := living(enemies)
		if len(alive) == 0 {
			return Targeting{}, false
		}
		if sk.Damage > finisherDamage {
			return single(weakestOf(alive))
		}
		if roller.Chance("target.chip", chipChance) {
			return single(alive[roller.Pick(len(alive))])
		}
		return single(strongestOf(alive))
	case skill.TargetRandomEnemy:
		return single(randomOf(living(enemies), roller))
	default:
		return Targeting{}, false
	}
}

func single(a Actor) (Targeting, bool) {
	if a == nil {
		return Targeting{}, false
	}
	return Targeting{Targets: []Actor{a}}, true
}

func side(actors []Actor) (Targeting, bool) {
	if len(actors) == 0 {
		return Targeting{}, false
	}
	return Targeting{Targets: actors, Area: true}, true
}

// randomOf returns a uniform random member of actors, or nil if empty.
func randomOf(actors []Actor, roller *dice.Roller) Actor {
	if len(actors) == 0 {
		return nil
	}
	return actors[roller.Pick(len(actors))]
}
