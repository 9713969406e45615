package ai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/game/dice"
)

const (
	seriousBelow = 0.6
	madnessBelow = 0.3
)

// UniqueBossEngine drives a scripted unique boss. It keeps a phase counter
// that starts at 1 and only moves forward: below 60% HP the boss enters
// phase 2, below 30% phase 3. Each transition fires one PhaseEvent. In phase 3
// the boss casts its scripted skill on the whole enemy side whenever that
// skill is usable, skipping selection entirely; otherwise it decides like a
// boss.
type UniqueBossEngine struct {
	*BossEngine
	phase    int
	scripted string
	sink     EventSink
}

// NewUniqueBossEngine constructs a unique boss engine for self.
//
// Precondition: self, roller and logger must not be nil; scripted names the
// skill ID forced in phase 3. A nil sink drops events.
func NewUniqueBossEngine(self Actor, roller *dice.Roller, multiplier float64, scripted string, sink EventSink, logger *zap.Logger) *UniqueBossEngine {
	if sink == nil {
		sink = nopSink{}
	}
	return &UniqueBossEngine{
		BossEngine: NewBossEngine(self, roller, multiplier, logger),
		phase:      1,
		scripted:   scripted,
		sink:       sink,
	}
}

// Phase returns the current phase, 1 through 3.
func (e *UniqueBossEngine) Phase() int { return e.phase }

// Decide advances the phase if an HP threshold was crossed, tries the phase 3
// scripted skill, and otherwise defers to the boss flow.
func (e *UniqueBossEngine) Decide(allies, enemies []Actor) Decision {
	frac := hpFraction(e.self)
	switch {
	case frac < madnessBelow && e.phase < 3:
		e.advance(3, fmt.Sprintf("%s's madness erupts!", e.self.Name()))
	case frac < seriousBelow && e.phase < 2:
		e.advance(2, fmt.Sprintf("%s grows serious...", e.self.Name()))
	}

	if e.phase == 3 {
		for _, sk := range e.self.Skills() {
			if sk.ID() != e.scripted || !sk.CanUse(e.self) {
				continue
			}
			sk.CommitCooldown()
			d := Decision{Kind: ActionSkill, Skill: sk, Targets: enemies, Area: true}
			e.logger.Info("scripted skill used",
				zap.String("skill", sk.Name()),
				zap.String("target", d.TargetLabel()),
			)
			return d
		}
	}

	return e.BossEngine.Decide(allies, enemies)
}

func (e *UniqueBossEngine) advance(to int, msg string) {
	from := e.phase
	e.phase = to
	e.sink.Notify(PhaseEvent{Actor: e.self.Name(), From: from, To: to, Message: msg})
}
