package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/game/dice"
	"github.com/cory-johannsen/dreamfall/internal/game/skill"
)

// Engine decides one combatant's action each turn.
//
// Engines are bound to a single actor for the lifetime of a battle and are not
// safe for concurrent use.
type Engine interface {
	// Actor returns the combatant this engine decides for.
	Actor() Actor
	// Decide returns the actor's action for this turn. allies is the actor's
	// own side as the caller tracks it (conventionally including the actor);
	// enemies is the opposing side.
	Decide(allies, enemies []Actor) Decision
}

// candidateFilter narrows the usable skills before selection. It must return
// a subset of usable, possibly empty.
type candidateFilter func(usable []*skill.Instance, sit Situation) []*skill.Instance

// BaseEngine is the generic enemy engine: tick, filter usable, analyze,
// select, target, commit. Every stage falls back to a basic attack on a random
// alive enemy, and that in turn to defend.
type BaseEngine struct {
	self     Actor
	roller   *dice.Roller
	selector *SkillSelector
	logger   *zap.Logger
	filter   candidateFilter
}

// NewEngine constructs a generic enemy engine for self.
//
// Precondition: self, roller and logger must not be nil; multiplier >= 0.
func NewEngine(self Actor, roller *dice.Roller, multiplier float64, logger *zap.Logger) *BaseEngine {
	if self == nil {
		panic("ai.NewEngine: self must not be nil")
	}
	if logger == nil {
		panic("ai.NewEngine: logger must not be nil")
	}
	return &BaseEngine{
		self:     self,
		roller:   roller,
		selector: NewSkillSelector(roller, multiplier),
		logger:   logger.With(zap.String("actor", self.Name())),
	}
}

// Actor returns the combatant this engine decides for.
func (e *BaseEngine) Actor() Actor { return e.self }

// Selector returns the engine's skill selector.
func (e *BaseEngine) Selector() *SkillSelector { return e.selector }

// Decide runs one turn of the decision procedure.
//
// Postcondition: a skill's cooldown is committed only when the returned
// Decision uses that skill.
func (e *BaseEngine) Decide(allies, enemies []Actor) Decision {
	skills := e.self.Skills()
	if len(skills) == 0 {
		return e.fallback(enemies, "no skills")
	}

	for _, sk := range skills {
		sk.TickCooldown()
	}

	usable := make([]*skill.Instance, 0, len(skills))
	for _, sk := range skills {
		if sk.CanUse(e.self) {
			usable = append(usable, sk)
		}
	}
	if len(usable) == 0 {
		return e.fallback(enemies, "no usable skills")
	}

	sit := Analyze(e.self, allies, enemies)

	candidates := usable
	if e.filter != nil {
		candidates = e.filter(usable, sit)
	}

	chosen, ok := e.selector.Select(e.self, candidates, sit)
	if !ok {
		return e.fallback(enemies, "skill not chosen")
	}

	targeting, ok := SelectTarget(chosen, e.self, allies, enemies, e.roller)
	if !ok {
		return e.fallback(enemies, "no target for "+chosen.ID())
	}

	chosen.CommitCooldown()
	d := useSkill(chosen, targeting)
	e.logger.Info("skill used",
		zap.String("skill", chosen.Name()),
		zap.String("target", d.TargetLabel()),
	)
	return d
}

// BasicAttack returns an attack on a uniform random alive enemy, or defend
// when no enemy is alive.
func (e *BaseEngine) BasicAttack(enemies []Actor) Decision {
	target := randomOf(living(enemies), e.roller)
	if target == nil {
		return defend()
	}
	return attack(target)
}

func (e *BaseEngine) fallback(enemies []Actor, reason string) Decision {
	d := e.BasicAttack(enemies)
	e.logger.Debug("basic action",
		zap.String("reason", reason),
		zap.Stringer("decision", d),
	)
	return d
}
