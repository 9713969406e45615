package skill

import "maps"

// Pool is a current/max resource pair such as hit points or mana.
type Pool struct {
	Current int
	Max     int
}

// Fraction returns Current/Max; 0 if Max <= 0.
func (p Pool) Fraction() float64 {
	if p.Max <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Max)
}

// Caster is the capability surface a skill checks before it can be used.
// Each method reports false when the caster has no such resource, in which
// case the matching gate is treated as satisfied.
type Caster interface {
	HP() (Pool, bool)
	MP() (Pool, bool)
}

// Instance is one actor's runtime copy of a Definition. Cost and effect
// fields are copied at creation; the cooldown counter belongs to this
// instance alone.
//
// Instance is not safe for concurrent use.
type Instance struct {
	def *Definition

	Target            TargetType
	MPCost            int
	HPCost            int
	Damage            int
	DamageMultiplier  float64
	Heal              int
	Shield            int
	StatusEffects     []string
	Buffs             map[string]float64
	Debuffs           map[string]float64
	UseWeight         float64
	MinHPPercent      float64
	MaxHPPercent      float64
	RequiresAllyCount int

	cooldown int
}

// NewInstance clones def into a fresh Instance with no active cooldown.
//
// Precondition: def must not be nil.
// Postcondition: Cooldown() == 0; slices and maps are not shared with def.
func NewInstance(def *Definition) *Instance {
	if def == nil {
		panic("skill.NewInstance: def must not be nil")
	}
	return &Instance{
		def:               def,
		Target:            def.Target,
		MPCost:            def.MPCost,
		HPCost:            def.HPCost,
		Damage:            def.Damage,
		DamageMultiplier:  def.DamageMultiplier,
		Heal:              def.Heal,
		Shield:            def.Shield,
		StatusEffects:     append([]string(nil), def.StatusEffects...),
		Buffs:             maps.Clone(def.Buffs),
		Debuffs:           maps.Clone(def.Debuffs),
		UseWeight:         def.UseWeight,
		MinHPPercent:      def.MinHPPercent,
		MaxHPPercent:      def.MaxHPPercent,
		RequiresAllyCount: def.RequiresAllyCount,
	}
}

// ID returns the definition identifier.
func (s *Instance) ID() string { return s.def.ID }

// Name returns the definition display name.
func (s *Instance) Name() string { return s.def.Name }

// Definition returns the immutable template this instance was cloned from.
func (s *Instance) Definition() *Definition { return s.def }

// Cooldown returns the number of turns before the skill is usable again.
func (s *Instance) Cooldown() int { return s.cooldown }

// HasBuffs reports whether the skill grants any stat buff.
func (s *Instance) HasBuffs() bool { return len(s.Buffs) > 0 }

// HasDebuffs reports whether the skill inflicts any stat debuff.
func (s *Instance) HasDebuffs() bool { return len(s.Debuffs) > 0 }

// CanUse reports whether the skill may be used by c right now.
//
// Postcondition: false if Cooldown() > 0; false if c exposes MP below MPCost;
// false if c exposes HP whose fraction is outside [MinHPPercent, MaxHPPercent]
// or whose current value is <= HPCost. RequiresAllyCount is not evaluated.
func (s *Instance) CanUse(c Caster) bool {
	if s.cooldown > 0 {
		return false
	}
	if mp, ok := c.MP(); ok && mp.Current < s.MPCost {
		return false
	}
	if hp, ok := c.HP(); ok {
		frac := hp.Fraction()
		if frac < s.MinHPPercent || frac > s.MaxHPPercent {
			return false
		}
		if hp.Current <= s.HPCost {
			return false
		}
	}
	return true
}

// TickCooldown advances the cooldown by one decision cycle.
//
// Postcondition: Cooldown() >= 0.
func (s *Instance) TickCooldown() {
	if s.cooldown > 0 {
		s.cooldown--
	}
}

// CommitCooldown starts the cooldown after the skill is actually executed.
//
// Postcondition: Cooldown() == Definition().Cooldown.
func (s *Instance) CommitCooldown() {
	s.cooldown = s.def.Cooldown
}
