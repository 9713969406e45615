// Package combat holds the concrete battle participants the decision engines
// act for, the battle roster, and the simulation-grade resolution of the
// decisions they return.
package combat

import (
	"github.com/cory-johannsen/dreamfall/internal/game/skill"
)

// Side identifies which team a combatant fights for.
type Side int

const (
	SideParty Side = iota
	SideEnemy
)

// String returns a human-readable side label.
func (s Side) String() string {
	switch s {
	case SideParty:
		return "party"
	case SideEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideParty {
		return SideEnemy
	}
	return SideParty
}

// Stats are the fixed attributes of a combatant.
type Stats struct {
	Level   int
	MaxHP   int
	MaxMP   int // zero means the combatant has no mana pool
	Attack  int
	Defense int
	// MagicAttack replaces Attack for magical skills when positive.
	MagicAttack int
	Speed       int
}

// Combatant represents one participant in a battle.
//
// Invariant: 0 <= CurrentHP <= Stats.MaxHP; 0 <= CurrentMP <= Stats.MaxMP; Shield >= 0.
type Combatant struct {
	ID         string
	Side       Side
	Stats      Stats
	CurrentHP  int
	CurrentMP  int
	Shield     int
	Defending  bool
	Initiative int

	name   string
	skills []*skill.Instance
}

// NewCombatant creates a combatant at full HP and MP owning skills.
//
// Precondition: id and name must be non-empty; stats.MaxHP >= 1. skills must
// not be shared with any other combatant.
// Postcondition: CurrentHP == stats.MaxHP and CurrentMP == stats.MaxMP.
func NewCombatant(id, name string, side Side, stats Stats, skills []*skill.Instance) *Combatant {
	return &Combatant{
		ID:        id,
		Side:      side,
		Stats:     stats,
		CurrentHP: stats.MaxHP,
		CurrentMP: stats.MaxMP,
		name:      name,
		skills:    skills,
	}
}

// Name returns the display name.
func (c *Combatant) Name() string { return c.name }

// Alive reports whether the combatant has hit points left.
func (c *Combatant) Alive() bool { return c.CurrentHP > 0 }

// Skills returns the combatant's own skill instances.
func (c *Combatant) Skills() []*skill.Instance { return c.skills }

// HP returns the hit point pool. Every combatant has one.
func (c *Combatant) HP() (skill.Pool, bool) {
	return skill.Pool{Current: c.CurrentHP, Max: c.Stats.MaxHP}, true
}

// MP returns the mana pool, or false when Stats.MaxMP is zero.
func (c *Combatant) MP() (skill.Pool, bool) {
	if c.Stats.MaxMP <= 0 {
		return skill.Pool{}, false
	}
	return skill.Pool{Current: c.CurrentMP, Max: c.Stats.MaxMP}, true
}

// ApplyDamage deals amount to the combatant. A defending combatant takes half
// and stops defending; any shield absorbs what remains before hit points do.
//
// Precondition: amount >= 0.
// Postcondition: returns the hit points actually lost; CurrentHP >= 0.
func (c *Combatant) ApplyDamage(amount int) int {
	if amount <= 0 || !c.Alive() {
		return 0
	}
	if c.Defending {
		amount /= 2
		c.Defending = false
	}
	absorbed := min(c.Shield, amount)
	c.Shield -= absorbed
	amount -= absorbed

	lost := min(amount, c.CurrentHP)
	c.CurrentHP -= lost
	return lost
}

// Heal restores up to amount hit points. The dead are not healed.
//
// Postcondition: returns the hit points actually restored; CurrentHP <= Stats.MaxHP.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 || !c.Alive() {
		return 0
	}
	healed := min(amount, c.Stats.MaxHP-c.CurrentHP)
	c.CurrentHP += healed
	return healed
}

// AddShield grants a damage-absorbing barrier.
func (c *Combatant) AddShield(amount int) {
	if amount > 0 && c.Alive() {
		c.Shield += amount
	}
}

// PayCost deducts a skill's mana and health costs, flooring each pool at zero.
func (c *Combatant) PayCost(mp, hp int) {
	if mp > 0 {
		c.CurrentMP = max(c.CurrentMP-mp, 0)
	}
	if hp > 0 {
		c.CurrentHP = max(c.CurrentHP-hp, 0)
	}
}

// BeginTurn clears effects that last until the combatant acts again.
func (c *Combatant) BeginTurn() {
	c.Defending = false
}

// HealthDescription returns a visible health state string for transcripts.
//
// Postcondition: Returns a non-empty string.
func (c *Combatant) HealthDescription() string {
	if c.CurrentHP <= 0 {
		return "dead"
	}
	pct := float64(c.CurrentHP) / float64(c.Stats.MaxHP)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
