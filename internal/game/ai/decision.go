package ai

import (
	"fmt"

	"github.com/cory-johannsen/dreamfall/internal/game/skill"
)

// ActionKind identifies what a combatant does on its turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota // zero value; intentionally invalid
	ActionAttack
	ActionSkill
	ActionDefend
)

// String returns the human-readable name of the ActionKind.
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "attack"
	case ActionSkill:
		return "skill"
	case ActionDefend:
		return "defend"
	default:
		return "unknown"
	}
}

// Decision is the single result of one engine turn.
//
// Invariant: Skill is non-nil iff Kind == ActionSkill; Targets is empty iff
// Kind == ActionDefend; Area is only set for side-wide skills, in which case
// Targets is the side exactly as the caller supplied it (dead members included).
type Decision struct {
	Kind    ActionKind
	Skill   *skill.Instance
	Targets []Actor
	Area    bool
}

func attack(target Actor) Decision {
	return Decision{Kind: ActionAttack, Targets: []Actor{target}}
}

func defend() Decision {
	return Decision{Kind: ActionDefend}
}

func useSkill(sk *skill.Instance, t Targeting) Decision {
	return Decision{Kind: ActionSkill, Skill: sk, Targets: t.Targets, Area: t.Area}
}

// Target returns the first target, or nil when there is none.
func (d Decision) Target() Actor {
	if len(d.Targets) == 0 {
		return nil
	}
	return d.Targets[0]
}

// TargetLabel names the target for logs: the actor name, "all (N)" for a
// side-wide skill, or "none".
func (d Decision) TargetLabel() string {
	switch {
	case d.Area:
		return fmt.Sprintf("all (%d)", len(d.Targets))
	case len(d.Targets) == 0:
		return "none"
	default:
		return d.Targets[0].Name()
	}
}

// String renders the decision for logs and transcripts.
func (d Decision) String() string {
	switch d.Kind {
	case ActionSkill:
		return fmt.Sprintf("skill %s -> %s", d.Skill.ID(), d.TargetLabel())
	case ActionAttack:
		return "attack -> " + d.TargetLabel()
	default:
		return d.Kind.String()
	}
}
