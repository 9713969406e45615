package combat

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/dreamfall/internal/game/ai"
)

// RoundEvent records what happened to one target when a decision was resolved.
type RoundEvent struct {
	Kind      ai.ActionKind
	ActorID   string
	ActorName string
	SkillID   string // empty unless Kind == ai.ActionSkill
	TargetID  string // empty when nothing was hit
	Damage    int
	Healed    int
	Shielded  int
	Narrative string
}

// asCombatant returns the combatant behind a, or nil when a is not one.
func asCombatant(a ai.Actor) *Combatant {
	c, _ := a.(*Combatant)
	return c
}

// Resolve applies d on behalf of actor and returns one event per affected
// target. Dead and foreign targets are skipped; a decision that affects
// nobody still yields a single narrative event.
//
// Precondition: actor must be non-nil and alive.
// Postcondition: the state of actor and every targeted combatant is updated in place.
func Resolve(actor *Combatant, d ai.Decision) []RoundEvent {
	base := RoundEvent{Kind: d.Kind, ActorID: actor.ID, ActorName: actor.Name()}

	switch d.Kind {
	case ai.ActionDefend:
		actor.Defending = true
		base.Narrative = fmt.Sprintf("%s defends.", actor.Name())
		return []RoundEvent{base}

	case ai.ActionAttack:
		target := asCombatant(d.Target())
		if target == nil || !target.Alive() {
			base.Narrative = fmt.Sprintf("%s attacks but hits nothing.", actor.Name())
			return []RoundEvent{base}
		}
		ev := base
		ev.TargetID = target.ID
		ev.Damage = target.ApplyDamage(AttackDamage(actor, target))
		ev.Narrative = withFall(fmt.Sprintf("%s attacks %s for %d damage.", actor.Name(), target.Name(), ev.Damage), target)
		return []RoundEvent{ev}

	case ai.ActionSkill:
		return resolveSkill(actor, d, base)

	default:
		return nil
	}
}

func resolveSkill(actor *Combatant, d ai.Decision, base RoundEvent) []RoundEvent {
	sk := d.Skill
	base.SkillID = sk.ID()
	actor.PayCost(sk.MPCost, sk.HPCost)

	toAllies := friendly(sk)
	damage := SkillDamage(sk, actor)
	drained := 0

	var events []RoundEvent
	for _, a := range d.Targets {
		target := asCombatant(a)
		if target == nil || !target.Alive() {
			continue
		}
		ev := base
		ev.TargetID = target.ID
		var parts []string
		if damage > 0 {
			ev.Damage = target.ApplyDamage(damage)
			drained += ev.Damage
			parts = append(parts, fmt.Sprintf("%d damage", ev.Damage))
		}
		if toAllies && sk.Heal > 0 {
			ev.Healed = target.Heal(sk.Heal)
			parts = append(parts, fmt.Sprintf("%d healed", ev.Healed))
		}
		if toAllies && sk.Shield > 0 {
			target.AddShield(sk.Shield)
			ev.Shielded = sk.Shield
			parts = append(parts, fmt.Sprintf("%d shield", sk.Shield))
		}
		msg := fmt.Sprintf("%s uses %s on %s", actor.Name(), sk.Name(), target.Name())
		if len(parts) > 0 {
			msg += ": " + strings.Join(parts, ", ")
		}
		ev.Narrative = withFall(msg+".", target)
		events = append(events, ev)
	}

	// An offensive skill with a heal component drains life back to the caster.
	if !toAllies && sk.Heal > 0 && drained > 0 && actor.Alive() {
		ev := base
		ev.TargetID = actor.ID
		ev.Healed = actor.Heal(sk.Heal)
		ev.Narrative = fmt.Sprintf("%s recovers %d HP.", actor.Name(), ev.Healed)
		events = append(events, ev)
	}

	if len(events) == 0 {
		base.Narrative = fmt.Sprintf("%s uses %s but it hits nothing.", actor.Name(), sk.Name())
		return []RoundEvent{base}
	}
	return events
}

func withFall(msg string, target *Combatant) string {
	if target.Alive() {
		return msg
	}
	return msg + " " + target.Name() + " falls."
}
