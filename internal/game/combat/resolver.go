package combat

import "github.com/cory-johannsen/dreamfall/internal/game/skill"

// AttackDamage returns the damage of a basic attack: attacker Attack minus
// half the target's Defense.
//
// Precondition: attacker and target must be non-nil.
// Postcondition: Returns >= 1.
func AttackDamage(attacker, target *Combatant) int {
	return max(attacker.Stats.Attack-target.Stats.Defense/2, 1)
}

// SkillDamage returns the raw damage sk deals to each of its targets: the
// skill's flat Damage plus the caster's Attack (MagicAttack for magical
// skills) scaled by DamageMultiplier.
// Only offensive skills deal damage: flat Damage, a BRV attack or an HP attack.
//
// Precondition: sk and caster must be non-nil.
// Postcondition: Returns >= 0.
func SkillDamage(sk *skill.Instance, caster *Combatant) int {
	def := sk.Definition()
	if sk.Damage <= 0 && !def.BRVAttack && !def.HPAttack {
		return 0
	}
	power := caster.Stats.Attack
	if def.Magical && caster.Stats.MagicAttack > 0 {
		power = caster.Stats.MagicAttack
	}
	return sk.Damage + int(float64(power)*sk.DamageMultiplier)
}

// friendly reports whether sk is aimed at the caster's own side.
func friendly(sk *skill.Instance) bool {
	switch sk.Target {
	case skill.TargetSelf, skill.TargetSingleAlly, skill.TargetAllAllies:
		return true
	default:
		return false
	}
}
