// Package skill provides enemy skill definitions, per-actor skill instances,
// and the catalog that produces them.
package skill

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// TargetType identifies who a skill is aimed at.
type TargetType string

const (
	TargetSelf        TargetType = "self"
	TargetSingleAlly  TargetType = "single_ally"
	TargetAllAllies   TargetType = "all_allies"
	TargetSingleEnemy TargetType = "single_enemy"
	TargetAllEnemies  TargetType = "all_enemies"
	TargetRandomEnemy TargetType = "random_enemy"
)

// Valid reports whether t is one of the known target types.
func (t TargetType) Valid() bool {
	switch t {
	case TargetSelf, TargetSingleAlly, TargetAllAllies, TargetSingleEnemy, TargetAllEnemies, TargetRandomEnemy:
		return true
	default:
		return false
	}
}

// Definition is the immutable template of one skill. Instances copy from it;
// nothing mutates a Definition after the catalog is initialized.
type Definition struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Target      TargetType `yaml:"target"`

	MPCost int `yaml:"mp_cost"`
	HPCost int `yaml:"hp_cost"` // self-sacrifice cost; never allowed to kill the caster

	Damage           int     `yaml:"damage"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	Magical          bool    `yaml:"magical"`
	BRVAttack        bool    `yaml:"brv_attack"`
	HPAttack         bool    `yaml:"hp_attack"`

	StatusEffects   []string `yaml:"status_effects"`
	StatusDuration  int      `yaml:"status_duration"`
	StatusIntensity float64  `yaml:"status_intensity"`

	Buffs   map[string]float64 `yaml:"buffs"`
	Debuffs map[string]float64 `yaml:"debuffs"`

	Heal    int  `yaml:"heal"`
	Shield  int  `yaml:"shield"`
	Counter bool `yaml:"counter"`

	// UseWeight is both the relative score weight during selection and the
	// base probability of the final usage gate.
	UseWeight float64 `yaml:"use_weight"`
	Cooldown  int     `yaml:"cooldown"`

	MinHPPercent float64 `yaml:"min_hp_percent"`
	MaxHPPercent float64 `yaml:"max_hp_percent"`
	// RequiresAllyCount is carried for content authors but never checked by CanUse.
	RequiresAllyCount int `yaml:"requires_ally_count"`

	Sound string `yaml:"sound"`
}

// definitionDefaults mirrors the content defaults for fields omitted in YAML.
var definitionDefaults = Definition{
	Target:           TargetSingleEnemy,
	DamageMultiplier: 1.0,
	StatusDuration:   3,
	UseWeight:        0.3,
	MaxHPPercent:     1.0,
}

// definitionKeys is the set of YAML keys a Definition accepts.
var definitionKeys = func() map[string]bool {
	t := reflect.TypeOf(Definition{})
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("yaml"); tag != "" {
			keys[strings.Split(tag, ",")[0]] = true
		}
	}
	return keys
}()

// UnmarshalYAML decodes a Definition, applying content defaults for omitted
// fields. Unknown keys are rejected: a decoder's KnownFields setting does not
// reach custom unmarshalers.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if !definitionKeys[key.Value] {
				return fmt.Errorf("line %d: field %s not found in skill definition", key.Line, key.Value)
			}
		}
	}
	type plain Definition
	out := plain(definitionDefaults)
	if err := node.Decode(&out); err != nil {
		return err
	}
	*d = Definition(out)
	return nil
}

// Validate checks that the definition satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Target is known,
// costs, cooldown and weight are non-negative, and
// 0 <= MinHPPercent <= MaxHPPercent <= 1; otherwise the first violation.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("skill definition: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("skill %q: name must not be empty", d.ID)
	}
	if !d.Target.Valid() {
		return fmt.Errorf("skill %q: unknown target %q", d.ID, d.Target)
	}
	if d.MPCost < 0 || d.HPCost < 0 {
		return fmt.Errorf("skill %q: costs must be >= 0", d.ID)
	}
	if d.Cooldown < 0 {
		return fmt.Errorf("skill %q: cooldown must be >= 0", d.ID)
	}
	if d.UseWeight < 0 {
		return fmt.Errorf("skill %q: use_weight must be >= 0", d.ID)
	}
	if d.MinHPPercent < 0 || d.MaxHPPercent > 1 || d.MinHPPercent > d.MaxHPPercent {
		return fmt.Errorf("skill %q: hp window [%v, %v] must satisfy 0 <= min <= max <= 1",
			d.ID, d.MinHPPercent, d.MaxHPPercent)
	}
	return nil
}
