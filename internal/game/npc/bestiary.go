package npc

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cory-johannsen/dreamfall/internal/game/combat"
	"github.com/cory-johannsen/dreamfall/internal/game/skill"
)

// SkillSource hands out fresh skill instances for an enemy type.
// *skill.Catalog satisfies it.
type SkillSource interface {
	InstancesFor(enemyType string) []*skill.Instance
}

// Bestiary indexes enemy templates by ID. It is immutable after construction
// and safe for concurrent reads.
type Bestiary struct {
	templates map[string]*Template
}

// NewBestiary builds a Bestiary from templates.
//
// Postcondition: Returns an error if two templates share an ID.
func NewBestiary(templates []*Template) (*Bestiary, error) {
	b := &Bestiary{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, dup := b.templates[t.ID]; dup {
			return nil, fmt.Errorf("npc.NewBestiary: duplicate template id %q", t.ID)
		}
		b.templates[t.ID] = t
	}
	return b, nil
}

// LoadBestiary reads every template in dir into a Bestiary.
//
// Precondition: dir must be a readable directory.
func LoadBestiary(dir string) (*Bestiary, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, fmt.Errorf("npc.LoadBestiary: %w", err)
	}
	return NewBestiary(templates)
}

// Get returns the template with id.
func (b *Bestiary) Get(id string) (*Template, bool) {
	t, ok := b.templates[id]
	return t, ok
}

// Len returns the number of templates.
func (b *Bestiary) Len() int { return len(b.templates) }

// IDs returns every template ID in lexicographic order.
func (b *Bestiary) IDs() []string {
	ids := make([]string, 0, len(b.templates))
	for id := range b.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SpawnAll spawns one combatant per entry of ids, in order. Repeated IDs
// spawn distinct combatants.
//
// Postcondition: Returns an error naming the first unknown ID.
func (b *Bestiary) SpawnAll(ids []string, side combat.Side, skills SkillSource, levelModifier float64) ([]*combat.Combatant, error) {
	out := make([]*combat.Combatant, 0, len(ids))
	for _, id := range ids {
		tmpl, ok := b.Get(id)
		if !ok {
			return nil, fmt.Errorf("npc.Bestiary.SpawnAll: unknown template %q", id)
		}
		c, err := Spawn(tmpl, side, skills, levelModifier)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Spawn creates a battle-ready combatant from tmpl. HP, MP, attack and defense
// scale with levelModifier; speed does not. The combatant receives fresh skill
// instances for its skill set, so cooldowns are never shared between spawns.
//
// Precondition: tmpl and skills must be non-nil; levelModifier > 0.
// Postcondition: the combatant ID is unique per call; CurrentHP equals its MaxHP.
func Spawn(tmpl *Template, side combat.Side, skills SkillSource, levelModifier float64) (*combat.Combatant, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("npc.Spawn: tmpl must not be nil")
	}
	if skills == nil {
		return nil, fmt.Errorf("npc.Spawn: skills must not be nil")
	}
	if levelModifier <= 0 {
		return nil, fmt.Errorf("npc.Spawn: level modifier must be > 0, got %v", levelModifier)
	}

	scale := func(v int) int { return int(float64(v) * levelModifier) }
	stats := combat.Stats{
		Level:       max(scale(tmpl.Level), 1),
		MaxHP:       max(scale(tmpl.MaxHP), 1),
		MaxMP:       scale(tmpl.MaxMP),
		Attack:      scale(tmpl.Attack),
		Defense:     scale(tmpl.Defense),
		MagicAttack: scale(tmpl.MagicAttack),
		Speed:       tmpl.Speed,
	}
	id := fmt.Sprintf("%s-%s", tmpl.ID, uuid.NewString())
	return combat.NewCombatant(id, tmpl.Name, side, stats, skills.InstancesFor(tmpl.SkillSet())), nil
}
