package skill_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/game/skill"
)

const goblinYAML = `
skills:
  - id: poison_stab
    name: Poison Stab
    target: single_enemy
    damage_multiplier: 1.5
    brv_attack: true
    status_effects: [poison]
    use_weight: 0.35
    cooldown: 2
  - id: goblin_flee
    name: Cowardly Flight
    target: self
    buffs: {speed: 1.5}
    use_weight: 0.5
    max_hp_percent: 0.3
    cooldown: 99
skillsets:
  goblin: [poison_stab, goblin_flee]
`

func writeTempYAML(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0600))
	}
	return dir
}

func loadedCatalog(t testing.TB) *skill.Catalog {
	t.Helper()
	content, err := skill.LoadContentFromBytes([]byte(goblinYAML))
	require.NoError(t, err)
	cat := skill.NewCatalog(zap.NewNop())
	require.NoError(t, cat.Initialize(content))
	return cat
}

func TestLoadContentFromBytes_AppliesDefaults(t *testing.T) {
	content, err := skill.LoadContentFromBytes([]byte(`
skills:
  - id: bare
    name: Bare
`))
	require.NoError(t, err)
	require.Len(t, content.Skills, 1)
	d := content.Skills[0]
	assert.Equal(t, skill.TargetSingleEnemy, d.Target)
	assert.Equal(t, 1.0, d.DamageMultiplier)
	assert.Equal(t, 1.0, d.MaxHPPercent)
	assert.Equal(t, 3, d.StatusDuration)
	assert.Equal(t, 0.3, d.UseWeight)
}

func TestLoadContentFromBytes_RejectsUnknownField(t *testing.T) {
	_, err := skill.LoadContentFromBytes([]byte(`
skills:
  - id: x
    name: X
    teleport: true
`))
	assert.Error(t, err)
}

func TestLoadDirectory_MergesFiles(t *testing.T) {
	dir := writeTempYAML(t, map[string]string{
		"goblin.yaml": goblinYAML,
		"troll.yaml": `
skills:
  - id: regeneration
    name: Regeneration
    target: self
    heal: 50
    max_hp_percent: 0.5
skillsets:
  troll: [regeneration]
`,
		"notes.txt": "ignored",
	})
	content, err := skill.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, content.Skills, 3)
	assert.Len(t, content.SkillSets, 2)
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	_, err := skill.LoadDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCatalog_Initialize_Idempotent(t *testing.T) {
	cat := loadedCatalog(t)
	assert.True(t, cat.Initialized())
	assert.Equal(t, 2, cat.Len())

	more, err := skill.LoadContentFromBytes([]byte(`
skills:
  - id: war_cry
    name: War Cry
    target: all_allies
`))
	require.NoError(t, err)
	require.NoError(t, cat.Initialize(more))
	assert.Equal(t, 2, cat.Len(), "second Initialize must not change the catalog")
	_, ok := cat.Definition("war_cry")
	assert.False(t, ok)
}

func TestCatalog_Initialize_RejectsDuplicates(t *testing.T) {
	cat := skill.NewCatalog(zap.NewNop())
	err := cat.Initialize(&skill.Content{Skills: []*skill.Definition{
		{ID: "a", Name: "A", Target: skill.TargetSelf, MaxHPPercent: 1},
		{ID: "a", Name: "A2", Target: skill.TargetSelf, MaxHPPercent: 1},
	}})
	assert.Error(t, err)
	assert.False(t, cat.Initialized())
	assert.Equal(t, 0, cat.Len())
}

func TestCatalog_Initialize_RejectsUnknownSkillSetReference(t *testing.T) {
	cat := skill.NewCatalog(zap.NewNop())
	err := cat.Initialize(&skill.Content{
		Skills:    []*skill.Definition{{ID: "a", Name: "A", Target: skill.TargetSelf, MaxHPPercent: 1}},
		SkillSets: map[string][]string{"orc": {"a", "missing"}},
	})
	assert.Error(t, err)
	assert.False(t, cat.Initialized())
}

func TestCatalog_Initialize_RejectsInvalidDefinition(t *testing.T) {
	cat := skill.NewCatalog(zap.NewNop())
	err := cat.Initialize(&skill.Content{Skills: []*skill.Definition{
		{ID: "a", Name: "A", Target: "everyone", MaxHPPercent: 1},
	}})
	assert.Error(t, err)
}

func TestCatalog_Instance_FreshEachCall(t *testing.T) {
	cat := loadedCatalog(t)
	a, ok := cat.Instance("poison_stab")
	require.True(t, ok)
	b, ok := cat.Instance("poison_stab")
	require.True(t, ok)
	require.NotSame(t, a, b)
	a.CommitCooldown()
	assert.Equal(t, 2, a.Cooldown())
	assert.Equal(t, 0, b.Cooldown())
	assert.Same(t, a.Definition(), b.Definition())
}

func TestCatalog_Instance_Unknown(t *testing.T) {
	cat := loadedCatalog(t)
	inst, ok := cat.Instance("nope")
	assert.False(t, ok)
	assert.Nil(t, inst)
}

func TestCatalog_InstancesFor(t *testing.T) {
	cat := loadedCatalog(t)
	insts := cat.InstancesFor("Goblin")
	require.Len(t, insts, 2)
	assert.Equal(t, "poison_stab", insts[0].ID())
	assert.Equal(t, "goblin_flee", insts[1].ID())

	unknown := cat.InstancesFor("slime")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestCatalog_All_SortedByID(t *testing.T) {
	cat := loadedCatalog(t)
	all := cat.All()
	require.Len(t, all, 2)
	assert.Equal(t, "goblin_flee", all[0].ID)
	assert.Equal(t, "poison_stab", all[1].ID)
}

func TestDefinition_Validate(t *testing.T) {
	base := func() *skill.Definition {
		return &skill.Definition{ID: "x", Name: "X", Target: skill.TargetSelf, MaxHPPercent: 1}
	}
	require.NoError(t, base().Validate())

	cases := map[string]func(d *skill.Definition){
		"empty id":     func(d *skill.Definition) { d.ID = "" },
		"empty name":   func(d *skill.Definition) { d.Name = "" },
		"bad target":   func(d *skill.Definition) { d.Target = "moon" },
		"neg mp":       func(d *skill.Definition) { d.MPCost = -1 },
		"neg cooldown": func(d *skill.Definition) { d.Cooldown = -1 },
		"neg weight":   func(d *skill.Definition) { d.UseWeight = -0.1 },
		"bad window":   func(d *skill.Definition) { d.MinHPPercent = 0.8; d.MaxHPPercent = 0.2 },
	}
	for name, mutate := range cases {
		d := base()
		mutate(d)
		assert.Error(t, d.Validate(), name)
	}
}
