package simulation_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dreamfall/internal/game/ai"
	"github.com/cory-johannsen/dreamfall/internal/game/combat"
	"github.com/cory-johannsen/dreamfall/internal/game/dice"
	"github.com/cory-johannsen/dreamfall/internal/game/npc"
	"github.com/cory-johannsen/dreamfall/internal/game/skill"
	"github.com/cory-johannsen/dreamfall/internal/scripting"
	"github.com/cory-johannsen/dreamfall/internal/simulation"
)

const skillsYAML = `
skills:
  - id: heavy_strike
    name: Heavy Strike
    target: single_enemy
    brv_attack: true
    hp_attack: true
    damage_multiplier: 2.2
    use_weight: 0.25
    cooldown: 3
  - id: mend
    name: Mend
    target: single_ally
    heal: 40
    use_weight: 0.3
    max_hp_percent: 0.6
    cooldown: 2
  - id: poison_stab
    name: Poison Stab
    target: single_enemy
    brv_attack: true
    damage_multiplier: 1.5
    use_weight: 0.35
    cooldown: 2
skillsets:
  knight: [heavy_strike, mend]
  goblin: [poison_stab]
`

func catalog(t *testing.T) *skill.Catalog {
	t.Helper()
	content, err := skill.LoadContentFromBytes([]byte(skillsYAML))
	require.NoError(t, err)
	c := skill.NewCatalog(zap.NewNop())
	require.NoError(t, c.Initialize(content))
	return c
}

func bestiary(t *testing.T) *npc.Bestiary {
	t.Helper()
	b, err := npc.NewBestiary([]*npc.Template{
		{ID: "knight", Name: "Knight", Level: 5, MaxHP: 400, MaxMP: 40, Attack: 90, Defense: 60, Speed: 50},
		{ID: "goblin", Name: "Goblin", Level: 1, MaxHP: 200, MaxMP: 35, Attack: 60, Defense: 45, MagicAttack: 50, Speed: 55},
		{ID: "wall", Name: "Stone Wall", Level: 1, MaxHP: 100000, Attack: 0, Defense: 0, Speed: 1},
		{ID: "slayer", Name: "Slayer", Level: 1, MaxHP: 100, Attack: 500, Speed: 200},
		{ID: "sephiroth", Name: "Sephiroth", Level: 1, MaxHP: 1000, Speed: 0},
	})
	require.NoError(t, err)
	return b
}

func newRunner(t *testing.T, opts ...simulation.Option) *simulation.Runner {
	t.Helper()
	return simulation.NewRunner(bestiary(t), catalog(t), ai.DefaultFactoryConfig(), zap.NewNop(), opts...)
}

func skirmish() simulation.Setup {
	return simulation.Setup{
		Party:         []string{"knight", "knight"},
		Encounter:     []string{"goblin", "goblin", "goblin"},
		LevelModifier: 1,
		MaxRounds:     100,
	}
}

func TestNewRunner_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { simulation.NewRunner(nil, catalog(t), ai.DefaultFactoryConfig(), zap.NewNop()) })
	assert.Panics(t, func() { simulation.NewRunner(bestiary(t), nil, ai.DefaultFactoryConfig(), zap.NewNop()) })
	assert.Panics(t, func() { simulation.NewRunner(bestiary(t), catalog(t), ai.DefaultFactoryConfig(), nil) })
}

func TestSetup_Validate(t *testing.T) {
	assert.NoError(t, skirmish().Validate())

	s := skirmish()
	s.Party = nil
	assert.ErrorContains(t, s.Validate(), "party")

	s = skirmish()
	s.Encounter = nil
	assert.ErrorContains(t, s.Validate(), "encounter")

	s = skirmish()
	s.LevelModifier = 0
	assert.ErrorContains(t, s.Validate(), "level modifier")

	s = skirmish()
	s.MaxRounds = 0
	assert.ErrorContains(t, s.Validate(), "max rounds")
}

func TestRunBattle_Overwhelming(t *testing.T) {
	r := newRunner(t)
	res, err := r.RunBattle(context.Background(), 0, 7, simulation.Setup{
		Party:         []string{"slayer"},
		Encounter:     []string{"goblin"},
		LevelModifier: 1,
		MaxRounds:     10,
	})
	require.NoError(t, err)
	assert.True(t, res.Decided)
	assert.Equal(t, combat.SideParty, res.Winner)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, "battle-0000", res.BattleID)
	assert.Equal(t, uint64(7), res.Seed)
	require.NotEmpty(t, res.Transcript)
	assert.Equal(t, "Round 1 begins!", res.Transcript[0])
	assert.Contains(t, res.Transcript, "Slayer attacks Goblin for 200 damage. Goblin falls.")
	assert.Equal(t, "Battle over after 1 rounds: party.", res.Transcript[len(res.Transcript)-1])
	assert.Equal(t, 1, res.Actions[ai.ActionAttack])
	assert.Equal(t, 0, r.Arena().Active(), "finished battles leave the arena")
}

func TestRunBattle_DrawAtMaxRounds(t *testing.T) {
	r := newRunner(t)
	res, err := r.RunBattle(context.Background(), 1, 1, simulation.Setup{
		Party:         []string{"wall"},
		Encounter:     []string{"wall"},
		LevelModifier: 1,
		MaxRounds:     5,
	})
	require.NoError(t, err)
	assert.False(t, res.Decided)
	assert.Equal(t, 5, res.Rounds)
	assert.Equal(t, 10, res.Actions[ai.ActionAttack], "each wall attacks once per round")
	assert.Equal(t, "Battle over after 5 rounds: draw.", res.Transcript[len(res.Transcript)-1])
}

func TestRunBattle_SameSeedSameTranscript(t *testing.T) {
	r := newRunner(t)
	a, err := r.RunBattle(context.Background(), 0, 99, skirmish())
	require.NoError(t, err)
	b, err := r.RunBattle(context.Background(), 0, 99, skirmish())
	require.NoError(t, err)

	assert.Equal(t, a.Transcript, b.Transcript)
	assert.Equal(t, a.Rounds, b.Rounds)
	assert.Equal(t, a.SkillUses, b.SkillUses)
}

func TestRunBattle_UnknownTemplate(t *testing.T) {
	r := newRunner(t)
	s := skirmish()
	s.Encounter = []string{"balrog"}
	_, err := r.RunBattle(context.Background(), 0, 1, s)
	assert.ErrorContains(t, err, "balrog")
}

func TestRunBattle_InvalidSetup(t *testing.T) {
	r := newRunner(t)
	_, err := r.RunBattle(context.Background(), 0, 1, simulation.Setup{})
	assert.Error(t, err)
}

func TestRunBattle_CancelledContext(t *testing.T) {
	r := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.RunBattle(ctx, 0, 1, skirmish())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, r.Arena().Active())
}

func TestRunBattle_NarratorAddsPhaseLines(t *testing.T) {
	dir := t.TempDir()
	script := `
function on_boss_phase(name, from, to, message)
  return name .. " enters phase " .. to
end
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "narrative.lua"), []byte(script), 0644))
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop()), zap.NewNop())
	require.NoError(t, mgr.Load(dir, 0))
	t.Cleanup(mgr.Close)

	r := newRunner(t, simulation.WithNarrator(mgr))
	res, err := r.RunBattle(context.Background(), 0, 3, simulation.Setup{
		Party:         []string{"slayer"},
		Encounter:     []string{"sephiroth"},
		LevelModifier: 1,
		MaxRounds:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, combat.SideParty, res.Winner)
	assert.Contains(t, res.Transcript, "Sephiroth enters phase 2")
}

func TestRunBattle_NarrationReplaysWithSeed(t *testing.T) {
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop()), zap.NewNop())
	require.NoError(t, mgr.Load("../../content/scripts", 0))
	t.Cleanup(mgr.Close)

	r := newRunner(t, simulation.WithNarrator(mgr))
	setup := simulation.Setup{
		Party:         []string{"slayer"},
		Encounter:     []string{"sephiroth"},
		LevelModifier: 1,
		MaxRounds:     10,
	}
	phaseTwo := []string{
		"Sephiroth's eyes narrow. The air grows cold.",
		"Sephiroth stops toying with you.",
	}
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		first, err := r.RunBattle(context.Background(), 0, seed, setup)
		require.NoError(rt, err)
		// An unrelated battle in between must not shift the second run's lines.
		_, err = r.RunBattle(context.Background(), 1, seed+1, setup)
		require.NoError(rt, err)
		second, err := r.RunBattle(context.Background(), 0, seed, setup)
		require.NoError(rt, err)

		assert.Equal(rt, first.Transcript, second.Transcript)
	})

	res, err := r.RunBattle(context.Background(), 0, 3, setup)
	require.NoError(t, err)
	assert.True(t, containsAny(res.Transcript, phaseTwo), "no phase 2 narration in %v", res.Transcript)
}

func containsAny(lines, want []string) bool {
	for _, l := range lines {
		for _, w := range want {
			if l == w {
				return true
			}
		}
	}
	return false
}

func TestWithArena_SharesArena(t *testing.T) {
	arena := combat.NewArena()
	r := newRunner(t, simulation.WithArena(arena))
	assert.Same(t, arena, r.Arena())
}

func TestRunBattle_SkillUsesMatchSkillActions(t *testing.T) {
	r := newRunner(t)
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		res, err := r.RunBattle(context.Background(), 0, seed, skirmish())
		require.NoError(rt, err)
		total := 0
		for _, n := range res.SkillUses {
			total += n
		}
		assert.Equal(rt, res.Actions[ai.ActionSkill], total)
		assert.LessOrEqual(rt, res.Rounds, 100)
	})
}
