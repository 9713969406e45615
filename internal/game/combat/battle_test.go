package combat_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dreamfall/internal/game/combat"
)

func TestNewBattle_SortsByInitiative(t *testing.T) {
	a := fighter("a", combat.SideParty, 10)
	b := fighter("b", combat.SideEnemy, 10)
	c := fighter("c", combat.SideEnemy, 10)
	a.Initiative, b.Initiative, c.Initiative = 5, 12, 5

	battle, err := combat.NewBattle("b1", []*combat.Combatant{a, b, c})
	require.NoError(t, err)
	require.Len(t, battle.Combatants, 3)
	assert.Equal(t, "b", battle.Combatants[0].ID)
	assert.Equal(t, "a", battle.Combatants[1].ID, "ties keep input order")
	assert.Equal(t, "c", battle.Combatants[2].ID)
}

func TestNewBattle_RejectsDuplicateIDs(t *testing.T) {
	_, err := combat.NewBattle("b1", []*combat.Combatant{
		fighter("a", combat.SideParty, 10),
		fighter("a", combat.SideEnemy, 10),
	})
	assert.Error(t, err)
}

func TestNewBattle_RequiresBothSides(t *testing.T) {
	_, err := combat.NewBattle("b1", []*combat.Combatant{fighter("a", combat.SideParty, 10)})
	assert.Error(t, err)
}

func TestBattle_SidesIncludeTheDead(t *testing.T) {
	hero := fighter("hero", combat.SideParty, 10)
	goblin := fighter("goblin", combat.SideEnemy, 10)
	rat := fighter("rat", combat.SideEnemy, 10)
	rat.CurrentHP = 0
	battle, err := combat.NewBattle("b1", []*combat.Combatant{hero, goblin, rat})
	require.NoError(t, err)

	assert.Len(t, battle.EnemiesOf(hero), 2)
	assert.Len(t, battle.AlliesOf(goblin), 2)
	assert.Len(t, battle.AlliesOf(hero), 1)
	assert.Len(t, battle.LivingCombatants(), 2)

	got, ok := battle.Find("rat")
	require.True(t, ok)
	assert.Same(t, rat, got)
	_, ok = battle.Find("missing")
	assert.False(t, ok)
}

func TestBattle_OverAndWinner(t *testing.T) {
	hero := fighter("hero", combat.SideParty, 10)
	goblin := fighter("goblin", combat.SideEnemy, 10)
	battle, err := combat.NewBattle("b1", []*combat.Combatant{hero, goblin})
	require.NoError(t, err)

	assert.False(t, battle.Over())
	_, ok := battle.Winner()
	assert.False(t, ok)

	goblin.ApplyDamage(100)
	assert.True(t, battle.Over())
	side, ok := battle.Winner()
	require.True(t, ok)
	assert.Equal(t, combat.SideParty, side)

	battle.StartRound()
	assert.Equal(t, 1, battle.Round)
}

func TestArena_StartGetEnd(t *testing.T) {
	arena := combat.NewArena()
	battle, err := combat.NewBattle("b1", []*combat.Combatant{
		fighter("hero", combat.SideParty, 10),
		fighter("goblin", combat.SideEnemy, 10),
	})
	require.NoError(t, err)

	require.NoError(t, arena.Start(battle))
	assert.Error(t, arena.Start(battle), "a battle ID is active at most once")
	got, ok := arena.Get("b1")
	require.True(t, ok)
	assert.Same(t, battle, got)
	assert.Equal(t, 1, arena.Active())

	arena.End("b1")
	_, ok = arena.Get("b1")
	assert.False(t, ok)
	assert.Equal(t, 0, arena.Active())
}

func TestArena_ConcurrentStartEnd(t *testing.T) {
	arena := combat.NewArena()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := &combat.Battle{ID: string(rune('A' + i))}
			assert.NoError(t, arena.Start(b))
			arena.End(b.ID)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, arena.Active())
}
