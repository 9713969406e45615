package ai_test

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/game/ai"
	"github.com/cory-johannsen/dreamfall/internal/game/dice"
	"github.com/cory-johannsen/dreamfall/internal/game/skill"
	"github.com/cory-johannsen/dreamfall/internal/testutil"
)

// fakeActor is a minimal combatant. MP is only exposed when maxMP > 0.
type fakeActor struct {
	name   string
	hp     int
	maxHP  int
	mp     int
	maxMP  int
	dead   bool
	skills []*skill.Instance
}

func (f *fakeActor) HP() (skill.Pool, bool) { return skill.Pool{Current: f.hp, Max: f.maxHP}, true }

func (f *fakeActor) MP() (skill.Pool, bool) {
	if f.maxMP <= 0 {
		return skill.Pool{}, false
	}
	return skill.Pool{Current: f.mp, Max: f.maxMP}, true
}

func (f *fakeActor) Name() string              { return f.name }
func (f *fakeActor) Alive() bool               { return !f.dead && f.hp > 0 }
func (f *fakeActor) Skills() []*skill.Instance { return f.skills }

func newActor(name string, hp, maxHP int, defs ...*skill.Definition) *fakeActor {
	a := &fakeActor{name: name, hp: hp, maxHP: maxHP}
	for _, d := range defs {
		a.skills = append(a.skills, skill.NewInstance(d))
	}
	return a
}

func actors(as ...*fakeActor) []ai.Actor {
	out := make([]ai.Actor, len(as))
	for i, a := range as {
		out[i] = a
	}
	return out
}

func def(id string, target skill.TargetType, mutate ...func(*skill.Definition)) *skill.Definition {
	d := &skill.Definition{
		ID:               id,
		Name:             id,
		Target:           target,
		DamageMultiplier: 1,
		UseWeight:        1,
		MaxHPPercent:     1,
	}
	for _, m := range mutate {
		m(d)
	}
	return d
}

func withDamage(n int) func(*skill.Definition) { return func(d *skill.Definition) { d.Damage = n } }
func withHeal(n int) func(*skill.Definition)   { return func(d *skill.Definition) { d.Heal = n } }
func withWeight(w float64) func(*skill.Definition) {
	return func(d *skill.Definition) { d.UseWeight = w }
}
func withCooldown(n int) func(*skill.Definition) { return func(d *skill.Definition) { d.Cooldown = n } }
func withMPCost(n int) func(*skill.Definition)   { return func(d *skill.Definition) { d.MPCost = n } }
func withBuff() func(*skill.Definition) {
	return func(d *skill.Definition) { d.Buffs = map[string]float64{"strength": 1.2} }
}
func withDebuff() func(*skill.Definition) {
	return func(d *skill.Definition) { d.Debuffs = map[string]float64{"defense": 0.8} }
}
func withHPWindow(lo, hi float64) func(*skill.Definition) {
	return func(d *skill.Definition) { d.MinHPPercent, d.MaxHPPercent = lo, hi }
}

func scripted(floats []float64, ints ...int) (*dice.Roller, *testutil.ScriptedSource) {
	src := &testutil.ScriptedSource{Floats: floats, Ints: ints}
	return dice.NewLoggedRoller(src, zap.NewNop()), src
}

func seeded(seed uint64) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
}
