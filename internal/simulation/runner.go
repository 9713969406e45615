// Package simulation runs complete battles between spawned combatants, every
// one of them driven by a decision engine, and aggregates the outcomes.
package simulation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/game/ai"
	"github.com/cory-johannsen/dreamfall/internal/game/combat"
	"github.com/cory-johannsen/dreamfall/internal/game/dice"
	"github.com/cory-johannsen/dreamfall/internal/game/npc"
	"github.com/cory-johannsen/dreamfall/internal/scripting"
)

// Setup describes one matchup.
type Setup struct {
	// Party and Encounter are bestiary IDs; repeats spawn distinct combatants.
	Party     []string
	Encounter []string
	// LevelModifier scales every spawned combatant's stats.
	LevelModifier float64
	// MaxRounds ends the battle as a draw when reached.
	MaxRounds int
}

// Validate reports the first problem with s.
func (s Setup) Validate() error {
	switch {
	case len(s.Party) == 0:
		return fmt.Errorf("simulation: party must not be empty")
	case len(s.Encounter) == 0:
		return fmt.Errorf("simulation: encounter must not be empty")
	case s.LevelModifier <= 0:
		return fmt.Errorf("simulation: level modifier must be > 0, got %v", s.LevelModifier)
	case s.MaxRounds < 1:
		return fmt.Errorf("simulation: max rounds must be >= 1, got %d", s.MaxRounds)
	}
	return nil
}

// Result is the outcome of one battle.
type Result struct {
	Index    int
	BattleID string
	Seed     uint64
	// Winner is meaningful only when Decided is true.
	Winner  combat.Side
	Decided bool
	Rounds  int
	// SkillUses counts resolved skill decisions by skill ID.
	SkillUses map[string]int
	// Actions counts decisions by kind.
	Actions    map[ai.ActionKind]int
	Transcript []string
}

func (r *Result) record(line string) {
	if line != "" {
		r.Transcript = append(r.Transcript, line)
	}
}

// Runner spawns and fights battles. A Runner is safe for concurrent use; each
// battle gets its own dice roller, engine factory and registry.
type Runner struct {
	bestiary *npc.Bestiary
	skills   npc.SkillSource
	factory  ai.FactoryConfig
	narrator *scripting.Manager
	arena    *combat.Arena
	logger   *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithNarrator routes boss phase changes through the Lua narrative hook and
// into each battle's transcript.
func WithNarrator(m *scripting.Manager) Option {
	return func(r *Runner) { r.narrator = m }
}

// WithArena shares an arena between runners.
func WithArena(a *combat.Arena) Option {
	return func(r *Runner) { r.arena = a }
}

// NewRunner constructs a Runner.
//
// Precondition: bestiary, skills and logger must not be nil.
func NewRunner(bestiary *npc.Bestiary, skills npc.SkillSource, cfg ai.FactoryConfig, logger *zap.Logger, opts ...Option) *Runner {
	if bestiary == nil {
		panic("simulation.NewRunner: bestiary must not be nil")
	}
	if skills == nil {
		panic("simulation.NewRunner: skills must not be nil")
	}
	if logger == nil {
		panic("simulation.NewRunner: logger must not be nil")
	}
	r := &Runner{
		bestiary: bestiary,
		skills:   skills,
		factory:  cfg,
		arena:    combat.NewArena(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Arena returns the arena tracking this runner's battles in progress.
func (r *Runner) Arena() *combat.Arena { return r.arena }

// RunBattle fights one battle to completion with randomness seeded by seed.
//
// Precondition: setup must be valid.
// Postcondition: the same seed and setup produce the same transcript; returns
// ctx.Err() if ctx is cancelled between turns.
func (r *Runner) RunBattle(ctx context.Context, index int, seed uint64, setup Setup) (*Result, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	battleID := fmt.Sprintf("battle-%04d", index)
	logger := r.logger.With(zap.String("battle", battleID))

	party, err := r.bestiary.SpawnAll(setup.Party, combat.SideParty, r.skills, setup.LevelModifier)
	if err != nil {
		return nil, fmt.Errorf("spawning party: %w", err)
	}
	enemies, err := r.bestiary.SpawnAll(setup.Encounter, combat.SideEnemy, r.skills, setup.LevelModifier)
	if err != nil {
		return nil, fmt.Errorf("spawning encounter: %w", err)
	}
	all := append(party, enemies...)

	src := dice.NewSeededSource(seed)
	roller := dice.NewLoggedRoller(src, logger)
	combat.RollInitiative(all, src)

	battle, err := combat.NewBattle(battleID, all)
	if err != nil {
		return nil, err
	}
	if err := r.arena.Start(battle); err != nil {
		return nil, err
	}
	defer r.arena.End(battleID)

	res := &Result{
		Index:     index,
		BattleID:  battleID,
		Seed:      seed,
		SkillUses: make(map[string]int),
		Actions:   make(map[ai.ActionKind]int),
	}

	sinks := ai.MultiSink{ai.NewLogSink(logger)}
	if r.narrator != nil {
		sinks = append(sinks, scripting.NewNarrativeSink(r.narrator, roller, logger, res.record))
	}
	registry := ai.NewRegistry(ai.NewFactory(r.factory, roller, sinks, logger))
	for _, c := range battle.Combatants {
		if _, err := registry.Bind(c.ID, c); err != nil {
			return nil, err
		}
	}

	for !battle.Over() && battle.Round < setup.MaxRounds {
		battle.StartRound()
		res.record(fmt.Sprintf("Round %d begins!", battle.Round))
		for _, c := range battle.Combatants {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if battle.Over() {
				break
			}
			if !c.Alive() {
				continue
			}
			r.takeTurn(battle, registry, c, res)
		}
	}

	res.Rounds = battle.Round
	res.Winner, res.Decided = battle.Winner()
	outcome := "draw"
	if res.Decided {
		outcome = res.Winner.String()
	}
	res.record(fmt.Sprintf("Battle over after %d rounds: %s.", res.Rounds, outcome))
	logger.Info("battle finished",
		zap.String("outcome", outcome),
		zap.Int("rounds", res.Rounds),
	)
	return res, nil
}

// takeTurn asks c's engine for a decision and resolves it.
func (r *Runner) takeTurn(battle *combat.Battle, registry *ai.Registry, c *combat.Combatant, res *Result) {
	c.BeginTurn()
	eng, ok := registry.EngineFor(c.ID)
	if !ok {
		return
	}
	d := eng.Decide(battle.AlliesOf(c), battle.EnemiesOf(c))
	res.Actions[d.Kind]++
	if d.Kind == ai.ActionSkill {
		res.SkillUses[d.Skill.ID()]++
	}
	for _, ev := range combat.Resolve(c, d) {
		res.record(ev.Narrative)
	}
}
