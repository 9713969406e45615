// Package main provides the battle simulator. It loads skills, the bestiary
// and narrative scripts, then fights a batch of seeded battles between the
// configured party and encounter and reports the outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/config"
	"github.com/cory-johannsen/dreamfall/internal/game/combat"
	"github.com/cory-johannsen/dreamfall/internal/game/dice"
	"github.com/cory-johannsen/dreamfall/internal/game/npc"
	"github.com/cory-johannsen/dreamfall/internal/game/skill"
	"github.com/cory-johannsen/dreamfall/internal/observability"
	"github.com/cory-johannsen/dreamfall/internal/scripting"
	"github.com/cory-johannsen/dreamfall/internal/simulation"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	transcript := flag.Bool("transcript", false, "print every battle's transcript")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load content
	content, err := skill.LoadDirectory(cfg.Content.SkillsDir)
	if err != nil {
		logger.Fatal("loading skills", zap.Error(err))
	}
	catalog := skill.NewCatalog(observability.Component(logger, "skills"))
	if err := catalog.Initialize(content); err != nil {
		logger.Fatal("initializing skill catalog", zap.Error(err))
	}
	bestiary, err := npc.LoadBestiary(cfg.Content.BestiaryDir)
	if err != nil {
		logger.Fatal("loading bestiary", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("skills", catalog.Len()),
		zap.Int("templates", bestiary.Len()),
	)

	opts := []simulation.Option{}
	if cfg.Content.ScriptsDir != "" {
		scriptLogger := observability.Component(logger, "scripting")
		// Battles bind their own roller for each hook call; this one only
		// serves script loading.
		roller := dice.NewLoggedRoller(dice.NewSeededSource(cfg.Simulation.Seed), scriptLogger)
		mgr := scripting.NewManager(roller, scriptLogger)
		if err := mgr.Load(cfg.Content.ScriptsDir, cfg.AI.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading scripts", zap.Error(err))
		}
		defer mgr.Close()
		opts = append(opts, simulation.WithNarrator(mgr))
	}

	runner := simulation.NewRunner(bestiary, catalog, cfg.AI.FactoryConfig(), observability.Component(logger, "simulation"), opts...)
	setup := simulation.Setup{
		Party:         cfg.Simulation.Party,
		Encounter:     cfg.Simulation.Encounter,
		LevelModifier: cfg.Simulation.LevelModifier,
		MaxRounds:     cfg.Simulation.MaxRounds,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := runner.RunBatch(ctx, cfg.Simulation.Battles, cfg.Simulation.Workers, cfg.Simulation.Seed, setup)
	if err != nil {
		logger.Fatal("running battles", zap.Error(err))
	}

	if *transcript || cfg.Simulation.Transcript {
		printTranscripts(os.Stdout, summary)
	}
	printSummary(os.Stdout, summary)
	logger.Info("simulation complete", zap.Duration("elapsed", time.Since(start)))
}

func printTranscripts(w io.Writer, s *simulation.Summary) {
	for _, res := range s.Results {
		fmt.Fprintf(w, "== %s (seed %d) ==\n", res.BattleID, res.Seed)
		for _, line := range res.Transcript {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}
}

func printSummary(w io.Writer, s *simulation.Summary) {
	fmt.Fprintf(w, "battles:    %d\n", s.Battles)
	fmt.Fprintf(w, "party wins: %d (%.1f%%)\n", s.PartyWins, 100*s.WinRate(combat.SideParty))
	fmt.Fprintf(w, "enemy wins: %d (%.1f%%)\n", s.EnemyWins, 100*s.WinRate(combat.SideEnemy))
	fmt.Fprintf(w, "draws:      %d\n", s.Draws)
	fmt.Fprintf(w, "avg rounds: %.1f\n", s.AverageRounds())
	if len(s.SkillUses) == 0 {
		return
	}
	fmt.Fprintln(w, "skill uses:")
	for _, id := range s.SkillsByUse() {
		fmt.Fprintf(w, "  %-20s %d\n", id, s.SkillUses[id])
	}
}
