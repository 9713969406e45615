// Package config provides Viper-based configuration loading for the battle
// simulator and the decision engines it drives.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/dreamfall/internal/game/ai"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig locates the declarative game content.
type ContentConfig struct {
	// SkillsDir holds the skill catalog YAML files.
	SkillsDir string `mapstructure:"skills_dir"`
	// BestiaryDir holds one enemy template YAML file per enemy.
	BestiaryDir string `mapstructure:"bestiary_dir"`
	// ScriptsDir holds the narrative Lua scripts. Empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// AIConfig holds the data-driven knobs of engine selection.
type AIConfig struct {
	// Difficulty names the gate multiplier for ordinary enemies.
	Difficulty string `mapstructure:"difficulty"`
	// BossDifficulty names the gate multiplier for bosses.
	BossDifficulty string `mapstructure:"boss_difficulty"`
	// DifficultyMultipliers overrides or extends the built-in difficulty table.
	DifficultyMultipliers map[string]float64 `mapstructure:"difficulty_multipliers"`
	// UniqueBossName is matched case-insensitively against combatant names.
	UniqueBossName string `mapstructure:"unique_boss_name"`
	// UniqueBossMultiplier is the gate multiplier of the unique boss.
	UniqueBossMultiplier float64 `mapstructure:"unique_boss_multiplier"`
	// BossMarkers are substrings that make any combatant a boss.
	BossMarkers []string `mapstructure:"boss_markers"`
	// ScriptedSkill is the skill ID the unique boss forces in its final phase.
	ScriptedSkill string `mapstructure:"scripted_skill"`
	// ScriptInstructionLimit bounds each narrative hook call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Multiplier resolves a difficulty name, preferring configured overrides over
// the built-in table.
//
// Postcondition: unknown names resolve to the built-in fallback.
func (a AIConfig) Multiplier(difficulty string) float64 {
	if m, ok := a.DifficultyMultipliers[strings.ToLower(difficulty)]; ok {
		return m
	}
	return ai.DifficultyMultiplier(difficulty)
}

// FactoryConfig converts the section into the engine factory's settings.
func (a AIConfig) FactoryConfig() ai.FactoryConfig {
	return ai.FactoryConfig{
		UniqueBossName:   a.UniqueBossName,
		BossMarkers:      append([]string(nil), a.BossMarkers...),
		ScriptedSkill:    a.ScriptedSkill,
		EnemyMultiplier:  a.Multiplier(a.Difficulty),
		BossMultiplier:   a.Multiplier(a.BossDifficulty),
		UniqueMultiplier: a.UniqueBossMultiplier,
	}
}

// SimulationConfig drives the batch battle runner.
type SimulationConfig struct {
	// Battles is the number of independent battles to run.
	Battles int `mapstructure:"battles"`
	// Workers bounds how many battles run concurrently.
	Workers int `mapstructure:"workers"`
	// MaxRounds ends a battle as a draw when reached.
	MaxRounds int `mapstructure:"max_rounds"`
	// Seed is the base seed; battle i uses Seed+i.
	Seed uint64 `mapstructure:"seed"`
	// LevelModifier scales every spawned combatant's stats.
	LevelModifier float64 `mapstructure:"level_modifier"`
	// Party lists the bestiary IDs fighting on the player side.
	Party []string `mapstructure:"party"`
	// Encounter lists the bestiary IDs on the enemy side.
	Encounter []string `mapstructure:"encounter"`
	// Transcript prints every round event when true.
	Transcript bool `mapstructure:"transcript"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Content    ContentConfig    `mapstructure:"content"`
	AI         AIConfig         `mapstructure:"ai"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAI(c.AI); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.SkillsDir == "" {
		errs = append(errs, "content.skills_dir must not be empty")
	}
	if c.BestiaryDir == "" {
		errs = append(errs, "content.bestiary_dir must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateAI(a AIConfig) error {
	var errs []string
	if a.Difficulty == "" {
		errs = append(errs, "ai.difficulty must not be empty")
	}
	if a.BossDifficulty == "" {
		errs = append(errs, "ai.boss_difficulty must not be empty")
	}
	for name, m := range a.DifficultyMultipliers {
		if m < 0 {
			errs = append(errs, fmt.Sprintf("ai.difficulty_multipliers.%s must be >= 0, got %v", name, m))
		}
	}
	if a.UniqueBossMultiplier < 0 {
		errs = append(errs, fmt.Sprintf("ai.unique_boss_multiplier must be >= 0, got %v", a.UniqueBossMultiplier))
	}
	if a.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("ai.script_instruction_limit must be >= 0, got %d", a.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Battles < 1 {
		errs = append(errs, fmt.Sprintf("simulation.battles must be >= 1, got %d", s.Battles))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("simulation.workers must be >= 1, got %d", s.Workers))
	}
	if s.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_rounds must be >= 1, got %d", s.MaxRounds))
	}
	if s.LevelModifier <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.level_modifier must be > 0, got %v", s.LevelModifier))
	}
	if len(s.Party) == 0 {
		errs = append(errs, "simulation.party must not be empty")
	}
	if len(s.Encounter) == 0 {
		errs = append(errs, "simulation.encounter must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DREAMFALL_ prefix
	v.SetEnvPrefix("DREAMFALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default configuration.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("content.skills_dir", "content/skills")
	v.SetDefault("content.bestiary_dir", "content/bestiary")
	v.SetDefault("content.scripts_dir", "content/scripts")

	factory := ai.DefaultFactoryConfig()
	v.SetDefault("ai.difficulty", "hard")
	v.SetDefault("ai.boss_difficulty", "hard")
	v.SetDefault("ai.difficulty_multipliers", map[string]float64{})
	v.SetDefault("ai.unique_boss_name", factory.UniqueBossName)
	v.SetDefault("ai.unique_boss_multiplier", factory.UniqueMultiplier)
	v.SetDefault("ai.boss_markers", factory.BossMarkers)
	v.SetDefault("ai.scripted_skill", factory.ScriptedSkill)
	v.SetDefault("ai.script_instruction_limit", 100_000)

	v.SetDefault("simulation.battles", 100)
	v.SetDefault("simulation.workers", 4)
	v.SetDefault("simulation.max_rounds", 60)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.level_modifier", 1.0)
	v.SetDefault("simulation.party", []string{"warrior", "sorcerer", "cleric"})
	v.SetDefault("simulation.encounter", []string{"sephiroth"})
	v.SetDefault("simulation.transcript", false)
}
