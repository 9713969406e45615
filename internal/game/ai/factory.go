package ai

import (
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dreamfall/internal/game/dice"
)

// Tier is the behavior class an actor is bound to.
type Tier int

const (
	TierEnemy Tier = iota
	TierBoss
	TierUnique
)

// String returns the tier label.
func (t Tier) String() string {
	switch t {
	case TierEnemy:
		return "enemy"
	case TierBoss:
		return "boss"
	case TierUnique:
		return "unique"
	default:
		return "unknown"
	}
}

// DifficultyMultipliers scales every skill's usage gate by difficulty name.
var DifficultyMultipliers = map[string]float64{
	"easy":   1.0,
	"normal": 2.5,
	"hard":   4.0,
	"insane": 6.0,
}

// defaultDifficultyMultiplier applies to unknown difficulty names.
const defaultDifficultyMultiplier = 4.0

// DifficultyMultiplier returns the gate multiplier for difficulty, falling
// back to the "hard" value for unknown names.
func DifficultyMultiplier(difficulty string) float64 {
	if m, ok := DifficultyMultipliers[strings.ToLower(difficulty)]; ok {
		return m
	}
	return defaultDifficultyMultiplier
}

// Classify decides an actor's tier from its display name alone: unique when
// the name equals uniqueName ignoring case, boss when the lower-cased name
// contains any marker, enemy otherwise. A goblin merely called "Bone Dragon
// Whelp" is a boss by this rule.
func Classify(name, uniqueName string, bossMarkers []string) Tier {
	if uniqueName != "" && strings.EqualFold(name, uniqueName) {
		return TierUnique
	}
	lower := strings.ToLower(name)
	for _, m := range bossMarkers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return TierBoss
		}
	}
	return TierEnemy
}

// FactoryConfig holds the data-driven knobs of engine selection.
type FactoryConfig struct {
	UniqueBossName   string
	BossMarkers      []string
	ScriptedSkill    string
	EnemyMultiplier  float64
	BossMultiplier   float64
	UniqueMultiplier float64
}

// DefaultFactoryConfig returns the stock configuration: enemies and bosses
// play on "hard", the unique boss Sephiroth at 5.0 with "despair" scripted.
func DefaultFactoryConfig() FactoryConfig {
	return FactoryConfig{
		UniqueBossName:   "Sephiroth",
		BossMarkers:      []string{"boss", "보스", "dragon", "드래곤"},
		ScriptedSkill:    "despair",
		EnemyMultiplier:  DifficultyMultiplier("hard"),
		BossMultiplier:   DifficultyMultiplier("hard"),
		UniqueMultiplier: 5.0,
	}
}

// Factory binds actors to decision engines.
type Factory struct {
	cfg    FactoryConfig
	roller *dice.Roller
	sink   EventSink
	logger *zap.Logger
}

// NewFactory constructs a Factory. Every engine it builds shares roller, so a
// Factory belongs to one battle.
//
// Precondition: roller and logger must not be nil. A nil sink drops events.
func NewFactory(cfg FactoryConfig, roller *dice.Roller, sink EventSink, logger *zap.Logger) *Factory {
	if roller == nil {
		panic("ai.NewFactory: roller must not be nil")
	}
	if logger == nil {
		panic("ai.NewFactory: logger must not be nil")
	}
	return &Factory{cfg: cfg, roller: roller, sink: sink, logger: logger}
}

// Classify returns the tier the factory would bind name to.
func (f *Factory) Classify(name string) Tier {
	return Classify(name, f.cfg.UniqueBossName, f.cfg.BossMarkers)
}

// For returns a new engine for a.
//
// Postcondition: the concrete type is *UniqueBossEngine, *BossEngine or
// *BaseEngine according to Classify(a.Name()).
func (f *Factory) For(a Actor) Engine {
	switch f.Classify(a.Name()) {
	case TierUnique:
		return NewUniqueBossEngine(a, f.roller, f.cfg.UniqueMultiplier, f.cfg.ScriptedSkill, f.sink, f.logger)
	case TierBoss:
		return NewBossEngine(a, f.roller, f.cfg.BossMultiplier, f.logger)
	default:
		return NewEngine(a, f.roller, f.cfg.EnemyMultiplier, f.logger)
	}
}
