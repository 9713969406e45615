package simulation

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/dreamfall/internal/game/combat"
)

// Summary aggregates a batch of battle results.
type Summary struct {
	Battles     int
	PartyWins   int
	EnemyWins   int
	Draws       int
	TotalRounds int
	SkillUses   map[string]int
	// Results is ordered by battle index.
	Results []*Result
}

// AverageRounds returns the mean battle length, or 0 for an empty batch.
func (s *Summary) AverageRounds() float64 {
	if s.Battles == 0 {
		return 0
	}
	return float64(s.TotalRounds) / float64(s.Battles)
}

// WinRate returns the fraction of battles won by side.
func (s *Summary) WinRate(side combat.Side) float64 {
	if s.Battles == 0 {
		return 0
	}
	wins := s.EnemyWins
	if side == combat.SideParty {
		wins = s.PartyWins
	}
	return float64(wins) / float64(s.Battles)
}

// SkillsByUse returns skill IDs ordered by descending use count, ties by ID.
func (s *Summary) SkillsByUse() []string {
	ids := make([]string, 0, len(s.SkillUses))
	for id := range s.SkillUses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if s.SkillUses[ids[i]] != s.SkillUses[ids[j]] {
			return s.SkillUses[ids[i]] > s.SkillUses[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Summarize folds results into a Summary. Nil entries are skipped.
func Summarize(results []*Result) *Summary {
	s := &Summary{SkillUses: make(map[string]int)}
	for _, res := range results {
		if res == nil {
			continue
		}
		s.Battles++
		s.TotalRounds += res.Rounds
		switch {
		case !res.Decided:
			s.Draws++
		case res.Winner == combat.SideParty:
			s.PartyWins++
		default:
			s.EnemyWins++
		}
		for id, n := range res.SkillUses {
			s.SkillUses[id] += n
		}
		s.Results = append(s.Results, res)
	}
	return s
}

// RunBatch fights n battles with at most workers running at once. Battle i is
// seeded with baseSeed+i, so a batch is reproducible regardless of scheduling.
//
// Precondition: n >= 1; workers >= 1.
// Postcondition: the first battle error cancels the rest and is returned.
func (r *Runner) RunBatch(ctx context.Context, n, workers int, baseSeed uint64, setup Setup) (*Summary, error) {
	if n < 1 {
		return nil, fmt.Errorf("simulation.RunBatch: n must be >= 1, got %d", n)
	}
	if workers < 1 {
		return nil, fmt.Errorf("simulation.RunBatch: workers must be >= 1, got %d", workers)
	}
	if err := setup.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range n {
		g.Go(func() error {
			res, err := r.RunBattle(gctx, i, baseSeed+uint64(i), setup)
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(results)
	r.logger.Info("batch finished",
		zap.Int("battles", summary.Battles),
		zap.Int("party_wins", summary.PartyWins),
		zap.Int("enemy_wins", summary.EnemyWins),
		zap.Int("draws", summary.Draws),
		zap.Float64("avg_rounds", summary.AverageRounds()),
	)
	return summary, nil
}
