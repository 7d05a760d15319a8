// Package bot provides computer move selection for Canoga games. All
// strategies implement canoga.MoveSource, the same capability an
// interactive human adapter presents, so the round controller never
// cares which one it is driving.
package bot

import (
	"math/rand"

	"github.com/drajakumar/canoga/pkg/canoga"
)

// StrategyForDifficulty returns the move source for a bot difficulty
// level. Unknown difficulties fall back to the greedy engine. A random
// strategy gets its own clock-seeded source.
func StrategyForDifficulty(difficulty string) canoga.MoveSource {
	return strategyWithRng(difficulty, nil)
}

// strategyWithRng is StrategyForDifficulty with an injected random
// source, for deterministic arena runs. A nil rng means clock-seeded.
func strategyWithRng(difficulty string, rng *rand.Rand) canoga.MoveSource {
	switch difficulty {
	case "random":
		if rng == nil {
			rng = newRng(0)
		}
		return &RandomStrategy{rng: rng}
	default:
		return &GreedyStrategy{}
	}
}

// RandomStrategy picks a uniformly random legal combination, covering
// or uncovering with equal probability when both are possible. Used as
// an arena baseline and in tests. Each instance owns its random
// source; a single instance must not be shared across goroutines.
type RandomStrategy struct {
	rng *rand.Rand
}

// NewRandomStrategy returns a RandomStrategy over a seeded source.
// Seed 0 means clock-seeded.
func NewRandomStrategy(seed int64) *RandomStrategy {
	return &RandomStrategy{rng: newRng(seed)}
}

// SelectMove implements canoga.MoveSource.
func (s *RandomStrategy) SelectMove(sum int, own, opp *canoga.Board, adv canoga.AdvantageContext) canoga.Move {
	coverCombos := canoga.CoverCombinations(own, sum)
	uncoverCombos := canoga.UncoverCombinations(opp, sum)
	if adv.OpponentProtected {
		uncoverCombos = excludeSquare(uncoverCombos, adv.Square)
	}

	switch {
	case len(coverCombos) == 0 && len(uncoverCombos) == 0:
		return canoga.NoMove
	case len(uncoverCombos) == 0:
		return canoga.CoverMove(coverCombos[s.rng.Intn(len(coverCombos))])
	case len(coverCombos) == 0:
		return canoga.UncoverMove(uncoverCombos[s.rng.Intn(len(uncoverCombos))])
	case s.rng.Float64() < 0.5:
		return canoga.CoverMove(coverCombos[s.rng.Intn(len(coverCombos))])
	default:
		return canoga.UncoverMove(uncoverCombos[s.rng.Intn(len(uncoverCombos))])
	}
}

// excludeSquare drops every combination containing the given square.
func excludeSquare(combos []canoga.Combination, square int) []canoga.Combination {
	out := combos[:0:0]
	for _, c := range combos {
		if !c.Contains(square) {
			out = append(out, c)
		}
	}
	return out
}
