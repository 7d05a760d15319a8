package bot

import (
	"github.com/drajakumar/canoga/pkg/canoga"
)

// GreedyStrategy is the standard computer opponent. Its decision order
// is a fixed contract, evaluated first match wins:
//
//  1. Gather covering combinations on its own board and uncovering
//     combinations on the opponent's, dropping any uncover that would
//     touch a protected advantage square.
//  2. No candidates at all: pass.
//  3. A cover that covers every remaining own square wins immediately.
//  4. A failing that, an uncover that empties the opponent's covered
//     squares wins immediately.
//  5. Otherwise prefer covering over uncovering.
//  6. Within the chosen pool, take the largest combination; break ties
//     by the higher maximum square, then by canonical order.
type GreedyStrategy struct{}

// SelectMove implements canoga.MoveSource.
func (GreedyStrategy) SelectMove(sum int, own, opp *canoga.Board, adv canoga.AdvantageContext) canoga.Move {
	coverCombos := canoga.CoverCombinations(own, sum)
	uncoverCombos := canoga.UncoverCombinations(opp, sum)
	if adv.OpponentProtected {
		uncoverCombos = excludeSquare(uncoverCombos, adv.Square)
	}

	if len(coverCombos) == 0 && len(uncoverCombos) == 0 {
		return canoga.NoMove
	}

	// Immediate cover win: the combination uses every uncovered square.
	ownRemaining := own.UncoveredCount()
	for _, c := range coverCombos {
		if len(c) == ownRemaining {
			return canoga.CoverMove(c)
		}
	}

	// Immediate uncover win: the combination frees every covered square.
	oppCovered := opp.CoveredCount()
	for _, c := range uncoverCombos {
		if len(c) == oppCovered {
			return canoga.UncoverMove(c)
		}
	}

	if len(coverCombos) > 0 {
		return canoga.CoverMove(bestCombination(coverCombos))
	}
	return canoga.UncoverMove(bestCombination(uncoverCombos))
}

// bestCombination picks by cardinality, then highest square. Candidates
// arrive in canonical order, so keeping the first of equals resolves
// remaining ties deterministically.
func bestCombination(combos []canoga.Combination) canoga.Combination {
	best := combos[0]
	for _, c := range combos[1:] {
		if len(c) > len(best) || (len(c) == len(best) && c.Max() > best.Max()) {
			best = c
		}
	}
	return best
}
