// Package canoga implements the rules engine for Canoga, a two-player
// covering/uncovering dice game played on a row of numbered squares.
// The package is pure: no I/O, no goroutines, no hidden globals. All
// mutation happens through explicit operations that report success.
package canoga

import "fmt"

// Supported board sizes. Anything else is rejected at construction.
const (
	MinBoardSize = 9
	MaxBoardSize = 11
)

// OneDieRuleStart is the first "high" square; once every square from
// here up to the board size is covered, a player may roll a single die.
const OneDieRuleStart = 7

// Board is a fixed row of numbered squares, each covered or uncovered.
// Squares are addressed 1..Size(). The zero value is not usable; create
// boards with NewBoard.
type Board struct {
	covered []bool
}

// NewBoard creates a board of the given size with every square
// uncovered. Sizes outside {9, 10, 11} are rejected.
func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("canoga: board size must be 9, 10, or 11, got %d", size)
	}
	return &Board{covered: make([]bool, size)}, nil
}

// MustBoard creates a board of the given size or panics. Intended for
// tests and callers that have already validated the size.
func MustBoard(size int) *Board {
	b, err := NewBoard(size)
	if err != nil {
		panic(err)
	}
	return b
}

// Size returns the number of squares on the board.
func (b *Board) Size() int {
	return len(b.covered)
}

// Cover marks square i covered. It returns false, leaving the board
// unchanged, when i is out of range or the square is already covered.
func (b *Board) Cover(i int) bool {
	if i < 1 || i > len(b.covered) || b.covered[i-1] {
		return false
	}
	b.covered[i-1] = true
	return true
}

// Uncover marks square i uncovered. It returns false, leaving the board
// unchanged, when i is out of range or the square is already uncovered.
func (b *Board) Uncover(i int) bool {
	if i < 1 || i > len(b.covered) || !b.covered[i-1] {
		return false
	}
	b.covered[i-1] = false
	return true
}

// IsCovered reports whether square i is covered. Out-of-range indices
// report false.
func (b *Board) IsCovered(i int) bool {
	if i < 1 || i > len(b.covered) {
		return false
	}
	return b.covered[i-1]
}

// AllCovered reports whether every square is covered.
func (b *Board) AllCovered() bool {
	for _, c := range b.covered {
		if !c {
			return false
		}
	}
	return true
}

// AllUncovered reports whether every square is uncovered.
func (b *Board) AllUncovered() bool {
	for _, c := range b.covered {
		if c {
			return false
		}
	}
	return true
}

// CoveredSum returns the sum of the indices of all covered squares.
func (b *Board) CoveredSum() int {
	sum := 0
	for i, c := range b.covered {
		if c {
			sum += i + 1
		}
	}
	return sum
}

// UncoveredSum returns the sum of the indices of all uncovered squares.
func (b *Board) UncoveredSum() int {
	sum := 0
	for i, c := range b.covered {
		if !c {
			sum += i + 1
		}
	}
	return sum
}

// CoveredCount returns the number of covered squares.
func (b *Board) CoveredCount() int {
	n := 0
	for _, c := range b.covered {
		if c {
			n++
		}
	}
	return n
}

// UncoveredCount returns the number of uncovered squares.
func (b *Board) UncoveredCount() int {
	return len(b.covered) - b.CoveredCount()
}

// HighestUncovered returns the highest uncovered square index, or 0
// when every square is covered.
func (b *Board) HighestUncovered() int {
	for i := len(b.covered); i >= 1; i-- {
		if !b.covered[i-1] {
			return i
		}
	}
	return 0
}

// OneDieEligible reports whether the one-die rule applies: every square
// from OneDieRuleStart up to the board size is covered. Vacuously true
// for boards smaller than OneDieRuleStart.
func (b *Board) OneDieEligible() bool {
	for i := OneDieRuleStart; i <= len(b.covered); i++ {
		if !b.covered[i-1] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the board. Needed by strategies
// that simulate moves on speculative boards.
func (b *Board) Clone() *Board {
	c := &Board{covered: make([]bool, len(b.covered))}
	copy(c.covered, b.covered)
	return c
}
