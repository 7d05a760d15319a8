package canoga

import (
	"slices"
	"sort"
)

// Combination is a set of distinct square indices whose values sum to a
// dice roll. Combinations are kept sorted ascending so two combinations
// with the same members compare equal regardless of discovery order.
type Combination []int

// NewCombination builds a canonical combination from arbitrary input:
// a sorted copy with duplicates removed.
func NewCombination(squares []int) Combination {
	c := Combination(slices.Clone(squares))
	sort.Ints(c)
	return slices.Compact(c)
}

// Sum returns the total value of the combination.
func (c Combination) Sum() int {
	sum := 0
	for _, v := range c {
		sum += v
	}
	return sum
}

// Max returns the highest index in the combination, or 0 when empty.
func (c Combination) Max() int {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1]
}

// Contains reports whether the combination includes square i.
func (c Combination) Contains(i int) bool {
	_, found := slices.BinarySearch(c, i)
	return found
}

// Equal reports whether two combinations have the same members.
func (c Combination) Equal(other Combination) bool {
	return slices.Equal(c, other)
}

// FindCombinations enumerates every distinct set of square indices in
// 1..size that satisfies eligible and sums exactly to target. Results
// are canonical: each combination sorted ascending, the list
// deduplicated and ordered lexicographically, so repeated calls on the
// same board state return identical output.
//
// The search is the classic recursive subset-sum scan: for each
// eligible index equal to the remaining target, emit the singleton; for
// each eligible index below it, solve the remainder and extend every
// sub-combination that does not already use the index. Depth is bounded
// by the board size (at most 11) and the target by two dice (at most
// 12), so no explicit iteration cap is needed.
func FindCombinations(target, size int, eligible func(int) bool) []Combination {
	if target <= 0 || size <= 0 {
		return nil
	}
	found := findRec(target, size, eligible)
	out := make([]Combination, 0, len(found))
	for _, c := range found {
		out = append(out, c)
	}
	sortCombinations(out)
	return out
}

// findRec returns the combinations keyed by their canonical form.
func findRec(target, size int, eligible func(int) bool) map[string]Combination {
	results := make(map[string]Combination)
	for i := 1; i <= size; i++ {
		if !eligible(i) {
			continue
		}
		if i == target {
			insertCombination(results, Combination{i})
		} else if i < target {
			for _, sub := range findRec(target-i, size, eligible) {
				if sub.Contains(i) {
					continue
				}
				ext := make(Combination, 0, len(sub)+1)
				ext = append(ext, sub...)
				ext = append(ext, i)
				sort.Ints(ext)
				insertCombination(results, ext)
			}
		}
	}
	return results
}

func insertCombination(m map[string]Combination, c Combination) {
	m[comboKey(c)] = c
}

// comboKey builds a canonical map key from a sorted combination.
// Indices never exceed 11, so a byte per member is unambiguous.
func comboKey(c Combination) string {
	key := make([]byte, len(c))
	for i, v := range c {
		key[i] = byte(v)
	}
	return string(key)
}

// sortCombinations orders combinations lexicographically by members.
func sortCombinations(cs []Combination) {
	sort.Slice(cs, func(i, j int) bool {
		return slices.Compare(cs[i], cs[j]) < 0
	})
}

// CoverCombinations returns every combination of uncovered squares on b
// summing to the dice total; these are the legal covering moves.
func CoverCombinations(b *Board, sum int) []Combination {
	return FindCombinations(sum, b.Size(), func(i int) bool { return !b.IsCovered(i) })
}

// UncoverCombinations returns every combination of covered squares on b
// summing to the dice total; these are the legal uncovering moves
// against b's owner.
func UncoverCombinations(b *Board, sum int) []Combination {
	return FindCombinations(sum, b.Size(), b.IsCovered)
}

// ValidCombination re-checks that every member of c currently satisfies
// eligible. Used to reject stale selections before applying a move.
func ValidCombination(c Combination, eligible func(int) bool) bool {
	for _, v := range c {
		if !eligible(v) {
			return false
		}
	}
	return true
}
