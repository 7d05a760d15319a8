package canoga

import (
	"reflect"
	"testing"
)

func TestFindCombinations_Properties(t *testing.T) {
	b := MustBoard(9)
	eligible := func(i int) bool { return !b.IsCovered(i) }

	for sum := 2; sum <= 12; sum++ {
		combos := FindCombinations(sum, b.Size(), eligible)
		seen := make(map[string]bool)
		for _, c := range combos {
			if c.Sum() != sum {
				t.Errorf("sum %d: combination %v sums to %d", sum, c, c.Sum())
			}
			for i := 1; i < len(c); i++ {
				if c[i] <= c[i-1] {
					t.Errorf("sum %d: combination %v not strictly ascending", sum, c)
				}
			}
			for _, v := range c {
				if !eligible(v) {
					t.Errorf("sum %d: combination %v contains ineligible %d", sum, c, v)
				}
			}
			key := comboKey(c)
			if seen[key] {
				t.Errorf("sum %d: duplicate combination %v", sum, c)
			}
			seen[key] = true
		}
	}
}

func TestFindCombinations_Deterministic(t *testing.T) {
	b := MustBoard(11)
	b.Cover(2)
	b.Cover(7)
	eligible := func(i int) bool { return !b.IsCovered(i) }

	first := FindCombinations(10, b.Size(), eligible)
	second := FindCombinations(10, b.Size(), eligible)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated calls should return identical results")
	}
}

func TestFindCombinations_KnownSets(t *testing.T) {
	b := MustBoard(9)

	// All squares uncovered, target 7.
	got := CoverCombinations(b, 7)
	want := []Combination{
		{1, 2, 4},
		{1, 6},
		{2, 5},
		{3, 4},
		{7},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CoverCombinations(7) = %v, want %v", got, want)
	}

	// No eligible squares means no combinations.
	if combos := UncoverCombinations(b, 7); len(combos) != 0 {
		t.Errorf("UncoverCombinations on an empty board = %v, want none", combos)
	}

	b.Cover(3)
	b.Cover(4)
	gotUncover := UncoverCombinations(b, 7)
	wantUncover := []Combination{{3, 4}}
	if !reflect.DeepEqual(gotUncover, wantUncover) {
		t.Errorf("UncoverCombinations(7) = %v, want %v", gotUncover, wantUncover)
	}
}

func TestFindCombinations_NoRepeatedIndices(t *testing.T) {
	b := MustBoard(9)
	// 2 = 1+1 would need square 1 twice; only {2} is legal.
	got := CoverCombinations(b, 2)
	want := []Combination{{2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CoverCombinations(2) = %v, want %v", got, want)
	}
}

func TestFindCombinations_EdgeTargets(t *testing.T) {
	b := MustBoard(9)
	if combos := CoverCombinations(b, 0); combos != nil {
		t.Errorf("target 0 should yield nil, got %v", combos)
	}
	if combos := FindCombinations(-3, b.Size(), func(int) bool { return true }); combos != nil {
		t.Errorf("negative target should yield nil, got %v", combos)
	}
}

func TestValidCombination(t *testing.T) {
	b := MustBoard(9)
	uncovered := func(i int) bool { return !b.IsCovered(i) }

	c := Combination{3, 4}
	if !ValidCombination(c, uncovered) {
		t.Error("combination of uncovered squares should be valid for covering")
	}

	b.Cover(3)
	if ValidCombination(c, uncovered) {
		t.Error("combination should turn invalid once a member is covered")
	}
	if !ValidCombination(c[1:], uncovered) {
		t.Error("remaining members are still uncovered")
	}
}

func TestCombination_Helpers(t *testing.T) {
	c := Combination{2, 5, 9}
	if c.Sum() != 16 {
		t.Errorf("Sum() = %d, want 16", c.Sum())
	}
	if c.Max() != 9 {
		t.Errorf("Max() = %d, want 9", c.Max())
	}
	if !c.Contains(5) || c.Contains(4) {
		t.Error("Contains() misreported membership")
	}
	if got := (Combination{}).Max(); got != 0 {
		t.Errorf("empty Max() = %d, want 0", got)
	}
}
