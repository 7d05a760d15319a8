package bot

import (
	"reflect"
	"testing"

	"github.com/drajakumar/canoga/pkg/canoga"
)

func noAdvantage() canoga.AdvantageContext {
	return canoga.AdvantageContext{}
}

func TestGreedy_NoLegalMove(t *testing.T) {
	own := canoga.MustBoard(9)
	for i := 1; i <= 9; i++ {
		own.Cover(i)
	}
	own.Uncover(1) // only square 1 free; a roll of 7 has no cover
	opp := canoga.MustBoard(9)

	var s GreedyStrategy
	m := s.SelectMove(7, own, opp, noAdvantage())
	if m.Type != canoga.MoveNone {
		t.Errorf("move = %+v, want none", m)
	}
}

func TestGreedy_WinningCoverBeatsWinningUncover(t *testing.T) {
	// Own board: only 3 and 4 uncovered; covering {3,4} with a 7 wins.
	own := canoga.MustBoard(9)
	for i := 1; i <= 9; i++ {
		if i != 3 && i != 4 {
			own.Cover(i)
		}
	}
	// Opponent board: only 7 covered; uncovering {7} with a 7 also wins.
	opp := canoga.MustBoard(9)
	opp.Cover(7)

	var s GreedyStrategy
	m := s.SelectMove(7, own, opp, noAdvantage())
	if m.Type != canoga.MoveCover {
		t.Fatalf("move type = %s, want cover (cover win takes precedence)", m.Type)
	}
	if !m.Combo.Equal(canoga.Combination{3, 4}) {
		t.Errorf("combo = %v, want [3 4]", m.Combo)
	}
}

func TestGreedy_WinningUncover(t *testing.T) {
	own := canoga.MustBoard(9)
	own.Cover(1) // a 7 cannot finish the own board
	opp := canoga.MustBoard(9)
	opp.Cover(3)
	opp.Cover(4)

	var s GreedyStrategy
	m := s.SelectMove(7, own, opp, noAdvantage())
	if m.Type != canoga.MoveUncover {
		t.Fatalf("move type = %s, want uncover", m.Type)
	}
	if !m.Combo.Equal(canoga.Combination{3, 4}) {
		t.Errorf("combo = %v, want [3 4]", m.Combo)
	}
}

func TestGreedy_PrefersCoverOverUncover(t *testing.T) {
	own := canoga.MustBoard(9)
	opp := canoga.MustBoard(9)
	opp.Cover(2)
	opp.Cover(5)
	opp.Cover(8) // uncover options exist but are not winning

	var s GreedyStrategy
	m := s.SelectMove(7, own, opp, noAdvantage())
	if m.Type != canoga.MoveCover {
		t.Errorf("move type = %s, want cover", m.Type)
	}
}

func TestGreedy_ComparatorPicksLargestThenHighest(t *testing.T) {
	// Fresh board, roll 7: candidates are {1,2,4}, {1,6}, {2,5}, {3,4}, {7}.
	own := canoga.MustBoard(9)
	opp := canoga.MustBoard(9)

	var s GreedyStrategy
	m := s.SelectMove(7, own, opp, noAdvantage())
	if !m.Combo.Equal(canoga.Combination{1, 2, 4}) {
		t.Errorf("combo = %v, want the largest combination [1 2 4]", m.Combo)
	}

	// Roll 5 on a fresh board: {1,4}, {2,3}, {5}. Both pairs have two
	// members; {1,4} has the higher maximum.
	m = s.SelectMove(5, own, opp, noAdvantage())
	if !m.Combo.Equal(canoga.Combination{1, 4}) {
		t.Errorf("combo = %v, want [1 4] (size tie broken by max index)", m.Combo)
	}
}

func TestGreedy_ProtectedSquareExcluded(t *testing.T) {
	// Own board full except square 1, so no cover for a 7 exists.
	own := canoga.MustBoard(9)
	for i := 2; i <= 9; i++ {
		own.Cover(i)
	}
	// Every uncover candidate for 7 includes square 5 except {3,4} and {7}.
	opp := canoga.MustBoard(9)
	opp.Cover(2)
	opp.Cover(5)

	adv := canoga.AdvantageContext{OpponentProtected: true, Square: 5}

	var s GreedyStrategy
	m := s.SelectMove(7, own, opp, adv)
	if m.Type != canoga.MoveNone {
		t.Errorf("move = %+v, want none ({2,5} touches the protected square)", m)
	}

	// Without the protection the uncover is chosen.
	m = s.SelectMove(7, own, opp, noAdvantage())
	if m.Type != canoga.MoveUncover || !m.Combo.Equal(canoga.Combination{2, 5}) {
		t.Errorf("move = %+v, want uncover [2 5]", m)
	}
}

func TestExcludeSquare(t *testing.T) {
	combos := []canoga.Combination{{1, 2, 4}, {2, 5}, {3, 4}, {7}}
	got := excludeSquare(combos, 4)
	want := []canoga.Combination{{2, 5}, {7}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("excludeSquare = %v, want %v", got, want)
	}
}
