package canoga

import "testing"

func TestMove_Apply_AllOrNothing(t *testing.T) {
	own := MustBoard(9)
	opp := MustBoard(9)

	m := CoverMove(Combination{3, 4})
	if !m.Apply(own, opp) {
		t.Fatal("cover of uncovered squares should apply")
	}
	if !own.IsCovered(3) || !own.IsCovered(4) {
		t.Error("cover move should cover its squares")
	}

	// Stale cover: square 3 is already covered now.
	stale := CoverMove(Combination{3, 5})
	if stale.Apply(own, opp) {
		t.Error("stale cover should be rejected")
	}
	if own.IsCovered(5) {
		t.Error("rejected move must not partially apply")
	}

	// Uncover applies against the opponent board.
	opp.Cover(2)
	opp.Cover(6)
	u := UncoverMove(Combination{2, 6})
	if !u.Apply(own, opp) {
		t.Fatal("uncover of covered opponent squares should apply")
	}
	if opp.IsCovered(2) || opp.IsCovered(6) {
		t.Error("uncover move should uncover opponent squares")
	}

	if u.Apply(own, opp) {
		t.Error("replaying an uncover should fail")
	}

	if !NoMove.Apply(own, opp) {
		t.Error("the pass move applies trivially")
	}
}

func TestMove_Wins(t *testing.T) {
	own := MustBoard(9)
	for i := 1; i <= 7; i++ {
		own.Cover(i)
	}
	opp := MustBoard(9)
	opp.Cover(9)

	win := CoverMove(Combination{8, 9})
	if !win.Wins(own, opp) {
		t.Error("covering the last two squares should win")
	}
	if own.IsCovered(8) {
		t.Error("Wins must not mutate the real board")
	}

	lose := CoverMove(Combination{8})
	if lose.Wins(own, opp) {
		t.Error("leaving square 9 uncovered is not a win")
	}

	uwin := UncoverMove(Combination{9})
	if !uwin.Wins(own, opp) {
		t.Error("uncovering the opponent's only covered square should win")
	}
	if !opp.IsCovered(9) {
		t.Error("Wins must not mutate the opponent board")
	}

	if NoMove.Wins(own, opp) {
		t.Error("the pass move never wins")
	}
}
