package canoga

import "testing"

// moveSourceFunc adapts a function to MoveSource for tests.
type moveSourceFunc func(sum int, own, opp *Board, adv AdvantageContext) Move

func (f moveSourceFunc) SelectMove(sum int, own, opp *Board, adv AdvantageContext) Move {
	return f(sum, own, opp, adv)
}

// passSource always passes.
var passSource = moveSourceFunc(func(int, *Board, *Board, AdvantageContext) Move {
	return NoMove
})

func newStartedRound(t *testing.T, first Side) *Round {
	t.Helper()
	var adv AdvantageManager
	r, err := NewRound(9, &adv)
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	if err := r.Start(first); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return r
}

func TestRound_StartWithRoll(t *testing.T) {
	var adv AdvantageManager
	r, err := NewRound(9, &adv)
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}

	// First pair ties (3+4 vs 5+2), second pair decides for the computer.
	hr, cr, err := r.StartWithRoll(FixedRolls(3, 4, 5, 2, 1, 1, 6, 6))
	if err != nil {
		t.Fatalf("StartWithRoll: %v", err)
	}
	if hr != 2 || cr != 12 {
		t.Errorf("rolls = (%d, %d), want (2, 12)", hr, cr)
	}
	if r.FirstPlayer() != Computer || r.Turn() != Computer {
		t.Errorf("computer should move first, got first=%s turn=%s", r.FirstPlayer(), r.Turn())
	}
}

func TestRound_TurnOrder(t *testing.T) {
	r := newStartedRound(t, Human)

	if err := r.ApplyMove(Computer, CoverMove(Combination{5})); err != ErrNotYourTurn {
		t.Errorf("out-of-turn move: got %v, want ErrNotYourTurn", err)
	}

	if err := r.ApplyMove(Human, CoverMove(Combination{5})); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if err := r.EndTurn(Human); err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if r.Turn() != Computer {
		t.Errorf("Turn() = %s, want computer", r.Turn())
	}
}

func TestRound_InvalidMoveRejected(t *testing.T) {
	r := newStartedRound(t, Human)
	r.BoardOf(Human).Cover(3)

	err := r.ApplyMove(Human, CoverMove(Combination{3, 4}))
	if err != ErrInvalidMove {
		t.Fatalf("stale move: got %v, want ErrInvalidMove", err)
	}
	if r.BoardOf(Human).IsCovered(4) {
		t.Error("rejected move must not partially apply")
	}
}

func TestRound_WinDetection_Cover(t *testing.T) {
	r := newStartedRound(t, Human)
	hb := r.BoardOf(Human)
	for i := 1; i <= 7; i++ {
		hb.Cover(i)
	}
	// Give the computer some coverage so the score is interesting.
	r.BoardOf(Computer).Cover(1)
	r.BoardOf(Computer).Cover(2)

	if err := r.ApplyMove(Human, CoverMove(Combination{8, 9})); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}

	if r.Phase() != PhaseOver {
		t.Fatal("round should be over after a winning cover")
	}
	o, ok := r.Outcome()
	if !ok {
		t.Fatal("Outcome should be available")
	}
	if o.Winner != Human || o.WinType != WinByCover {
		t.Errorf("outcome = %+v, want human cover win", o)
	}
	// Cover win scores the opponent's uncovered sum: 3..9 sum to 42.
	if o.Score != 42 {
		t.Errorf("score = %d, want 42", o.Score)
	}
	if !o.WinnerWasFirst {
		t.Error("human started first and won")
	}
}

func TestRound_WinDetection_Uncover(t *testing.T) {
	r := newStartedRound(t, Computer)
	hb := r.BoardOf(Human)
	hb.Cover(4)
	cb := r.BoardOf(Computer)
	cb.Cover(1)
	cb.Cover(3)

	// Computer uncovers the human's only covered square.
	if err := r.ApplyMove(Computer, UncoverMove(Combination{4})); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}

	o, ok := r.Outcome()
	if !ok {
		t.Fatal("round should be over")
	}
	if o.Winner != Computer || o.WinType != WinByUncover {
		t.Errorf("outcome = %+v, want computer uncover win", o)
	}
	// Uncover win scores the winner's own covered sum: 1+3.
	if o.Score != 4 {
		t.Errorf("score = %d, want 4", o.Score)
	}
}

func TestRound_OutcomeQueuesHandicap(t *testing.T) {
	var adv AdvantageManager
	r, err := NewRound(9, &adv)
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	if err := r.Start(Human); err != nil {
		t.Fatalf("Start: %v", err)
	}

	hb := r.BoardOf(Human)
	for i := 1; i <= 8; i++ {
		hb.Cover(i)
	}
	if err := r.ApplyMove(Human, CoverMove(Combination{9})); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}

	o, _ := r.Outcome()
	// Winner was first, so the opponent receives the pending advantage.
	side, square := adv.Pending()
	if side != Computer {
		t.Errorf("pending side = %s, want computer", side)
	}
	if square != AdvantageSquare(o.Score) {
		t.Errorf("pending square = %d, want %d", square, AdvantageSquare(o.Score))
	}
}

func TestRound_ProtectionClearsAfterOpponentTurn(t *testing.T) {
	var adv AdvantageManager
	adv.ApplyHandicap(false, Human, 23) // human holds square 5 next round

	r, err := NewRound(9, &adv)
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	if !r.BoardOf(Human).IsCovered(5) {
		t.Fatal("advantage square should be pre-covered")
	}
	if err := r.Start(Human); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The human's own turn does not clear the human's protection.
	if err := r.EndTurn(Human); err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if !adv.IsProtected(Human) {
		t.Error("protection should survive the owner's own turn")
	}

	// The opponent's completed turn clears it.
	if err := r.EndTurn(Computer); err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if adv.IsProtected(Human) {
		t.Error("protection should expire after the opponent's turn")
	}
	if adv.IsApplied() {
		t.Error("manager should return to idle")
	}
}

func TestRound_PlayTurn(t *testing.T) {
	r := newStartedRound(t, Computer)

	// A source that covers the rolled sum as a singleton when possible.
	src := moveSourceFunc(func(sum int, own, opp *Board, adv AdvantageContext) Move {
		if sum <= own.Size() && !own.IsCovered(sum) {
			return CoverMove(Combination{sum})
		}
		return NoMove
	})

	// Rolls 3+4=7 then 3+4=7 again; the second 7 is covered, so pass.
	moves, err := r.PlayTurn(Computer, src, FixedRolls(3, 4))
	if err != nil {
		t.Fatalf("PlayTurn: %v", err)
	}
	if len(moves) != 1 {
		t.Fatalf("moves = %v, want one cover", moves)
	}
	if !r.BoardOf(Computer).IsCovered(7) {
		t.Error("computer should have covered square 7")
	}
	if r.Turn() != Human {
		t.Errorf("Turn() = %s, want human after turn handoff", r.Turn())
	}
}

func TestRound_PlayTurn_PassEndsTurn(t *testing.T) {
	r := newStartedRound(t, Human)
	moves, err := r.PlayTurn(Human, passSource, FixedRolls(1, 1))
	if err != nil {
		t.Fatalf("PlayTurn: %v", err)
	}
	if len(moves) != 0 {
		t.Errorf("pass turn applied moves: %v", moves)
	}
	if r.Turn() != Computer {
		t.Errorf("Turn() = %s, want computer", r.Turn())
	}
}

func TestRound_Resume(t *testing.T) {
	hb := MustBoard(9)
	hb.Cover(1)
	cb := MustBoard(9)
	var adv AdvantageManager

	r, err := ResumeRound(hb, cb, &adv, Computer, Human)
	if err != nil {
		t.Fatalf("ResumeRound: %v", err)
	}
	if r.Phase() != PhaseInProgress {
		t.Error("resumed round should be in progress")
	}
	if r.FirstPlayer() != Computer || r.Turn() != Human {
		t.Errorf("first=%s turn=%s, want computer/human", r.FirstPlayer(), r.Turn())
	}

	if _, err := ResumeRound(MustBoard(9), MustBoard(10), &adv, Human, Human); err == nil {
		t.Error("mismatched sizes should be rejected")
	}
	if _, err := ResumeRound(MustBoard(9), MustBoard(9), &adv, NoSide, Human); err == nil {
		t.Error("invalid turn label should be rejected")
	}
}
