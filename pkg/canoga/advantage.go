package canoga

// AdvantageManager tracks the round-to-round handicap: a square
// pre-covered for one side at the start of a round as compensation for
// the previous round's result, protected from the opponent's uncover
// moves until the opponent completes one full turn.
//
// Lifecycle: ApplyHandicap queues a pending advantage at round end;
// ApplyToNewRound consumes it at the next round's setup, covering the
// square and raising that side's protection flag; ClearProtection
// drops the flag once the opponent has taken a full turn, and the
// manager returns to idle when no side is protected.
type AdvantageManager struct {
	owner           Side
	square          int
	protectHuman    bool
	protectComputer bool
	pendingFor      Side
	pendingSquare   int
}

// AdvantageSquare computes the handicap square from a winning score by
// summing its decimal digits: 23 -> 5, 100 -> 1, 0 -> 0.
func AdvantageSquare(score int) int {
	sum := 0
	for score > 0 {
		sum += score % 10
		score /= 10
	}
	return sum
}

// ApplyHandicap queues an advantage for the next round. When the
// winner started the round first, the winner's opponent receives the
// advantage; otherwise the winner keeps it. Any previously queued
// advantage is overwritten.
func (a *AdvantageManager) ApplyHandicap(winnerWasFirstPlayer bool, winner Side, winningScore int) {
	target := winner
	if winnerWasFirstPlayer {
		target = winner.Opponent()
	}
	a.pendingFor = target
	a.pendingSquare = AdvantageSquare(winningScore)
}

// ApplyToNewRound consumes any pending advantage: it pre-covers the
// advantage square on the receiving side's fresh board and protects it
// for one opponent turn. Protection flags and ownership are always
// reset first, so at most one side is ever protected. With nothing
// pending this is a pure reset.
func (a *AdvantageManager) ApplyToNewRound(humanBoard, computerBoard *Board) {
	a.owner = NoSide
	a.square = 0
	a.protectHuman = false
	a.protectComputer = false

	// A digit sum beyond the board (e.g. a score of 39 -> 12) has no
	// square to cover, so the advantage lapses.
	if !a.pendingFor.Valid() || a.pendingSquare <= 0 || a.pendingSquare > humanBoard.Size() {
		a.pendingFor = NoSide
		a.pendingSquare = 0
		return
	}

	switch a.pendingFor {
	case Human:
		humanBoard.Cover(a.pendingSquare)
		a.protectHuman = true
	case Computer:
		computerBoard.Cover(a.pendingSquare)
		a.protectComputer = true
	}
	a.owner = a.pendingFor
	a.square = a.pendingSquare
	a.pendingFor = NoSide
	a.pendingSquare = 0
}

// ClearProtection drops the protection flag for the given side. Once
// neither side is protected the manager resets to idle.
func (a *AdvantageManager) ClearProtection(side Side) {
	switch side {
	case Human:
		a.protectHuman = false
	case Computer:
		a.protectComputer = false
	}
	if !a.protectHuman && !a.protectComputer {
		a.owner = NoSide
	}
}

// IsApplied reports whether an advantage is active for the current round.
func (a *AdvantageManager) IsApplied() bool {
	return a.owner.Valid()
}

// Owner returns the side holding the advantage, or NoSide.
func (a *AdvantageManager) Owner() Side {
	return a.owner
}

// Square returns the current advantage square, 0 when none.
func (a *AdvantageManager) Square() int {
	return a.square
}

// IsProtected reports whether the given side's advantage square is
// still protected from uncover moves.
func (a *AdvantageManager) IsProtected(side Side) bool {
	switch side {
	case Human:
		return a.protectHuman
	case Computer:
		return a.protectComputer
	}
	return false
}

// Pending returns the queued advantage for the next round, if any.
func (a *AdvantageManager) Pending() (Side, int) {
	return a.pendingFor, a.pendingSquare
}

// Context snapshots the advantage facts a move source needs: whether
// the mover's opponent holds a protected square and which square it is.
func (a *AdvantageManager) Context(mover Side) AdvantageContext {
	opp := mover.Opponent()
	return AdvantageContext{
		OpponentProtected: a.IsApplied() && a.IsProtected(opp),
		Square:            a.square,
	}
}

// AdvantageContext is passed to move sources so uncover candidates can
// exclude a protected advantage square.
type AdvantageContext struct {
	OpponentProtected bool
	Square            int
}
