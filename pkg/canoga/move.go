package canoga

// MoveType distinguishes the three possible outcomes of a turn roll.
type MoveType string

const (
	// MoveNone signals no legal move for the roll; the turn passes.
	// This is a normal outcome, not an error.
	MoveNone MoveType = "none"
	// MoveCover covers squares on the mover's own board.
	MoveCover MoveType = "cover"
	// MoveUncover uncovers squares on the opponent's board.
	MoveUncover MoveType = "uncover"
)

// Move is a tagged variant: no move, cover a combination on one's own
// board, or uncover a combination on the opponent's board.
type Move struct {
	Type  MoveType    `json:"type"`
	Combo Combination `json:"combo,omitempty"`
}

// NoMove is the pass move.
var NoMove = Move{Type: MoveNone}

// CoverMove builds a covering move for the given combination.
func CoverMove(c Combination) Move {
	return Move{Type: MoveCover, Combo: c}
}

// UncoverMove builds an uncovering move for the given combination.
func UncoverMove(c Combination) Move {
	return Move{Type: MoveUncover, Combo: c}
}

// Apply applies the move to the correct board: covers on own, uncovers
// on opp. The application is all-or-nothing: the combination is
// re-validated against the current board state first, so a stale move
// returns false with neither board touched. MoveNone applies trivially.
func (m Move) Apply(own, opp *Board) bool {
	switch m.Type {
	case MoveNone:
		return true
	case MoveCover:
		if !ValidCombination(m.Combo, func(i int) bool { return i >= 1 && i <= own.Size() && !own.IsCovered(i) }) {
			return false
		}
		for _, v := range m.Combo {
			own.Cover(v)
		}
		return true
	case MoveUncover:
		if !ValidCombination(m.Combo, opp.IsCovered) {
			return false
		}
		for _, v := range m.Combo {
			opp.Uncover(v)
		}
		return true
	}
	return false
}

// Wins reports whether applying the move to clones of the boards would
// end the round immediately: a cover that covers everything on own, or
// an uncover that empties opp. The real boards are not modified.
func (m Move) Wins(own, opp *Board) bool {
	switch m.Type {
	case MoveCover:
		sim := own.Clone()
		for _, v := range m.Combo {
			sim.Cover(v)
		}
		return sim.AllCovered()
	case MoveUncover:
		sim := opp.Clone()
		for _, v := range m.Combo {
			sim.Uncover(v)
		}
		return sim.AllUncovered()
	}
	return false
}
