package canoga

import "errors"

// MoveSource supplies a move for a dice sum. The engine's strategy and
// any interactive adapter both implement this; the round depends only
// on the capability, not on who backs it.
type MoveSource interface {
	SelectMove(sum int, own, opp *Board, adv AdvantageContext) Move
}

// WinType records how a round was won.
type WinType string

const (
	// WinByCover: the winner covered every square on their own board.
	// The awarded score is the opponent's uncovered sum.
	WinByCover WinType = "cover"
	// WinByUncover: the winner uncovered every square on the
	// opponent's board. The awarded score is the winner's covered sum.
	WinByUncover WinType = "uncover"
)

// Outcome describes a finished round.
type Outcome struct {
	Winner         Side    `json:"winner"`
	WinType        WinType `json:"win_type"`
	Score          int     `json:"score"`
	WinnerWasFirst bool    `json:"winner_was_first"`
}

// RoundPhase is the round's position in its linear lifecycle.
type RoundPhase string

const (
	PhaseSetup      RoundPhase = "setup"
	PhaseInProgress RoundPhase = "in_progress"
	PhaseOver       RoundPhase = "over"
)

var (
	ErrRoundNotStarted = errors.New("canoga: round has not started")
	ErrRoundOver       = errors.New("canoga: round is over")
	ErrNotYourTurn     = errors.New("canoga: not this side's turn")
	ErrInvalidMove     = errors.New("canoga: move is not applicable to the current boards")
)

// Round orchestrates one round of play: turn order, move application,
// advantage protection expiry, and win detection. It is strictly
// turn-serialized; no operation is safe for concurrent use.
type Round struct {
	humanBoard    *Board
	computerBoard *Board
	advantage     *AdvantageManager
	phase         RoundPhase
	turn          Side
	firstPlayer   Side
	outcome       *Outcome
}

// NewRound creates a round in the setup phase over fresh boards of the
// given size, consuming any pending advantage from adv. The advantage
// manager is shared with the caller so its state spans rounds.
func NewRound(size int, adv *AdvantageManager) (*Round, error) {
	hb, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	cb, _ := NewBoard(size)
	adv.ApplyToNewRound(hb, cb)
	return &Round{
		humanBoard:    hb,
		computerBoard: cb,
		advantage:     adv,
		phase:         PhaseSetup,
	}, nil
}

// ResumeRound rebuilds a round mid-flight from persisted boards and
// turn labels. No advantage is applied; a loaded round carries none.
func ResumeRound(humanBoard, computerBoard *Board, adv *AdvantageManager, first, next Side) (*Round, error) {
	if humanBoard.Size() != computerBoard.Size() {
		return nil, errors.New("canoga: board sizes differ")
	}
	if !first.Valid() || !next.Valid() {
		return nil, errors.New("canoga: invalid turn labels")
	}
	return &Round{
		humanBoard:    humanBoard,
		computerBoard: computerBoard,
		advantage:     adv,
		phase:         PhaseInProgress,
		turn:          next,
		firstPlayer:   first,
	}, nil
}

// Start fixes the first mover explicitly and enters play.
func (r *Round) Start(first Side) error {
	if r.phase != PhaseSetup {
		return errors.New("canoga: round already started")
	}
	if !first.Valid() {
		return errors.New("canoga: invalid first player")
	}
	r.firstPlayer = first
	r.turn = first
	r.phase = PhaseInProgress
	return nil
}

// StartWithRoll decides the first mover by paired dice rolls, rerolling
// ties, then enters play. It returns each side's final roll.
func (r *Round) StartWithRoll(roller Roller) (humanRoll, computerRoll int, err error) {
	for {
		humanRoll = RollTwo(roller)
		computerRoll = RollTwo(roller)
		if humanRoll != computerRoll {
			break
		}
	}
	first := Human
	if computerRoll > humanRoll {
		first = Computer
	}
	return humanRoll, computerRoll, r.Start(first)
}

// Phase returns the round's lifecycle phase.
func (r *Round) Phase() RoundPhase { return r.phase }

// Turn returns whose turn it is; NoSide before start or after the end.
func (r *Round) Turn() Side {
	if r.phase != PhaseInProgress {
		return NoSide
	}
	return r.turn
}

// FirstPlayer returns the side that moved first this round.
func (r *Round) FirstPlayer() Side { return r.firstPlayer }

// BoardOf returns the given side's board.
func (r *Round) BoardOf(side Side) *Board {
	if side == Computer {
		return r.computerBoard
	}
	return r.humanBoard
}

// Advantage exposes the shared advantage manager for rendering.
func (r *Round) Advantage() *AdvantageManager { return r.advantage }

// AdvantageContext returns the protection facts for the given mover.
func (r *Round) AdvantageContext(mover Side) AdvantageContext {
	return r.advantage.Context(mover)
}

// IsOver reports whether any terminal board condition holds.
func (r *Round) IsOver() bool {
	return r.humanBoard.AllCovered() || r.computerBoard.AllCovered() ||
		r.humanBoard.AllUncovered() || r.computerBoard.AllUncovered()
}

// ApplyMove applies a move on behalf of mover. The move must belong to
// the side whose turn it is; a stale or malformed combination is
// rejected with no partial effect. Terminal conditions are checked
// after every applied move, so a winning move ends the round at once.
func (r *Round) ApplyMove(mover Side, m Move) error {
	if r.phase == PhaseSetup {
		return ErrRoundNotStarted
	}
	if r.phase == PhaseOver {
		return ErrRoundOver
	}
	if mover != r.turn {
		return ErrNotYourTurn
	}
	own := r.BoardOf(mover)
	opp := r.BoardOf(mover.Opponent())
	if !m.Apply(own, opp) {
		return ErrInvalidMove
	}
	if r.IsOver() {
		r.finish()
	}
	return nil
}

// EndTurn hands the turn to the other side after mover has exhausted
// their rolls. If an advantage is applied and mover is the protected
// side's opponent, that side's protection expires now.
func (r *Round) EndTurn(mover Side) error {
	if r.phase != PhaseInProgress {
		return ErrRoundOver
	}
	if mover != r.turn {
		return ErrNotYourTurn
	}
	if r.advantage.IsApplied() && r.advantage.Owner() == mover.Opponent() {
		r.advantage.ClearProtection(mover.Opponent())
	}
	r.turn = mover.Opponent()
	return nil
}

// Outcome returns the round result once the round is over.
func (r *Round) Outcome() (Outcome, bool) {
	if r.outcome == nil {
		return Outcome{}, false
	}
	return *r.outcome, true
}

// finish resolves the winner in fixed priority order. Cover wins beat
// uncover wins; in well-formed play at most one condition holds.
func (r *Round) finish() {
	var winner Side
	var winType WinType
	var score int

	switch {
	case r.humanBoard.AllCovered():
		winner, winType = Human, WinByCover
		score = r.computerBoard.UncoveredSum()
	case r.computerBoard.AllCovered():
		winner, winType = Computer, WinByCover
		score = r.humanBoard.UncoveredSum()
	case r.computerBoard.AllUncovered():
		winner, winType = Human, WinByUncover
		score = r.humanBoard.CoveredSum()
	case r.humanBoard.AllUncovered():
		winner, winType = Computer, WinByUncover
		score = r.computerBoard.CoveredSum()
	default:
		return
	}

	wasFirst := r.firstPlayer == winner
	r.outcome = &Outcome{
		Winner:         winner,
		WinType:        winType,
		Score:          score,
		WinnerWasFirst: wasFirst,
	}
	r.advantage.ApplyHandicap(wasFirst, winner, score)
	r.phase = PhaseOver
	r.turn = NoSide
}

// PlayTurn drives one full turn for mover using the given move source
// and roller: roll, select, apply, repeat until the source passes or
// the round ends. The AI roll heuristic rolls a single die when the
// one-die rule applies and either the highest uncovered square is
// reachable with one die or few squares remain. It returns the moves
// applied this turn.
func (r *Round) PlayTurn(mover Side, src MoveSource, roller Roller) ([]Move, error) {
	if r.phase == PhaseSetup {
		return nil, ErrRoundNotStarted
	}
	if r.phase == PhaseOver {
		return nil, ErrRoundOver
	}
	if mover != r.turn {
		return nil, ErrNotYourTurn
	}

	own := r.BoardOf(mover)
	opp := r.BoardOf(mover.Opponent())

	var moves []Move
	for {
		sum := r.rollFor(own, roller)
		m := src.SelectMove(sum, own, opp, r.AdvantageContext(mover))
		if m.Type == MoveNone {
			break
		}
		if err := r.ApplyMove(mover, m); err != nil {
			return moves, err
		}
		moves = append(moves, m)
		if r.phase == PhaseOver {
			return moves, nil
		}
	}
	return moves, r.EndTurn(mover)
}

// rollFor produces a dice sum for a turn, choosing one die over two
// when allowed and tactically sensible.
func (r *Round) rollFor(own *Board, roller Roller) int {
	if own.OneDieEligible() && (own.HighestUncovered() <= 6 || own.UncoveredCount() <= 3) {
		return roller.Roll()
	}
	return RollTwo(roller)
}
