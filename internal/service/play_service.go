package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drajakumar/canoga/internal/bot"
	"github.com/drajakumar/canoga/internal/model"
	"github.com/drajakumar/canoga/internal/repository"
	"github.com/drajakumar/canoga/pkg/canoga"
)

var (
	ErrNotHumanTurn     = errors.New("it is not your turn")
	ErrOneDieNotAllowed = errors.New("one die requires squares 7 and above to be covered")
	ErrWrongSum         = errors.New("squares do not add up to the rolled sum")
	ErrSquareProtected  = errors.New("that square is protected this round")
	ErrInvalidFirst     = errors.New("first must be roll, human, or computer")
)

// DefaultTurnTimeout is how long the human has to complete a turn
// before it is passed automatically.
const DefaultTurnTimeout = 2 * time.Minute

// Event names pushed over the WebSocket hub. Kept as plain strings so
// the service does not depend on the handler package.
const (
	evRoundStarted = "round_started"
	evDiceRolled   = "dice_rolled"
	evMoveApplied  = "move_applied"
	evTurnPassed   = "turn_passed"
	evRoundEnded   = "round_ended"
	evGameEnded    = "game_ended"
	evTurnExpired  = "turn_expired"
)

// liveGame is the in-memory state of one game's current round. Redis
// holds a snapshot for reconnects and crash recovery; this struct is
// the authoritative copy while the process is up.
type liveGame struct {
	mu         sync.Mutex // guards every field below
	round      *canoga.Round
	advantage  *canoga.AdvantageManager
	roundID    string
	roundNum   int
	pendingSum int // human's unplayed roll, 0 when none
	deadline   time.Time
}

// PlayService drives rounds of play: dice rolls, human moves, the
// computer's turn, advantage handling, and round/tournament scoring.
type PlayService struct {
	gameRepo    repository.GameRepository
	roundRepo   repository.RoundRepository
	cache       repository.GameCache
	broadcaster Broadcaster
	roller      canoga.Roller
	turnTimeout time.Duration

	mu   sync.Mutex
	live map[string]*liveGame
}

// NewPlayService creates a PlayService.
func NewPlayService(gameRepo repository.GameRepository, roundRepo repository.RoundRepository, cache repository.GameCache, broadcaster Broadcaster) *PlayService {
	return &PlayService{
		gameRepo:    gameRepo,
		roundRepo:   roundRepo,
		cache:       cache,
		broadcaster: broadcaster,
		roller:      canoga.NewRoller(time.Now().UnixNano()),
		turnTimeout: DefaultTurnTimeout,
		live:        make(map[string]*liveGame),
	}
}

// SetRoller replaces the dice roller, for deterministic tests.
func (s *PlayService) SetRoller(r canoga.Roller) { s.roller = r }

// SetTurnTimeout overrides the human turn timeout.
func (s *PlayService) SetTurnTimeout(d time.Duration) { s.turnTimeout = d }

// RoundState is the client-facing view of a game's current round.
// Board squares use the save-record convention: 0 for covered, the
// square's own value for uncovered.
type RoundState struct {
	GameID        string          `json:"game_id"`
	RoundNumber   int             `json:"round_number"`
	Phase         string          `json:"phase"`
	Turn          string          `json:"turn,omitempty"`
	FirstTurn     string          `json:"first_turn,omitempty"`
	HumanBoard    []int           `json:"human_board,omitempty"`
	ComputerBoard []int           `json:"computer_board,omitempty"`
	ScoreHuman    int             `json:"score_human"`
	ScoreComputer int             `json:"score_computer"`
	PendingRoll   int             `json:"pending_roll,omitempty"`
	Advantage     *AdvantageInfo  `json:"advantage,omitempty"`
	Outcome       *canoga.Outcome `json:"outcome,omitempty"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
}

// AdvantageInfo describes the advantage square in effect this round.
type AdvantageInfo struct {
	Owner     string `json:"owner"`
	Square    int    `json:"square"`
	Protected bool   `json:"protected"`
}

// RollResult reports a dice roll and the moves it allows.
type RollResult struct {
	Sum      int     `json:"sum"`
	Dice     int     `json:"dice,omitempty"`
	Covers   [][]int `json:"covers"`
	Uncovers [][]int `json:"uncovers"`
	CanMove  bool    `json:"can_move"`
}

// HintResult is the recommended move for the pending roll.
type HintResult struct {
	MoveType  string `json:"move_type"`
	Squares   []int  `json:"squares,omitempty"`
	HintsUsed int64  `json:"hints_used"`
}

// StartRound begins the next round of a game. The first mover defaults
// to a paired-dice roll-off; "human" or "computer" skips the roll-off.
// If the computer moves first its whole turn plays out before this
// returns.
func (s *PlayService) StartRound(ctx context.Context, gameID, userID, first string) (*RoundState, error) {
	game, err := s.ownedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}

	// ensureLive first, so an unfinished round that only exists in
	// storage (say boot recovery failed for this game) still counts as
	// in progress instead of being shadowed by a new round row.
	lg, err := s.ensureLive(ctx, gameID, game)
	if err != nil {
		return nil, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if lg.round != nil && !lg.round.IsOver() {
		return nil, ErrRoundInProgress
	}

	adv := lg.advantage
	if adv == nil {
		adv, err = s.rebuildAdvantage(ctx, gameID)
		if err != nil {
			return nil, err
		}
		lg.advantage = adv
	}

	round, err := canoga.NewRound(game.BoardSize, adv)
	if err != nil {
		return nil, err
	}
	var humanRoll, computerRoll int
	switch first {
	case "", "roll":
		humanRoll, computerRoll, err = round.StartWithRoll(s.roller)
	case string(canoga.Human), string(canoga.Computer):
		err = round.Start(canoga.Side(first))
	default:
		return nil, ErrInvalidFirst
	}
	if err != nil {
		return nil, err
	}

	number := game.RoundsPlayed + 1
	snap := s.encodeState(round, game)
	row, err := s.roundRepo.CreateRound(ctx, gameID, number, string(round.FirstPlayer()), snap)
	if err != nil {
		return nil, err
	}

	if game.Status == "waiting" {
		if err := s.gameRepo.SetActive(ctx, gameID); err != nil {
			return nil, err
		}
		game.Status = "active"
	}

	lg.round = round
	lg.roundID = row.ID
	lg.roundNum = number
	lg.pendingSum = 0

	if err := s.cache.SetGameState(ctx, gameID, snap); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to cache game state")
	}

	started := map[string]any{
		"round_number": number,
		"first_turn":   round.FirstPlayer(),
	}
	if humanRoll > 0 {
		started["human_roll"] = humanRoll
		started["computer_roll"] = computerRoll
	}
	s.broadcaster.BroadcastGameEvent(gameID, evRoundStarted, started)
	log.Info().Str("gameId", gameID).Int("round", number).
		Str("firstTurn", string(round.FirstPlayer())).Msg("Round started")

	if round.Turn() == canoga.Computer {
		if err := s.playComputerTurn(ctx, gameID, lg, game); err != nil {
			return nil, err
		}
	}
	s.armTimerLocked(ctx, gameID, lg)

	return s.stateLocked(gameID, lg, game), nil
}

// State returns the current view of a game, rehydrating the round from
// storage when the process has no live copy.
func (s *PlayService) State(ctx context.Context, gameID, userID string) (*RoundState, error) {
	game, err := s.ownedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	lg, err := s.ensureLive(ctx, gameID, game)
	if err != nil {
		return nil, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return s.stateLocked(gameID, lg, game), nil
}

// Roll rolls the dice for the human. dice is 1 or 2; one die is only
// allowed once squares 7 and above are covered.
func (s *PlayService) Roll(ctx context.Context, gameID, userID string, dice int) (*RollResult, error) {
	game, err := s.ownedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	lg, err := s.ensureLive(ctx, gameID, game)
	if err != nil {
		return nil, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if err := s.humanTurnLocked(lg); err != nil {
		return nil, err
	}
	if lg.pendingSum != 0 {
		return nil, ErrRollPending
	}

	own := lg.round.BoardOf(canoga.Human)
	var sum int
	switch dice {
	case 1:
		if !own.OneDieEligible() {
			return nil, ErrOneDieNotAllowed
		}
		sum = s.roller.Roll()
	case 0, 2:
		dice = 2
		sum = canoga.RollTwo(s.roller)
	default:
		return nil, errors.New("dice must be 1 or 2")
	}

	lg.pendingSum = sum
	if err := s.cache.SetPendingRoll(ctx, gameID, sum); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to cache pending roll")
	}

	covers, uncovers := s.legalMovesLocked(lg, sum)
	s.broadcaster.BroadcastGameEvent(gameID, evDiceRolled, map[string]any{
		"side": canoga.Human,
		"sum":  sum,
		"dice": dice,
	})

	return &RollResult{
		Sum:      sum,
		Dice:     dice,
		Covers:   combosToInts(covers),
		Uncovers: combosToInts(uncovers),
		CanMove:  len(covers)+len(uncovers) > 0,
	}, nil
}

// Combos lists the legal moves for the pending roll without rolling
// again. Lets a reconnecting client rebuild its move picker.
func (s *PlayService) Combos(ctx context.Context, gameID, userID string) (*RollResult, error) {
	game, err := s.ownedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	lg, err := s.ensureLive(ctx, gameID, game)
	if err != nil {
		return nil, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if err := s.humanTurnLocked(lg); err != nil {
		return nil, err
	}
	if lg.pendingSum == 0 {
		return nil, ErrNoPendingRoll
	}

	covers, uncovers := s.legalMovesLocked(lg, lg.pendingSum)
	return &RollResult{
		Sum:      lg.pendingSum,
		Covers:   combosToInts(covers),
		Uncovers: combosToInts(uncovers),
		CanMove:  len(covers)+len(uncovers) > 0,
	}, nil
}

// ApplyMove plays the human's chosen squares against the pending roll.
// A successful move keeps the turn; the human rolls again.
func (s *PlayService) ApplyMove(ctx context.Context, gameID, userID, moveType string, squares []int) (*RoundState, error) {
	game, err := s.ownedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	lg, err := s.ensureLive(ctx, gameID, game)
	if err != nil {
		return nil, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if err := s.humanTurnLocked(lg); err != nil {
		return nil, err
	}
	if lg.pendingSum == 0 {
		return nil, ErrNoPendingRoll
	}

	combo := canoga.NewCombination(squares)
	if combo.Sum() != lg.pendingSum {
		return nil, ErrWrongSum
	}

	var m canoga.Move
	switch moveType {
	case "cover":
		m = canoga.CoverMove(combo)
	case "uncover":
		advCtx := lg.round.AdvantageContext(canoga.Human)
		if advCtx.OpponentProtected && combo.Contains(advCtx.Square) {
			return nil, ErrSquareProtected
		}
		m = canoga.UncoverMove(combo)
	default:
		return nil, errors.New("move type must be cover or uncover")
	}

	if err := lg.round.ApplyMove(canoga.Human, m); err != nil {
		return nil, err
	}

	s.logMove(ctx, lg.roundID, canoga.Human, lg.pendingSum, m)
	lg.pendingSum = 0
	if err := s.cache.ClearPendingRoll(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to clear pending roll")
	}

	s.broadcaster.BroadcastGameEvent(gameID, evMoveApplied, map[string]any{
		"side":      canoga.Human,
		"move_type": moveType,
		"squares":   []int(m.Combo),
	})

	if lg.round.IsOver() {
		if err := s.finishRound(ctx, gameID, lg, game); err != nil {
			return nil, err
		}
	} else {
		s.syncState(ctx, gameID, lg, game)
		s.armTimerLocked(ctx, gameID, lg)
	}
	return s.stateLocked(gameID, lg, game), nil
}

// Pass ends the human's turn. Only allowed when the pending roll has
// no legal move. The computer's whole turn then plays out.
func (s *PlayService) Pass(ctx context.Context, gameID, userID string) (*RoundState, error) {
	game, err := s.ownedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	lg, err := s.ensureLive(ctx, gameID, game)
	if err != nil {
		return nil, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if err := s.humanTurnLocked(lg); err != nil {
		return nil, err
	}
	if lg.pendingSum == 0 {
		return nil, ErrNoPendingRoll
	}
	covers, uncovers := s.legalMovesLocked(lg, lg.pendingSum)
	if len(covers)+len(uncovers) > 0 {
		return nil, ErrMovesAvailable
	}

	if err := s.endHumanTurn(ctx, gameID, lg, game, evTurnPassed); err != nil {
		return nil, err
	}
	return s.stateLocked(gameID, lg, game), nil
}

// Hint recommends a move for the pending roll using the strongest
// strategy, and counts the request against the game.
func (s *PlayService) Hint(ctx context.Context, gameID, userID string) (*HintResult, error) {
	game, err := s.ownedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	lg, err := s.ensureLive(ctx, gameID, game)
	if err != nil {
		return nil, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if err := s.humanTurnLocked(lg); err != nil {
		return nil, err
	}
	if lg.pendingSum == 0 {
		return nil, ErrNoPendingRoll
	}

	own := lg.round.BoardOf(canoga.Human)
	opp := lg.round.BoardOf(canoga.Computer)
	m := bot.GreedyStrategy{}.SelectMove(lg.pendingSum, own, opp, lg.round.AdvantageContext(canoga.Human))

	count, err := s.cache.IncrHintCount(ctx, gameID)
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to count hint")
	}
	return &HintResult{
		MoveType:  string(m.Type),
		Squares:   []int(m.Combo),
		HintsUsed: count,
	}, nil
}

// EndGame finishes the tournament, crowning whoever leads on points.
func (s *PlayService) EndGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.ownedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}

	winner := ""
	switch {
	case game.ScoreHuman > game.ScoreComputer:
		winner = string(canoga.Human)
	case game.ScoreComputer > game.ScoreHuman:
		winner = string(canoga.Computer)
	}
	return s.closeGame(ctx, gameID, game, winner, false)
}

// Resign concedes the game to the computer regardless of the score.
func (s *PlayService) Resign(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.ownedGame(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	return s.closeGame(ctx, gameID, game, string(canoga.Computer), true)
}

func (s *PlayService) closeGame(ctx context.Context, gameID string, game *model.Game, winner string, resigned bool) (*model.Game, error) {
	if err := s.gameRepo.SetFinished(ctx, gameID, winner); err != nil {
		return nil, err
	}
	if err := s.cache.DeleteGameData(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to delete cached game data")
	}

	s.mu.Lock()
	delete(s.live, gameID)
	s.mu.Unlock()

	s.broadcaster.BroadcastGameEvent(gameID, evGameEnded, map[string]any{
		"winner":         winner,
		"resigned":       resigned,
		"score_human":    game.ScoreHuman,
		"score_computer": game.ScoreComputer,
		"rounds_played":  game.RoundsPlayed,
	})
	log.Info().Str("gameId", gameID).Str("winner", winner).Bool("resigned", resigned).Msg("Game ended")
	return s.gameRepo.FindByID(ctx, gameID)
}

// AutoPass force-ends an overdue human turn. Called when the turn
// timer expires.
func (s *PlayService) AutoPass(ctx context.Context, gameID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil || game.Status != "active" {
		return nil
	}
	lg, err := s.ensureLive(ctx, gameID, game)
	if err != nil {
		return err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if lg.round == nil || lg.round.IsOver() || lg.round.Turn() != canoga.Human {
		return nil
	}
	log.Info().Str("gameId", gameID).Msg("Turn timer expired, auto-passing")
	return s.endHumanTurn(ctx, gameID, lg, game, evTurnExpired)
}

// ExpireOverdue auto-passes every live game whose turn deadline has
// passed. Polling fallback for when keyspace notifications are off.
func (s *PlayService) ExpireOverdue(ctx context.Context) {
	s.mu.Lock()
	entries := make(map[string]*liveGame, len(s.live))
	for id, lg := range s.live {
		entries[id] = lg
	}
	s.mu.Unlock()

	// deadline is guarded by the per-game lock, not s.mu.
	now := time.Now()
	var overdue []string
	for id, lg := range entries {
		lg.mu.Lock()
		expired := !lg.deadline.IsZero() && now.After(lg.deadline)
		lg.mu.Unlock()
		if expired {
			overdue = append(overdue, id)
		}
	}

	for _, id := range overdue {
		if err := s.AutoPass(ctx, id); err != nil {
			log.Error().Err(err).Str("gameId", id).Msg("Auto-pass failed from poller")
		}
	}
}

// RecoverActiveGames rebuilds live state for active games after a
// restart. Rounds whose Redis snapshot is gone are replayed from the
// round's starting snapshot and its move log.
func (s *PlayService) RecoverActiveGames(ctx context.Context) error {
	games, err := s.gameRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}
	for i := range games {
		game := &games[i]
		if err := s.recoverGame(ctx, game); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to recover game")
			continue
		}
		log.Info().Str("gameId", game.ID).Msg("Recovered active game")
	}
	return nil
}

// --- internals ---

func (s *PlayService) ownedGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.UserID != userID {
		return nil, ErrNotYourGame
	}
	if game.Status == "finished" {
		return nil, ErrGameFinished
	}
	return game, nil
}

func (s *PlayService) liveEntry(gameID string) *liveGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	lg, ok := s.live[gameID]
	if !ok {
		lg = &liveGame{}
		s.live[gameID] = lg
	}
	return lg
}

// ensureLive returns the live entry for a game, rehydrating a round
// in progress from the cached snapshot or the move log.
func (s *PlayService) ensureLive(ctx context.Context, gameID string, game *model.Game) (*liveGame, error) {
	lg := s.liveEntry(gameID)
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if lg.round != nil {
		return lg, nil
	}

	row, err := s.roundRepo.CurrentRound(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return lg, nil // no round in flight
	}

	rec, err := s.loadRecord(ctx, gameID, row)
	if err != nil {
		return nil, err
	}

	// Advantage protection does not survive a restart; a resumed
	// round plays out unprotected, like a loaded save file.
	adv := &canoga.AdvantageManager{}
	round, err := canoga.ResumeRound(rec.HumanBoard, rec.ComputerBoard, adv, rec.FirstTurn, rec.NextTurn)
	if err != nil {
		return nil, fmt.Errorf("resume round: %w", err)
	}

	pending, err := s.cache.GetPendingRoll(ctx, gameID)
	if err != nil {
		return nil, err
	}

	lg.round = round
	lg.advantage = adv
	lg.roundID = row.ID
	lg.roundNum = row.Number
	lg.pendingSum = pending
	return lg, nil
}

// loadRecord fetches the live snapshot from Redis, or rebuilds it by
// replaying the move log over the round's starting snapshot.
func (s *PlayService) loadRecord(ctx context.Context, gameID string, row *model.Round) (*canoga.SaveRecord, error) {
	text, err := s.cache.GetGameState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if text != "" {
		rec, err := canoga.DecodeRecord(text)
		if err != nil {
			return nil, fmt.Errorf("decode cached state: %w", err)
		}
		return rec, nil
	}

	rec, err := canoga.DecodeRecord(row.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("decode round snapshot: %w", err)
	}
	moves, err := s.roundRepo.MovesByRound(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	if err := replayMoves(rec, moves); err != nil {
		return nil, err
	}
	return rec, nil
}

// replayMoves reapplies a round's move log to its starting boards.
// A "none" entry marks the end of a turn.
func replayMoves(rec *canoga.SaveRecord, moves []model.MoveRecord) error {
	turn := rec.FirstTurn
	for _, mv := range moves {
		side := canoga.Side(mv.Side)
		if side != turn {
			return fmt.Errorf("move log out of order: %s moved on %s's turn", side, turn)
		}
		own, opp := rec.HumanBoard, rec.ComputerBoard
		if side == canoga.Computer {
			own, opp = opp, own
		}
		switch mv.MoveType {
		case "none":
			turn = turn.Opponent()
		case "cover":
			for _, sq := range mv.Squares {
				if !own.Cover(sq) {
					return fmt.Errorf("replay cover %d failed", sq)
				}
			}
		case "uncover":
			for _, sq := range mv.Squares {
				if !opp.Uncover(sq) {
					return fmt.Errorf("replay uncover %d failed", sq)
				}
			}
		default:
			return fmt.Errorf("unknown move type %q in log", mv.MoveType)
		}
	}
	rec.NextTurn = turn
	return nil
}

func (s *PlayService) recoverGame(ctx context.Context, game *model.Game) error {
	lg, err := s.ensureLive(ctx, game.ID, game)
	if err != nil {
		return err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if lg.round == nil {
		return nil
	}
	s.syncState(ctx, game.ID, lg, game)
	s.armTimerLocked(ctx, game.ID, lg)
	return nil
}

// rebuildAdvantage reconstructs the pending handicap from the last
// finished round, so advantage carry-over survives restarts.
func (s *PlayService) rebuildAdvantage(ctx context.Context, gameID string) (*canoga.AdvantageManager, error) {
	rounds, err := s.roundRepo.ListRounds(ctx, gameID)
	if err != nil {
		return nil, err
	}
	adv := &canoga.AdvantageManager{}
	for i := len(rounds) - 1; i >= 0; i-- {
		r := rounds[i]
		if r.Winner == "" {
			continue
		}
		adv.ApplyHandicap(r.FirstTurn == r.Winner, canoga.Side(r.Winner), r.Score)
		break
	}
	return adv, nil
}

func (s *PlayService) humanTurnLocked(lg *liveGame) error {
	if lg.round == nil {
		return ErrNoActiveRound
	}
	if lg.round.IsOver() {
		return ErrNoActiveRound
	}
	if lg.round.Turn() != canoga.Human {
		return ErrNotHumanTurn
	}
	return nil
}

func (s *PlayService) legalMovesLocked(lg *liveGame, sum int) (covers, uncovers []canoga.Combination) {
	own := lg.round.BoardOf(canoga.Human)
	opp := lg.round.BoardOf(canoga.Computer)
	covers = canoga.CoverCombinations(own, sum)
	uncovers = canoga.UncoverCombinations(opp, sum)
	advCtx := lg.round.AdvantageContext(canoga.Human)
	if advCtx.OpponentProtected {
		var allowed []canoga.Combination
		for _, c := range uncovers {
			if !c.Contains(advCtx.Square) {
				allowed = append(allowed, c)
			}
		}
		uncovers = allowed
	}
	return covers, uncovers
}

// endHumanTurn logs the pass, hands the turn over, and plays the
// computer's turn to completion.
func (s *PlayService) endHumanTurn(ctx context.Context, gameID string, lg *liveGame, game *model.Game, event string) error {
	sum := lg.pendingSum
	lg.pendingSum = 0
	if err := s.cache.ClearPendingRoll(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to clear pending roll")
	}
	s.logMove(ctx, lg.roundID, canoga.Human, sum, canoga.NoMove)

	if err := lg.round.EndTurn(canoga.Human); err != nil {
		return err
	}
	if err := s.cache.ClearTurnTimer(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to clear turn timer")
	}
	lg.deadline = time.Time{}
	s.broadcaster.BroadcastGameEvent(gameID, event, map[string]any{
		"side": canoga.Human,
		"sum":  sum,
	})

	if err := s.playComputerTurn(ctx, gameID, lg, game); err != nil {
		return err
	}
	s.armTimerLocked(ctx, gameID, lg)
	return nil
}

// playComputerTurn runs the computer's whole turn, logging and
// broadcasting each applied move.
func (s *PlayService) playComputerTurn(ctx context.Context, gameID string, lg *liveGame, game *model.Game) error {
	strat := bot.StrategyForDifficulty(game.BotDifficulty)
	moves, err := lg.round.PlayTurn(canoga.Computer, strat, s.roller)
	if err != nil {
		return err
	}

	for _, m := range moves {
		s.logMove(ctx, lg.roundID, canoga.Computer, m.Combo.Sum(), m)
		s.broadcaster.BroadcastGameEvent(gameID, evMoveApplied, map[string]any{
			"side":      canoga.Computer,
			"move_type": m.Type,
			"squares":   []int(m.Combo),
		})
	}

	if lg.round.IsOver() {
		return s.finishRound(ctx, gameID, lg, game)
	}

	// Turn ended on a roll with no legal move.
	s.logMove(ctx, lg.roundID, canoga.Computer, 0, canoga.NoMove)
	s.broadcaster.BroadcastGameEvent(gameID, evTurnPassed, map[string]any{
		"side": canoga.Computer,
	})
	s.syncState(ctx, gameID, lg, game)
	return nil
}

// finishRound persists the outcome, applies it to the tournament
// scores, and announces it.
func (s *PlayService) finishRound(ctx context.Context, gameID string, lg *liveGame, game *model.Game) error {
	o, ok := lg.round.Outcome()
	if !ok {
		return errors.New("round not over")
	}

	final := s.encodeState(lg.round, game)
	if err := s.roundRepo.FinishRound(ctx, lg.roundID, final, string(o.Winner), string(o.WinType), o.Score); err != nil {
		return err
	}

	if o.Winner == canoga.Human {
		game.ScoreHuman += o.Score
	} else {
		game.ScoreComputer += o.Score
	}
	game.RoundsPlayed++
	if err := s.gameRepo.UpdateScores(ctx, gameID, game.ScoreHuman, game.ScoreComputer, game.RoundsPlayed); err != nil {
		return err
	}

	lg.pendingSum = 0
	lg.deadline = time.Time{}
	if err := s.cache.ClearPendingRoll(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to clear pending roll")
	}
	if err := s.cache.ClearTurnTimer(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to clear turn timer")
	}
	if err := s.cache.SetGameState(ctx, gameID, s.encodeState(lg.round, game)); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to cache game state")
	}

	s.broadcaster.BroadcastGameEvent(gameID, evRoundEnded, map[string]any{
		"outcome":        o,
		"score_human":    game.ScoreHuman,
		"score_computer": game.ScoreComputer,
		"rounds_played":  game.RoundsPlayed,
	})
	log.Info().Str("gameId", gameID).Int("round", lg.roundNum).
		Str("winner", string(o.Winner)).Str("winType", string(o.WinType)).
		Int("score", o.Score).Msg("Round finished")
	return nil
}

func (s *PlayService) armTimerLocked(ctx context.Context, gameID string, lg *liveGame) {
	if lg.round == nil || lg.round.IsOver() || lg.round.Turn() != canoga.Human {
		return
	}
	lg.deadline = time.Now().Add(s.turnTimeout)
	if err := s.cache.SetTurnTimer(ctx, gameID, lg.deadline); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to set turn timer")
	}
}

func (s *PlayService) syncState(ctx context.Context, gameID string, lg *liveGame, game *model.Game) {
	if err := s.cache.SetGameState(ctx, gameID, s.encodeState(lg.round, game)); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to cache game state")
	}
}

func (s *PlayService) encodeState(round *canoga.Round, game *model.Game) string {
	return canoga.EncodeRecord(&canoga.SaveRecord{
		HumanBoard:    round.BoardOf(canoga.Human),
		ComputerBoard: round.BoardOf(canoga.Computer),
		HumanScore:    game.ScoreHuman,
		ComputerScore: game.ScoreComputer,
		FirstTurn:     round.FirstPlayer(),
		NextTurn:      round.Turn(),
	})
}

func (s *PlayService) logMove(ctx context.Context, roundID string, side canoga.Side, sum int, m canoga.Move) {
	rec := &model.MoveRecord{
		RoundID:  roundID,
		Side:     string(side),
		DiceSum:  sum,
		MoveType: string(m.Type),
		Squares:  []int(m.Combo),
	}
	if err := s.roundRepo.SaveMove(ctx, rec); err != nil {
		log.Error().Err(err).Str("roundId", roundID).Msg("Failed to save move")
	}
}

func (s *PlayService) stateLocked(gameID string, lg *liveGame, game *model.Game) *RoundState {
	st := &RoundState{
		GameID:        gameID,
		ScoreHuman:    game.ScoreHuman,
		ScoreComputer: game.ScoreComputer,
		Phase:         "setup",
	}
	if lg.round == nil {
		return st
	}
	round := lg.round
	st.RoundNumber = lg.roundNum
	st.Phase = string(round.Phase())
	st.FirstTurn = string(round.FirstPlayer())
	st.HumanBoard = boardInts(round.BoardOf(canoga.Human))
	st.ComputerBoard = boardInts(round.BoardOf(canoga.Computer))
	st.PendingRoll = lg.pendingSum

	if adv := round.Advantage(); adv != nil && adv.IsApplied() {
		st.Advantage = &AdvantageInfo{
			Owner:     string(adv.Owner()),
			Square:    adv.Square(),
			Protected: adv.IsProtected(adv.Owner()),
		}
	}
	if o, ok := round.Outcome(); ok {
		st.Outcome = &o
	} else {
		st.Turn = string(round.Turn())
		if !lg.deadline.IsZero() {
			d := lg.deadline
			st.Deadline = &d
		}
	}
	return st
}

// boardInts renders a board in the save-record convention: 0 for a
// covered square, the square's own value otherwise.
func boardInts(b *canoga.Board) []int {
	out := make([]int, b.Size())
	for i := 1; i <= b.Size(); i++ {
		if !b.IsCovered(i) {
			out[i-1] = i
		}
	}
	return out
}

func combosToInts(cs []canoga.Combination) [][]int {
	out := make([][]int, len(cs))
	for i, c := range cs {
		out[i] = []int(c)
	}
	return out
}
