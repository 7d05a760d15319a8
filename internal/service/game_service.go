package service

import (
	"context"
	"errors"

	"github.com/drajakumar/canoga/internal/model"
	"github.com/drajakumar/canoga/internal/repository"
	"github.com/drajakumar/canoga/pkg/canoga"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrNotYourGame     = errors.New("game belongs to another user")
	ErrGameFinished    = errors.New("game is already finished")
	ErrGameNotActive   = errors.New("game is not active")
	ErrInvalidSize     = errors.New("board size must be 9, 10, or 11")
	ErrRoundInProgress = errors.New("a round is already in progress")
	ErrNoActiveRound   = errors.New("no round in progress")
	ErrNoPendingRoll   = errors.New("roll the dice first")
	ErrRollPending     = errors.New("a roll is already pending")
	ErrMovesAvailable  = errors.New("legal moves remain for this roll")
)

// GameService handles game lifecycle operations: creation, lookup,
// listing, deletion, and ending a tournament.
type GameService struct {
	gameRepo  repository.GameRepository
	roundRepo repository.RoundRepository
	cache     repository.GameCache
}

// NewGameService creates a GameService.
func NewGameService(gameRepo repository.GameRepository, roundRepo repository.RoundRepository, cache repository.GameCache) *GameService {
	return &GameService{gameRepo: gameRepo, roundRepo: roundRepo, cache: cache}
}

// CreateGame creates a new game in "waiting" status. The first round
// starts when the player requests it, so board setup happens there.
func (s *GameService) CreateGame(ctx context.Context, userID string, boardSize int, botDifficulty string) (*model.Game, error) {
	if boardSize == 0 {
		boardSize = canoga.MinBoardSize
	}
	if boardSize < canoga.MinBoardSize || boardSize > canoga.MaxBoardSize {
		return nil, ErrInvalidSize
	}
	switch botDifficulty {
	case "random", "greedy":
	case "":
		botDifficulty = "greedy"
	default:
		return nil, errors.New("invalid difficulty: must be random or greedy")
	}
	return s.gameRepo.Create(ctx, userID, boardSize, botDifficulty)
}

// GetGame returns a game by ID, verifying ownership.
func (s *GameService) GetGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
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
	return game, nil
}

// ListGames returns the user's games, newest first.
func (s *GameService) ListGames(ctx context.Context, userID string) ([]model.Game, error) {
	return s.gameRepo.ListByUser(ctx, userID)
}

// ListRounds returns the round history of a game.
func (s *GameService) ListRounds(ctx context.Context, gameID, userID string) ([]model.Round, error) {
	if _, err := s.GetGame(ctx, gameID, userID); err != nil {
		return nil, err
	}
	return s.roundRepo.ListRounds(ctx, gameID)
}

// DeleteGame removes a game and all its data.
func (s *GameService) DeleteGame(ctx context.Context, gameID, userID string) error {
	if _, err := s.GetGame(ctx, gameID, userID); err != nil {
		return err
	}
	if err := s.cache.DeleteGameData(ctx, gameID); err != nil {
		return err
	}
	return s.gameRepo.Delete(ctx, gameID)
}
