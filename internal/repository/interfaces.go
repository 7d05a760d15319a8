package repository

import (
	"context"
	"time"

	"github.com/drajakumar/canoga/internal/model"
)

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// GameRepository defines game data operations.
type GameRepository interface {
	Create(ctx context.Context, userID string, boardSize int, botDifficulty string) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	ListByUser(ctx context.Context, userID string) ([]model.Game, error)
	ListActive(ctx context.Context) ([]model.Game, error)
	SetActive(ctx context.Context, gameID string) error
	UpdateScores(ctx context.Context, gameID string, scoreHuman, scoreComputer, roundsPlayed int) error
	SetFinished(ctx context.Context, gameID, winner string) error
	Delete(ctx context.Context, gameID string) error
}

// RoundRepository defines round and move-log data operations.
type RoundRepository interface {
	CreateRound(ctx context.Context, gameID string, number int, firstTurn, snapshot string) (*model.Round, error)
	CurrentRound(ctx context.Context, gameID string) (*model.Round, error)
	ListRounds(ctx context.Context, gameID string) ([]model.Round, error)
	FinishRound(ctx context.Context, roundID, finalSnapshot, winner, winType string, score int) error
	SaveMove(ctx context.Context, move *model.MoveRecord) error
	MovesByRound(ctx context.Context, roundID string) ([]model.MoveRecord, error)
}

// GameCache defines live game state operations (Redis).
type GameCache interface {
	SetGameState(ctx context.Context, gameID, record string) error
	GetGameState(ctx context.Context, gameID string) (string, error)
	SetPendingRoll(ctx context.Context, gameID string, sum int) error
	GetPendingRoll(ctx context.Context, gameID string) (int, error)
	ClearPendingRoll(ctx context.Context, gameID string) error
	SetTurnTimer(ctx context.Context, gameID string, deadline time.Time) error
	ClearTurnTimer(ctx context.Context, gameID string) error
	IncrHintCount(ctx context.Context, gameID string) (int64, error)
	DeleteGameData(ctx context.Context, gameID string) error
}
