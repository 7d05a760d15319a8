package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/drajakumar/canoga/internal/model"
)

// GameRepo handles game database operations.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo creates a GameRepo.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

const gameColumns = `id, user_id, status, board_size, bot_difficulty, score_human,
	score_computer, rounds_played, winner, created_at, started_at, finished_at`

// Create inserts a new game in "waiting" status.
func (r *GameRepo) Create(ctx context.Context, userID string, boardSize int, botDifficulty string) (*model.Game, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO games (user_id, board_size, bot_difficulty)
		 VALUES ($1, $2, $3)
		 RETURNING `+gameColumns,
		userID, boardSize, botDifficulty,
	)
	g, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return g, nil
}

// FindByID returns a game by ID, or nil when absent.
func (r *GameRepo) FindByID(ctx context.Context, id string) (*model.Game, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	return g, nil
}

// ListByUser returns a user's games, newest first.
func (r *GameRepo) ListByUser(ctx context.Context, userID string) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE user_id = $1 ORDER BY created_at DESC LIMIT 100`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// ListActive returns all games currently in play, for recovery on boot.
func (r *GameRepo) ListActive(ctx context.Context) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE status = 'active' ORDER BY started_at`)
	if err != nil {
		return nil, fmt.Errorf("list active games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// SetActive transitions a game to active and stamps its start time.
func (r *GameRepo) SetActive(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'active', started_at = now() WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("set game active: %w", err)
	}
	return nil
}

// UpdateScores stores the cumulative tournament scores and round count.
func (r *GameRepo) UpdateScores(ctx context.Context, gameID string, scoreHuman, scoreComputer, roundsPlayed int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET score_human = $1, score_computer = $2, rounds_played = $3 WHERE id = $4`,
		scoreHuman, scoreComputer, roundsPlayed, gameID)
	if err != nil {
		return fmt.Errorf("update scores: %w", err)
	}
	return nil
}

// SetFinished marks a game finished with the tournament winner
// ("human", "computer", or "" for a draw).
func (r *GameRepo) SetFinished(ctx context.Context, gameID, winner string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'finished', winner = $1, finished_at = now() WHERE id = $2`,
		winner, gameID)
	if err != nil {
		return fmt.Errorf("set game finished: %w", err)
	}
	return nil
}

// Delete removes a game and (via cascade) its rounds and moves.
func (r *GameRepo) Delete(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (*model.Game, error) {
	var g model.Game
	var winner sql.NullString
	err := s.Scan(&g.ID, &g.UserID, &g.Status, &g.BoardSize, &g.BotDifficulty,
		&g.ScoreHuman, &g.ScoreComputer, &g.RoundsPlayed, &winner,
		&g.CreatedAt, &g.StartedAt, &g.FinishedAt)
	if err != nil {
		return nil, err
	}
	g.Winner = winner.String
	return &g, nil
}
