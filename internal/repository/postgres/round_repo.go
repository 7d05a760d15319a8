package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/drajakumar/canoga/internal/model"
)

// RoundRepo handles round and move-log database operations.
type RoundRepo struct {
	db *sql.DB
}

// NewRoundRepo creates a RoundRepo.
func NewRoundRepo(db *sql.DB) *RoundRepo {
	return &RoundRepo{db: db}
}

const roundColumns = `id, game_id, number, first_turn, snapshot, final_snapshot,
	winner, win_type, score, created_at, finished_at`

// CreateRound inserts a new round with its starting snapshot.
func (r *RoundRepo) CreateRound(ctx context.Context, gameID string, number int, firstTurn, snapshot string) (*model.Round, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO rounds (game_id, number, first_turn, snapshot)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+roundColumns,
		gameID, number, firstTurn, snapshot,
	)
	rd, err := scanRound(row)
	if err != nil {
		return nil, fmt.Errorf("create round: %w", err)
	}
	return rd, nil
}

// CurrentRound returns the latest unfinished round of a game, or nil.
func (r *RoundRepo) CurrentRound(ctx context.Context, gameID string) (*model.Round, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roundColumns+` FROM rounds
		 WHERE game_id = $1 AND finished_at IS NULL
		 ORDER BY number DESC LIMIT 1`, gameID)
	rd, err := scanRound(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current round: %w", err)
	}
	return rd, nil
}

// ListRounds returns a game's rounds in play order.
func (r *RoundRepo) ListRounds(ctx context.Context, gameID string) ([]model.Round, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roundColumns+` FROM rounds WHERE game_id = $1 ORDER BY number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []model.Round
	for rows.Next() {
		rd, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		rounds = append(rounds, *rd)
	}
	return rounds, rows.Err()
}

// FinishRound stores the outcome and final snapshot of a round.
func (r *RoundRepo) FinishRound(ctx context.Context, roundID, finalSnapshot, winner, winType string, score int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rounds SET final_snapshot = $1, winner = $2, win_type = $3, score = $4, finished_at = now()
		 WHERE id = $5`,
		finalSnapshot, winner, winType, score, roundID)
	if err != nil {
		return fmt.Errorf("finish round: %w", err)
	}
	return nil
}

// SaveMove appends one applied move to the round's move log.
func (r *RoundRepo) SaveMove(ctx context.Context, move *model.MoveRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO moves (round_id, side, dice_sum, move_type, squares)
		 VALUES ($1, $2, $3, $4, $5)`,
		move.RoundID, move.Side, move.DiceSum, move.MoveType, pq.Array(move.Squares))
	if err != nil {
		return fmt.Errorf("save move: %w", err)
	}
	return nil
}

// MovesByRound returns a round's move log in order.
func (r *RoundRepo) MovesByRound(ctx context.Context, roundID string) ([]model.MoveRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, round_id, side, dice_sum, move_type, squares, created_at
		 FROM moves WHERE round_id = $1 ORDER BY created_at`, roundID)
	if err != nil {
		return nil, fmt.Errorf("moves by round: %w", err)
	}
	defer rows.Close()

	var moves []model.MoveRecord
	for rows.Next() {
		var m model.MoveRecord
		var squares pq.Int64Array
		if err := rows.Scan(&m.ID, &m.RoundID, &m.Side, &m.DiceSum, &m.MoveType, &squares, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		m.Squares = make([]int, len(squares))
		for i, v := range squares {
			m.Squares[i] = int(v)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func scanRound(s scanner) (*model.Round, error) {
	var rd model.Round
	var finalSnapshot, winner, winType sql.NullString
	err := s.Scan(&rd.ID, &rd.GameID, &rd.Number, &rd.FirstTurn, &rd.Snapshot,
		&finalSnapshot, &winner, &winType, &rd.Score, &rd.CreatedAt, &rd.FinishedAt)
	if err != nil {
		return nil, err
	}
	rd.FinalSnapshot = finalSnapshot.String
	rd.Winner = winner.String
	rd.WinType = winType.String
	return &rd, nil
}
