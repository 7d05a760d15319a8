package model

import "time"

// User represents a registered user.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game represents a Canoga tournament between a user and the computer.
// Scores are cumulative across rounds and never reset mid-tournament.
type Game struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Status        string     `json:"status"` // waiting, active, finished
	BoardSize     int        `json:"board_size"`
	BotDifficulty string     `json:"bot_difficulty"`
	ScoreHuman    int        `json:"score_human"`
	ScoreComputer int        `json:"score_computer"`
	RoundsPlayed  int        `json:"rounds_played"`
	Winner        string     `json:"winner,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// Round represents one finished or in-progress round within a game.
// Snapshot holds the save-record text of the boards at round start;
// FinalSnapshot the boards when the round ended.
type Round struct {
	ID            string     `json:"id"`
	GameID        string     `json:"game_id"`
	Number        int        `json:"number"`
	FirstTurn     string     `json:"first_turn"`
	Snapshot      string     `json:"snapshot"`
	FinalSnapshot string     `json:"final_snapshot,omitempty"`
	Winner        string     `json:"winner,omitempty"`
	WinType       string     `json:"win_type,omitempty"`
	Score         int        `json:"score"`
	CreatedAt     time.Time  `json:"created_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// MoveRecord logs a single applied move within a round.
type MoveRecord struct {
	ID        string    `json:"id"`
	RoundID   string    `json:"round_id"`
	Side      string    `json:"side"`
	DiceSum   int       `json:"dice_sum"`
	MoveType  string    `json:"move_type"` // none, cover, uncover
	Squares   []int     `json:"squares,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
