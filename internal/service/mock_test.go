package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/drajakumar/canoga/internal/model"
)

type mockGameRepo struct {
	games map[string]*model.Game
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{games: make(map[string]*model.Game)}
}

func (m *mockGameRepo) Create(_ context.Context, userID string, boardSize int, botDifficulty string) (*model.Game, error) {
	g := &model.Game{
		ID:            fmt.Sprintf("game-%d", len(m.games)+1),
		UserID:        userID,
		Status:        "waiting",
		BoardSize:     boardSize,
		BotDifficulty: botDifficulty,
		CreatedAt:     time.Now(),
	}
	m.games[g.ID] = g
	return g, nil
}

func (m *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *mockGameRepo) ListByUser(_ context.Context, userID string) ([]model.Game, error) {
	var result []model.Game
	for _, g := range m.games {
		if g.UserID == userID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGameRepo) ListActive(_ context.Context) ([]model.Game, error) {
	var result []model.Game
	for _, g := range m.games {
		if g.Status == "active" {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGameRepo) SetActive(_ context.Context, gameID string) error {
	if g, ok := m.games[gameID]; ok {
		g.Status = "active"
		now := time.Now()
		g.StartedAt = &now
	}
	return nil
}

func (m *mockGameRepo) UpdateScores(_ context.Context, gameID string, scoreHuman, scoreComputer, roundsPlayed int) error {
	if g, ok := m.games[gameID]; ok {
		g.ScoreHuman = scoreHuman
		g.ScoreComputer = scoreComputer
		g.RoundsPlayed = roundsPlayed
	}
	return nil
}

func (m *mockGameRepo) SetFinished(_ context.Context, gameID, winner string) error {
	if g, ok := m.games[gameID]; ok {
		g.Status = "finished"
		g.Winner = winner
		now := time.Now()
		g.FinishedAt = &now
	}
	return nil
}

func (m *mockGameRepo) Delete(_ context.Context, gameID string) error {
	delete(m.games, gameID)
	return nil
}

type mockRoundRepo struct {
	rounds map[string]*model.Round
	moves  map[string][]model.MoveRecord
	seq    int
}

func newMockRoundRepo() *mockRoundRepo {
	return &mockRoundRepo{
		rounds: make(map[string]*model.Round),
		moves:  make(map[string][]model.MoveRecord),
	}
}

func (m *mockRoundRepo) CreateRound(_ context.Context, gameID string, number int, firstTurn, snapshot string) (*model.Round, error) {
	m.seq++
	r := &model.Round{
		ID:        fmt.Sprintf("round-%d", m.seq),
		GameID:    gameID,
		Number:    number,
		FirstTurn: firstTurn,
		Snapshot:  snapshot,
		CreatedAt: time.Now(),
	}
	m.rounds[r.ID] = r
	return r, nil
}

func (m *mockRoundRepo) CurrentRound(_ context.Context, gameID string) (*model.Round, error) {
	var latest *model.Round
	for _, r := range m.rounds {
		if r.GameID == gameID && r.Winner == "" {
			if latest == nil || r.Number > latest.Number {
				latest = r
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *mockRoundRepo) ListRounds(_ context.Context, gameID string) ([]model.Round, error) {
	var result []model.Round
	for i := 1; i <= m.seq; i++ {
		if r, ok := m.rounds[fmt.Sprintf("round-%d", i)]; ok && r.GameID == gameID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoundRepo) FinishRound(_ context.Context, roundID, finalSnapshot, winner, winType string, score int) error {
	r, ok := m.rounds[roundID]
	if !ok {
		return fmt.Errorf("round %s not found", roundID)
	}
	r.FinalSnapshot = finalSnapshot
	r.Winner = winner
	r.WinType = winType
	r.Score = score
	now := time.Now()
	r.FinishedAt = &now
	return nil
}

func (m *mockRoundRepo) SaveMove(_ context.Context, move *model.MoveRecord) error {
	move.ID = fmt.Sprintf("move-%d", len(m.moves[move.RoundID])+1)
	move.CreatedAt = time.Now()
	m.moves[move.RoundID] = append(m.moves[move.RoundID], *move)
	return nil
}

func (m *mockRoundRepo) MovesByRound(_ context.Context, roundID string) ([]model.MoveRecord, error) {
	return append([]model.MoveRecord(nil), m.moves[roundID]...), nil
}

type mockCache struct {
	mu     sync.Mutex
	states map[string]string
	rolls  map[string]int
	timers map[string]time.Time
	hints  map[string]int64
}

func newMockCache() *mockCache {
	return &mockCache{
		states: make(map[string]string),
		rolls:  make(map[string]int),
		timers: make(map[string]time.Time),
		hints:  make(map[string]int64),
	}
}

func (m *mockCache) SetGameState(_ context.Context, gameID, record string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[gameID] = record
	return nil
}

func (m *mockCache) GetGameState(_ context.Context, gameID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[gameID], nil
}

func (m *mockCache) SetPendingRoll(_ context.Context, gameID string, sum int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls[gameID] = sum
	return nil
}

func (m *mockCache) GetPendingRoll(_ context.Context, gameID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rolls[gameID], nil
}

func (m *mockCache) ClearPendingRoll(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rolls, gameID)
	return nil
}

func (m *mockCache) SetTurnTimer(_ context.Context, gameID string, deadline time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[gameID] = deadline
	return nil
}

func (m *mockCache) ClearTurnTimer(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, gameID)
	return nil
}

func (m *mockCache) IncrHintCount(_ context.Context, gameID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hints[gameID]++
	return m.hints[gameID], nil
}

func (m *mockCache) DeleteGameData(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, gameID)
	delete(m.rolls, gameID)
	delete(m.timers, gameID)
	delete(m.hints, gameID)
	return nil
}

// recordingBroadcaster captures events for assertions.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) BroadcastGameEvent(gameID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
}

func (b *recordingBroadcaster) has(eventType string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if e == eventType {
			return true
		}
	}
	return false
}
