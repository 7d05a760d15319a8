package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key patterns for Redis game state.
func stateKey(gameID string) string { return "game:" + gameID + ":state" }
func rollKey(gameID string) string  { return "game:" + gameID + ":roll" }
func timerKey(gameID string) string { return "game:" + gameID + ":timer" }
func hintKey(gameID string) string  { return "game:" + gameID + ":hints" }

// SetGameState stores the encoded save record of the live game.
func (c *Client) SetGameState(ctx context.Context, gameID, record string) error {
	return c.rdb.Set(ctx, stateKey(gameID), record, 0).Err()
}

// GetGameState retrieves the encoded save record, or "" when absent.
func (c *Client) GetGameState(ctx context.Context, gameID string) (string, error) {
	record, err := c.rdb.Get(ctx, stateKey(gameID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get game state: %w", err)
	}
	return record, nil
}

// SetPendingRoll stores the dice sum the human has rolled but not yet
// played, so a reconnect resumes from the same roll.
func (c *Client) SetPendingRoll(ctx context.Context, gameID string, sum int) error {
	return c.rdb.Set(ctx, rollKey(gameID), sum, 0).Err()
}

// GetPendingRoll returns the unplayed dice sum, or 0 when none.
func (c *Client) GetPendingRoll(ctx context.Context, gameID string) (int, error) {
	sum, err := c.rdb.Get(ctx, rollKey(gameID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get pending roll: %w", err)
	}
	return sum, nil
}

// ClearPendingRoll removes the stored roll once it has been played.
func (c *Client) ClearPendingRoll(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, rollKey(gameID)).Err()
}

// turnGracePeriod is the extra time after the displayed deadline before
// the turn is auto-passed, giving the player a few seconds of leeway.
const turnGracePeriod = 5 * time.Second

// SetTurnTimer creates a timer key with a TTL. When the key expires,
// Redis keyspace notifications trigger an automatic turn pass.
func (c *Client) SetTurnTimer(ctx context.Context, gameID string, deadline time.Time) error {
	ttl := time.Until(deadline) + turnGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(gameID), deadline.Unix(), ttl).Err()
}

// ClearTurnTimer removes the turn timer for a game.
func (c *Client) ClearTurnTimer(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, timerKey(gameID)).Err()
}

// IncrHintCount bumps and returns the number of hints requested.
func (c *Client) IncrHintCount(ctx context.Context, gameID string) (int64, error) {
	return c.rdb.Incr(ctx, hintKey(gameID)).Result()
}

// DeleteGameData removes all Redis data for a game (on game end).
func (c *Client) DeleteGameData(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, stateKey(gameID), rollKey(gameID), timerKey(gameID), hintKey(gameID)).Err()
}

// TimerGameID extracts the game ID from an expired timer key, or ""
// when the key is not a turn timer.
func TimerGameID(key string) string {
	const prefix, suffix = "game:", ":timer"
	if len(key) <= len(prefix)+len(suffix) || key[:len(prefix)] != prefix || key[len(key)-len(suffix):] != suffix {
		return ""
	}
	return key[len(prefix) : len(key)-len(suffix)]
}
