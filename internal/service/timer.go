package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	redisrepo "github.com/drajakumar/canoga/internal/repository/redis"
)

// TimerListener listens for Redis keyspace notifications on expired
// turn-timer keys and auto-passes the overdue turn. A polling fallback
// catches expirations if keyspace notifications are unavailable.
type TimerListener struct {
	rdb     *redis.Client
	playSvc *PlayService
}

// NewTimerListener creates a TimerListener.
func NewTimerListener(rdb *redis.Client, playSvc *PlayService) *TimerListener {
	return &TimerListener{rdb: rdb, playSvc: playSvc}
}

// Start begins listening for expired key events and runs the polling
// fallback. Blocks until ctx is canceled.
func (t *TimerListener) Start(ctx context.Context) {
	go t.listenKeyspace(ctx)
	t.pollOverdueTurns(ctx)
}

// listenKeyspace subscribes to Redis keyspace notifications for expired keys.
func (t *TimerListener) listenKeyspace(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("Timer listener started, listening for expired keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

// pollOverdueTurns periodically sweeps live games for overdue turns.
func (t *TimerListener) pollOverdueTurns(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	log.Info().Msg("Turn deadline poller started (10s interval)")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Turn deadline poller stopped")
			return
		case <-ticker.C:
			t.playSvc.ExpireOverdue(ctx)
		}
	}
}

// handleExpiry processes an expired key. Only acts on turn timer keys.
func (t *TimerListener) handleExpiry(ctx context.Context, key string) {
	gameID := redisrepo.TimerGameID(key)
	if gameID == "" {
		return
	}
	log.Info().Str("gameId", gameID).Msg("Turn timer expired, auto-passing turn")
	if err := t.playSvc.AutoPass(ctx, gameID); err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("Auto-pass failed after timer expiry")
	}
}
