package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrInFlight = errors.New("another operation is already in progress")

// Guard rejects re-entrant flow starts for the same (wallet, action) pair.
// The key carries a TTL so an abandoned flow cannot wedge a user forever.
type Guard struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewGuard(redisClient *redis.Client, ttl time.Duration) *Guard {
	return &Guard{redisClient: redisClient, ttl: ttl}
}

// Acquire marks (wallet, action) as in flight. It returns a release func to
// call when the flow reaches a terminal state, or ErrInFlight when a prior
// invocation has not finished.
func (g *Guard) Acquire(ctx context.Context, wallet, action string) (func(), error) {
	key := fmt.Sprintf("flow:%s:%s", action, strings.ToLower(wallet))

	ok, err := g.redisClient.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("flow guard check failed: %w", err)
	}
	if !ok {
		return nil, ErrInFlight
	}

	release := func() {
		g.redisClient.Del(context.Background(), key)
	}
	return release, nil
}
