// Package sink persists finished-game results to an external append-only
// store. Writes are best-effort by contract: callers log failures and keep
// going, so an unreachable store never affects a running game.
package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/launchday/trivia/internal/game"
)

// Redis appends result rows to a per-game list.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func key(gameID string) string {
	return "results:" + gameID
}

func (s *Redis) Append(ctx context.Context, gameID string, records []game.ResultRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]any, 0, len(records))
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding result record: %w", err)
		}
		rows = append(rows, data)
	}
	if err := s.client.RPush(ctx, key(gameID), rows...).Err(); err != nil {
		return fmt.Errorf("appending results for %s: %w", gameID, err)
	}
	return nil
}

func (s *Redis) Clear(ctx context.Context, gameID string) error {
	if err := s.client.Del(ctx, key(gameID)).Err(); err != nil {
		return fmt.Errorf("clearing results for %s: %w", gameID, err)
	}
	return nil
}
