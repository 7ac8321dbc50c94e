package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Redis hashes maintained by the ingest worker
const (
	rosterNamesKey = "league:roster_names"
	playerNamesKey = "league:player_names"
)

// NameTable resolves roster and player ids to display names from the Redis
// tables the ingest worker maintains. Unknown ids get a synthetic
// placeholder so downstream formatting never fails.
type NameTable struct {
	redis  RedisClient
	logger *zap.SugaredLogger
}

func NewNameTable(redis RedisClient, logger *zap.SugaredLogger) *NameTable {
	return &NameTable{redis: redis, logger: logger}
}

func (t *NameTable) RosterName(ctx context.Context, rosterID int) string {
	name, err := t.redis.HGet(ctx, rosterNamesKey, fmt.Sprintf("%d", rosterID)).Result()
	if err != nil || name == "" {
		return fmt.Sprintf("Roster %d", rosterID)
	}
	return name
}

func (t *NameTable) PlayerName(ctx context.Context, playerID string) string {
	name, err := t.redis.HGet(ctx, playerNamesKey, playerID).Result()
	if err != nil || name == "" {
		return fmt.Sprintf("Player %s", playerID)
	}
	return name
}
