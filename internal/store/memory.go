package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/models"
)

// MemoryStore keeps the live persona memory blob in Redis and snapshots it
// to Postgres on every save. Load prefers Redis and falls back to the
// Postgres snapshot, so a cache flush never loses a season.
type MemoryStore struct {
	redis  RedisClient
	pg     PgPool
	logger *zap.SugaredLogger
}

func NewMemoryStore(redis RedisClient, pg PgPool, logger *zap.SugaredLogger) *MemoryStore {
	return &MemoryStore{redis: redis, pg: pg, logger: logger}
}

func memoryKey(persona string, season int) string {
	return fmt.Sprintf("memory:%s:%d", persona, season)
}

// Load returns nil with no error when the persona has no saved memory yet
func (s *MemoryStore) Load(ctx context.Context, persona string, season int) (*models.BotMemory, error) {
	data, err := s.redis.Get(ctx, memoryKey(persona, season)).Bytes()
	if err == nil {
		var mem models.BotMemory
		if err := json.Unmarshal(data, &mem); err == nil {
			return &mem, nil
		}
		s.logger.Warnw("Corrupt memory blob in Redis, falling back to snapshot", "persona", persona, "season", season)
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warnw("Redis memory load failed, falling back to snapshot", "persona", persona, "error", err)
	}

	var blob []byte
	err = s.pg.QueryRow(ctx, `
		SELECT blob FROM persona_memory WHERE persona = $1 AND season = $2
	`, persona, season).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load memory snapshot: %w", err)
	}

	var mem models.BotMemory
	if err := json.Unmarshal(blob, &mem); err != nil {
		return nil, fmt.Errorf("decode memory snapshot: %w", err)
	}
	return &mem, nil
}

func (s *MemoryStore) Save(ctx context.Context, mem *models.BotMemory) error {
	blob, err := json.Marshal(mem)
	if err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}

	if err := s.redis.Set(ctx, memoryKey(mem.Persona, mem.Season), blob, 0).Err(); err != nil {
		s.logger.Warnw("Redis memory save failed, snapshot still written", "persona", mem.Persona, "error", err)
	}

	_, err = s.pg.Exec(ctx, `
		INSERT INTO persona_memory (persona, season, blob, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (persona, season) DO UPDATE SET blob = $3, updated_at = NOW()
	`, mem.Persona, mem.Season, blob)
	if err != nil {
		return fmt.Errorf("save memory snapshot: %w", err)
	}
	return nil
}
