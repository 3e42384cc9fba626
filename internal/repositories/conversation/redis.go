package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-dialogue/internal/redis"
)

const (
	// Key pattern: dialogue:turns:{npc_id}:{player_id}
	turnsKeyPrefix = "dialogue:turns:"

	DefaultTTL      = 30 * 24 * time.Hour
	DefaultMaxTurns = 200

	errNPCIDEmpty    = "npc ID cannot be empty"
	errPlayerIDEmpty = "player ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
	// TTL is how long an idle history is kept
	TTL time.Duration
	// MaxTurns caps the retained history
	MaxTurns int64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client   redisclient.Client
	clock    clock.Clock
	ttl      time.Duration
	maxTurns int64
}

// NewRedisRepository creates a new Redis repository for dialogue history
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	return &redisRepository{
		client:   cfg.Client,
		clock:    cfg.Clock,
		ttl:      ttl,
		maxTurns: maxTurns,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Append pushes turns, trims the list to the newest MaxTurns and refreshes the TTL
func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateIDs(input.NPCID, input.PlayerID); err != nil {
		return nil, err
	}
	if len(input.Turns) == 0 {
		return nil, errors.InvalidArgument("at least one turn is required")
	}

	now := r.clock.Now()
	values := make([]any, 0, len(input.Turns))
	for _, turn := range input.Turns {
		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = now
		}
		turnJSON, err := json.Marshal(turn)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal turn")
		}
		values = append(values, turnJSON)
	}

	key := r.buildKey(input.NPCID, input.PlayerID)

	var push *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		push = pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, -r.maxTurns, -1)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to append turns in Redis")
	}

	length := push.Val()
	if length > r.maxTurns {
		length = r.maxTurns
	}

	return &AppendOutput{
		Length: length,
	}, nil
}

// Recent reads the newest turns in chronological order
func (r *redisRepository) Recent(ctx context.Context, input RecentInput) (*RecentOutput, error) {
	if err := validateIDs(input.NPCID, input.PlayerID); err != nil {
		return nil, err
	}

	start := int64(0)
	if input.Limit > 0 {
		start = -int64(input.Limit)
	}

	key := r.buildKey(input.NPCID, input.PlayerID)
	raw, err := r.client.LRange(ctx, key, start, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read turns from Redis")
	}

	turns := make([]Turn, 0, len(raw))
	for _, item := range raw {
		var turn Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal turn")
		}
		turns = append(turns, turn)
	}

	return &RecentOutput{
		Turns: turns,
	}, nil
}

// Clear deletes the history
func (r *redisRepository) Clear(ctx context.Context, input ClearInput) (*ClearOutput, error) {
	if err := validateIDs(input.NPCID, input.PlayerID); err != nil {
		return nil, err
	}

	key := r.buildKey(input.NPCID, input.PlayerID)

	var length *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		length = pipe.LLen(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to clear turns in Redis")
	}

	return &ClearOutput{
		TurnsDeleted: length.Val(),
	}, nil
}

func validateIDs(npcID, playerID string) error {
	if npcID == "" {
		return errors.InvalidArgument(errNPCIDEmpty)
	}
	if playerID == "" {
		return errors.InvalidArgument(errPlayerIDEmpty)
	}
	return nil
}

// buildKey creates the Redis key for a history
func (r *redisRepository) buildKey(npcID, playerID string) string {
	return fmt.Sprintf("%s%s:%s", turnsKeyPrefix, npcID, playerID)
}
