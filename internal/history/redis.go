package history

import (
	"context"
	"os"

	"translatorgo/internal/core"
	"translatorgo/internal/util"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "translatorgo:session:"

// RedisStore persists session histories in Redis, one key per session.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	prefix string
	limit  int
}

// RedisStoreConfig Redis history store config
type RedisStoreConfig struct {
	URL    string
	Prefix string
	Limit  int
}

// NewRedisStore connects to Redis and returns a history store.
func NewRedisStore(config RedisStoreConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = sessionKeyPrefix
	}
	limit := config.Limit
	if limit <= 0 {
		limit = core.DefaultHistoryLimit
	}

	return &RedisStore{client: client, ctx: ctx, prefix: prefix, limit: limit}, nil
}

func (rs *RedisStore) key(sessionID string) string {
	return rs.prefix + sessionID
}

// GetHistory returns the session's turns in insertion order.
func (rs *RedisStore) GetHistory(sessionID string) ([]core.Turn, error) {
	val, err := rs.client.Get(rs.ctx, rs.key(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var turns []core.Turn
	if err := util.UnmarshalJSON([]byte(val), &turns); err != nil {
		// Corrupt value, start fresh
		return nil, nil
	}
	return turns, nil
}

// AppendMessage appends one turn and evicts the oldest beyond the cap.
func (rs *RedisStore) AppendMessage(sessionID, role, content, insight string) ([]core.Turn, error) {
	turns, err := rs.GetHistory(sessionID)
	if err != nil {
		return nil, err
	}

	turns = capTurns(append(turns, core.Turn{Role: role, Content: content, Insight: insight}), rs.limit)

	data, err := util.MarshalJSON(turns)
	if err != nil {
		return nil, err
	}
	if err := rs.client.Set(rs.ctx, rs.key(sessionID), data, 0).Err(); err != nil {
		return nil, err
	}
	return turns, nil
}

// ClearHistory removes the session's log.
func (rs *RedisStore) ClearHistory(sessionID string) error {
	return rs.client.Del(rs.ctx, rs.key(sessionID)).Err()
}

// Close closes the Redis connection.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

// InitStore selects the history backend: Redis when REDIS_URL is set and
// reachable, a JSON file otherwise.
func InitStore(filePath string, limit int, logger core.Logger) (core.HistoryStore, error) {
	redisURL := os.Getenv("REDIS_URL")

	if redisURL != "" {
		redisStore, err := NewRedisStore(RedisStoreConfig{URL: redisURL, Limit: limit})
		if err != nil {
			logger.Warn("Failed to initialize Redis history store: %v, falling back to file store", err)
			return NewFileStore(filePath, limit)
		}
		logger.Info("Using Redis history store")
		return redisStore, nil
	}

	logger.Info("Using file history store at %s", filePath)
	return NewFileStore(filePath, limit)
}
