package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPattern = "user:session:%d"

// RedisStore persists sessions in Redis with a TTL. Useful when several bot
// replicas share session state; losing keys still degrades gracefully.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedisStore initializes a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get returns the stored session, or the default when no key exists.
func (s *RedisStore) Get(ctx context.Context, userID int64) (Session, error) {
	key := redisSessionKey(userID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Default(), nil
		}

		s.log.Error("failed to get session from redis", "user_id", userID, "error", err)
		return Default(), err
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		s.log.Error("failed to decode session", "user_id", userID, "error", err)
		return Default(), err
	}

	return sess, nil
}

// Set saves the session with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, userID int64, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		s.log.Error("failed to encode session", "user_id", userID, "error", err)
		return err
	}

	key := redisSessionKey(userID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.Error("failed to save session in redis", "user_id", userID, "error", err)
		return err
	}

	return nil
}

// Clear removes the stored session for the user.
func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	key := redisSessionKey(userID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to clear session", "user_id", userID, "error", err)
		return err
	}

	return nil
}

func redisSessionKey(userID int64) string {
	return fmt.Sprintf(sessionKeyPattern, userID)
}
