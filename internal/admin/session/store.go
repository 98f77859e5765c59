// Package session holds server-side admin session state in Redis, keyed
// by an opaque token carried in a cookie.
package session

import (
	"context"
	"encoding/json"

	"time"

	"campus-events/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "admin_session:"

// Session is the state proven by a valid token.
type Session struct {
	AdminID  int64  `json:"admin_id"`
	Username string `json:"username"`
}

type Store interface {
	Create(ctx context.Context, sess Session) (string, error)
	Get(ctx context.Context, token string) (*Session, error)
	Destroy(ctx context.Context, token string) error
}

// RedisStore keeps sessions in Redis with a TTL, so a restart of the API
// process does not log admins out and expiry needs no sweeper.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func (s *RedisStore) Create(ctx context.Context, sess Session) (string, error) {
	token := uuid.New().String()
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.Client.Set(ctx, keyPrefix+token, payload, s.TTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	payload, err := s.Client.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Destroy is idempotent: deleting an absent token is not an error.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.Client.Del(ctx, keyPrefix+token).Err()
}
