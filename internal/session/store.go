package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound is returned when no payload exists for a session ID.
var ErrSessionNotFound = errors.New("session not found")

// Data is the server-side session payload. The cookie only references it.
type Data struct {
	Values map[string]string `json:"values"`
	Flash  map[string]string `json:"flash"`
}

// NewData returns an empty session payload.
func NewData() *Data {
	return &Data{
		Values: make(map[string]string),
		Flash:  make(map[string]string),
	}
}

// Store persists session payloads. Unlike the read-through cache this must
// report real errors: a sign-in that silently fails to persist its session
// would leave the user with a dead cookie.
type Store interface {
	Save(ctx context.Context, sessionID string, data *Data, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*Data, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Save(ctx context.Context, sessionID string, data *Data, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*Data, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("unmarshal session data: %w", err)
	}
	if data.Values == nil {
		data.Values = make(map[string]string)
	}
	if data.Flash == nil {
		data.Flash = make(map[string]string)
	}
	return &data, nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
