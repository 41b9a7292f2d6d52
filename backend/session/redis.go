package session

import (
	"context"
	"encoding/json"
	"time"

	"studyhub/backend/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL   = 10 * time.Second
	lockRetry = 20 * time.Millisecond
)

// unlockScript deletes the lock only while it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisStore keeps sessions in redis so they survive restarts and are shared
// between instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", addr)
	}
	return client, nil
}

func (r *RedisStore) put(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding session value")
	}
	return errors.Wrap(r.client.Set(ctx, key, data, r.ttl).Err(), "writing session value")
}

func (r *RedisStore) get(ctx context.Context, key string, v interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "reading session value")
	}
	return errors.Wrap(json.Unmarshal(data, v), "decoding session value")
}

func (r *RedisStore) SaveSession(ctx context.Context, s *models.TestSession) error {
	return r.put(ctx, sessionKey(s.ID), s)
}

func (r *RedisStore) GetSession(ctx context.Context, id string) (*models.TestSession, error) {
	var s models.TestSession
	if err := r.get(ctx, sessionKey(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, id string) error {
	return errors.Wrap(r.client.Del(ctx, sessionKey(id)).Err(), "deleting session")
}

func (r *RedisStore) SaveResult(ctx context.Context, res *models.TestResult) error {
	return r.put(ctx, resultKey(res.SessionID), res)
}

func (r *RedisStore) GetResult(ctx context.Context, id string) (*models.TestResult, error) {
	var res models.TestResult
	if err := r.get(ctx, resultKey(id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Lock spins on SET NX until it owns the session lock or ctx is done. The lock
// expires after lockTTL.
func (r *RedisStore) Lock(ctx context.Context, id string) (func(), error) {
	key, token := lockKey(id), uuid.NewString()
	for {
		ok, err := r.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, errors.Wrap(err, "acquiring session lock")
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "waiting for session lock")
		case <-time.After(lockRetry):
		}
	}
	return func() {
		_ = unlockScript.Run(context.Background(), r.client, []string{key}, token).Err()
	}, nil
}
