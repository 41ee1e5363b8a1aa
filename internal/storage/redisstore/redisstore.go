// Package redisstore provides the Redis-backed implementation of the
// storage.Store interface. This is the production engine: the ephemeral
// score cache lives alongside the durable interest records in the same
// Redis instance, separated by key prefix.
package redisstore

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-redis/redis"

	"github.com/aanand-mishra/scoring-api/internal/config"
	"github.com/aanand-mishra/scoring-api/internal/storage"
)

// Redis is the concrete implementation of storage.Store.
// A single *redis.Client manages its own connection pool and is safe for
// concurrent use by multiple goroutines.
type Redis struct {
	client *redis.Client
	retry  storage.RetryPolicy
}

// New builds the client from the configured endpoint and timeouts.
// Connections are opened lazily — an unreachable server surfaces on the
// first operation, bounded by the retry budget, not at startup.
func New(cfg *config.Config) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Storage.Redis.Host, strconv.Itoa(cfg.Storage.Redis.Port)),
		DialTimeout:  cfg.Storage.Redis.ConnectTimeout,
		ReadTimeout:  cfg.Storage.Redis.SocketTimeout,
		WriteTimeout: cfg.Storage.Redis.SocketTimeout,
	})
	return &Redis{
		client: client,
		retry: storage.RetryPolicy{
			Attempts: cfg.Storage.RetryAttempts,
			Delay:    cfg.Storage.RetryDelay,
		},
	}
}

// get runs one retried GET. A redis.Nil reply is a successful miss and is
// never retried; only transport failures consume the retry budget.
func (r *Redis) get(key string) (value []byte, found bool, err error) {
	err = r.retry.Do(func() error {
		b, err := r.client.Get(key).Bytes()
		if err == redis.Nil {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		value, found = b, true
		return nil
	})
	return value, found, err
}

// Get fetches a durable value, surfacing the final transport failure.
func (r *Redis) Get(key string) ([]byte, error) {
	value, found, err := r.get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: get %q: %v", storage.ErrUnavailable, key, err)
	}
	if !found {
		return nil, storage.ErrNotFound
	}
	return value, nil
}

// Set writes a durable value with no expiry.
func (r *Redis) Set(key string, value []byte) error {
	err := r.retry.Do(func() error {
		return r.client.Set(key, value, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("%w: set %q: %v", storage.ErrUnavailable, key, err)
	}
	return nil
}

// CacheGet fetches an ephemeral value; transport failures degrade to a miss.
func (r *Redis) CacheGet(key string) ([]byte, bool) {
	value, found, err := r.get(key)
	if err != nil {
		return nil, false
	}
	return value, found
}

// CacheSet writes an ephemeral value; transport failures are swallowed.
func (r *Redis) CacheSet(key string, value []byte, ttl time.Duration) {
	_ = r.retry.Do(func() error {
		return r.client.Set(key, value, ttl).Err()
	})
}

// Close releases the client's connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
