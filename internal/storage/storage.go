// Package storage defines the Store interface — the four-operation
// key-value contract every backend must satisfy — and the retry policy
// applied uniformly to those operations.
//
// WHY AN INTERFACE?
// ─────────────────
// The scoring functions and the dispatcher should not know or care which
// engine they are talking to. By depending only on this interface:
//
//   - Switching engines (Redis in production, SQLite for local runs) is
//     one line in main.go. Zero business-logic changes.
//
//   - Writing tests = pass a stub that satisfies the interface.
//     No running server needed for unit tests.
//
// THE DURABLE / CACHE SPLIT
// ─────────────────────────
// Get and Set are load-bearing: after the retry budget is exhausted the
// connectivity failure surfaces to the caller. CacheGet and CacheSet are
// optimizations: after the same retry budget they degrade silently to a
// cache miss or a no-op, because a broken cache must never block a
// correct answer.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent from the store.
// It is a lookup outcome, not a connectivity failure, and is never retried.
var ErrNotFound = errors.New("key not found")

// ErrUnavailable wraps the final transport failure of a durable operation
// once every retry attempt has been spent.
var ErrUnavailable = errors.New("store unavailable")

// Store is the key-value contract consumed by the scoring functions.
// The cache keyspace (expiring entries) and the durable keyspace are
// partitioned by key prefix and must never collide.
type Store interface {
	// Get fetches a durable value. Returns ErrNotFound when the key is
	// absent, or an ErrUnavailable-wrapped error after exhausted retries.
	Get(key string) ([]byte, error)

	// Set writes a durable value with no expiry.
	Set(key string, value []byte) error

	// CacheGet fetches an ephemeral value. A connectivity failure is
	// indistinguishable from a miss: ok is false either way.
	CacheGet(key string) (value []byte, ok bool)

	// CacheSet writes an ephemeral value, expiring after ttl when ttl is
	// non-zero; a zero ttl pins the entry. Failures are swallowed.
	CacheSet(key string, value []byte, ttl time.Duration)
}

// RetryPolicy runs an operation up to Attempts times, sleeping Delay
// between attempts. The engines apply one policy to all four operations;
// what differs is whether the final error propagates or is swallowed.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy matches the service defaults: 5 attempts, 1s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 5, Delay: time.Second}
}

// Do invokes op until it succeeds or the attempt budget runs out, and
// returns the last error. Attempts below 1 are treated as a single try.
func (p RetryPolicy) Do(op func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(p.Delay)
		}
	}
	return err
}
