// Package scoring contains the business functions behind the two API
// methods: computing (or recalling) a numeric score and looking up the
// precomputed interest list of a client. Both functions take the
// storage.Store interface, never a concrete engine.
package scoring

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aanand-mishra/scoring-api/internal/storage"
	"github.com/aanand-mishra/scoring-api/internal/types"
)

// scoreTTL is how long a computed score stays memoized.
const scoreTTL = time.Hour

// Score returns the score for the supplied attributes. A cached non-zero
// score short-circuits the computation entirely; otherwise the score is
// accumulated from the attribute weights, memoized, and returned. Zero is
// a legitimate result, not an error.
//
// Two concurrent callers missing the same key may both compute and write
// it; the computation is deterministic, so last write wins with the same
// value.
func Score(store storage.Store, r *types.OnlineScoreRequest) float64 {
	key := scoreCacheKey(r)
	if b, ok := store.CacheGet(key); ok {
		if cached, err := strconv.ParseFloat(string(b), 64); err == nil && cached != 0 {
			return cached
		}
	}

	var score float64
	if r.Phone.Value != "" {
		score += 1.5
	}
	if r.Email.Value != "" {
		score += 1.5
	}
	if r.Birthday.Present() && r.Gender.Present() {
		score += 1.5
	}
	if r.FirstName.Value != "" && r.LastName.Value != "" {
		score += 0.5
	}

	store.CacheSet(key, []byte(strconv.FormatFloat(score, 'g', -1, 64)), scoreTTL)
	return score
}

// scoreCacheKey derives the memoization key from first name, last name,
// phone and birthday (normalized to yyyymmdd), with the empty string
// substituted for any absent part. Email and gender are deliberately not
// part of the key; any change to its composition is a cache migration.
func scoreCacheKey(r *types.OnlineScoreRequest) string {
	var birthday string
	if r.Birthday.Present() {
		birthday = r.Birthday.Value.Format("20060102")
	}
	sum := md5.Sum([]byte(r.FirstName.Value + r.LastName.Value + r.Phone.Value + birthday))
	return "uid:" + hex.EncodeToString(sum[:])
}

// Interests returns the interest list seeded for the client by an
// external process. A missing record is a hard failure carrying
// storage.ErrNotFound — never an empty list.
func Interests(store storage.Store, clientID int) ([]string, error) {
	key := fmt.Sprintf("i:%d", clientID)
	b, err := store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("interests for client %d: %w", clientID, err)
	}
	var interests []string
	if err := json.Unmarshal(b, &interests); err != nil {
		return nil, fmt.Errorf("interests for client %d: decode: %w", clientID, err)
	}
	return interests, nil
}
