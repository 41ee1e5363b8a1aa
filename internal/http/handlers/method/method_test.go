package method

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/scoring-api/internal/api"
	"github.com/aanand-mishra/scoring-api/internal/auth"
	"github.com/aanand-mishra/scoring-api/internal/storage"
)

type stubStore struct {
	durable map[string][]byte
	cache   map[string][]byte
}

func newStubStore() *stubStore {
	return &stubStore{
		durable: make(map[string][]byte),
		cache:   make(map[string][]byte),
	}
}

func (s *stubStore) Get(key string) ([]byte, error) {
	v, ok := s.durable[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (s *stubStore) Set(key string, value []byte) error { s.durable[key] = value; return nil }

func (s *stubStore) CacheGet(key string) ([]byte, bool) {
	v, ok := s.cache[key]
	return v, ok
}

func (s *stubStore) CacheSet(key string, value []byte, ttl time.Duration) { s.cache[key] = value }

func newTestHandler(store storage.Store) (http.HandlerFunc, *auth.Authenticator) {
	a := auth.New("admin", "salt", "admin-salt")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, api.New(a, store)), a
}

func post(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if raw, ok := body.(string); ok {
		buf.WriteString(raw)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, "/method", &buf)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestOnlineScoreEndToEnd(t *testing.T) {
	handler, a := newTestHandler(newStubStore())

	rec := post(t, handler, map[string]any{
		"account": "horns&hoofs",
		"login":   "h&f",
		"token":   a.UserDigest("horns&hoofs", "h&f"),
		"method":  "online_score",
		"arguments": map[string]any{
			"phone": "79175002040",
			"email": "a@b",
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload struct {
		Response map[string]float64 `json:"response"`
		Code     int                `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, http.StatusOK, payload.Code)
	assert.Equal(t, float64(3), payload.Response["score"])
}

func TestClientsInterestsEndToEnd(t *testing.T) {
	store := newStubStore()
	store.durable["i:1"] = []byte(`["books"]`)
	store.durable["i:2"] = []byte(`["travel","music"]`)
	handler, a := newTestHandler(store)

	rec := post(t, handler, map[string]any{
		"account": "horns&hoofs",
		"login":   "h&f",
		"token":   a.UserDigest("horns&hoofs", "h&f"),
		"method":  "clients_interests",
		"arguments": map[string]any{
			"client_ids": []int{1, 2},
			"date":       "19.07.2017",
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Response map[string][]string `json:"response"`
		Code     int                 `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Response, 2)
	assert.Equal(t, []string{"books"}, payload.Response["1"])
	assert.Equal(t, []string{"travel", "music"}, payload.Response["2"])
}

func TestEmptyEnvelopeIsInvalid(t *testing.T) {
	handler, _ := newTestHandler(newStubStore())

	rec := post(t, handler, map[string]any{})

	assert.Equal(t, api.StatusInvalidRequest, rec.Code)

	var payload struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, api.StatusInvalidRequest, payload.Code)
	assert.NotEmpty(t, payload.Error)
}

func TestWrongTokenIsForbidden(t *testing.T) {
	handler, _ := newTestHandler(newStubStore())

	rec := post(t, handler, map[string]any{
		"account":   "horns&hoofs",
		"login":     "h&f",
		"token":     "deadbeef",
		"method":    "online_score",
		"arguments": map[string]any{"phone": "79175002040", "email": "a@b"},
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var payload struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Forbidden", payload.Error)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	handler, _ := newTestHandler(newStubStore())

	for _, body := range []string{"", "{broken", "null"} {
		rec := post(t, handler, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestNotFoundSpeaksJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound()(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var payload struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Not Found", payload.Error)
}
