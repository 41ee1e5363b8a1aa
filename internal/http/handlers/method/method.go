// Package method contains the HTTP shell around the dispatcher: it owns
// request framing (decode the JSON body, pick up the request id), hands
// the raw body to api.Handler, and writes the response envelope.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ──────────────────────────────────────────────────────────
// New(log, handler) is called once at startup; it captures its
// dependencies and returns the http.HandlerFunc the router needs.
// The router never sees the dispatcher or the store directly.
package method

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aanand-mishra/scoring-api/internal/api"
	"github.com/aanand-mishra/scoring-api/internal/utils/response"
)

// New handles POST /method. The body is the raw envelope mapping; the
// reply is the response envelope with the dispatcher's status taxonomy.
//
// An empty or malformed body is a bad request — it never reaches the
// dispatcher. Internal errors (store unreachable after retries) are
// logged here with the full error and surfaced to the client as the
// bare canonical message.
func New(log *slog.Logger, handler *api.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := requestID(r)

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
			log.Info("bad request body", slog.String("request_id", rid))
			response.WriteError(w, api.StatusBadRequest, "")
			return
		}

		log.Info("method call",
			slog.String("request_id", rid),
			slog.Any("method", body["method"]),
		)

		ctx := api.Context{"request_id": rid}
		payload, code, err := handler.Handle(body, ctx)

		switch {
		case code == api.StatusInternalError:
			log.Error("unexpected error",
				slog.String("request_id", rid),
				slog.String("error", err.Error()),
			)
			response.WriteError(w, code, "")
		case err != nil:
			response.WriteError(w, code, err.Error())
		default:
			response.WriteSuccess(w, code, payload)
		}

		log.Info("method call finished",
			slog.Int("code", code),
			slog.Any("context", ctx),
		)
	}
}

// NotFound replies with the response envelope for unknown paths, so even
// routing misses speak the service's JSON dialect.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, api.StatusNotFound, "")
	}
}

// requestID returns the caller-supplied X-Request-Id or generates one.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return uuid.NewString()
}
