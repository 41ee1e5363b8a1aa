// Package api implements the dispatcher: it turns a raw envelope body
// into a validated, authenticated call to one of the registered method
// handlers, and normalizes every failure into the status taxonomy the
// clients of this service depend on.
//
// Each call goes through three phases:
//
//	parse envelope → authenticate → invoke method handler
//
// Envelope construction failures and unknown method names are invalid
// requests; an authentication failure is forbidden and carries no detail
// beyond the status. Store connectivity failures are not the dispatcher's
// to hide — they come back as internal errors for the HTTP layer to log.
package api

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aanand-mishra/scoring-api/internal/auth"
	"github.com/aanand-mishra/scoring-api/internal/scoring"
	"github.com/aanand-mishra/scoring-api/internal/storage"
	"github.com/aanand-mishra/scoring-api/internal/types"
)

// Status codes of the response taxonomy. The values are a compatibility
// surface shared with deployed clients and must not change.
const (
	StatusOK             = 200
	StatusBadRequest     = 400
	StatusForbidden      = 403
	StatusNotFound       = 404
	StatusInvalidRequest = 422
	StatusInternalError  = 500
)

var statusText = map[int]string{
	StatusBadRequest:     "Bad Request",
	StatusForbidden:      "Forbidden",
	StatusNotFound:       "Not Found",
	StatusInvalidRequest: "Invalid Request",
	StatusInternalError:  "Internal Server Error",
}

// StatusText returns the canonical message for an error status.
func StatusText(code int) string {
	return statusText[code]
}

// Registered method names. The set is closed: anything else is an
// invalid request, not a routing miss — the method name is user input.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

// Context collects per-call observability metadata for the HTTP layer to
// log: which argument keys a score call supplied, how many clients an
// interests call asked about.
type Context map[string]any

// Handler dispatches validated envelope requests to the method handlers.
type Handler struct {
	auth  *auth.Authenticator
	store storage.Store
}

// New returns a Handler bound to the given authenticator and store.
func New(a *auth.Authenticator, store storage.Store) *Handler {
	return &Handler{auth: a, store: store}
}

// Handle runs one call. It returns the response payload with StatusOK, or
// a nil payload with an error status and the error describing why. The
// HTTP layer maps StatusInternalError results to its own logging path;
// everything else is safe to surface to the caller.
func (h *Handler) Handle(body map[string]any, ctx Context) (any, int, error) {
	req, err := types.NewMethodRequest(body)
	if err != nil {
		return nil, StatusInvalidRequest, err
	}

	if !h.auth.Check(req) {
		return nil, StatusForbidden, errors.New(StatusText(StatusForbidden))
	}

	switch req.Method.Value {
	case MethodOnlineScore:
		return h.onlineScore(req, ctx)
	case MethodClientsInterests:
		return h.clientsInterests(req, ctx)
	default:
		return nil, StatusInvalidRequest, fmt.Errorf("unknown method %q", req.Method.Value)
	}
}

func (h *Handler) onlineScore(req *types.MethodRequest, ctx Context) (any, int, error) {
	r, err := types.NewOnlineScoreRequest(req.Arguments.Value)
	if err != nil {
		return nil, StatusInvalidRequest, err
	}

	ctx["has"] = suppliedKeys(req.Arguments.Value)

	score := scoring.Score(h.store, r)
	return map[string]any{"score": score}, StatusOK, nil
}

func (h *Handler) clientsInterests(req *types.MethodRequest, ctx Context) (any, int, error) {
	r, err := types.NewClientsInterestsRequest(req.Arguments.Value)
	if err != nil {
		return nil, StatusInvalidRequest, err
	}

	ctx["nclients"] = len(r.ClientIDs.Value)

	interests := make(map[string][]string, len(r.ClientIDs.Value))
	for _, id := range r.ClientIDs.Value {
		list, err := scoring.Interests(h.store, id)
		if errors.Is(err, storage.ErrNotFound) {
			// A client without a seeded record stays an invalid request
			// for client compatibility; 404 belongs to the HTTP layer's
			// unknown-path case.
			return nil, StatusInvalidRequest, err
		}
		if err != nil {
			return nil, StatusInternalError, err
		}
		interests[strconv.Itoa(id)] = list
	}
	return interests, StatusOK, nil
}

func suppliedKeys(args map[string]any) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
