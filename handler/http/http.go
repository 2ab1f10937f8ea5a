package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pureorigins/partyd/core"
	"github.com/pureorigins/partyd/service/party"
	"github.com/pureorigins/partyd/service/user"
)

// Handler is the gateway specific http.HandlerFunc expecting a context.Context.
type Handler func(context.Context, http.ResponseWriter, *http.Request)

// Middleware can be used to chain Handlers with different responsibilities.
type Middleware func(Handler) Handler

// Chain takes a variadic number of Middlewares and returns a combined
// Middleware.
func Chain(ms ...Middleware) Middleware {
	return func(handler Handler) Handler {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}

		return handler
	}
}

// Wrap takes a Middleware and Handler and returns an http.HandlerFunc.
func Wrap(
	middleware Middleware,
	handler Handler,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware(handler)(context.Background(), w, r)
	}
}

// Health responds with the liveliness of the process. The directory is held
// in memory, so a responding process is a healthy one.
func Health(start time.Time) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, &struct {
			Healthy bool   `json:"healthy"`
			Uptime  string `json:"uptime"`
		}{
			Healthy: true,
			Uptime:  time.Since(start).Round(time.Second).String(),
		})
	}
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, code int, err error) {
	statusCode := http.StatusInternalServerError

	switch unwrapError(err) {
	case ErrBadRequest:
		statusCode = http.StatusBadRequest
	case ErrUnauthorized:
		statusCode = http.StatusUnauthorized
	case core.ErrInvalidEntity:
		statusCode = http.StatusBadRequest
	case core.ErrNotFound:
		statusCode = http.StatusNotFound
	}

	switch {
	case party.IsNotFound(err), party.IsNotInParty(err), party.IsTargetNotInParty(err):
		statusCode = http.StatusNotFound
	case party.IsNotOwner(err), party.IsNotMember(err):
		statusCode = http.StatusForbidden
	case party.IsAlreadyInvited(err),
		party.IsAlreadyMember(err),
		party.IsAlreadyRequested(err):
		statusCode = http.StatusConflict
	case party.IsSelfInvite(err), party.IsNotInvited(err):
		statusCode = http.StatusBadRequest
	case user.IsNotFound(err):
		statusCode = http.StatusNotFound
	case user.IsExists(err):
		statusCode = http.StatusConflict
	case user.IsInvalidUser(err):
		statusCode = http.StatusBadRequest
	}

	respondJSON(w, statusCode, struct {
		Errors []apiError `json:"errors"`
	}{
		Errors: []apiError{
			{Code: code, Message: err.Error()},
		},
	})
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
