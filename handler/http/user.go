package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pureorigins/partyd/core"
	"github.com/pureorigins/partyd/service/user"
)

const keyUserQuery = "q"

// UserConnect registers the presence of the named user and returns it with a
// valid session token.
func UserConnect(fn core.UserConnectFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		p := payloadConnect{}

		err := json.NewDecoder(r.Body).Decode(&p)
		if err != nil {
			respondError(w, 0, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if p.Username == "" {
			respondError(w, 0, wrapError(ErrBadRequest, "user_name must be set"))
			return
		}

		u, err := fn(p.Username)
		if err != nil {
			respondError(w, 0, err)
			return
		}

		respondJSON(w, http.StatusCreated, &payloadUser{user: u, withToken: true})
	}
}

// UserDisconnect removes the current user's presence, detaching them from
// their party first.
func UserDisconnect(fn core.UserDisconnectFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		currentUser := userFromContext(ctx)

		err := fn(currentUser.ID)
		if err != nil {
			respondError(w, 0, err)
			return
		}

		respondJSON(w, http.StatusNoContent, nil)
	}
}

// UserSearch returns connected users whose name starts with the given query.
func UserSearch(fn core.UserSearchFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get(keyUserQuery)

		if query == "" {
			respondError(w, 0, wrapError(ErrBadRequest, "query must be set"))
			return
		}

		us, err := fn(query)
		if err != nil {
			respondError(w, 0, err)
			return
		}

		if len(us) == 0 {
			respondJSON(w, http.StatusNoContent, nil)
			return
		}

		respondJSON(w, http.StatusOK, &payloadUsers{users: us})
	}
}

// NotificationList drains and returns the current user's queued
// notifications.
func NotificationList(fn core.NotificationListFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		currentUser := userFromContext(ctx)

		ns, err := fn(currentUser.ID)
		if err != nil {
			respondError(w, 0, err)
			return
		}

		if len(ns) == 0 {
			respondJSON(w, http.StatusNoContent, nil)
			return
		}

		respondJSON(w, http.StatusOK, struct {
			Notifications interface{} `json:"notifications"`
		}{
			Notifications: ns,
		})
	}
}

type payloadConnect struct {
	Username string `json:"user_name"`
}

type payloadUser struct {
	user      *user.User
	withToken bool
}

func (p *payloadUser) MarshalJSON() ([]byte, error) {
	u := struct {
		ID           string    `json:"id"`
		SessionToken string    `json:"session_token,omitempty"`
		Username     string    `json:"user_name"`
		LastSeen     time.Time `json:"last_seen"`
		CreatedAt    time.Time `json:"created_at"`
	}{
		ID:        strconv.FormatUint(p.user.ID, 10),
		Username:  p.user.Username,
		LastSeen:  p.user.LastSeen,
		CreatedAt: p.user.CreatedAt,
	}

	if p.withToken {
		u.SessionToken = p.user.SessionToken
	}

	return json.Marshal(&u)
}

type payloadUsers struct {
	users user.List
}

func (p *payloadUsers) MarshalJSON() ([]byte, error) {
	ps := []*payloadUser{}

	for _, u := range p.users {
		ps = append(ps, &payloadUser{user: u})
	}

	return json.Marshal(struct {
		Users      []*payloadUser `json:"users"`
		UsersCount int            `json:"users_count"`
	}{
		Users:      ps,
		UsersCount: len(ps),
	})
}
