package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/pureorigins/partyd/core"
	"github.com/pureorigins/partyd/service/user"
)

// PartyInvite asks the named user into the current user's party, creating the
// party if the inviter is not in one yet.
func PartyInvite(fn core.PartyInviteFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			currentUser = userFromContext(ctx)
			p           = payloadInvite{}
		)

		err := json.NewDecoder(r.Body).Decode(&p)
		if err != nil {
			respondError(w, 0, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if p.Username == "" {
			respondError(w, 0, wrapError(ErrBadRequest, "user_name must be set"))
			return
		}

		feed, err := fn(currentUser.ID, p.Username)
		if err != nil {
			respondError(w, 0, err)
			return
		}

		respondJSON(w, http.StatusCreated, &payloadParty{feed: feed})
	}
}

// PartyAccept joins the party of the named owner, given a pending invite.
func PartyAccept(fn core.PartyAcceptFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			currentUser = userFromContext(ctx)
			p           = payloadInvite{}
		)

		err := json.NewDecoder(r.Body).Decode(&p)
		if err != nil {
			respondError(w, 0, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if p.Username == "" {
			respondError(w, 0, wrapError(ErrBadRequest, "user_name must be set"))
			return
		}

		feed, err := fn(currentUser.ID, p.Username)
		if err != nil {
			respondError(w, 0, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadParty{feed: feed})
	}
}

// PartyLeave removes the current user from their party.
func PartyLeave(fn core.PartyLeaveFunc) Handler {
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

// PartyKick removes the named user from the current user's party, be it a
// member or a pending invite. Kicking yourself is leaving.
func PartyKick(fn core.PartyKickFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			currentUser = userFromContext(ctx)
			username    = mux.Vars(r)["username"]
		)

		err := fn(currentUser.ID, username)
		if err != nil {
			respondError(w, 0, err)
			return
		}

		respondJSON(w, http.StatusNoContent, nil)
	}
}

// PartyInfo returns the current user's party with its members and pending
// invites.
func PartyInfo(fn core.PartyInfoFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		currentUser := userFromContext(ctx)

		feed, err := fn(currentUser.ID)
		if err != nil {
			respondError(w, 0, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadParty{feed: feed})
	}
}

type payloadInvite struct {
	Username string `json:"user_name"`
}

type payloadParty struct {
	feed *core.PartyFeed
}

func (p *payloadParty) MarshalJSON() ([]byte, error) {
	var (
		members = []*payloadPartyUser{}
		pending = []*payloadPartyUser{}
	)

	for _, id := range p.feed.Party.MemberIDs() {
		members = append(members, partyUser(id, p.feed.UserMap))
	}

	for _, id := range p.feed.Party.RequestIDs() {
		pending = append(pending, partyUser(id, p.feed.UserMap))
	}

	return json.Marshal(struct {
		ID             string              `json:"id"`
		Members        []*payloadPartyUser `json:"members"`
		Owner          *payloadPartyUser   `json:"owner"`
		PendingInvites []*payloadPartyUser `json:"pending_invites"`
		CreatedAt      time.Time           `json:"created_at"`
	}{
		ID:             strconv.FormatUint(p.feed.Party.ID, 10),
		Members:        members,
		Owner:          partyUser(p.feed.Party.OwnerID, p.feed.UserMap),
		PendingInvites: pending,
		CreatedAt:      p.feed.Party.CreatedAt,
	})
}

type payloadPartyUser struct {
	ID       string `json:"id"`
	Username string `json:"user_name"`
}

func partyUser(id uint64, um user.Map) *payloadPartyUser {
	p := &payloadPartyUser{
		ID: strconv.FormatUint(id, 10),
	}

	if u, ok := um[id]; ok {
		p.Username = u.Username
	}

	return p
}
