package core

import (
	"github.com/pureorigins/partyd/platform/config"
	"github.com/pureorigins/partyd/service/notify"
	"github.com/pureorigins/partyd/service/party"
	"github.com/pureorigins/partyd/service/user"
)

// UserConnectFunc registers a session for the username and returns it with
// the session token set.
type UserConnectFunc func(username string) (*user.User, error)

// UserConnect returns a func which registers presence of a user.
func UserConnect(users user.Service) UserConnectFunc {
	return func(username string) (*user.User, error) {
		u, err := users.Put(&user.User{
			Enabled:  true,
			Username: username,
		})
		if err != nil {
			if user.IsInvalidUser(err) {
				return nil, wrapError(ErrInvalidEntity, "%s", err)
			}

			return nil, err
		}

		return u, nil
	}
}

// UserDisconnectFunc tears down the session of the origin: their party
// membership ends, their held invites are withdrawn and their presence entry
// is disabled.
type UserDisconnectFunc func(originID uint64) error

// UserDisconnect returns a func which handles the disconnect signal.
func UserDisconnect(
	parties party.Service,
	users user.Service,
	notifier notify.Service,
	expires *Expirations,
	msgs config.Messages,
) UserDisconnectFunc {
	return func(originID uint64) error {
		res, err := parties.Left(originID)
		if err != nil {
			return err
		}

		if res.Party != nil {
			notifyLeave(users, notifier, expires, msgs, res)
		}

		for _, p := range res.Withdrawn {
			expires.Cancel(p.ID, originID)
		}

		um, err := user.MapFromIDs(users, originID)
		if err != nil {
			return err
		}

		u, ok := um[originID]
		if !ok {
			return wrapError(ErrNotFound, "user %d", originID)
		}

		u.Enabled = false

		if _, err := users.Put(u); err != nil {
			return err
		}

		return nil
	}
}

// UserSearchFunc returns the online users whose username starts with the
// prefix, for command suggestions.
type UserSearchFunc func(prefix string) (user.List, error)

// UserSearch returns a func which runs a presence prefix search.
func UserSearch(users user.Service) UserSearchFunc {
	return func(prefix string) (user.List, error) {
		return users.Search(prefix)
	}
}
