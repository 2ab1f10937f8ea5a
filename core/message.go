package core

import (
	"strings"

	"github.com/pureorigins/partyd/service/notify"
	"github.com/pureorigins/partyd/service/party"
	"github.com/pureorigins/partyd/service/user"
)

// PartyMessageFunc fans a chat line out to every member of the origin's
// party, the origin included.
type PartyMessageFunc func(originID uint64, content string) error

// PartyMessage returns a func which runs the party chat operation.
func PartyMessage(
	parties party.Service,
	users user.Service,
	notifier notify.Service,
) PartyMessageFunc {
	return func(originID uint64, content string) error {
		content = strings.TrimSpace(content)
		if content == "" {
			return wrapError(ErrInvalidEntity, "content must be set")
		}

		p, err := parties.FromMember(originID)
		if err != nil {
			return err
		}

		for _, id := range p.MemberIDs() {
			_ = notifier.Push(&notify.Notification{
				ActorID: originID,
				Kind:    notify.KindChat,
				Message: content,
				PartyID: p.ID,
				UserID:  id,
			})
		}

		return nil
	}
}

// MessageSendFunc delivers a private message to the online user with the
// given username.
type MessageSendFunc func(originID uint64, username, content string) error

// MessageSend returns a func which runs the private message operation.
func MessageSend(
	users user.Service,
	notifier notify.Service,
) MessageSendFunc {
	return func(originID uint64, username, content string) error {
		content = strings.TrimSpace(content)
		if content == "" {
			return wrapError(ErrInvalidEntity, "content must be set")
		}

		target, err := user.OneByUsername(users, username)
		if err != nil {
			if user.IsNotFound(err) {
				return wrapError(ErrNotFound, "user %s", username)
			}

			return err
		}

		_ = notifier.Push(&notify.Notification{
			ActorID: originID,
			Kind:    notify.KindPrivateMessage,
			Message: content,
			UserID:  target.ID,
		})

		return nil
	}
}
