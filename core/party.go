package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/pureorigins/partyd/platform/config"
	"github.com/pureorigins/partyd/platform/schedule"
	"github.com/pureorigins/partyd/service/notify"
	"github.com/pureorigins/partyd/service/party"
	"github.com/pureorigins/partyd/service/user"
)

// PartyFeed is the composite to transport party information together with the
// users referenced by it.
type PartyFeed struct {
	Party   *party.Party
	UserMap user.Map
}

// Expirations tracks the cancel handles of scheduled invite expirations,
// keyed by the (party, user) pair which identifies a pending invite. A stale
// handle firing anyway is harmless, the directory's own guard rejects it.
type Expirations struct {
	mu      sync.Mutex
	cancels map[inviteKey]schedule.Cancel
}

type inviteKey struct {
	partyID uint64
	userID  uint64
}

// NewExpirations returns an empty expiration tracker.
func NewExpirations() *Expirations {
	return &Expirations{
		cancels: map[inviteKey]schedule.Cancel{},
	}
}

// Track stores the handle for the pending invite, cancelling any handle the
// pair still holds from an earlier invite.
func (e *Expirations) Track(partyID, userID uint64, c schedule.Cancel) {
	key := inviteKey{partyID: partyID, userID: userID}

	e.mu.Lock()
	old := e.cancels[key]
	e.cancels[key] = c
	e.mu.Unlock()

	if old != nil {
		old()
	}
}

// Cancel stops and forgets the handle of the pair, if any.
func (e *Expirations) Cancel(partyID, userID uint64) {
	key := inviteKey{partyID: partyID, userID: userID}

	e.mu.Lock()
	c := e.cancels[key]
	delete(e.cancels, key)
	e.mu.Unlock()

	if c != nil {
		c()
	}
}

// Forget drops the handle of the pair without cancelling, used by the
// expiration task itself once it fired.
func (e *Expirations) Forget(partyID, userID uint64) {
	e.mu.Lock()
	delete(e.cancels, inviteKey{partyID: partyID, userID: userID})
	e.mu.Unlock()
}

// Pending returns the number of tracked handles.
func (e *Expirations) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.cancels)
}

// PartyInviteFunc invites the user with the given username into the origin's
// party, synthesizing the party when the origin has none.
type PartyInviteFunc func(originID uint64, username string) (*PartyFeed, error)

// PartyInvite returns a func which runs the invite operation and schedules
// its expiration. Notifications and timers are dispatched after the
// directory mutation completed.
func PartyInvite(
	parties party.Service,
	users user.Service,
	notifier notify.Service,
	scheduler schedule.Scheduler,
	expires *Expirations,
	msgs config.Messages,
	expiration time.Duration,
) PartyInviteFunc {
	expire := partyExpire(parties, users, notifier, expires, msgs)

	return func(originID uint64, username string) (*PartyFeed, error) {
		origin, target, err := resolvePair(users, originID, username)
		if err != nil {
			return nil, err
		}

		res, err := parties.Invite(originID, target.ID)
		if err != nil {
			return nil, err
		}

		if res.Created {
			_ = notifier.Push(&notify.Notification{
				Kind:    notify.KindPartyCreated,
				Message: msgs.PartyCreated,
				PartyID: res.Party.ID,
				UserID:  originID,
			})
		}

		_ = notifier.Push(&notify.Notification{
			ActorID: originID,
			Kind:    notify.KindInviteReceived,
			Message: fmt.Sprintf(msgs.InviteReceived, origin.Username),
			PartyID: res.Party.ID,
			UserID:  target.ID,
		})

		_ = notifier.Push(&notify.Notification{
			ActorID: target.ID,
			Kind:    notify.KindInviteSent,
			Message: fmt.Sprintf(msgs.InviteSent, target.Username),
			PartyID: res.Party.ID,
			UserID:  originID,
		})

		partyID := res.Party.ID
		targetID := target.ID

		expires.Track(partyID, targetID, scheduler.After(expiration, func() {
			expire(partyID, targetID)
		}))

		return feed(users, res.Party)
	}
}

// partyExpire returns the task body run when an invite expiration fires. The
// directory's not-invited guard makes a stale firing a no-op, so an accept
// which won the race is never undone.
func partyExpire(
	parties party.Service,
	users user.Service,
	notifier notify.Service,
	expires *Expirations,
	msgs config.Messages,
) func(partyID, targetID uint64) {
	return func(partyID, targetID uint64) {
		expires.Forget(partyID, targetID)

		res, err := parties.CancelInvite(partyID, targetID)
		if err != nil {
			return
		}

		owner := lookupUsername(users, res.Party.OwnerID)

		_ = notifier.Push(&notify.Notification{
			ActorID: res.Party.OwnerID,
			Kind:    notify.KindInviteExpired,
			Message: fmt.Sprintf(msgs.InviteExpired, owner),
			PartyID: partyID,
			UserID:  targetID,
		})
	}
}

// PartyAcceptFunc joins the origin to the party of the user with the given
// username, leaving any prior party first.
type PartyAcceptFunc func(originID uint64, username string) (*PartyFeed, error)

// PartyAccept returns a func which runs the accept operation.
func PartyAccept(
	parties party.Service,
	users user.Service,
	notifier notify.Service,
	expires *Expirations,
	msgs config.Messages,
) PartyAcceptFunc {
	return func(originID uint64, username string) (*PartyFeed, error) {
		origin, member, err := resolvePair(users, originID, username)
		if err != nil {
			return nil, err
		}

		res, err := parties.Accept(originID, member.ID)
		if err != nil {
			return nil, err
		}

		expires.Cancel(res.Party.ID, originID)

		if res.Left != nil {
			notifyLeave(users, notifier, expires, msgs, res.Left)
		}

		for _, id := range res.Party.MemberIDs() {
			_ = notifier.Push(&notify.Notification{
				ActorID: originID,
				Kind:    notify.KindMemberJoined,
				Message: fmt.Sprintf(msgs.MemberJoined, origin.Username),
				PartyID: res.Party.ID,
				UserID:  id,
			})
		}

		return feed(users, res.Party)
	}
}

// PartyLeaveFunc removes the origin from their party.
type PartyLeaveFunc func(originID uint64) error

// PartyLeave returns a func which runs the leave operation.
func PartyLeave(
	parties party.Service,
	users user.Service,
	notifier notify.Service,
	expires *Expirations,
	msgs config.Messages,
) PartyLeaveFunc {
	return func(originID uint64) error {
		res, err := parties.Leave(originID)
		if err != nil {
			return err
		}

		notifyLeave(users, notifier, expires, msgs, res)

		return nil
	}
}

// PartyKickFunc removes the target from the origin's party, either as a
// member or by cancelling their pending invite. Kicking yourself leaves.
type PartyKickFunc func(originID uint64, username string) error

// PartyKick returns a func which runs the kick operation.
func PartyKick(
	parties party.Service,
	users user.Service,
	notifier notify.Service,
	expires *Expirations,
	msgs config.Messages,
) PartyKickFunc {
	return func(originID uint64, username string) error {
		origin, target, err := resolvePair(users, originID, username)
		if err != nil {
			return err
		}

		res, err := parties.Kick(originID, target.ID)
		if err != nil {
			return err
		}

		if res.Leave != nil {
			notifyLeave(users, notifier, expires, msgs, res.Leave)
			return nil
		}

		if res.Cancelled {
			expires.Cancel(res.Party.ID, target.ID)

			_ = notifier.Push(&notify.Notification{
				ActorID: originID,
				Kind:    notify.KindInviteCancelled,
				Message: fmt.Sprintf(msgs.InviteCancelled, origin.Username),
				PartyID: res.Party.ID,
				UserID:  target.ID,
			})

			_ = notifier.Push(&notify.Notification{
				ActorID: target.ID,
				Kind:    notify.KindInviteCancelled,
				Message: fmt.Sprintf(msgs.InviteWithdrawn, target.Username),
				PartyID: res.Party.ID,
				UserID:  originID,
			})

			return nil
		}

		_ = notifier.Push(&notify.Notification{
			ActorID: originID,
			Kind:    notify.KindKicked,
			Message: fmt.Sprintf(msgs.Kicked, origin.Username),
			PartyID: res.Party.ID,
			UserID:  target.ID,
		})

		for _, id := range res.Party.MemberIDs() {
			_ = notifier.Push(&notify.Notification{
				ActorID: originID,
				Kind:    notify.KindMemberKicked,
				Message: fmt.Sprintf(msgs.MemberKicked, target.Username, origin.Username),
				PartyID: res.Party.ID,
				UserID:  id,
			})
		}

		return nil
	}
}

// PartyInfoFunc returns the origin's current party.
type PartyInfoFunc func(originID uint64) (*PartyFeed, error)

// PartyInfo returns a func which looks up the origin's party.
func PartyInfo(
	parties party.Service,
	users user.Service,
) PartyInfoFunc {
	return func(originID uint64) (*PartyFeed, error) {
		p, err := parties.FromMember(originID)
		if err != nil {
			return nil, err
		}

		return feed(users, p)
	}
}

// notifyLeave dispatches the notifications and timer cancellations following
// a departure: member-left to the remaining members, cancellations to the
// invitees whose invites died with an owner departure and the succession
// announcement when ownership moved.
func notifyLeave(
	users user.Service,
	notifier notify.Service,
	expires *Expirations,
	msgs config.Messages,
	res *party.LeaveResult,
) {
	leaver := lookupUsername(users, res.UserID)

	_ = notifier.Push(&notify.Notification{
		ActorID: res.UserID,
		Kind:    notify.KindMemberLeft,
		Message: fmt.Sprintf(msgs.MemberLeft, leaver),
		PartyID: res.Party.ID,
		UserID:  res.UserID,
	})

	for _, id := range res.Party.MemberIDs() {
		_ = notifier.Push(&notify.Notification{
			ActorID: res.UserID,
			Kind:    notify.KindMemberLeft,
			Message: fmt.Sprintf(msgs.MemberLeft, leaver),
			PartyID: res.Party.ID,
			UserID:  id,
		})
	}

	for _, id := range res.Cancelled {
		expires.Cancel(res.Party.ID, id)

		_ = notifier.Push(&notify.Notification{
			ActorID: res.UserID,
			Kind:    notify.KindInviteCancelled,
			Message: fmt.Sprintf(msgs.InviteCancelled, leaver),
			PartyID: res.Party.ID,
			UserID:  id,
		})
	}

	if res.NewOwner != 0 {
		successor := lookupUsername(users, res.NewOwner)

		for _, id := range res.Party.MemberIDs() {
			_ = notifier.Push(&notify.Notification{
				ActorID: res.NewOwner,
				Kind:    notify.KindOwnerChanged,
				Message: fmt.Sprintf(msgs.OwnerChanged, successor),
				PartyID: res.Party.ID,
				UserID:  id,
			})
		}
	}
}

// feed resolves the users referenced by the party.
func feed(users user.Service, p *party.Party) (*PartyFeed, error) {
	ids := append(p.MemberIDs(), p.RequestIDs()...)

	um, err := user.MapFromIDs(users, ids...)
	if err != nil {
		return nil, err
	}

	return &PartyFeed{
		Party:   p,
		UserMap: um,
	}, nil
}

// resolvePair loads the origin user and the enabled user with the given
// username.
func resolvePair(
	users user.Service,
	originID uint64,
	username string,
) (origin *user.User, target *user.User, err error) {
	um, err := user.MapFromIDs(users, originID)
	if err != nil {
		return nil, nil, err
	}

	origin, ok := um[originID]
	if !ok {
		return nil, nil, wrapError(ErrNotFound, "user %d", originID)
	}

	target, err = user.OneByUsername(users, username)
	if err != nil {
		if user.IsNotFound(err) {
			return nil, nil, wrapError(ErrNotFound, "user %s", username)
		}

		return nil, nil, err
	}

	return origin, target, nil
}

func lookupUsername(users user.Service, id uint64) string {
	um, err := user.MapFromIDs(users, id)
	if err != nil {
		return ""
	}

	if u, ok := um[id]; ok {
		return u.Username
	}

	return ""
}
