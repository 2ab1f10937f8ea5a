package party

import (
	"math/rand"
	"sort"
	"time"
)

// List is a collection of parties.
type List []*Party

func (l List) Len() int {
	return len(l)
}

func (l List) Less(i, j int) bool {
	return l[i].ID < l[j].ID
}

func (l List) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

// IDs returns the party ids of the list.
func (l List) IDs() []uint64 {
	ids := []uint64{}

	for _, p := range l {
		ids = append(ids, p.ID)
	}

	return ids
}

// Party is an ephemeral grouping of connected users with a single owner, a
// member set and a set of outstanding invites. The owner is always a member.
// Members and Requests are disjoint.
type Party struct {
	ID        uint64
	OwnerID   uint64
	Members   map[uint64]struct{}
	Requests  map[uint64]struct{}
	CreatedAt time.Time
}

// New returns a Party owned by ownerID with the owner as sole member.
func New(id, ownerID uint64) *Party {
	return &Party{
		ID:      id,
		OwnerID: ownerID,
		Members: map[uint64]struct{}{
			ownerID: {},
		},
		Requests:  map[uint64]struct{}{},
		CreatedAt: time.Now().UTC(),
	}
}

// IsMember indicates if the user belongs to the party.
func (p *Party) IsMember(userID uint64) bool {
	_, ok := p.Members[userID]
	return ok
}

// IsInvited indicates if the user has an unresolved invite from the party.
func (p *Party) IsInvited(userID uint64) bool {
	_, ok := p.Requests[userID]
	return ok
}

// Invite adds the user to the outstanding invites. The caller must hold the
// lock guarding the party.
func (p *Party) Invite(userID uint64) error {
	if p.IsMember(userID) {
		return wrapError(ErrAlreadyMember, "user %d", userID)
	}

	if p.IsInvited(userID) {
		return wrapError(ErrAlreadyInvited, "user %d", userID)
	}

	p.Requests[userID] = struct{}{}

	return nil
}

// CancelInvite resolves the invite of the user without them joining.
func (p *Party) CancelInvite(userID uint64) error {
	if !p.IsInvited(userID) {
		return wrapError(ErrNotInvited, "user %d", userID)
	}

	delete(p.Requests, userID)

	return nil
}

// Accept moves the user from the outstanding invites to the members.
func (p *Party) Accept(userID uint64) error {
	if !p.IsInvited(userID) {
		return wrapError(ErrNotInvited, "user %d", userID)
	}

	delete(p.Requests, userID)
	p.Members[userID] = struct{}{}

	return nil
}

// Remove takes the user out of the member set. When the owner is removed and
// members remain, the new owner is drawn uniformly at random from rng.
func (p *Party) Remove(userID uint64, rng *rand.Rand) error {
	if !p.IsMember(userID) {
		return wrapError(ErrNotMember, "user %d", userID)
	}

	delete(p.Members, userID)

	if len(p.Members) > 0 && p.OwnerID == userID {
		ids := p.MemberIDs()
		p.OwnerID = ids[rng.Intn(len(ids))]
	}

	return nil
}

// MemberIDs returns the member ids in ascending order.
func (p *Party) MemberIDs() []uint64 {
	return sortedIDs(p.Members)
}

// RequestIDs returns the ids of users with unresolved invites in ascending
// order.
func (p *Party) RequestIDs() []uint64 {
	return sortedIDs(p.Requests)
}

// Copy returns a snapshot of the party which shares no state with p.
func (p *Party) Copy() *Party {
	c := &Party{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Members:   make(map[uint64]struct{}, len(p.Members)),
		Requests:  make(map[uint64]struct{}, len(p.Requests)),
		CreatedAt: p.CreatedAt,
	}

	for id := range p.Members {
		c.Members[id] = struct{}{}
	}

	for id := range p.Requests {
		c.Requests[id] = struct{}{}
	}

	return c
}

// InviteResult describes the effects of a successful Invite.
type InviteResult struct {
	Created bool   // Party was synthesized by this call.
	Party   *Party // Snapshot after the mutation.
}

// AcceptResult describes the effects of a successful Accept.
type AcceptResult struct {
	Left  *LeaveResult // Departure from the prior party, nil if there was none.
	Party *Party
}

// LeaveResult describes the effects of a successful Leave, Left or self kick.
type LeaveResult struct {
	Cancelled []uint64 // Users whose invites died with the owner's departure.
	Extinct   bool     // Party was evicted from the directory.
	NewOwner  uint64   // Successor, zero when ownership did not move.
	Party     *Party
	UserID    uint64
	WasOwner  bool
	Withdrawn List // Parties whose invite to the user was withdrawn, Left only.
}

// KickResult describes the effects of a successful Kick.
type KickResult struct {
	Cancelled bool         // Target was only invited, the invite was cancelled.
	Leave     *LeaveResult // Set when the owner kicked themselves.
	Party     *Party
	TargetID  uint64
}

// CancelResult describes the effects of a successful CancelInvite.
type CancelResult struct {
	Party    *Party
	TargetID uint64
}

// Service is the party directory. It maps every user to the party they belong
// to and every invited user to the parties which invited them, and is the
// sole mutator of registered parties. All compound operations are atomic with
// respect to each other, never block on I/O and return snapshots which share
// no state with the directory.
type Service interface {
	Accept(senderID, ownerID uint64) (*AcceptResult, error)
	CancelInvite(partyID, targetID uint64) (*CancelResult, error)
	FromInvitedUser(userID uint64) (List, error)
	FromMember(userID uint64) (*Party, error)
	Invite(senderID, targetID uint64) (*InviteResult, error)
	Kick(senderID, targetID uint64) (*KickResult, error)
	Leave(userID uint64) (*LeaveResult, error)
	Left(userID uint64) (*LeaveResult, error)
}

// ServiceMiddleware is a chainable behaviour modifier for Service.
type ServiceMiddleware func(Service) Service

func sortedIDs(set map[uint64]struct{}) []uint64 {
	ids := make([]uint64, 0, len(set))

	for id := range set {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
