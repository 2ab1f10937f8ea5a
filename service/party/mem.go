package party

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/pureorigins/partyd/platform/flake"
)

const flakeNamespace = "parties"

// memService keeps the whole directory under a single lock: both indices and
// every registered party. Operations check all preconditions before the
// first mutation, so an error never leaves partial state behind, and they
// perform no I/O while holding the lock.
type memService struct {
	mu        sync.Mutex
	invitesOf map[uint64]map[uint64]*Party
	parties   map[uint64]*Party
	partyOf   map[uint64]*Party
	rng       *rand.Rand
}

// MemService returns a memory based Service implementation.
func MemService() Service {
	return MemServiceWithSource(rand.NewSource(time.Now().UnixNano()))
}

// MemServiceWithSource returns a memory based Service implementation drawing
// ownership successions from the given source.
func MemServiceWithSource(src rand.Source) Service {
	return &memService{
		invitesOf: map[uint64]map[uint64]*Party{},
		parties:   map[uint64]*Party{},
		partyOf:   map[uint64]*Party{},
		rng:       rand.New(src),
	}
}

func (s *memService) Invite(senderID, targetID uint64) (*InviteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		p       = s.partyOf[senderID]
		created = p == nil
	)

	if created {
		id, err := flake.NextID(flakeNamespace)
		if err != nil {
			return nil, err
		}

		p = New(id, senderID)
	}

	if p.OwnerID != senderID {
		return nil, wrapError(ErrNotOwner, "user %d", senderID)
	}

	if senderID == targetID {
		return nil, wrapError(ErrSelfInvite, "user %d", senderID)
	}

	if p.IsMember(targetID) {
		return nil, wrapError(ErrAlreadyMember, "user %d", targetID)
	}

	if p.IsInvited(targetID) {
		return nil, wrapError(ErrAlreadyRequested, "user %d", targetID)
	}

	if created {
		s.parties[p.ID] = p
		s.partyOf[senderID] = p
	}

	if err := p.Invite(targetID); err != nil {
		return nil, err
	}

	s.indexInvite(targetID, p)

	return &InviteResult{
		Created: created,
		Party:   p.Copy(),
	}, nil
}

func (s *memService) Accept(senderID, ownerID uint64) (*AcceptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.partyOf[ownerID]
	if p == nil || !p.IsInvited(senderID) {
		return nil, wrapError(ErrNotInvited, "user %d by owner %d", senderID, ownerID)
	}

	// A user belongs to at most one party, accepting leaves the prior one.
	// The departure completes before the target party is touched.
	var left *LeaveResult

	if prior := s.partyOf[senderID]; prior != nil {
		left = s.leaveLocked(senderID)
	}

	if err := p.Accept(senderID); err != nil {
		return nil, err
	}

	s.unindexInvite(senderID, p.ID)
	s.partyOf[senderID] = p

	return &AcceptResult{
		Left:  left,
		Party: p.Copy(),
	}, nil
}

func (s *memService) Leave(userID uint64) (*LeaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.partyOf[userID] == nil {
		return nil, wrapError(ErrNotInParty, "user %d", userID)
	}

	return s.leaveLocked(userID), nil
}

// Left is the disconnect variant of Leave. It never fails on absent
// membership and additionally withdraws every invite held by the departing
// user, since a closed session can never accept.
func (s *memService) Left(userID uint64) (*LeaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res *LeaveResult

	if s.partyOf[userID] != nil {
		res = s.leaveLocked(userID)
	} else {
		res = &LeaveResult{UserID: userID}
	}

	for _, p := range s.invitedLocked(userID) {
		if err := p.CancelInvite(userID); err != nil {
			continue
		}

		res.Withdrawn = append(res.Withdrawn, p.Copy())
	}

	delete(s.invitesOf, userID)

	sort.Sort(res.Withdrawn)

	return res, nil
}

func (s *memService) Kick(senderID, targetID uint64) (*KickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.partyOf[senderID]
	if p == nil {
		return nil, wrapError(ErrNotInParty, "user %d", senderID)
	}

	if senderID == targetID {
		res := s.leaveLocked(senderID)

		return &KickResult{
			Leave:    res,
			Party:    res.Party,
			TargetID: targetID,
		}, nil
	}

	if p.OwnerID != senderID {
		return nil, wrapError(ErrNotOwner, "user %d", senderID)
	}

	if !p.IsMember(targetID) && !p.IsInvited(targetID) {
		return nil, wrapError(ErrTargetNotInParty, "user %d", targetID)
	}

	if p.IsInvited(targetID) {
		if err := p.CancelInvite(targetID); err != nil {
			return nil, err
		}

		s.unindexInvite(targetID, p.ID)

		return &KickResult{
			Cancelled: true,
			Party:     p.Copy(),
			TargetID:  targetID,
		}, nil
	}

	if err := p.Remove(targetID, s.rng); err != nil {
		return nil, err
	}

	delete(s.partyOf, targetID)

	return &KickResult{
		Party:    p.Copy(),
		TargetID: targetID,
	}, nil
}

func (s *memService) CancelInvite(partyID, targetID uint64) (*CancelResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.parties[partyID]
	if p == nil || !p.IsInvited(targetID) {
		return nil, wrapError(ErrNotInvited, "user %d by party %d", targetID, partyID)
	}

	if err := p.CancelInvite(targetID); err != nil {
		return nil, err
	}

	s.unindexInvite(targetID, p.ID)

	return &CancelResult{
		Party:    p.Copy(),
		TargetID: targetID,
	}, nil
}

func (s *memService) FromMember(userID uint64) (*Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.partyOf[userID]
	if p == nil {
		return nil, wrapError(ErrNotFound, "no party for user %d", userID)
	}

	return p.Copy(), nil
}

func (s *memService) FromInvitedUser(userID uint64) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps := List{}

	for _, p := range s.invitedLocked(userID) {
		ps = append(ps, p.Copy())
	}

	sort.Sort(ps)

	return ps, nil
}

// leaveLocked removes the user from their party and keeps both indices in
// step. When the owner departs every outstanding invite of the party is
// cancelled, whether a successor takes over or the party goes extinct.
func (s *memService) leaveLocked(userID uint64) *LeaveResult {
	var (
		p        = s.partyOf[userID]
		wasOwner = p.OwnerID == userID
	)

	res := &LeaveResult{
		UserID:   userID,
		WasOwner: wasOwner,
	}

	if err := p.Remove(userID, s.rng); err != nil {
		// The indices guarantee membership, a failure here is a programming
		// error surfaced by the invariant tests.
		panic(err)
	}

	delete(s.partyOf, userID)

	if wasOwner {
		for _, id := range p.RequestIDs() {
			if err := p.CancelInvite(id); err != nil {
				continue
			}

			s.unindexInvite(id, p.ID)
			res.Cancelled = append(res.Cancelled, id)
		}
	}

	if len(p.Members) == 0 {
		res.Extinct = true
		delete(s.parties, p.ID)
	} else if wasOwner {
		res.NewOwner = p.OwnerID
	}

	res.Party = p.Copy()

	return res
}

func (s *memService) invitedLocked(userID uint64) []*Party {
	ps := []*Party{}

	for _, p := range s.invitesOf[userID] {
		ps = append(ps, p)
	}

	return ps
}

func (s *memService) indexInvite(userID uint64, p *Party) {
	if _, ok := s.invitesOf[userID]; !ok {
		s.invitesOf[userID] = map[uint64]*Party{}
	}

	s.invitesOf[userID][p.ID] = p
}

func (s *memService) unindexInvite(userID, partyID uint64) {
	delete(s.invitesOf[userID], partyID)

	if len(s.invitesOf[userID]) == 0 {
		delete(s.invitesOf, userID)
	}
}
