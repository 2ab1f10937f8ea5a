package party

import (
	"sync"
	"testing"
)

type prepareFunc func(t *testing.T) Service

func testServiceInvite(t *testing.T, p prepareFunc) {
	service := p(t)

	res, err := service.Invite(1, 2)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := res.Created, true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := res.Party.OwnerID, uint64(1); have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := res.Party.IsInvited(2), true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	// The party is registered now, further invites extend it.
	res, err = service.Invite(1, 3)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := res.Created, false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := len(res.Party.Requests), 2; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	ps, err := service.FromInvitedUser(2)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(ps), 1; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	_, err = service.Invite(1, 1)
	if have, want := IsSelfInvite(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	_, err = service.Invite(1, 2)
	if have, want := IsAlreadyRequested(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	if _, err := service.Accept(2, 1); err != nil {
		t.Fatal(err)
	}

	_, err = service.Invite(1, 2)
	if have, want := IsAlreadyMember(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	// Members who do not own the party cannot invite.
	_, err = service.Invite(2, 4)
	if have, want := IsNotOwner(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}
}

func testServiceAccept(t *testing.T, p prepareFunc) {
	service := p(t)

	_, err := service.Accept(2, 1)
	if have, want := IsNotInvited(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	if _, err := service.Invite(1, 2); err != nil {
		t.Fatal(err)
	}

	res, err := service.Accept(2, 1)
	if err != nil {
		t.Fatal(err)
	}

	if res.Left != nil {
		t.Errorf("unexpected departure: %v", res.Left)
	}
	if have, want := res.Party.IsMember(2), true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := res.Party.IsInvited(2), false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	current, err := service.FromMember(2)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := current.ID, res.Party.ID; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	ps, err := service.FromInvitedUser(2)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(ps), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	assertDirectoryInvariants(t, service, res.Party)
}

func testServiceAcceptLeavesPriorParty(t *testing.T, p prepareFunc) {
	service := p(t)

	// User 3 owns a party with 4, then accepts an invite from 1.
	if _, err := service.Invite(3, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Accept(4, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Invite(1, 3); err != nil {
		t.Fatal(err)
	}

	res, err := service.Accept(3, 1)
	if err != nil {
		t.Fatal(err)
	}

	if res.Left == nil {
		t.Fatal("want departure from prior party")
	}
	if have, want := res.Left.WasOwner, true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := res.Left.NewOwner, uint64(4); have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	prior, err := service.FromMember(4)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := prior.OwnerID, uint64(4); have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := prior.IsMember(3), false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	current, err := service.FromMember(3)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := current.ID, res.Party.ID; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	assertDirectoryInvariants(t, service, prior, current)
}

func testServiceLeave(t *testing.T, p prepareFunc) {
	service := p(t)

	_, err := service.Leave(1)
	if have, want := IsNotInParty(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	if _, err := service.Invite(1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Accept(2, 1); err != nil {
		t.Fatal(err)
	}

	// Ownership transfer on owner departure.
	res, err := service.Leave(1)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := res.WasOwner, true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := res.NewOwner, uint64(2); have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := res.Party.OwnerID, uint64(2); have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if _, err := service.FromMember(1); !IsNotFound(err) {
		t.Errorf("want ErrNotFound, have %v", err)
	}

	// Extinction once the last member leaves.
	res, err = service.Leave(2)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := res.Extinct, true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if _, err := service.FromMember(2); !IsNotFound(err) {
		t.Errorf("want ErrNotFound, have %v", err)
	}
}

func testServiceLeaveCancelsOwnedInvites(t *testing.T, p prepareFunc) {
	service := p(t)

	if _, err := service.Invite(1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Accept(2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Invite(1, 3); err != nil {
		t.Fatal(err)
	}

	res, err := service.Leave(1)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(res.Cancelled), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}
	if have, want := res.Cancelled[0], uint64(3); have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	ps, err := service.FromInvitedUser(3)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(ps), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	// A member departure keeps the party's invites alive.
	if _, err := service.Invite(2, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Accept(4, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Invite(2, 5); err != nil {
		t.Fatal(err)
	}

	res, err = service.Leave(4)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := res.WasOwner, false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := len(res.Cancelled), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	ps, err = service.FromInvitedUser(5)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(ps), 1; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServiceLeft(t *testing.T, p prepareFunc) {
	service := p(t)

	// Disconnect without membership or invites is a no-op.
	res, err := service.Left(1)
	if err != nil {
		t.Fatal(err)
	}

	if res.Party != nil {
		t.Errorf("unexpected party: %v", res.Party)
	}

	// Disconnect withdraws invites held from other parties.
	if _, err := service.Invite(2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Invite(3, 1); err != nil {
		t.Fatal(err)
	}

	res, err = service.Left(1)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(res.Withdrawn), 2; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	ps, err := service.FromInvitedUser(1)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(ps), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	for _, w := range res.Withdrawn {
		if have, want := w.IsInvited(1), false; have != want {
			t.Errorf("have %v, want %v", have, want)
		}
	}

	// A fresh invite to the same user works again.
	if _, err := service.Invite(2, 1); err != nil {
		t.Fatal(err)
	}
}

func testServiceKick(t *testing.T, p prepareFunc) {
	service := p(t)

	_, err := service.Kick(1, 2)
	if have, want := IsNotInParty(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	if _, err := service.Invite(1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Accept(2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Invite(1, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Invite(1, 4); err != nil {
		t.Fatal(err)
	}

	_, err = service.Kick(2, 3)
	if have, want := IsNotOwner(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	_, err = service.Kick(1, 9)
	if have, want := IsTargetNotInParty(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	// Kicking a pending invitee cancels the invite, other invites stay.
	res, err := service.Kick(1, 3)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := res.Cancelled, true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := res.Party.IsInvited(3), false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := res.Party.IsInvited(4), true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	ps, err := service.FromInvitedUser(3)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(ps), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	// Kicking a member removes them from the directory.
	res, err = service.Kick(1, 2)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := res.Cancelled, false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := res.Party.IsMember(2), false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if _, err := service.FromMember(2); !IsNotFound(err) {
		t.Errorf("want ErrNotFound, have %v", err)
	}

	// Kicking yourself is leaving.
	res, err = service.Kick(1, 1)
	if err != nil {
		t.Fatal(err)
	}

	if res.Leave == nil {
		t.Fatal("want leave result for self kick")
	}
	if have, want := res.Leave.Extinct, true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServiceCancelInvite(t *testing.T, p prepareFunc) {
	service := p(t)

	ir, err := service.Invite(1, 2)
	if err != nil {
		t.Fatal(err)
	}

	res, err := service.CancelInvite(ir.Party.ID, 2)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := res.Party.IsInvited(2), false; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	// Cancelling a resolved invite fails and changes nothing.
	_, err = service.CancelInvite(ir.Party.ID, 2)
	if have, want := IsNotInvited(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	ps, err := service.FromInvitedUser(2)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(ps), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	// An expired invite does not block a new one.
	ir, err = service.Invite(1, 2)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := ir.Party.IsInvited(2), true; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServiceConcurrentInvites(t *testing.T, p prepareFunc) {
	var (
		service = p(t)
		n       = 64
		wg      sync.WaitGroup
	)

	if _, err := service.Invite(1, 2); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(target uint64) {
			defer wg.Done()

			if _, err := service.Invite(1, target); err != nil {
				t.Error(err)
			}
		}(uint64(100 + i))
	}

	wg.Wait()

	current, err := service.FromMember(1)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(current.Requests), n+1; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	for i := 0; i < n; i++ {
		ps, err := service.FromInvitedUser(uint64(100 + i))
		if err != nil {
			t.Fatal(err)
		}

		if have, want := len(ps), 1; have != want {
			t.Errorf("have %v, want %v", have, want)
		}
	}
}

// assertDirectoryInvariants checks the properties which must hold after every
// operation: the owner is a member, members and requests are disjoint and the
// membership index agrees with the party's member set.
func assertDirectoryInvariants(t *testing.T, service Service, ps ...*Party) {
	t.Helper()

	for _, p := range ps {
		if have, want := p.IsMember(p.OwnerID), true; have != want {
			t.Errorf("party %d: owner %d not a member", p.ID, p.OwnerID)
		}

		for id := range p.Requests {
			if p.IsMember(id) {
				t.Errorf("party %d: user %d in members and requests", p.ID, id)
			}
		}

		for id := range p.Members {
			current, err := service.FromMember(id)
			if err != nil {
				t.Errorf("party %d: member %d missing from index: %v", p.ID, id, err)
				continue
			}

			if have, want := current.ID, p.ID; have != want {
				t.Errorf("party %d: member %d indexed to party %d", p.ID, id, have)
			}
		}
	}
}
