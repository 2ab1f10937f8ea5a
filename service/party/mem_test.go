package party

import (
	"math/rand"
	"testing"
)

func TestMemInvite(t *testing.T) {
	testServiceInvite(t, prepareMem)
}

func TestMemAccept(t *testing.T) {
	testServiceAccept(t, prepareMem)
}

func TestMemAcceptLeavesPriorParty(t *testing.T) {
	testServiceAcceptLeavesPriorParty(t, prepareMem)
}

func TestMemLeave(t *testing.T) {
	testServiceLeave(t, prepareMem)
}

func TestMemLeaveCancelsOwnedInvites(t *testing.T) {
	testServiceLeaveCancelsOwnedInvites(t, prepareMem)
}

func TestMemLeft(t *testing.T) {
	testServiceLeft(t, prepareMem)
}

func TestMemKick(t *testing.T) {
	testServiceKick(t, prepareMem)
}

func TestMemCancelInvite(t *testing.T) {
	testServiceCancelInvite(t, prepareMem)
}

func TestMemConcurrentInvites(t *testing.T) {
	testServiceConcurrentInvites(t, prepareMem)
}

func prepareMem(t *testing.T) Service {
	return MemServiceWithSource(rand.NewSource(187))
}
