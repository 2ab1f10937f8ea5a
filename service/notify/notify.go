// Package notify is the delivery sink for user facing events. Delivery is
// fire-and-forget: pushes never block and never fail the triggering
// operation, a slow or absent consumer only loses their oldest entries.
package notify

import (
	"time"
)

// Kinds of notifications emitted by the party directory and messaging.
const (
	KindChat            Kind = "chat"
	KindInviteCancelled Kind = "invite_cancelled"
	KindInviteExpired   Kind = "invite_expired"
	KindInviteReceived  Kind = "invite_received"
	KindInviteSent      Kind = "invite_sent"
	KindKicked          Kind = "kicked"
	KindMemberJoined    Kind = "member_joined"
	KindMemberKicked    Kind = "member_kicked"
	KindMemberLeft      Kind = "member_left"
	KindOwnerChanged    Kind = "owner_changed"
	KindPartyCreated    Kind = "party_created"
	KindPrivateMessage  Kind = "private_message"
)

// Kind classifies a Notification.
type Kind string

// List is a collection of notifications.
type List []*Notification

// Notification is a single entry in a user's queue.
type Notification struct {
	ActorID   uint64    `json:"actor_id,omitempty"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message,omitempty"`
	PartyID   uint64    `json:"party_id,omitempty"`
	UserID    uint64    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Service for notification interactions.
type Service interface {
	Drain(userID uint64) (List, error)
	Push(n *Notification) error
}

// ServiceMiddleware is a chainable behaviour modifier for Service.
type ServiceMiddleware func(Service) Service
