package core

import (
	"testing"

	"github.com/pureorigins/partyd/service/notify"
	"github.com/pureorigins/partyd/service/party"
)

func TestPartyMessage(t *testing.T) {
	d, ids := prepare(t, "alice", "bob")

	send := PartyMessage(d.parties, d.users, d.notifier)

	err := send(ids["alice"], "hello")
	if have, want := party.IsNotFound(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	if _, err := d.invite()(ids["alice"], "bob"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.accept()(ids["bob"], "alice"); err != nil {
		t.Fatal(err)
	}

	d.drain(t, ids["alice"])
	d.drain(t, ids["bob"])

	if err := send(ids["alice"], "hello party"); err != nil {
		t.Fatal(err)
	}

	for _, id := range []uint64{ids["alice"], ids["bob"]} {
		ns := d.drain(t, id)

		if have, want := len(ns), 1; have != want {
			t.Fatalf("have %v, want %v", have, want)
		}
		if have, want := ns[0].Kind, notify.KindChat; have != want {
			t.Errorf("have %v, want %v", have, want)
		}
		if have, want := ns[0].Message, "hello party"; have != want {
			t.Errorf("have %v, want %v", have, want)
		}
		if have, want := ns[0].ActorID, ids["alice"]; have != want {
			t.Errorf("have %v, want %v", have, want)
		}
	}

	err = send(ids["alice"], "   ")
	if have, want := IsInvalidEntity(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}
}

func TestMessageSend(t *testing.T) {
	d, ids := prepare(t, "alice", "bob")

	send := MessageSend(d.users, d.notifier)

	if err := send(ids["alice"], "bob", "psst"); err != nil {
		t.Fatal(err)
	}

	ns := d.drain(t, ids["bob"])

	if have, want := len(ns), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}
	if have, want := ns[0].Kind, notify.KindPrivateMessage; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := ns[0].Message, "psst"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	err := send(ids["alice"], "eve", "psst")
	if have, want := IsNotFound(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	err = send(ids["alice"], "bob", "")
	if have, want := IsInvalidEntity(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}
}
