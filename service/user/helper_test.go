package user

import (
	"testing"
)

type prepareFunc func(t *testing.T) Service

func testUser(username string) *User {
	return &User{
		Enabled:  true,
		Username: username,
	}
}

func testServicePut(t *testing.T, p prepareFunc) {
	service := p(t)

	created, err := service.Put(testUser("alice"))
	if err != nil {
		t.Fatal(err)
	}

	if created.ID == 0 {
		t.Errorf("want id to be set")
	}
	if created.SessionToken == "" {
		t.Errorf("want session token to be set")
	}

	_, err = service.Put(testUser("ALICE"))
	if have, want := IsExists(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	created.Enabled = false

	if _, err := service.Put(created); err != nil {
		t.Fatal(err)
	}

	// A disabled session frees the username.
	if _, err := service.Put(testUser("alice")); err != nil {
		t.Fatal(err)
	}

	_, err = service.Put(testUser("a"))
	if have, want := IsInvalidUser(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}

	_, err = service.Put(&User{ID: 187, Enabled: true, Username: "ghost"})
	if have, want := IsNotFound(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}
}

func testServiceLastSeen(t *testing.T, p prepareFunc) {
	service := p(t)

	created, err := service.Put(testUser("alice"))
	if err != nil {
		t.Fatal(err)
	}

	if created.LastSeen.IsZero() {
		t.Errorf("want last seen to be set")
	}

	seen := created.LastSeen
	created.Enabled = false

	disabled, err := service.Put(created)
	if err != nil {
		t.Fatal(err)
	}

	// Disabling is not activity.
	if have, want := disabled.LastSeen, seen; !have.Equal(want) {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServiceQuery(t *testing.T, p prepareFunc) {
	service := p(t)

	us, err := service.Query(QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(us), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	created, err := service.Put(testUser("alice"))
	if err != nil {
		t.Fatal(err)
	}

	for _, username := range []string{"bob", "carol", "dave"} {
		if _, err := service.Put(testUser(username)); err != nil {
			t.Fatal(err)
		}
	}

	us, err = service.Query(QueryOptions{
		IDs: []uint64{
			created.ID,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(us), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}
	if have, want := us[0].Username, "alice"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	u, err := OneByUsername(service, "Bob")
	if err != nil {
		t.Fatal(err)
	}

	if have, want := u.Username, "bob"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	_, err = OneByUsername(service, "eve")
	if have, want := IsNotFound(err), true; have != want {
		t.Errorf("have %v, want %v (%v)", have, want, err)
	}
}

func testServiceSearch(t *testing.T, p prepareFunc) {
	service := p(t)

	for _, username := range []string{"alice", "albert", "bob"} {
		if _, err := service.Put(testUser(username)); err != nil {
			t.Fatal(err)
		}
	}

	disabled, err := service.Put(testUser("alfred"))
	if err != nil {
		t.Fatal(err)
	}

	disabled.Enabled = false

	if _, err := service.Put(disabled); err != nil {
		t.Fatal(err)
	}

	us, err := service.Search("al")
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(us), 2; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}
	if have, want := us[0].Username, "albert"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := us[1].Username, "alice"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}
