package user

import (
	"strings"
	"sync"
	"time"

	"github.com/pureorigins/partyd/platform/flake"
	"github.com/pureorigins/partyd/platform/generate"
)

const flakeNamespace = "users"

type memService struct {
	mu    sync.Mutex
	users Map
}

// MemService returns a memory based Service implementation.
func MemService() Service {
	return &memService{
		users: Map{},
	}
}

func (s *memService) Put(input *User) (*User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	if input.ID == 0 {
		for _, u := range s.users {
			if u.Enabled && strings.EqualFold(u.Username, input.Username) {
				return nil, wrapError(ErrExists, "username %s", input.Username)
			}
		}

		id, err := flake.NextID(flakeNamespace)
		if err != nil {
			return nil, err
		}

		input.ID = id
		input.CreatedAt = now
		input.SessionToken = generate.RandomString(24)
	} else {
		u, ok := s.users[input.ID]
		if !ok {
			return nil, wrapError(ErrNotFound, "user %d", input.ID)
		}

		input.CreatedAt = u.CreatedAt
		input.SessionToken = u.SessionToken
	}

	if input.Enabled {
		input.LastSeen = now
	}

	input.UpdatedAt = now
	s.users[input.ID] = copyUser(input)

	return copyUser(input), nil
}

func (s *memService) Query(opts QueryOptions) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	us := List{}

	for _, u := range s.users {
		if !u.MatchOpts(&opts) {
			continue
		}

		us = append(us, copyUser(u))
	}

	return sorted(us), nil
}

func (s *memService) Search(prefix string) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	us := List{}

	for _, u := range s.users {
		if !u.Enabled {
			continue
		}

		if !strings.HasPrefix(
			strings.ToLower(u.Username),
			strings.ToLower(prefix),
		) {
			continue
		}

		us = append(us, copyUser(u))
	}

	return sorted(us), nil
}

// MatchOpts indicates if the User matches the given QueryOptions.
func (u *User) MatchOpts(opts *QueryOptions) bool {
	if opts == nil {
		return true
	}

	if opts.Enabled != nil && u.Enabled != *opts.Enabled {
		return false
	}

	if len(opts.IDs) > 0 {
		discard := true

		for _, id := range opts.IDs {
			if u.ID == id {
				discard = false
			}
		}

		if discard {
			return false
		}
	}

	if len(opts.SessionTokens) > 0 {
		discard := true

		for _, token := range opts.SessionTokens {
			if u.SessionToken == token {
				discard = false
			}
		}

		if discard {
			return false
		}
	}

	if len(opts.Usernames) > 0 {
		discard := true

		for _, username := range opts.Usernames {
			if strings.EqualFold(u.Username, username) {
				discard = false
			}
		}

		if discard {
			return false
		}
	}

	return true
}

func copyUser(u *User) *User {
	old := *u
	return &old
}
