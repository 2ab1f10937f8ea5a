// Package user is the registry of currently connected users. Presence is
// session scoped: a user exists while their connection lives and is disabled
// on disconnect. Nothing in here knows about parties.
package user

import (
	"sort"
	"time"

	"github.com/asaskevich/govalidator"
)

// Username constraints.
const (
	usernameMin = 2
	usernameMax = 40
)

var defaultEnabled = true

// List is a collection of users.
type List []*User

func (l List) Len() int {
	return len(l)
}

func (l List) Less(i, j int) bool {
	return l[i].Username < l[j].Username
}

func (l List) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

// IDs returns the user ids of the list.
func (l List) IDs() []uint64 {
	ids := []uint64{}

	for _, u := range l {
		ids = append(ids, u.ID)
	}

	return ids
}

// ToMap transforms the list to a Map.
func (l List) ToMap() Map {
	um := Map{}

	for _, u := range l {
		um[u.ID] = u
	}

	return um
}

// Map is a user collection with their id as index.
type Map map[uint64]*User

// QueryOptions is used to narrow-down user queries.
type QueryOptions struct {
	Enabled       *bool
	IDs           []uint64
	SessionTokens []string
	Usernames     []string
}

// Service for user interactions.
type Service interface {
	Put(user *User) (*User, error)
	Query(opts QueryOptions) (List, error)
	Search(prefix string) (List, error)
}

// ServiceMiddleware is a chainable behaviour modifier for Service.
type ServiceMiddleware func(Service) Service

// User is a connected session of the multiplayer service.
type User struct {
	Enabled      bool      `json:"enabled"`
	ID           uint64    `json:"id"`
	LastSeen     time.Time `json:"last_seen"`
	SessionToken string    `json:"-"`
	Username     string    `json:"user_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate performs semantic checks on the User.
func (u *User) Validate() error {
	if len(u.Username) < usernameMin || len(u.Username) > usernameMax {
		return wrapError(ErrInvalidUser, "username length out of bounds")
	}

	if !govalidator.IsPrintableASCII(u.Username) {
		return wrapError(ErrInvalidUser, "username not printable")
	}

	return nil
}

// MapFromIDs return a populated user map for the given list of ids.
func MapFromIDs(s Service, ids ...uint64) (Map, error) {
	us, err := s.Query(QueryOptions{
		IDs: ids,
	})
	if err != nil {
		return nil, err
	}

	return us.ToMap(), nil
}

// OneByUsername returns the enabled user with the given username.
func OneByUsername(s Service, username string) (*User, error) {
	us, err := s.Query(QueryOptions{
		Enabled: &defaultEnabled,
		Usernames: []string{
			username,
		},
	})
	if err != nil {
		return nil, err
	}

	if len(us) != 1 {
		return nil, wrapError(ErrNotFound, "user %s", username)
	}

	return us[0], nil
}

func sorted(us List) List {
	sort.Sort(us)
	return us
}
