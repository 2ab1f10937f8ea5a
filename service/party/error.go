package party

import (
	"errors"
	"fmt"
)

const errFmt = "%s: %s"

// Common errors for Party directory implementations and validations. All are
// expected user facing outcomes, never process fatal.
var (
	ErrAlreadyInvited   = errors.New("user already invited")
	ErrAlreadyMember    = errors.New("user already a member")
	ErrAlreadyRequested = errors.New("user already requested")
	ErrNotFound         = errors.New("party not found")
	ErrNotInParty       = errors.New("user not in a party")
	ErrNotInvited       = errors.New("user not invited")
	ErrNotMember        = errors.New("user not a member")
	ErrNotOwner         = errors.New("user not the party owner")
	ErrSelfInvite       = errors.New("cannot invite self")
	ErrTargetNotInParty = errors.New("target not in the party")
)

// Error wraps common Party errors.
type Error struct {
	err error
	msg string
}

func (e Error) Error() string {
	return e.msg
}

// IsAlreadyInvited indicates if err is ErrAlreadyInvited.
func IsAlreadyInvited(err error) bool {
	return unwrapError(err) == ErrAlreadyInvited
}

// IsAlreadyMember indicates if err is ErrAlreadyMember.
func IsAlreadyMember(err error) bool {
	return unwrapError(err) == ErrAlreadyMember
}

// IsAlreadyRequested indicates if err is ErrAlreadyRequested.
func IsAlreadyRequested(err error) bool {
	return unwrapError(err) == ErrAlreadyRequested
}

// IsNotFound indicates if err is ErrNotFound.
func IsNotFound(err error) bool {
	return unwrapError(err) == ErrNotFound
}

// IsNotInParty indicates if err is ErrNotInParty.
func IsNotInParty(err error) bool {
	return unwrapError(err) == ErrNotInParty
}

// IsNotInvited indicates if err is ErrNotInvited.
func IsNotInvited(err error) bool {
	return unwrapError(err) == ErrNotInvited
}

// IsNotMember indicates if err is ErrNotMember.
func IsNotMember(err error) bool {
	return unwrapError(err) == ErrNotMember
}

// IsNotOwner indicates if err is ErrNotOwner.
func IsNotOwner(err error) bool {
	return unwrapError(err) == ErrNotOwner
}

// IsSelfInvite indicates if err is ErrSelfInvite.
func IsSelfInvite(err error) bool {
	return unwrapError(err) == ErrSelfInvite
}

// IsTargetNotInParty indicates if err is ErrTargetNotInParty.
func IsTargetNotInParty(err error) bool {
	return unwrapError(err) == ErrTargetNotInParty
}

func unwrapError(err error) error {
	switch e := err.(type) {
	case *Error:
		return e.err
	}

	return err
}

func wrapError(err error, format string, args ...interface{}) error {
	return &Error{
		err: err,
		msg: fmt.Sprintf(
			errFmt,
			err,
			fmt.Sprintf(format, args...),
		),
	}
}
