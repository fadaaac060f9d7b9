// Package session owns the signed-in state of one browser.
//
// A Store moves through three states:
//
//	Unknown -> Anonymous | Authenticated   (Restore, once per store)
//	Anonymous | Authenticated -> Authenticated   (Login, Register)
//	Authenticated -> Anonymous   (Logout, Refresh rejected with 401)
//
// The session is persisted as two entries, the bearer token and the
// JSON-encoded user, written together with the same max age. Reading
// treats a missing or unparsable entry as "no session" and removes both.
package session

import (
	"errors"
	"strings"

	"primmfy/internal/entity"
)

// Names of the two persisted entries.
const (
	TokenCookie = "token"
	UserCookie  = "user"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidSession   = errors.New("invalid session")
	errTokenExpired     = errors.New("token expired")
)

// Session pairs a bearer token with its user. The zero Session is not valid;
// use NewSession.
type Session struct {
	Token string
	User  entity.User
}

func NewSession(token string, user entity.User) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, errors.New("empty token")
	}
	if user.ID == 0 {
		return Session{}, errors.New("user without id")
	}
	if !user.Role.Valid() {
		return Session{}, errors.New("user with unsupported role " + string(user.Role))
	}
	return Session{Token: token, User: user}, nil
}

type Status int

const (
	StatusUnknown Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is the tagged variant Unknown | Anonymous | Authenticated(Session).
// The session is reachable only through Session, which reports ok only in
// the Authenticated state.
type State struct {
	status  Status
	session Session
}

func anonymous() State {
	return State{status: StatusAnonymous}
}

func authenticated(s Session) State {
	return State{status: StatusAuthenticated, session: s}
}

func (s State) Status() Status {
	return s.status
}

func (s State) Session() (Session, bool) {
	if s.status != StatusAuthenticated {
		return Session{}, false
	}
	return s.session, true
}
