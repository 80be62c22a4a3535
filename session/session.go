// Package session holds the dashboard session: the token pair and claims
// issued by the API, the store that mirrors them to durable storage, and the
// state machine that keeps them fresh.
package session

import (
	"slices"
	"strconv"
	"time"
)

// Role is the authorization level attached to a session.
type Role int

const (
	RoleNone Role = iota
	// RoleManager (gerente) is the top-level administrative role.
	RoleManager
	RoleAdministrator
	RoleSpecialist
)

func (r Role) String() string {
	switch r {
	case RoleManager:
		return "gerente"
	case RoleAdministrator:
		return "administrador"
	case RoleSpecialist:
		return "especialista"
	default:
		return strconv.Itoa(int(r))
	}
}

// AccountType is the server supplied account type claim.
type AccountType int

// State of the session state machine.
type State int

const (
	StateSignedOut State = iota
	StateSignedIn
	// StateRefreshing is reported while a refresh call is in flight. The
	// session is still signed in.
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateSignedIn:
		return "signed-in"
	case StateRefreshing:
		return "refreshing"
	default:
		return "signed-out"
	}
}

// Session is the token pair and claims of the signed-in user. The zero value
// is the signed-out session.
type Session struct {
	SignedIn         bool
	AccessToken      string
	RefreshToken     string
	ExpiresInSeconds int
	AccountType      AccountType
	Role             Role
	LocationID       int
}

// Valid reports whether s is signed in and carries both tokens.
func (s Session) Valid() bool {
	return s.SignedIn && s.AccessToken != "" && s.RefreshToken != ""
}

// ExpiresIn is the server declared lifetime of the access token.
func (s Session) ExpiresIn() time.Duration {
	return time.Duration(s.ExpiresInSeconds) * time.Second
}

// IsPrivileged reports whether the session holds the top-level administrative role.
func (s Session) IsPrivileged() bool {
	return s.Role == RoleManager
}

// Authorized reports whether s may open a route restricted to authority.
// An empty authority list only requires a signed-in session.
func (s Session) Authorized(authority ...Role) bool {
	if !s.Valid() {
		return false
	}
	return len(authority) == 0 || slices.Contains(authority, s.Role)
}

// fromTokens builds a signed-in session from an auth response.
func fromTokens(t *TokenResponse) Session {
	return Session{
		SignedIn:         true,
		AccessToken:      t.AccessToken,
		RefreshToken:     t.RefreshToken,
		ExpiresInSeconds: t.ExpirationInSeconds,
		AccountType:      t.Type,
		Role:             t.Rol,
		LocationID:       t.Sede,
	}
}
