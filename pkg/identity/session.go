package identity

import (
	"github.com/dmitrymomot/identitykit/pkg/persist"
	"github.com/dmitrymomot/identitykit/pkg/token"
)

// Session is the in-memory state bag for exactly one invocation. It holds the
// tokens and login status resolved so far, plus the persisted-slot capability
// the invocation owns. Nothing here is shared between invocations; the slots
// and the cache are what survive.
type Session struct {
	Service token.Token
	Access  token.Token
	Refresh token.Token
	Login   token.LoginStatus

	slots persist.Store
	store *TokenStore

	// synchronized guards the once-per-invocation state machine; a second
	// Synchronize call on the same session is a no-op.
	synchronized bool
}

// IsConnected reports whether the session carries a usable user credential
// confirmed by the provider. Only a connected session authorizes user-data
// operations.
func (s *Session) IsConnected() bool {
	return s.Access.Valid() && s.Login.Connected()
}

// Synchronized reports whether the state machine already ran for this
// invocation.
func (s *Session) Synchronized() bool {
	return s.synchronized
}

// adoptUserGrant installs freshly granted user tokens and login status.
func (s *Session) adoptUserGrant(access, refresh token.Token, login token.LoginStatus) {
	s.Access = access
	s.Refresh = refresh
	s.Login = login
}

// clearUser drops the user-level state, leaving the service token alone.
func (s *Session) clearUser() {
	s.Access = token.Token{}
	s.Refresh = token.Token{}
	s.Login = token.LoginStatus{}
}
