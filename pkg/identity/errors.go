package identity

import "errors"

var (
	ErrNilSession       = errors.New("identity: nil session")
	ErrNoRefreshToken   = errors.New("identity: no refresh token")
	ErrEmptyAuthCode    = errors.New("identity: empty authorization code")
	ErrUnknownTokenKind = errors.New("identity: unknown token kind")
	ErrAbsentToken      = errors.New("identity: absent token")
)
