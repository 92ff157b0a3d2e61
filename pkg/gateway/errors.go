package gateway

import "errors"

var (
	// ErrInvalidGrant means the provider explicitly rejected the credential.
	// It is semantically distinct from transport failures: the caller must
	// discard the rejected credential.
	ErrInvalidGrant = errors.New("gateway: invalid grant")

	// ErrRequestFailed covers transport and HTTP-level failures. No local
	// state should be mutated in response.
	ErrRequestFailed = errors.New("gateway: request failed")

	// ErrMalformedResponse flags a response missing a required field. It is
	// always joined with ErrRequestFailed so callers treating it as a
	// transport problem keep working.
	ErrMalformedResponse = errors.New("gateway: malformed response")

	// ErrEmptyCredential is returned before any network call when the caller
	// passes an empty token or code.
	ErrEmptyCredential = errors.New("gateway: empty credential")

	// ErrMissingConfig is fatal at construction: endpoint or client
	// credentials absent.
	ErrMissingConfig = errors.New("gateway: missing configuration")
)
