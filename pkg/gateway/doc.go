// Package gateway is the wire client for the remote identity provider. The
// session core depends on the Gateway interface only; Client implements it
// over the provider's protocol: form-encoded POSTs discriminated by
// grant_type, JSON responses carrying tokens and a login_status, and an
// error/type pair when a request is rejected.
//
// Failures are classified into two sentinels the rest of the SDK branches
// on: ErrInvalidGrant when the provider rejected the credential itself (the
// caller must discard it) and ErrRequestFailed for everything at the
// transport or HTTP level (no state may change). Responses missing required
// fields are additionally tagged ErrMalformedResponse but still satisfy
// errors.Is(err, ErrRequestFailed).
package gateway
