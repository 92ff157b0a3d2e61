// Package token defines the credential value objects shared across the SDK:
// the three token kinds (service, access, refresh), their expiry arithmetic
// and the provider-reported login status.
//
// # Expiry policy
//
// Providers report a relative expires_in. Schedule converts it into an
// absolute unix expiry, shaving a 10% safety margin so tokens are proactively
// renewed before the provider rejects them, and derives the fixed refresh
// token lifetime (access expiry + 12 days) since the provider never reports
// one.
//
// A token with an empty value is absent, never a valid credential. A token
// with ExpiresAt == 0 has an unknown expiry; Expired treats it as not
// expired and leaves the decision to the session synchronizer.
package token
