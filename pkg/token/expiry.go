package token

import "time"

const (
	// DefaultExpiresIn is used when the provider response omits expires_in.
	DefaultExpiresIn = 900

	// RefreshLifetime is how long a refresh token outlives the access token it
	// was issued with. The provider does not report a refresh expiry, so the
	// SDK assigns one: access expiry plus twelve days.
	RefreshLifetime = 12 * 24 * 60 * 60

	// safetyMargin is the fraction of expires_in subtracted so tokens are
	// renewed before the provider actually invalidates them.
	safetyMargin = 10 // percent
)

// Schedule derives the expiry bookkeeping for a token grant. The reported
// expires_in is reduced by the safety margin before the absolute expiry is
// computed, and the paired refresh expiry is anchored to the access expiry.
func Schedule(expiresIn int64, now time.Time) (adjustedIn, expiresAt, refreshExpiresAt int64) {
	if expiresIn <= 0 {
		expiresIn = DefaultExpiresIn
	}
	adjustedIn = expiresIn - expiresIn*safetyMargin/100
	expiresAt = now.Unix() + adjustedIn
	refreshExpiresAt = expiresAt + RefreshLifetime
	return adjustedIn, expiresAt, refreshExpiresAt
}
