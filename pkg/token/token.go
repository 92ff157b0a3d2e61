package token

import (
	"strings"
	"time"
)

// Kind identifies one of the three credentials the SDK tracks.
type Kind string

const (
	// KindService is the client-level credential for server-to-server calls.
	KindService Kind = "service_token"
	// KindAccess is the short-lived per-user credential.
	KindAccess Kind = "access_token"
	// KindRefresh is the long-lived credential used to renew access tokens.
	KindRefresh Kind = "refresh_token"
)

// Persisted slot names are fixed by the provider contract and shared with the
// JavaScript side of the SDK, so they are not configurable.
const (
	serviceSlotName = "__ucs"
	accessSlotName  = "__uas"
	refreshSlotName = "__urs"
)

// SlotName returns the persisted-slot (cookie) name for the kind.
func (k Kind) SlotName() string {
	switch k {
	case KindService:
		return serviceSlotName
	case KindAccess:
		return accessSlotName
	case KindRefresh:
		return refreshSlotName
	}
	return ""
}

// Valid reports whether the kind is one of the three known credentials.
func (k Kind) Valid() bool {
	return k == KindService || k == KindAccess || k == KindRefresh
}

// Token is a credential issued by the identity provider or restored from a
// persisted slot. The zero value represents an absent token.
type Token struct {
	Kind      Kind
	Value     string
	ExpiresIn int64 // seconds until expiry as reported by the provider, after the safety margin
	ExpiresAt int64 // unix timestamp; 0 means the expiry is unknown
	Path      string
}

// New builds a token, trimming the value and clamping negative expiry values
// to zero. Path defaults to "/" when empty.
func New(kind Kind, value string, expiresIn, expiresAt int64) Token {
	if expiresIn < 0 {
		expiresIn = 0
	}
	if expiresAt < 0 {
		expiresAt = 0
	}
	return Token{
		Kind:      kind,
		Value:     strings.TrimSpace(value),
		ExpiresIn: expiresIn,
		ExpiresAt: expiresAt,
		Path:      "/",
	}
}

// Valid reports whether the token carries a credential. An empty value is
// never a valid credential regardless of the expiry fields.
func (t Token) Valid() bool {
	return t.Value != ""
}

// Expired reports whether the token is past its expiry. A token without a
// known expiry (ExpiresAt == 0) is not considered expired; the synchronizer
// decides what to do with such tokens.
func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt != 0 && now.Unix() > t.ExpiresAt
}
