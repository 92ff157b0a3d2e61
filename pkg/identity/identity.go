package identity

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/identitykit/pkg/cache"
	"github.com/dmitrymomot/identitykit/pkg/gateway"
	"github.com/dmitrymomot/identitykit/pkg/persist"
	"github.com/dmitrymomot/identitykit/pkg/tokencodec"
)

// Defaults for the SSO signal scan. The well-known cookie is set by the
// provider's cross-domain login script; satellite domains get a suffixed
// variant sharing the prefix.
const (
	defaultSSOCookieName   = "datr"
	defaultSSOCookiePrefix = "datr_"
)

// Identity is the long-lived entry point of the SDK. One Identity serves the
// whole process; per-invocation state lives in the Session it hands out.
type Identity struct {
	gw          gateway.Gateway
	codec       *tokencodec.Codec
	cache       cache.Cache
	log         *slog.Logger
	ssoName     string
	ssoPrefix   string
	redirectURI string
	now         func() time.Time
}

// Option configures an Identity.
type Option func(*Identity)

// WithCache replaces the default in-process cache, e.g. with the Redis
// backend so the service token is shared across a cluster.
func WithCache(c cache.Cache) Option {
	return func(i *Identity) {
		if c != nil {
			i.cache = c
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(i *Identity) {
		if log != nil {
			i.log = log
		}
	}
}

// WithSSOCookie overrides the SSO signal cookie name and its fallback
// prefix.
func WithSSOCookie(name, prefix string) Option {
	return func(i *Identity) {
		if name != "" {
			i.ssoName = name
		}
		if prefix != "" {
			i.ssoPrefix = prefix
		}
	}
}

// WithRedirectURI sets the redirect URI sent with authorization-code
// exchanges.
func WithRedirectURI(uri string) Option {
	return func(i *Identity) {
		i.redirectURI = uri
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Identity) {
		if now != nil {
			i.now = now
		}
	}
}

// New builds an Identity around the provider gateway and the token codec.
// Without WithCache it falls back to a process-local cache, which is correct
// for single-process embeddings and merely suboptimal for clusters.
func New(gw gateway.Gateway, codec *tokencodec.Codec, opts ...Option) *Identity {
	i := &Identity{
		gw:        gw,
		codec:     codec,
		log:       slog.Default(),
		ssoName:   defaultSSOCookieName,
		ssoPrefix: defaultSSOCookiePrefix,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.cache == nil {
		// No janitor: the default cache holds a single key that is checked
		// for expiry on every read, and Identity has no lifecycle hook to
		// stop a background goroutine.
		i.cache = cache.NewMemory(0)
	}
	return i
}

// NewSession binds a fresh per-invocation session to the given persisted
// slot capability.
func (i *Identity) NewSession(slots persist.Store) *Session {
	return &Session{
		slots: slots,
		store: NewTokenStore(slots, i.cache, i.codec, i.log),
	}
}
