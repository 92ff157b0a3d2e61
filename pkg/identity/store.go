package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/identitykit/pkg/cache"
	"github.com/dmitrymomot/identitykit/pkg/persist"
	"github.com/dmitrymomot/identitykit/pkg/token"
	"github.com/dmitrymomot/identitykit/pkg/tokencodec"
)

// serviceCacheKey is deliberately not parameterized: the SDK assumes one
// OAuth client per cache pool. A process serving several clients from one
// pool would collide here; see the package documentation.
const serviceCacheKey = "identity:service_token"

// Source says where a token was resolved from, so the synchronizer can log
// and react to the difference between a cache hit and a slot read.
type Source int

const (
	SourceNone Source = iota
	SourceSession
	SourceCache
	SourceSlot
)

func (s Source) String() string {
	switch s {
	case SourceSession:
		return "session"
	case SourceCache:
		return "cache"
	case SourceSlot:
		return "slot"
	}
	return "none"
}

// TokenStore resolves which copy of a token is authoritative for one
// invocation and keeps the persisted slots and the shared cache in step.
//
// Read precedence is per kind: the service token prefers the shared cache
// and falls back to its persisted slot; access and refresh tokens prefer the
// already-resolved session state and fall back to their slots. User tokens
// are never cached in the shared pool, which would leak them across
// identities.
type TokenStore struct {
	slots persist.Store
	cache cache.Cache
	codec *tokencodec.Codec
	log   *slog.Logger
}

// NewTokenStore wires the store for one invocation's slot capability.
func NewTokenStore(slots persist.Store, shared cache.Cache, codec *tokencodec.Codec, log *slog.Logger) *TokenStore {
	if log == nil {
		log = slog.Default()
	}
	return &TokenStore{slots: slots, cache: shared, codec: codec, log: log}
}

// cachedToken is the cache wire form of a service token. Slots hold only the
// encrypted value; the cache keeps the expiry bookkeeping as well.
type cachedToken struct {
	Value     string `json:"value"`
	ExpiresIn int64  `json:"expires_in"`
	ExpiresAt int64  `json:"expires_at"`
}

// Get resolves a token following the kind's read precedence. SourceNone
// means the token is absent everywhere.
func (ts *TokenStore) Get(ctx context.Context, sess *Session, kind token.Kind) (token.Token, Source) {
	switch kind {
	case token.KindService:
		if tok, ok := ts.cachedService(ctx); ok {
			return tok, SourceCache
		}
	case token.KindAccess:
		if sess != nil && sess.Access.Valid() {
			return sess.Access, SourceSession
		}
	case token.KindRefresh:
		if sess != nil && sess.Refresh.Valid() {
			return sess.Refresh, SourceSession
		}
	default:
		return token.Token{}, SourceNone
	}

	if tok, ok := ts.slotToken(kind); ok {
		return tok, SourceSlot
	}
	return token.Token{}, SourceNone
}

// Put encrypts the token into its persisted slot and, for the service kind,
// mirrors it into the shared cache with TTL equal to the token's remaining
// lifetime.
func (ts *TokenStore) Put(ctx context.Context, tok token.Token) error {
	if !tok.Kind.Valid() {
		return ErrUnknownTokenKind
	}
	if !tok.Valid() {
		return ErrAbsentToken
	}

	encoded, err := ts.codec.Encode(tok.Value)
	if err != nil {
		return err
	}

	entry := persist.Entry{
		Name:     tok.Kind.SlotName(),
		Value:    encoded,
		Path:     tok.Path,
		HttpOnly: true,
	}
	if tok.ExpiresAt > 0 {
		entry.Expires = time.Unix(tok.ExpiresAt, 0)
	}
	if err := ts.slots.Set(entry); err != nil {
		return err
	}

	if tok.Kind == token.KindService {
		ts.cacheService(ctx, tok)
	}
	return nil
}

// Delete clears the persisted slot and, for the service kind, the shared
// cache entry.
func (ts *TokenStore) Delete(ctx context.Context, kind token.Kind) error {
	if !kind.Valid() {
		return ErrUnknownTokenKind
	}

	err := ts.slots.Delete(kind.SlotName())
	if kind == token.KindService && ts.cache != nil {
		if cerr := ts.cache.Delete(ctx, serviceCacheKey); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

func (ts *TokenStore) cachedService(ctx context.Context) (token.Token, bool) {
	if ts.cache == nil {
		return token.Token{}, false
	}

	raw, err := ts.cache.Get(ctx, serviceCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			ts.log.WarnContext(ctx, "service token cache read failed", slog.Any("error", err))
		}
		return token.Token{}, false
	}

	var ct cachedToken
	if err := json.Unmarshal(raw, &ct); err != nil || ct.Value == "" {
		return token.Token{}, false
	}
	return token.New(token.KindService, ct.Value, ct.ExpiresIn, ct.ExpiresAt), true
}

func (ts *TokenStore) cacheService(ctx context.Context, tok token.Token) {
	// Without a known lifetime the entry could outlive the token; skip.
	if ts.cache == nil || tok.ExpiresIn <= 0 {
		return
	}

	raw, err := json.Marshal(cachedToken{Value: tok.Value, ExpiresIn: tok.ExpiresIn, ExpiresAt: tok.ExpiresAt})
	if err != nil {
		return
	}
	if err := ts.cache.Set(ctx, serviceCacheKey, raw, time.Duration(tok.ExpiresIn)*time.Second); err != nil {
		ts.log.WarnContext(ctx, "service token cache write failed", slog.Any("error", err))
	}
}

func (ts *TokenStore) slotToken(kind token.Kind) (token.Token, bool) {
	raw, err := ts.slots.Get(kind.SlotName())
	if err != nil {
		return token.Token{}, false
	}

	value, err := ts.codec.Decode(raw)
	if err != nil {
		// An undecodable slot is as good as an absent one; the synchronizer
		// will fetch a fresh credential.
		ts.log.Debug("persisted token slot did not decode", slog.String("kind", string(kind)), slog.Any("error", err))
		return token.Token{}, false
	}

	// Slots carry no expiry bookkeeping, so restored tokens have an unknown
	// expiry (ExpiresAt == 0).
	tok := token.New(kind, value, 0, 0)
	return tok, tok.Valid()
}
