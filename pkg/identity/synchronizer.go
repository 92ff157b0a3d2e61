package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/identitykit/pkg/gateway"
	"github.com/dmitrymomot/identitykit/pkg/token"
)

// Synchronize reconciles the session with the provider. It runs at most once
// per session; repeated calls are no-ops. The sequence:
//
//  1. Resolve the service token (cache, then slot, then a fresh issuance).
//     Failure here is fatal to the synchronization.
//  2. Restore user tokens from their persisted slots.
//  3. Without an access token, try the SSO signal; with one, refresh it when
//     it is expired or was restored alongside a refresh token, re-validate
//     the login status otherwise.
//  4. If the user tokens survived but the provider does not consider the
//     identity connected, drop all local user state.
//
// On error the session keeps whatever partial state was assembled; callers
// that treat synchronization as best-effort (the middleware does) log the
// error and serve the request unauthenticated.
func (i *Identity) Synchronize(ctx context.Context, sess *Session) error {
	if sess == nil {
		return ErrNilSession
	}
	if sess.synchronized {
		return nil
	}
	sess.synchronized = true

	i.log.DebugContext(ctx, "synchronizing session with provider")

	if err := i.ensureServiceToken(ctx, sess); err != nil {
		i.log.ErrorContext(ctx, "service token resolution failed", slog.Any("error", err))
		return err
	}

	i.loadUserTokens(ctx, sess)

	if !sess.Access.Valid() {
		i.log.DebugContext(ctx, "user is not logged in, checking sso signal")
		if err := i.checkSSO(ctx, sess); err != nil {
			i.log.WarnContext(ctx, "sso exchange failed", slog.Any("error", err))
			return err
		}
		if sess.Refresh.Valid() {
			// The exchange always gets validated through a refresh before the
			// session is trusted.
			if err := i.refreshUserTokens(ctx, sess); err != nil {
				i.log.WarnContext(ctx, "post-sso refresh failed", slog.Any("error", err))
				return err
			}
		}
	} else {
		switch {
		case sess.Access.Expired(i.now()):
			i.log.DebugContext(ctx, "access token expired, refreshing")
			if err := i.refreshUserTokens(ctx, sess); err != nil {
				i.log.WarnContext(ctx, "refresh failed", slog.Any("error", err))
				return err
			}
		case sess.Login.Connected():
			if err := i.checkLoginStatus(ctx, sess); err != nil {
				i.log.WarnContext(ctx, "login status check failed", slog.Any("error", err))
				return err
			}
		case sess.Refresh.Valid():
			// A slot-restored pair carries neither expiry bookkeeping nor a
			// confirmed login status; one refresh re-acquires both before the
			// session is trusted. A lone access token stays untouched until
			// the provider rejects it.
			i.log.DebugContext(ctx, "restored token pair, refreshing to confirm the session")
			if err := i.refreshUserTokens(ctx, sess); err != nil {
				i.log.WarnContext(ctx, "restored session refresh failed", slog.Any("error", err))
				return err
			}
		}
	}

	// A full set of user tokens without a connected login status is an
	// inconsistent terminal state; holding on to it would let the embedding
	// app treat a rejected identity as logged in.
	if sess.Access.Valid() && sess.Refresh.Valid() && !sess.IsConnected() {
		i.log.WarnContext(ctx, "user tokens present but session is not connected, clearing local session data")
		i.clearLocalSession(ctx, sess)
	}

	return nil
}

// ensureServiceToken resolves the client-level credential: shared cache
// first, persisted slot second, fresh issuance last.
func (i *Identity) ensureServiceToken(ctx context.Context, sess *Session) error {
	if tok, src := sess.store.Get(ctx, sess, token.KindService); src != SourceNone {
		i.log.DebugContext(ctx, "service token resolved", slog.String("source", src.String()))
		sess.Service = tok
		return nil
	}

	i.log.DebugContext(ctx, "service token absent, requesting a new one")
	grant, err := i.gw.IssueServiceToken(ctx)
	if err != nil {
		return err
	}
	sess.Service = grant.Token

	if err := sess.store.Put(ctx, grant.Token); err != nil {
		// The invocation still has a usable token in memory.
		i.log.WarnContext(ctx, "service token persistence failed", slog.Any("error", err))
	}
	return nil
}

// loadUserTokens restores access and refresh tokens from their persisted
// slots. Only slots that decode cleanly are adopted.
func (i *Identity) loadUserTokens(ctx context.Context, sess *Session) {
	if sess.Access.Valid() {
		return
	}

	if tok, src := sess.store.Get(ctx, sess, token.KindAccess); src != SourceNone {
		sess.Access = tok
	}
	if tok, src := sess.store.Get(ctx, sess, token.KindRefresh); src != SourceNone {
		sess.Refresh = tok
	}
}

// checkSSO looks for an externally-set single-sign-on signal and exchanges
// it for user tokens. A missing signal is the normal not-logged-in case, not
// an error. An invalid-grant rejection deletes the stale signal before
// propagating, so the next invocation does not retry a dead session.
func (i *Identity) checkSSO(ctx context.Context, sess *Session) error {
	signal, name, ok := i.findSSOSignal(sess)
	if !ok {
		i.log.DebugContext(ctx, "sso signal not present, user stays unauthenticated")
		return nil
	}

	i.log.InfoContext(ctx, "sso signal found", slog.String("cookie", name))

	grant, err := i.gw.ExchangeSession(ctx, signal)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidGrant) {
			i.log.WarnContext(ctx, "sso signal rejected, deleting it", slog.String("cookie", name))
			_ = sess.slots.Delete(name)
		}
		return err
	}

	sess.adoptUserGrant(grant.Access, grant.Refresh, grant.Login)
	i.persistUserTokens(ctx, sess)
	return nil
}

// findSSOSignal returns the first SSO signal visible to this invocation: the
// well-known cookie wins, then any cookie sharing the prefix, in the order
// the slot store enumerates them.
func (i *Identity) findSSOSignal(sess *Session) (value, name string, ok bool) {
	if v, err := sess.slots.Get(i.ssoName); err == nil && v != "" {
		return v, i.ssoName, true
	}

	for _, n := range sess.slots.Names() {
		if !strings.HasPrefix(n, i.ssoPrefix) {
			continue
		}
		if v, err := sess.slots.Get(n); err == nil && v != "" {
			return v, n, true
		}
	}
	return "", "", false
}

// refreshUserTokens renews the user tokens through the refresh grant. An
// invalid-grant rejection clears all local user state before propagating:
// the provider revoked the session and keeping the tokens would only replay
// the rejection forever.
func (i *Identity) refreshUserTokens(ctx context.Context, sess *Session) error {
	if !sess.Refresh.Valid() {
		return ErrNoRefreshToken
	}

	grant, err := i.gw.RefreshAccessToken(ctx, sess.Refresh.Value)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidGrant) {
			i.log.WarnContext(ctx, "refresh token rejected, clearing local session data")
			i.clearLocalSession(ctx, sess)
		}
		return err
	}

	sess.adoptUserGrant(grant.Access, grant.Refresh, grant.Login)
	i.persistUserTokens(ctx, sess)
	return nil
}

// checkLoginStatus re-validates an unexpired access token, but only when the
// last known state was connected; an unknown or disconnected state has
// nothing worth validating. An invalid-grant rejection means the token died
// early; recovery is a single refresh, never a retry loop.
func (i *Identity) checkLoginStatus(ctx context.Context, sess *Session) error {
	if !sess.Login.Connected() {
		return nil
	}

	status, err := i.gw.ValidateBearer(ctx, sess.Access.Value)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidGrant) {
			i.log.WarnContext(ctx, "access token unexpectedly rejected, recovering via refresh")
			return i.refreshUserTokens(ctx, sess)
		}
		return err
	}

	sess.Login = status
	return nil
}

// persistUserTokens writes both user tokens to their slots. Persistence
// failures are logged, not fatal: the invocation holds valid tokens in
// memory and the next one can re-authenticate.
func (i *Identity) persistUserTokens(ctx context.Context, sess *Session) {
	if err := sess.store.Put(ctx, sess.Access); err != nil {
		i.log.WarnContext(ctx, "access token persistence failed", slog.Any("error", err))
	}
	if err := sess.store.Put(ctx, sess.Refresh); err != nil {
		i.log.WarnContext(ctx, "refresh token persistence failed", slog.Any("error", err))
	}
}

// clearLocalSession drops the user tokens and login status from the session
// and their persisted slots. The service token is client-level state and
// survives.
func (i *Identity) clearLocalSession(ctx context.Context, sess *Session) {
	sess.clearUser()
	if err := sess.store.Delete(ctx, token.KindAccess); err != nil {
		i.log.WarnContext(ctx, "access token slot deletion failed", slog.Any("error", err))
	}
	if err := sess.store.Delete(ctx, token.KindRefresh); err != nil {
		i.log.WarnContext(ctx, "refresh token slot deletion failed", slog.Any("error", err))
	}
}
