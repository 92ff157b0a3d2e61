package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/identitykit/pkg/gateway"
)

// AuthorizeUser completes an authorization-code login: it exchanges the code
// for user tokens, installs them on the session and persists them. The
// session must already be synchronized so a service token is available.
func (i *Identity) AuthorizeUser(ctx context.Context, sess *Session, code, scope string) error {
	if sess == nil {
		return ErrNilSession
	}
	if strings.TrimSpace(code) == "" {
		return ErrEmptyAuthCode
	}

	grant, err := i.gw.IssueAccessToken(ctx, code, i.redirectURI, scope)
	if err != nil {
		i.log.WarnContext(ctx, "authorization code exchange failed", slog.Any("error", err))
		return err
	}

	sess.adoptUserGrant(grant.Access, grant.Refresh, grant.Login)
	i.persistUserTokens(ctx, sess)

	i.log.InfoContext(ctx, "user authorized via code exchange")
	return nil
}

// Logout revokes the user's refresh token on the provider side, removes the
// SSO signal so other domains stop recognizing the session, and clears the
// local user state. Local cleanup runs even when the remote revocation
// fails; the error is still returned so the caller can surface it.
func (i *Identity) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		return ErrNilSession
	}

	var revokeErr error
	if sess.Refresh.Valid() {
		if err := i.gw.Revoke(ctx, sess.Refresh.Value); err != nil {
			i.log.WarnContext(ctx, "remote revocation failed", slog.Any("error", err))
			revokeErr = err
		}
	}

	if _, name, ok := i.findSSOSignal(sess); ok {
		if err := sess.slots.Delete(name); err != nil {
			i.log.WarnContext(ctx, "sso signal deletion failed", slog.String("cookie", name), slog.Any("error", err))
		}
	}

	i.clearLocalSession(ctx, sess)
	i.log.InfoContext(ctx, "user logged out")
	return revokeErr
}

// CheckUserComplete reports whether the logged-in user has provided every
// field the given section requires. A session that is not connected is never
// complete.
func (i *Identity) CheckUserComplete(ctx context.Context, sess *Session, scope string) (bool, error) {
	if sess == nil {
		return false, ErrNilSession
	}
	if !sess.IsConnected() {
		return false, nil
	}
	return i.gw.CheckUserCompleted(ctx, sess.Access.Value, scope)
}

// CheckUserNeedsTerms reports whether the logged-in user still has to accept
// the terms and conditions for the given section. A disconnected session has
// nothing to accept.
func (i *Identity) CheckUserNeedsTerms(ctx context.Context, sess *Session, scope string) (bool, error) {
	if sess == nil {
		return false, ErrNilSession
	}
	if !sess.IsConnected() {
		return false, nil
	}
	return i.gw.CheckUserNeedsTerms(ctx, sess.Access.Value, scope)
}

// IsInvalidGrant reports whether an error from any SDK operation means the
// provider rejected the credential itself, as opposed to a transport or
// protocol failure.
func IsInvalidGrant(err error) bool {
	return errors.Is(err, gateway.ErrInvalidGrant)
}
