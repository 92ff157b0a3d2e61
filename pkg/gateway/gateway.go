package gateway

import (
	"context"

	"github.com/dmitrymomot/identitykit/pkg/token"
)

// OAuth2 grant type discriminators. The exchange-session and validate-bearer
// grants are provider extensions carried as URNs.
const (
	GrantClientCredentials = "client_credentials"
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
	GrantExchangeSession   = "urn:oauth2:grant_type:exchange_session"
	GrantValidateBearer    = "urn:oauth2:grant_type:validate_bearer"
)

// ServiceGrant is the result of a client-credentials issuance.
type ServiceGrant struct {
	Token token.Token
}

// UserGrant is the result of any user-level grant: auth-code exchange,
// SSO session exchange or refresh. The provider returns both tokens plus its
// current view of the identity.
type UserGrant struct {
	Access  token.Token
	Refresh token.Token
	Login   token.LoginStatus
}

// Gateway is the capability the session core depends on for all remote
// identity-provider calls. Every operation can fail with ErrInvalidGrant
// (the credential itself was rejected) or ErrRequestFailed (transport or
// HTTP-level problem); callers branch on meaning via errors.Is.
type Gateway interface {
	// IssueServiceToken requests a client-level credential via the
	// client-credentials grant.
	IssueServiceToken(ctx context.Context) (ServiceGrant, error)

	// ExchangeSession trades an externally-set SSO signal for user tokens.
	ExchangeSession(ctx context.Context, ssoSignal string) (UserGrant, error)

	// IssueAccessToken exchanges an authorization code for user tokens.
	IssueAccessToken(ctx context.Context, code, redirectURI, scope string) (UserGrant, error)

	// RefreshAccessToken renews the user tokens from a refresh token.
	RefreshAccessToken(ctx context.Context, refreshToken string) (UserGrant, error)

	// ValidateBearer asks the provider for its current view of the identity
	// behind an access token.
	ValidateBearer(ctx context.Context, accessToken string) (token.LoginStatus, error)

	// Revoke invalidates the user's refresh token (and with it the session)
	// on the provider side.
	Revoke(ctx context.Context, refreshToken string) error

	// CheckUserCompleted reports whether the user has filled out every field
	// the given section (scope) requires.
	CheckUserCompleted(ctx context.Context, accessToken, scope string) (bool, error)

	// CheckUserNeedsTerms reports whether the user still has to accept the
	// terms and conditions for the given section (scope).
	CheckUserNeedsTerms(ctx context.Context, accessToken, scope string) (bool, error)
}
