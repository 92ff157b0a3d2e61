package gateway

import (
	"fmt"

	"github.com/dmitrymomot/identitykit/pkg/endpoints"
)

// Config holds the client credentials and provider endpoints. Endpoint URLs
// usually come from an endpoints.Catalog; the env tags cover deployments that
// configure them directly.
type Config struct {
	ClientID     string `env:"IDENTITY_CLIENT_ID,required"`
	ClientSecret string `env:"IDENTITY_CLIENT_SECRET,required"`

	TokenURL   string `env:"IDENTITY_TOKEN_URL"`
	RevokeURL  string `env:"IDENTITY_REVOKE_URL"`
	UserAPIURL string `env:"IDENTITY_USER_API_URL"`

	// SSOCookieName is the cookie the exchange-session grant forwards the
	// SSO signal in. Fixed by the provider contract.
	SSOCookieName string `env:"IDENTITY_SSO_COOKIE_NAME" envDefault:"datr"`
}

// WithEndpoints copies resolved catalog endpoints into the config.
func (c Config) WithEndpoints(eps endpoints.Endpoints) Config {
	c.TokenURL = eps.TokenURL
	c.RevokeURL = eps.RevokeURL
	c.UserAPIURL = eps.UserAPIURL
	return c
}

func (c Config) validate() error {
	switch {
	case c.ClientID == "":
		return fmt.Errorf("%w: client id", ErrMissingConfig)
	case c.ClientSecret == "":
		return fmt.Errorf("%w: client secret", ErrMissingConfig)
	case c.TokenURL == "":
		return fmt.Errorf("%w: token endpoint", ErrMissingConfig)
	}
	return nil
}
