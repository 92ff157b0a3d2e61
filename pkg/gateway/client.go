package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/identitykit/pkg/token"
)

// invalidGrantType is the rejection discriminator the provider sends when a
// credential itself, rather than the request, is bad.
const invalidGrantType = "InvalidGrantException"

// Client implements Gateway over the provider's form-encoded POST protocol.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
	now  func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client, e.g. to add transport
// middleware or shorten timeouts.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock overrides the time source used for expiry arithmetic. Intended
// for tests.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New validates the config and builds a gateway client.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) IssueServiceToken(ctx context.Context) (ServiceGrant, error) {
	c.log.DebugContext(ctx, "requesting service token")

	params := url.Values{}
	params.Set("grant_type", GrantClientCredentials)

	wire, err := c.postForm(ctx, c.cfg.TokenURL, params, true, nil)
	if err != nil {
		return ServiceGrant{}, err
	}
	if wire.AccessToken == "" {
		return ServiceGrant{}, errors.Join(ErrRequestFailed, ErrMalformedResponse, errors.New("access_token is empty"))
	}

	adjusted, expiresAt, _ := token.Schedule(wire.ExpiresIn, c.now())
	return ServiceGrant{
		Token: token.New(token.KindService, wire.AccessToken, adjusted, expiresAt),
	}, nil
}

func (c *Client) ExchangeSession(ctx context.Context, ssoSignal string) (UserGrant, error) {
	if strings.TrimSpace(ssoSignal) == "" {
		return UserGrant{}, fmt.Errorf("%w: sso signal", ErrEmptyCredential)
	}
	c.log.DebugContext(ctx, "exchanging sso session for user tokens")

	params := url.Values{}
	params.Set("grant_type", GrantExchangeSession)

	signal := &http.Cookie{Name: c.cfg.SSOCookieName, Value: ssoSignal}
	wire, err := c.postForm(ctx, c.cfg.TokenURL, params, true, signal)
	if err != nil {
		return UserGrant{}, err
	}
	return c.userGrant(wire)
}

func (c *Client) IssueAccessToken(ctx context.Context, code, redirectURI, scope string) (UserGrant, error) {
	switch {
	case strings.TrimSpace(code) == "":
		return UserGrant{}, fmt.Errorf("%w: authorization code", ErrEmptyCredential)
	case strings.TrimSpace(redirectURI) == "":
		return UserGrant{}, fmt.Errorf("%w: redirect uri", ErrEmptyCredential)
	case strings.TrimSpace(scope) == "":
		return UserGrant{}, fmt.Errorf("%w: scope", ErrEmptyCredential)
	}
	c.log.DebugContext(ctx, "exchanging authorization code for user tokens")

	params := url.Values{}
	params.Set("grant_type", GrantAuthorizationCode)
	params.Set("code", code)
	params.Set("redirect_uri", redirectURI)
	params.Set("scope", scope)

	wire, err := c.postForm(ctx, c.cfg.TokenURL, params, true, nil)
	if err != nil {
		return UserGrant{}, err
	}
	return c.userGrant(wire)
}

func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (UserGrant, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return UserGrant{}, fmt.Errorf("%w: refresh token", ErrEmptyCredential)
	}
	c.log.DebugContext(ctx, "refreshing access token")

	params := url.Values{}
	params.Set("grant_type", GrantRefreshToken)
	params.Set("refresh_token", refreshToken)

	wire, err := c.postForm(ctx, c.cfg.TokenURL, params, true, nil)
	if err != nil {
		return UserGrant{}, err
	}
	return c.userGrant(wire)
}

func (c *Client) ValidateBearer(ctx context.Context, accessToken string) (token.LoginStatus, error) {
	if strings.TrimSpace(accessToken) == "" {
		return token.LoginStatus{}, fmt.Errorf("%w: access token", ErrEmptyCredential)
	}
	c.log.DebugContext(ctx, "validating bearer")

	params := url.Values{}
	params.Set("grant_type", GrantValidateBearer)
	params.Set("oauth_token", accessToken)

	wire, err := c.postForm(ctx, c.cfg.TokenURL, params, true, nil)
	if err != nil {
		return token.LoginStatus{}, err
	}
	return wire.loginStatus(), nil
}

func (c *Client) Revoke(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return fmt.Errorf("%w: refresh token", ErrEmptyCredential)
	}
	c.log.DebugContext(ctx, "revoking refresh token")

	params := url.Values{}
	params.Set("token", refreshToken)
	params.Set("token_type", "refresh_token")

	_, err := c.postForm(ctx, c.cfg.RevokeURL, params, true, nil)
	return err
}

func (c *Client) CheckUserCompleted(ctx context.Context, accessToken, scope string) (bool, error) {
	wire, err := c.checkUserMeta(ctx, accessToken, scope)
	if err != nil {
		return false, err
	}

	// A single record still needing confirmation or completion flips the
	// whole answer; the provider reports booleans as the strings they were
	// stored as.
	for _, record := range wire.Data {
		if record.Meta.Data.NeedsToConfirmIDs == "true" || record.Meta.Data.NeedsToCompleteData == "true" {
			return false, nil
		}
	}
	return true, nil
}

func (c *Client) CheckUserNeedsTerms(ctx context.Context, accessToken, scope string) (bool, error) {
	wire, err := c.checkUserMeta(ctx, accessToken, scope)
	if err != nil {
		return false, err
	}

	// First record that carries the field wins, in provider order.
	for _, record := range wire.Data {
		if record.Meta.Data.NeedsToAcceptTerms != "" {
			return record.Meta.Data.NeedsToAcceptTerms == "true", nil
		}
	}
	return false, nil
}

func (c *Client) checkUserMeta(ctx context.Context, accessToken, scope string) (*wireResponse, error) {
	switch {
	case strings.TrimSpace(accessToken) == "":
		return nil, fmt.Errorf("%w: access token", ErrEmptyCredential)
	case strings.TrimSpace(scope) == "":
		return nil, fmt.Errorf("%w: scope", ErrEmptyCredential)
	case c.cfg.UserAPIURL == "":
		return nil, fmt.Errorf("%w: user api endpoint", ErrMissingConfig)
	}
	c.log.DebugContext(ctx, "checking user section data", slog.String("scope", scope))

	params := url.Values{}
	params.Set("oauth_token", accessToken)
	params.Set("s", "needsToCompleteData")
	params.Set("f", "UserMeta")
	params.Set("w.section", scope)

	return c.postForm(ctx, c.cfg.UserAPIURL, params, false, nil)
}

// postForm sends a form-encoded POST. When secured, the client credentials
// are appended to the form; a non-nil signal cookie travels on the request.
func (c *Client) postForm(ctx context.Context, endpoint string, params url.Values, secured bool, signal *http.Cookie) (*wireResponse, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint url", ErrMissingConfig)
	}

	if secured {
		params.Set("client_id", c.cfg.ClientID)
		params.Set("client_secret", c.cfg.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if signal != nil {
		req.AddCookie(signal)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	wire := &wireResponse{}
	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType == "application/json" && len(body) > 0 {
		if err := json.Unmarshal(body, wire); err != nil {
			return nil, errors.Join(ErrRequestFailed, ErrMalformedResponse, err)
		}
	}

	// A provider rejection beats the HTTP status: invalid grants arrive with
	// non-200 codes but carry the more specific error payload.
	if wire.Error != "" {
		if wire.Type == invalidGrantType {
			return nil, fmt.Errorf("%w: %s", ErrInvalidGrant, wire.Error)
		}
		return nil, fmt.Errorf("%w: %s (%s)", ErrRequestFailed, wire.Error, wire.Type)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrRequestFailed, resp.StatusCode)
	}

	return wire, nil
}

// userGrant assembles the tokens and login status from a user-level grant
// response, applying the expiry schedule.
func (c *Client) userGrant(wire *wireResponse) (UserGrant, error) {
	if wire.AccessToken == "" {
		return UserGrant{}, errors.Join(ErrRequestFailed, ErrMalformedResponse, errors.New("access_token is empty"))
	}
	if wire.RefreshToken == "" {
		return UserGrant{}, errors.Join(ErrRequestFailed, ErrMalformedResponse, errors.New("refresh_token is empty"))
	}

	adjusted, expiresAt, refreshExpiresAt := token.Schedule(wire.ExpiresIn, c.now())
	return UserGrant{
		Access:  token.New(token.KindAccess, wire.AccessToken, adjusted, expiresAt),
		Refresh: token.New(token.KindRefresh, wire.RefreshToken, 0, refreshExpiresAt),
		Login:   wire.loginStatus(),
	}, nil
}

type wireResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	LoginStatus  *wireLoginStatus `json:"login_status"`
	Error        string           `json:"error"`
	Type         string           `json:"type"`
	Data         []wireUserRecord `json:"data"`
}

type wireLoginStatus struct {
	UID          json.Number `json:"uid"`
	OID          string      `json:"oid"`
	ConnectState string      `json:"connect_state"`
}

type wireUserRecord struct {
	Meta struct {
		Data struct {
			NeedsToConfirmIDs   string `json:"needsToConfirmIds"`
			NeedsToCompleteData string `json:"needsToCompleteData"`
			NeedsToAcceptTerms  string `json:"needsToAcceptTerms"`
		} `json:"data"`
	} `json:"meta"`
}

func (w *wireResponse) loginStatus() token.LoginStatus {
	if w.LoginStatus == nil {
		return token.LoginStatus{State: token.StateUnknown}
	}
	return token.LoginStatus{
		CkUsid: w.LoginStatus.UID.String(),
		OID:    w.LoginStatus.OID,
		State:  token.ParseConnectState(w.LoginStatus.ConnectState),
	}
}
