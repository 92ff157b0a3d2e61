package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/identitykit/pkg/gateway"
	"github.com/dmitrymomot/identitykit/pkg/token"
)

var testNow = time.Unix(1_700_000_000, 0)

func newClient(t *testing.T, handler http.HandlerFunc) *gateway.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := gateway.New(gateway.Config{
		ClientID:      "client-1",
		ClientSecret:  "secret-1",
		TokenURL:      srv.URL + "/oauth2/token",
		RevokeURL:     srv.URL + "/oauth2/revoke",
		UserAPIURL:    srv.URL + "/api/user",
		SSOCookieName: "datr",
	}, gateway.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestNewMissingConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  gateway.Config
	}{
		{"no client id", gateway.Config{ClientSecret: "s", TokenURL: "http://x"}},
		{"no client secret", gateway.Config{ClientID: "c", TokenURL: "http://x"}},
		{"no token endpoint", gateway.Config{ClientID: "c", ClientSecret: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := gateway.New(tt.cfg)
			assert.ErrorIs(t, err, gateway.ErrMissingConfig)
		})
	}
}

func TestIssueServiceToken(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, gateway.GrantClientCredentials, r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"), "secured call carries client credentials")
		assert.Equal(t, "secret-1", r.PostForm.Get("client_secret"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token": "svc-token",
			"expires_in":   1000,
		})
	})

	grant, err := client.IssueServiceToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token.KindService, grant.Token.Kind)
	assert.Equal(t, "svc-token", grant.Token.Value)
	assert.Equal(t, int64(900), grant.Token.ExpiresIn, "safety margin applied")
	assert.Equal(t, testNow.Unix()+900, grant.Token.ExpiresAt)
}

func TestIssueServiceTokenEmptyResponse(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"expires_in": 900})
	})

	_, err := client.IssueServiceToken(context.Background())
	assert.ErrorIs(t, err, gateway.ErrRequestFailed)
	assert.ErrorIs(t, err, gateway.ErrMalformedResponse)
}

func TestExchangeSession(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, gateway.GrantExchangeSession, r.PostForm.Get("grant_type"))

		signal, err := r.Cookie("datr")
		require.NoError(t, err, "sso signal travels as a cookie")
		assert.Equal(t, "sso-signal", signal.Value)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token":  "acc-1",
			"refresh_token": "ref-1",
			"expires_in":    1000,
			"login_status": map[string]any{
				"uid":           12345,
				"oid":           "obj-1",
				"connect_state": "connected",
			},
		})
	})

	grant, err := client.ExchangeSession(context.Background(), "sso-signal")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", grant.Access.Value)
	assert.Equal(t, "ref-1", grant.Refresh.Value)
	assert.Equal(t, grant.Access.ExpiresAt+1_036_800, grant.Refresh.ExpiresAt)
	assert.Equal(t, "12345", grant.Login.CkUsid)
	assert.Equal(t, "obj-1", grant.Login.OID)
	assert.True(t, grant.Login.Connected())
}

func TestExchangeSessionInvalidGrant(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error": "the session is no longer valid",
			"type":  "InvalidGrantException",
		})
	})

	_, err := client.ExchangeSession(context.Background(), "stale-signal")
	assert.ErrorIs(t, err, gateway.ErrInvalidGrant)
	assert.NotErrorIs(t, err, gateway.ErrRequestFailed)
}

func TestExchangeSessionEmptySignal(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent for an empty signal")
	})

	_, err := client.ExchangeSession(context.Background(), "   ")
	assert.ErrorIs(t, err, gateway.ErrEmptyCredential)
}

func TestIssueAccessToken(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, gateway.GrantAuthorizationCode, r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "https://app.example.com/cb", r.PostForm.Get("redirect_uri"))
		assert.Equal(t, "section-1", r.PostForm.Get("scope"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token":  "acc-2",
			"refresh_token": "ref-2",
			"expires_in":    600,
		})
	})

	grant, err := client.IssueAccessToken(context.Background(), "auth-code", "https://app.example.com/cb", "section-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", grant.Access.Value)
	assert.Equal(t, token.StateUnknown, grant.Login.State, "missing login_status defaults to unknown")
}

func TestRefreshAccessTokenMissingRefreshInResponse(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"access_token": "acc-3"})
	})

	_, err := client.RefreshAccessToken(context.Background(), "ref-3")
	assert.ErrorIs(t, err, gateway.ErrMalformedResponse)
}

func TestValidateBearer(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, gateway.GrantValidateBearer, r.PostForm.Get("grant_type"))
		assert.Equal(t, "acc-4", r.PostForm.Get("oauth_token"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"login_status": map[string]any{
				"uid":           "77",
				"oid":           "obj-7",
				"connect_state": "notConnected",
			},
		})
	})

	status, err := client.ValidateBearer(context.Background(), "acc-4")
	require.NoError(t, err)
	assert.Equal(t, token.StateNotConnected, status.State)
	assert.Equal(t, "77", status.CkUsid)
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	var gotPath string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ref-5", r.PostForm.Get("token"))
		assert.Equal(t, "refresh_token", r.PostForm.Get("token_type"))
		writeJSON(t, w, http.StatusOK, map[string]any{})
	})

	require.NoError(t, client.Revoke(context.Background(), "ref-5"))
	assert.Equal(t, "/oauth2/revoke", gotPath)
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	client, err := gateway.New(gateway.Config{
		ClientID:     "c",
		ClientSecret: "s",
		TokenURL:     srv.URL + "/oauth2/token",
	})
	require.NoError(t, err)

	_, err = client.IssueServiceToken(context.Background())
	assert.ErrorIs(t, err, gateway.ErrRequestFailed)
}

func TestNonOKWithoutErrorPayload(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.IssueServiceToken(context.Background())
	assert.ErrorIs(t, err, gateway.ErrRequestFailed)
}

func TestCheckUserCompleted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []map[string]any
		want bool
	}{
		{"no records", nil, true},
		{"all complete", []map[string]any{
			{"meta": map[string]any{"data": map[string]any{}}},
		}, true},
		{"needs to complete data", []map[string]any{
			{"meta": map[string]any{"data": map[string]any{"needsToCompleteData": "true"}}},
		}, false},
		{"needs to confirm ids in later record", []map[string]any{
			{"meta": map[string]any{"data": map[string]any{}}},
			{"meta": map[string]any{"data": map[string]any{"needsToConfirmIds": "true"}}},
		}, false},
		{"string false is complete", []map[string]any{
			{"meta": map[string]any{"data": map[string]any{"needsToCompleteData": "false"}}},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "acc-6", r.PostForm.Get("oauth_token"))
				assert.Equal(t, "needsToCompleteData", r.PostForm.Get("s"))
				assert.Equal(t, "UserMeta", r.PostForm.Get("f"))
				assert.Equal(t, "section-2", r.PostForm.Get("w.section"))
				assert.Empty(t, r.PostForm.Get("client_secret"), "user api call is not secured")

				writeJSON(t, w, http.StatusOK, map[string]any{"data": tt.data})
			})

			got, err := client.CheckUserCompleted(context.Background(), "acc-6", "section-2")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckUserNeedsTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []map[string]any
		want bool
	}{
		{"no records", nil, false},
		{"first carrying record wins true", []map[string]any{
			{"meta": map[string]any{"data": map[string]any{}}},
			{"meta": map[string]any{"data": map[string]any{"needsToAcceptTerms": "true"}}},
			{"meta": map[string]any{"data": map[string]any{"needsToAcceptTerms": "false"}}},
		}, true},
		{"first carrying record wins false", []map[string]any{
			{"meta": map[string]any{"data": map[string]any{"needsToAcceptTerms": "false"}}},
			{"meta": map[string]any{"data": map[string]any{"needsToAcceptTerms": "true"}}},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{"data": tt.data})
			})

			got, err := client.CheckUserNeedsTerms(context.Background(), "acc-7", "section-3")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
