package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newFakeGoogle(t *testing.T, profile map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "google-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer google-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profile)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(srv *httptest.Server, states StateStore) *GoogleProvider {
	return NewGoogleProvider(GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/api/auth/google/callback",
		StateTTL:     time.Minute,
	}, states,
		WithEndpoint(oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}),
		WithUserInfoURL(srv.URL+"/userinfo"),
		WithHTTPClient(srv.Client()),
	)
}

func stateFrom(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestAuthURL(t *testing.T) {
	srv := newFakeGoogle(t, nil)
	states := NewMemoryStateStore()
	p := newProvider(srv, states)

	raw, err := p.AuthURL(context.Background())
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")
	assert.Contains(t, q.Get("scope"), "userinfo.profile")
	assert.Len(t, q.Get("state"), 32)

	other, err := p.AuthURL(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, q.Get("state"), stateFrom(t, other))
}

func TestExchange_Success(t *testing.T) {
	srv := newFakeGoogle(t, map[string]any{
		"id": "g-123", "email": "g@x.io", "verified_email": true,
		"given_name": "Gina", "family_name": "Ray",
	})
	p := newProvider(srv, NewMemoryStateStore())
	ctx := context.Background()

	authURL, err := p.AuthURL(ctx)
	require.NoError(t, err)
	state := stateFrom(t, authURL)

	got, err := p.Exchange(ctx, "good-code", state)
	require.NoError(t, err)
	assert.Equal(t, services.ExternalAssertion{
		ExternalID: "g-123", Email: "g@x.io", FirstName: "Gina", LastName: "Ray",
	}, got)

	_, err = p.Exchange(ctx, "good-code", state)
	assert.ErrorIs(t, err, common.ErrInvalidState, "replayed state")
}

func TestExchange_UnknownState(t *testing.T) {
	srv := newFakeGoogle(t, nil)
	p := newProvider(srv, NewMemoryStateStore())

	_, err := p.Exchange(context.Background(), "good-code", "forged")
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestExchange_BadCode(t *testing.T) {
	srv := newFakeGoogle(t, nil)
	p := newProvider(srv, NewMemoryStateStore())
	ctx := context.Background()

	authURL, err := p.AuthURL(ctx)
	require.NoError(t, err)

	_, err = p.Exchange(ctx, "bad-code", stateFrom(t, authURL))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidState)
}

func TestExchange_ProfileWithoutEmail(t *testing.T) {
	srv := newFakeGoogle(t, map[string]any{"id": "g-123"})
	p := newProvider(srv, NewMemoryStateStore())
	ctx := context.Background()

	authURL, err := p.AuthURL(ctx)
	require.NoError(t, err)

	got, err := p.Exchange(ctx, "good-code", stateFrom(t, authURL))
	require.NoError(t, err)
	assert.Equal(t, "g-123", got.ExternalID)
	assert.Empty(t, got.Email)
}
