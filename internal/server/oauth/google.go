// Package oauth implements sign-in with Google: building the consent URL and
// turning the callback code into an external identity assertion.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/services"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var defaultScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	StateTTL     time.Duration
}

type GoogleProvider struct {
	conf        *oauth2.Config
	states      StateStore
	stateTTL    time.Duration
	userInfoURL string
	httpClient  *http.Client
}

type GoogleOption func(*GoogleProvider)

// WithEndpoint overrides the Google authorization and token endpoints.
func WithEndpoint(e oauth2.Endpoint) GoogleOption {
	return func(p *GoogleProvider) { p.conf.Endpoint = e }
}

func WithUserInfoURL(u string) GoogleOption {
	return func(p *GoogleProvider) { p.userInfoURL = u }
}

func WithHTTPClient(c *http.Client) GoogleOption {
	return func(p *GoogleProvider) { p.httpClient = c }
}

func NewGoogleProvider(cfg GoogleConfig, states StateStore, opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       defaultScopes,
			Endpoint:     google.Endpoint,
		},
		states:      states,
		stateTTL:    cfg.StateTTL,
		userInfoURL: defaultUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthURL stores a fresh state value and returns the consent page URL.
func (p *GoogleProvider) AuthURL(ctx context.Context) (string, error) {
	state, err := common.RandomToken(24)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	if err := p.states.Put(ctx, state, p.stateTTL); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return p.conf.AuthCodeURL(state), nil
}

// Exchange validates state, trades code for a token and reads the Google
// profile. Unknown or reused state yields common.ErrInvalidState.
func (p *GoogleProvider) Exchange(ctx context.Context, code, state string) (services.ExternalAssertion, error) {
	ok, err := p.states.Consume(ctx, state)
	if err != nil {
		return services.ExternalAssertion{}, fmt.Errorf("consume state: %w", err)
	}
	if !ok {
		return services.ExternalAssertion{}, common.ErrInvalidState
	}

	tok, err := p.conf.Exchange(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient), code)
	if err != nil {
		return services.ExternalAssertion{}, fmt.Errorf("exchange code: %w", err)
	}

	u, err := p.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return services.ExternalAssertion{}, fmt.Errorf("fetch google user: %w", err)
	}

	return services.ExternalAssertion{
		ExternalID: u.ID,
		Email:      u.Email,
		FirstName:  u.GivenName,
		LastName:   u.FamilyName,
	}, nil
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

func (p *GoogleProvider) fetchUser(ctx context.Context, accessToken string) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", common.BearerPrefix+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var u googleUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}
