package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTokenURL = "https://id.twitch.tv/oauth2/token"

// TokenProvider exchanges client credentials for a bearer token and
// caches it until expiry. It is passed to Client explicitly instead of
// living in package-level state, so commands and tests can supply
// their own instance.
type TokenProvider struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	HTTPClient   *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewTokenProvider returns a provider talking to the Twitch OAuth endpoint.
func NewTokenProvider(clientID, clientSecret string) *TokenProvider {
	return &TokenProvider{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     defaultTokenURL,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Token returns a valid access token, refreshing it through the
// client-credentials grant when missing or expired. A 60s safety margin
// keeps a token from expiring mid-request.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expires.Add(-60*time.Second)) {
		return p.token, nil
	}

	if p.ClientID == "" || p.ClientSecret == "" {
		return "", fmt.Errorf("igdb: client id and secret must be set")
	}

	form := url.Values{
		"client_id":     {p.ClientID},
		"client_secret": {p.ClientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("igdb: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("igdb: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("igdb: token request failed with status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("igdb: decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("igdb: token response missing access_token")
	}

	p.token = tr.AccessToken
	p.expires = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return p.token, nil
}

// Invalidate drops the cached token so the next call refreshes.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	p.token = ""
	p.expires = time.Time{}
	p.mu.Unlock()
}
