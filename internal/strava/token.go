package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"backend-pacewatch/internal/tokens"
)

const defaultTokenURL = "https://www.strava.com/oauth/token"

// Access tokens are refreshed this close to expiry.
const refreshLeeway = 60 * time.Second

// CredentialStore persists OAuth credentials across restarts.
type CredentialStore interface {
	Load(ctx context.Context) (tokens.Credentials, error)
	Save(ctx context.Context, c tokens.Credentials) error
}

// TokenManager caches the athlete's access token and refreshes it with the
// stored refresh token when it is about to expire. Safe for concurrent use.
type TokenManager struct {
	mu           sync.Mutex
	clientID     string
	clientSecret string
	tokenURL     string
	store        CredentialStore
	http         *http.Client
	now          func() time.Time

	cached tokens.Credentials
	loaded bool
}

func NewTokenManager(clientID, clientSecret string, store CredentialStore) *TokenManager {
	return &TokenManager{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		store:        store,
		http:         &http.Client{Timeout: 15 * time.Second},
		now:          time.Now,
	}
}

// WithTokenURL points the manager at a different token endpoint, used by
// tests.
func (m *TokenManager) WithTokenURL(u string) *TokenManager {
	m.tokenURL = u
	return m
}

func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		creds, err := m.store.Load(ctx)
		if err != nil {
			return "", fmt.Errorf("load credentials: %w", err)
		}
		m.cached = creds
		m.loaded = true
	}

	if !m.cached.Expired(m.now(), refreshLeeway) {
		return m.cached.AccessToken, nil
	}

	refreshed, err := m.refresh(ctx, m.cached)
	if err != nil {
		return "", err
	}
	m.cached = refreshed

	if err := m.store.Save(ctx, refreshed); err != nil {
		return "", fmt.Errorf("save credentials: %w", err)
	}
	return refreshed.AccessToken, nil
}

func (m *TokenManager) refresh(ctx context.Context, current tokens.Credentials) (tokens.Credentials, error) {
	form := url.Values{
		"client_id":     {m.clientID},
		"client_secret": {m.clientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {current.RefreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return tokens.Credentials{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.http.Do(req)
	if err != nil {
		return tokens.Credentials{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tokens.Credentials{}, fmt.Errorf("token refresh returned %d", resp.StatusCode)
	}

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresAt    int64  `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return tokens.Credentials{}, err
	}

	return tokens.Credentials{
		AthleteID:    current.AthleteID,
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		ExpiresAt:    time.Unix(body.ExpiresAt, 0),
	}, nil
}
