package gcal

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const calendarScope = "https://www.googleapis.com/auth/calendar"

// tokenSource exchanges a service-account JWT assertion for short-lived
// access tokens and caches the result until shortly before expiry.
type tokenSource struct {
	tokenURL string
	email    string
	key      *rsa.PrivateKey
	http     *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenSource(tokenURL, email, pemKey string, httpClient *http.Client) (*tokenSource, error) {
	if email == "" || pemKey == "" {
		return nil, errors.New("service account credentials are not configured")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	return &tokenSource{
		tokenURL: tokenURL,
		email:    email,
		key:      key,
		http:     httpClient,
	}, nil
}

// Token returns a valid access token, refreshing it when within a minute of expiry.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Until(ts.expiresAt) > time.Minute {
		return ts.token, nil
	}

	token, expiresIn, err := ts.exchange(ctx)
	if err != nil {
		return "", err
	}

	ts.token = token
	ts.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return ts.token, nil
}

func (ts *tokenSource) exchange(ctx context.Context) (string, int, error) {
	now := time.Now()
	assertion := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   ts.email,
		"scope": calendarScope,
		"aud":   ts.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})

	signed, err := assertion.SignedString(ts.key)
	if err != nil {
		return "", 0, fmt.Errorf("sign assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {signed},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.http.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, fmt.Errorf("token exchange: status=%d body=%s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("token exchange: %w", err)
	}
	if payload.AccessToken == "" {
		return "", 0, errors.New("token exchange: empty access token")
	}

	return payload.AccessToken, payload.ExpiresIn, nil
}
