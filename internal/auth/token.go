package auth

import (
	"context"
	"sync"
	"time"
)

// expiryBuffer is subtracted from a token's expiry so requests never go
// out with a token that dies mid-flight.
const expiryBuffer = 30 * time.Second

// TokenManager provides the API token attached to outbound requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// Token holds an API token and its expiry. Classic personal access
// tokens never expire and carry a zero ExpiresAt; fine-grained and app
// installation tokens expire server-side.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// Valid reports whether the token can still be used. Tokens expiring
// within the buffer window count as expired.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(expiryBuffer).Before(t.ExpiresAt)
}

// TokenStore is a thread-safe holder for the current token.
type TokenStore struct {
	mutex sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token, or nil when none is set.
func (s *TokenStore) Get() *Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Set replaces the current token.
func (s *TokenStore) Set(token *Token) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token
}

// Clear removes the current token.
func (s *TokenStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = nil
}

// StaticTokenManager serves a fixed personal access token. An empty
// token means requests go out unauthenticated.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a token manager around a fixed token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the configured token.
func (m *StaticTokenManager) GetToken(_ context.Context) (string, error) {
	return m.token, nil
}
