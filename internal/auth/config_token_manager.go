package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
	ErrNoTokenAvailable  = errors.New("no token available")
	ErrTokenExpired      = errors.New("token expired, run auth login to mint a new one")
	ErrNoRefreshFunc     = errors.New("no refresh function configured")
)

// ConfigPersister defines the interface for persisting token changes.
type ConfigPersister interface {
	UpdateAPIToken(apiEndpoint, token string, expiresAt time.Time) error
}

// RefreshFunc mints a replacement token once the stored one expires.
// Fine-grained and app installation tokens expire; classic personal
// access tokens never trigger it.
type RefreshFunc func(ctx context.Context) (*Token, error)

// ConfigTokenManager serves tokens from a store and writes replacements
// back through a ConfigPersister so later invocations reuse them.
type ConfigTokenManager struct {
	store           *TokenStore
	configPersister ConfigPersister
	refresh         RefreshFunc
	apiEndpoint     string
	mutex           sync.Mutex
}

// NewConfigTokenManager creates a config-persisting token manager seeded
// with the token currently stored in config.
func NewConfigTokenManager(configPersister ConfigPersister, apiEndpoint, initialToken string, initialExpiry time.Time) *ConfigTokenManager {
	store := NewTokenStore()

	if initialToken != "" {
		store.Set(&Token{
			AccessToken: initialToken,
			TokenType:   "bearer",
			ExpiresAt:   initialExpiry,
		})
	}

	return &ConfigTokenManager{
		store:           store,
		configPersister: configPersister,
		apiEndpoint:     apiEndpoint,
	}
}

// SetRefreshFunc installs the hook used to mint a replacement token.
func (m *ConfigTokenManager) SetRefreshFunc(refresh RefreshFunc) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.refresh = refresh
}

// GetToken returns the stored token, refreshing and persisting a
// replacement when the stored one has expired.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	if m.refresh == nil {
		if token != nil && token.AccessToken != "" {
			return "", ErrTokenExpired
		}

		return "", ErrNoTokenAvailable
	}

	refreshed, err := m.refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	m.store.Set(refreshed)

	// Persist in the background so a slow config write never blocks the request
	go func() {
		persistErr := m.persistToken(refreshed)
		if persistErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
		}
	}()

	return refreshed.AccessToken, nil
}

// RefreshToken forces a refresh regardless of the stored token's expiry.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.refresh == nil {
		return ErrNoRefreshFunc
	}

	refreshed, err := m.refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	m.store.Set(refreshed)

	persistErr := m.persistToken(refreshed)
	if persistErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
	}

	return nil
}

// SetToken manually sets the access token and persists it.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored := &Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}
	m.store.Set(stored)

	return m.persistToken(stored)
}

// Clear removes the stored token. Config cleanup is the caller's concern.
func (m *ConfigTokenManager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.store.Clear()
}

// IsTokenExpiringSoon returns true if the token expires within the given
// duration. Non-expiring tokens never report true.
func (m *ConfigTokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	token := m.store.Get()
	if token == nil {
		return true
	}

	if token.ExpiresAt.IsZero() {
		return false
	}

	return time.Now().Add(within).After(token.ExpiresAt)
}

// GetTokenExpiry returns the current token's expiration time.
func (m *ConfigTokenManager) GetTokenExpiry() time.Time {
	token := m.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// persistToken saves the token to config.
func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.configPersister == nil {
		return ErrNoConfigPersister
	}

	err := m.configPersister.UpdateAPIToken(m.apiEndpoint, token.AccessToken, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to update API token: %w", err)
	}

	return nil
}
