package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePersister records token updates.
type fakePersister struct {
	mutex     sync.Mutex
	endpoint  string
	token     string
	expiresAt time.Time
	calls     int
	err       error
}

func (p *fakePersister) UpdateAPIToken(apiEndpoint, token string, expiresAt time.Time) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.err != nil {
		return p.err
	}
	p.endpoint = apiEndpoint
	p.token = token
	p.expiresAt = expiresAt
	p.calls++
	return nil
}

func (p *fakePersister) snapshot() (string, string, int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.endpoint, p.token, p.calls
}

func TestConfigTokenManager_GetToken(t *testing.T) {
	t.Run("returns valid initial token", func(t *testing.T) {
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "ghp_initial", time.Time{})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ghp_initial", token)
	})

	t.Run("expired token without refresh func", func(t *testing.T) {
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "github_pat_old", time.Now().Add(-1*time.Hour))

		token, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.Equal(t, "", token)
	})

	t.Run("no token at all", func(t *testing.T) {
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "", time.Time{})

		token, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoTokenAvailable)
		assert.Equal(t, "", token)
	})

	t.Run("refreshes expired token", func(t *testing.T) {
		persister := &fakePersister{}
		manager := NewConfigTokenManager(persister, "https://api.github.com", "github_pat_old", time.Now().Add(-1*time.Hour))

		refreshCalls := 0
		manager.SetRefreshFunc(func(_ context.Context) (*Token, error) {
			refreshCalls++
			return &Token{
				AccessToken: "github_pat_new",
				TokenType:   "bearer",
				ExpiresAt:   time.Now().Add(1 * time.Hour),
			}, nil
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "github_pat_new", token)
		assert.Equal(t, 1, refreshCalls)

		// A second call serves the refreshed token without another refresh
		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "github_pat_new", token)
		assert.Equal(t, 1, refreshCalls)

		// Persisting happens in the background
		assert.Eventually(t, func() bool {
			_, persisted, _ := persister.snapshot()
			return persisted == "github_pat_new"
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("refresh failure propagates", func(t *testing.T) {
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "github_pat_old", time.Now().Add(-1*time.Hour))
		manager.SetRefreshFunc(func(_ context.Context) (*Token, error) {
			return nil, ErrNoTokenAvailable
		})

		token, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to refresh token")
		assert.Equal(t, "", token)
	})
}

func TestConfigTokenManager_SetToken(t *testing.T) {
	persister := &fakePersister{}
	manager := NewConfigTokenManager(persister, "https://api.github.com", "", time.Time{})

	expiresAt := time.Now().Add(1 * time.Hour)
	err := manager.SetToken("github_pat_manual", expiresAt)
	require.NoError(t, err)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "github_pat_manual", token)

	endpoint, persisted, calls := persister.snapshot()
	assert.Equal(t, "https://api.github.com", endpoint)
	assert.Equal(t, "github_pat_manual", persisted)
	assert.Equal(t, 1, calls)
}

func TestConfigTokenManager_SetToken_NoPersister(t *testing.T) {
	manager := NewConfigTokenManager(nil, "https://api.github.com", "", time.Time{})

	err := manager.SetToken("github_pat_manual", time.Time{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoConfigPersister)
}

func TestConfigTokenManager_RefreshToken(t *testing.T) {
	t.Run("forces refresh and persists", func(t *testing.T) {
		persister := &fakePersister{}
		manager := NewConfigTokenManager(persister, "https://api.github.com", "github_pat_current", time.Now().Add(1*time.Hour))
		manager.SetRefreshFunc(func(_ context.Context) (*Token, error) {
			return &Token{
				AccessToken: "github_pat_forced",
				TokenType:   "bearer",
				ExpiresAt:   time.Now().Add(1 * time.Hour),
			}, nil
		})

		err := manager.RefreshToken(context.Background())
		require.NoError(t, err)

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "github_pat_forced", token)

		_, persisted, _ := persister.snapshot()
		assert.Equal(t, "github_pat_forced", persisted)
	})

	t.Run("without refresh func", func(t *testing.T) {
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "ghp_current", time.Time{})

		err := manager.RefreshToken(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoRefreshFunc)
	})
}

func TestConfigTokenManager_Clear(t *testing.T) {
	manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "ghp_current", time.Time{})

	manager.Clear()

	_, err := manager.GetToken(context.Background())
	assert.ErrorIs(t, err, ErrNoTokenAvailable)
}

func TestConfigTokenManager_IsTokenExpiringSoon(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "", time.Time{})
		assert.True(t, manager.IsTokenExpiringSoon(1*time.Hour))
	})

	t.Run("non-expiring token", func(t *testing.T) {
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "ghp_classic", time.Time{})
		assert.False(t, manager.IsTokenExpiringSoon(24*time.Hour))
	})

	t.Run("expiring within window", func(t *testing.T) {
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "github_pat_x", time.Now().Add(30*time.Minute))
		assert.True(t, manager.IsTokenExpiringSoon(1*time.Hour))
		assert.False(t, manager.IsTokenExpiringSoon(10*time.Minute))
	})
}

func TestConfigTokenManager_GetTokenExpiry(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "", time.Time{})
		assert.True(t, manager.GetTokenExpiry().IsZero())
	})

	t.Run("with expiry", func(t *testing.T) {
		expiresAt := time.Now().Add(2 * time.Hour)
		manager := NewConfigTokenManager(&fakePersister{}, "https://api.github.com", "github_pat_x", expiresAt)
		assert.Equal(t, expiresAt.Unix(), manager.GetTokenExpiry().Unix())
	})
}
