package commands

import (
	"fmt"
	"sync"
	"time"
)

// ConfigPersister implements the auth.ConfigPersister interface.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateAPIToken writes a refreshed token and its expiry back to the config
// file so later invocations pick it up.
func (p *ConfigPersister) UpdateAPIToken(apiEndpoint, token string, expiresAt time.Time) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()

	config.API = apiEndpoint
	config.Token = token

	if expiresAt.IsZero() {
		config.TokenExpiresAt = nil
	} else {
		config.TokenExpiresAt = &expiresAt
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	return nil
}
