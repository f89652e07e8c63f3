package commands

import (
	"testing"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigCommand(t *testing.T) {
	cmd := NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)
	assert.Equal(t, "Manage CLI configuration", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 4)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "unset")
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	config := &Config{
		API:           "https://api.github.com",
		Token:         "ghp_secret",
		NoColor:       true,
		SkipTLSVerify: false,
	}

	value, err := configValue(config, "api")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com", value)

	value, err = configValue(config, "no_color")
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	_, err = configValue(config, "bogus")
	assert.ErrorIs(t, err, constants.ErrUnknownConfigKey)
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	t.Run("normalizes the endpoint", func(t *testing.T) {
		t.Parallel()

		config := &Config{}
		require.NoError(t, setConfigValue(config, "api", "ghe.example.com/api/v3/"))
		assert.Equal(t, "https://ghe.example.com/api/v3", config.API)
	})

	t.Run("validates output format", func(t *testing.T) {
		t.Parallel()

		config := &Config{}
		require.NoError(t, setConfigValue(config, "output", "json"))
		assert.Equal(t, "json", config.Output)

		err := setConfigValue(config, "output", "xml")
		assert.ErrorIs(t, err, constants.ErrUnsupportedOutput)
	})

	t.Run("parses booleans", func(t *testing.T) {
		t.Parallel()

		config := &Config{}
		require.NoError(t, setConfigValue(config, "skip_tls_verify", "true"))
		assert.True(t, config.SkipTLSVerify)

		require.NoError(t, setConfigValue(config, "skip_tls_verify", "no"))
		assert.False(t, config.SkipTLSVerify)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		err := setConfigValue(&Config{}, "bogus", "value")
		assert.ErrorIs(t, err, constants.ErrUnknownConfigKey)
	})
}

func TestUnsetConfigValue(t *testing.T) {
	t.Parallel()

	expires := time.Now().Add(time.Hour)
	config := &Config{
		Token:          "ghp_secret",
		TokenExpiresAt: &expires,
		Username:       "octocat",
	}

	// Unsetting the token also discards its expiry.
	require.NoError(t, unsetConfigValue(config, "token"))
	assert.Empty(t, config.Token)
	assert.Nil(t, config.TokenExpiresAt)
	assert.Equal(t, "octocat", config.Username)

	err := unsetConfigValue(config, "bogus")
	assert.ErrorIs(t, err, constants.ErrUnknownConfigKey)
}
