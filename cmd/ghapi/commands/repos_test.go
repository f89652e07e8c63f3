package commands

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReposCommand(t *testing.T) {
	cmd := NewReposCommand()
	assert.Equal(t, "repos", cmd.Use)
	assert.Equal(t, []string{"repo"}, cmd.Aliases)
	assert.Equal(t, "Manage repositories", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 5)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "contents")
	assert.Contains(t, commandNames, "put-file")
	assert.Contains(t, commandNames, "delete-file")
}

func TestReposContentsCommand(t *testing.T) {
	cmd := newReposContentsCommand()
	assert.Equal(t, "contents PATH", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("ref"))
	assert.NotNil(t, cmd.Flags().Lookup("decode"))
}

func TestReposPutFileCommand(t *testing.T) {
	cmd := newReposPutFileCommand()
	assert.Equal(t, "put-file PATH LOCAL_FILE", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	message := cmd.Flags().Lookup("message")
	require.NotNil(t, message)
	assert.Equal(t, "m", message.Shorthand)

	assert.NotNil(t, cmd.Flags().Lookup("branch"))
	assert.NotNil(t, cmd.Flags().Lookup("sha"))
}

func TestDecodeContent(t *testing.T) {
	t.Parallel()

	t.Run("strips base64 line wrapping", func(t *testing.T) {
		t.Parallel()

		encoded := base64.StdEncoding.EncodeToString([]byte("hello, world\n"))
		// The contents API wraps encoded bodies at 60 columns.
		wrapped := encoded[:8] + "\n" + encoded[8:] + "\n"

		data, err := decodeContent(&ghapi.RepositoryContent{Content: wrapped})
		require.NoError(t, err)
		assert.Equal(t, "hello, world\n", string(data))
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		t.Parallel()

		_, err := decodeContent(&ghapi.RepositoryContent{Content: "not base64!"})
		assert.Error(t, err)
	})
}

func TestReadLocalFile(t *testing.T) {
	t.Parallel()

	t.Run("reads an existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.txt")
		require.NoError(t, os.WriteFile(path, []byte("payload"), 0o600))

		data, err := readLocalFile(path)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("rejects traversal paths", func(t *testing.T) {
		t.Parallel()

		_, err := readLocalFile("../../etc/passwd")
		assert.ErrorIs(t, err, constants.ErrDirectoryTraversalDetected)
	})

	t.Run("rejects directories", func(t *testing.T) {
		t.Parallel()

		_, err := readLocalFile(t.TempDir())
		assert.ErrorIs(t, err, constants.ErrNotRegularFile)
	})
}
