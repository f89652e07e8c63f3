package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLabelsCommand(t *testing.T) {
	cmd := NewLabelsCommand()
	assert.Equal(t, "labels", cmd.Use)
	assert.Equal(t, []string{"label"}, cmd.Aliases)
	assert.Equal(t, "Manage labels", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 9)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "create")
	assert.Contains(t, commandNames, "update")
	assert.Contains(t, commandNames, "delete")
	assert.Contains(t, commandNames, "add")
	assert.Contains(t, commandNames, "remove")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "sync")
}

func TestLabelsCreateCommand(t *testing.T) {
	cmd := newLabelsCreateCommand()
	assert.Equal(t, "create NAME", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	assert.NotNil(t, cmd.Flags().Lookup("color"))
	assert.NotNil(t, cmd.Flags().Lookup("description"))
}

func TestLabelsSyncCommand(t *testing.T) {
	cmd := newLabelsSyncCommand()
	assert.Equal(t, "sync FILE", cmd.Use)
	assert.Equal(t, "Synchronize labels from a manifest", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	assert.NotNil(t, cmd.Flags().Lookup("prune"))
	assert.NotNil(t, cmd.Flags().Lookup("dry-run"))

	concurrency := cmd.Flags().Lookup("concurrency")
	assert.NotNil(t, concurrency)
	assert.Equal(t, "3", concurrency.DefValue)
}

func TestBuildLabelSyncPlan(t *testing.T) {
	t.Parallel()

	ref := ghapi.RepositoryRef{Owner: "octocat", Name: "hello-world"}

	specs := []labelSpec{
		{Name: "bug", Color: "d73a4a", Description: "Something isn't working"},
		{Name: "docs", Color: "0075ca"},
		{Name: "wip", Color: "ededed"},
	}

	existing := []ghapi.Label{
		{Name: "bug", Color: "ff0000", Description: "Something isn't working"},
		{Name: "docs", Color: "0075ca"},
		{Name: "stale", Color: "cccccc"},
	}

	t.Run("without prune", func(t *testing.T) {
		t.Parallel()

		operations, plan := buildLabelSyncPlan(ref, specs, existing, false)
		require.Len(t, operations, 2)
		assert.Len(t, plan, 2)

		// "bug" drifted in color, "wip" is missing, "docs" matches and
		// "stale" survives without prune.
		assert.Equal(t, "update:bug", operations[0].ID)
		assert.Equal(t, "update", operations[0].Type)
		assert.Equal(t, "create:wip", operations[1].ID)
		assert.Equal(t, "create", operations[1].Type)
	})

	t.Run("with prune", func(t *testing.T) {
		t.Parallel()

		operations, _ := buildLabelSyncPlan(ref, specs, existing, true)
		require.Len(t, operations, 3)

		assert.Equal(t, "delete:stale", operations[2].ID)
		assert.Equal(t, "delete", operations[2].Type)

		data, ok := operations[2].Data.(*ghapi.LabelRefData)
		require.True(t, ok)
		assert.Equal(t, "stale", data.Name)
	})

	t.Run("in sync", func(t *testing.T) {
		t.Parallel()

		operations, plan := buildLabelSyncPlan(ref, nil, nil, true)
		assert.Empty(t, operations)
		assert.Empty(t, plan)
	})
}

func TestReadLabelManifest(t *testing.T) {
	t.Parallel()

	t.Run("valid manifest", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "labels.yml")
		manifest := `- name: bug
  color: "#d73a4a"
  description: Something isn't working
- name: docs
  color: 0075ca
`
		require.NoError(t, os.WriteFile(path, []byte(manifest), 0o600))

		specs, err := readLabelManifest(path)
		require.NoError(t, err)
		require.Len(t, specs, 2)

		// Leading # is stripped so manifests can use either form.
		assert.Equal(t, "d73a4a", specs[0].Color)
		assert.Equal(t, "0075ca", specs[1].Color)
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "labels.yml")
		require.NoError(t, os.WriteFile(path, []byte("- color: ffffff\n"), 0o600))

		_, err := readLabelManifest(path)
		assert.ErrorIs(t, err, ghapi.ErrInvalidArgument)
	})

	t.Run("missing color", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "labels.yml")
		require.NoError(t, os.WriteFile(path, []byte("- name: bug\n"), 0o600))

		_, err := readLabelManifest(path)
		assert.ErrorIs(t, err, ghapi.ErrInvalidArgument)
	})
}
