package commands

import (
	"testing"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIssuesCommand(t *testing.T) {
	cmd := NewIssuesCommand()
	assert.Equal(t, "issues", cmd.Use)
	assert.Equal(t, []string{"issue"}, cmd.Aliases)
	assert.Equal(t, "Manage issues", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 8)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "create")
	assert.Contains(t, commandNames, "close")
	assert.Contains(t, commandNames, "reopen")
	assert.Contains(t, commandNames, "lock")
	assert.Contains(t, commandNames, "unlock")
	assert.Contains(t, commandNames, "comments")
}

func TestIssuesListCommand(t *testing.T) {
	cmd := newIssuesListCommand()
	assert.Equal(t, "list", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	flags := []string{"state", "label", "per-page"}
	for _, flagName := range flags {
		flag := cmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "Flag %s should exist", flagName)
	}
}

func TestIssuesCreateCommand(t *testing.T) {
	cmd := newIssuesCreateCommand()
	assert.Equal(t, "create", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	title := cmd.Flags().Lookup("title")
	require.NotNil(t, title)
	assert.Equal(t, "t", title.Shorthand)

	body := cmd.Flags().Lookup("body")
	require.NotNil(t, body)
	assert.Equal(t, "b", body.Shorthand)

	assert.NotNil(t, cmd.Flags().Lookup("label"))
	assert.NotNil(t, cmd.Flags().Lookup("assignee"))
}

func TestIssuesCloseCommand(t *testing.T) {
	cmd := newIssuesCloseCommand()
	assert.Equal(t, "close NUMBER", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
	assert.NotNil(t, cmd.Flags().Lookup("reason"))
}

func TestIssueCommentsCommand(t *testing.T) {
	cmd := newIssueCommentsCommand()
	assert.Equal(t, "comments", cmd.Use)
	assert.Equal(t, []string{"comment"}, cmd.Aliases)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 4)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "add")
	assert.Contains(t, commandNames, "update")
	assert.Contains(t, commandNames, "delete")
}

func TestParseIssueNumber(t *testing.T) {
	t.Parallel()

	number, err := parseIssueNumber("42")
	require.NoError(t, err)
	assert.Equal(t, 42, number)

	_, err = parseIssueNumber("forty-two")
	assert.ErrorIs(t, err, ghapi.ErrInvalidArgument)
}
