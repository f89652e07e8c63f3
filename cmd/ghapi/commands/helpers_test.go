package commands

import (
	"testing"
	"time"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://api.github.com", normalizeEndpoint("api.github.com"))
	assert.Equal(t, "https://api.github.com", normalizeEndpoint("https://api.github.com/"))
	assert.Equal(t, "http://localhost:8080", normalizeEndpoint("http://localhost:8080/"))
	assert.Equal(t, "https://ghe.example.com/api/v3", normalizeEndpoint("ghe.example.com/api/v3"))
	assert.Equal(t, "", normalizeEndpoint(""))
}

func TestYesNo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "N/A", formatTime(time.Time{}))

	stamp := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "2025-03-14T09:26:53Z", formatTime(stamp))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-ten", truncate("exactly-ten", 11))
	assert.Equal(t, "a long ...", truncate("a long string that overflows", 10))
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Open", titleCase("open"))
	assert.Equal(t, "Not Planned", titleCase("not planned"))
}

func TestLoginName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "N/A", loginName(nil))
	assert.Equal(t, "octocat", loginName(&ghapi.User{Login: "octocat"}))
}

func TestLabelNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", labelNames(nil))
	assert.Equal(t, "bug, docs", labelNames([]ghapi.Label{{Name: "bug"}, {Name: "docs"}}))
}

func TestListParams(t *testing.T) {
	t.Parallel()

	params := listParams(50)
	assert.Equal(t, 50, params.PerPage)

	params = listParams(0)
	assert.Zero(t, params.PerPage)
}
