package ghapi_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositoryRef(t *testing.T) {
	t.Parallel()
	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		ref, err := ghapi.NewRepositoryRef("octocat", "hello-world")
		require.NoError(t, err)
		assert.Equal(t, "octocat", ref.Owner)
		assert.Equal(t, "hello-world", ref.Name)
	})

	t.Run("empty owner", func(t *testing.T) {
		t.Parallel()

		_, err := ghapi.NewRepositoryRef("", "hello-world")
		require.Error(t, err)
		assert.ErrorIs(t, err, ghapi.ErrEmptyOwner)
		assert.True(t, ghapi.IsInvalidArgument(err))
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := ghapi.NewRepositoryRef("octocat", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ghapi.ErrEmptyRepoName)
		assert.True(t, ghapi.IsInvalidArgument(err))
	})
}

func TestParseRepositoryRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantName  string
		wantErr   error
	}{
		{
			name:      "owner slash name",
			input:     "octocat/hello-world",
			wantOwner: "octocat",
			wantName:  "hello-world",
		},
		{
			name:      "trailing git suffix stripped",
			input:     "octocat/hello-world.git",
			wantOwner: "octocat",
			wantName:  "hello-world",
		},
		{
			name:      "https url",
			input:     "https://github.com/octocat/hello-world",
			wantOwner: "octocat",
			wantName:  "hello-world",
		},
		{
			name:      "https url with git suffix",
			input:     "https://github.com/octocat/hello-world.git",
			wantOwner: "octocat",
			wantName:  "hello-world",
		},
		{
			name:      "ssh scp form",
			input:     "git@github.com:octocat/hello-world.git",
			wantOwner: "octocat",
			wantName:  "hello-world",
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ghapi.ErrInvalidRepoPath,
		},
		{
			name:    "missing name",
			input:   "octocat",
			wantErr: ghapi.ErrInvalidRepoPath,
		},
		{
			name:    "too many segments",
			input:   "octocat/hello/world",
			wantErr: ghapi.ErrInvalidRepoPath,
		},
		{
			name:    "empty owner segment",
			input:   "/hello-world",
			wantErr: ghapi.ErrInvalidRepoPath,
		},
		{
			name:    "url with no repository path",
			input:   "https://github.com/octocat",
			wantErr: ghapi.ErrInvalidRepositoryURL,
		},
		{
			name:    "ssh form without path",
			input:   "git@github.com",
			wantErr: ghapi.ErrInvalidRepositoryURL,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			ref, err := ghapi.ParseRepositoryRef(testCase.input)
			if testCase.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.True(t, ghapi.IsInvalidArgument(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.wantOwner, ref.Owner)
			assert.Equal(t, testCase.wantName, ref.Name)
		})
	}
}

func TestRepositoryRef_String(t *testing.T) {
	t.Parallel()

	ref, err := ghapi.NewRepositoryRef("octocat", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "octocat/hello-world", ref.String())

	// String output parses back to the same ref.
	parsed, err := ghapi.ParseRepositoryRef(ref.String())
	require.NoError(t, err)
	assert.Equal(t, ref, parsed)
}

func TestRepositoryRef_IsZero(t *testing.T) {
	t.Parallel()

	var zero ghapi.RepositoryRef

	assert.True(t, zero.IsZero())

	ref, err := ghapi.NewRepositoryRef("octocat", "hello-world")
	require.NoError(t, err)
	assert.False(t, ref.IsZero())
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339 string",
			input: `"2024-01-02T15:04:05Z"`,
			want:  time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		},
		{
			name:  "epoch seconds",
			input: `1704207845`,
			want:  time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		},
		{
			name:  "quoted epoch seconds",
			input: `"1704207845"`,
			want:  time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
			want:  time.Time{},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var timestamp ghapi.Timestamp

			err := json.Unmarshal([]byte(testCase.input), &timestamp)
			require.NoError(t, err)
			assert.True(t, timestamp.Time.Equal(testCase.want), "got %s, want %s", timestamp.Time, testCase.want)
		})
	}

	t.Run("unparseable", func(t *testing.T) {
		t.Parallel()

		var timestamp ghapi.Timestamp

		err := json.Unmarshal([]byte(`"not-a-time"`), &timestamp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing timestamp")
	})
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	t.Parallel()

	timestamp := ghapi.Timestamp{Time: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)}

	data, err := json.Marshal(timestamp)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-02T15:04:05Z"`, string(data))

	var decoded ghapi.Timestamp

	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(timestamp))
}

func TestRate_JSONDecoding(t *testing.T) {
	t.Parallel()

	// Rate-limit resets arrive as epoch seconds, not RFC 3339.
	payload := `{"limit": 5000, "remaining": 4999, "reset": 1704207845}`

	var rate ghapi.Rate

	err := json.Unmarshal([]byte(payload), &rate)
	require.NoError(t, err)

	assert.Equal(t, 5000, rate.Limit)
	assert.Equal(t, 4999, rate.Remaining)
	assert.Equal(t, time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC), rate.Reset.Time)
}

func TestRateLimits_JSONDecoding(t *testing.T) {
	t.Parallel()

	payload := `{
		"resources": {
			"core": {"limit": 5000, "remaining": 4999, "reset": 1704207845},
			"search": {"limit": 30, "remaining": 18, "reset": 1704207900},
			"graphql": {"limit": 5000, "remaining": 5000, "reset": 1704208000}
		},
		"rate": {"limit": 5000, "remaining": 4999, "reset": 1704207845}
	}`

	var limits ghapi.RateLimits

	err := json.Unmarshal([]byte(payload), &limits)
	require.NoError(t, err)

	assert.Equal(t, 5000, limits.Rate.Limit)
	assert.Equal(t, 30, limits.Resources.Search.Limit)
	assert.Equal(t, 18, limits.Resources.Search.Remaining)
	assert.Equal(t, 5000, limits.Resources.GraphQL.Remaining)
	assert.True(t, limits.Rate.Reset.Equal(limits.Resources.Core.Reset))
}
