package ghapi_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/stretchr/testify/assert"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *ghapi.QueryParams
		expected url.Values
	}{
		{
			name:     "empty params",
			params:   ghapi.NewQueryParams(),
			expected: url.Values{},
		},
		{
			name: "with pagination",
			params: &ghapi.QueryParams{
				Page:    2,
				PerPage: 50,
			},
			expected: url.Values{
				"page":     []string{"2"},
				"per_page": []string{"50"},
			},
		},
		{
			name: "with ordering",
			params: &ghapi.QueryParams{
				Sort:      "updated",
				Direction: "desc",
			},
			expected: url.Values{
				"sort":      []string{"updated"},
				"direction": []string{"desc"},
			},
		},
		{
			name: "with labels",
			params: &ghapi.QueryParams{
				Labels: []string{"bug", "help wanted"},
			},
			expected: url.Values{
				"labels": []string{"bug,help wanted"},
			},
		},
		{
			name: "with since",
			params: &ghapi.QueryParams{
				Since: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
			},
			expected: url.Values{
				"since": []string{"2024-01-02T15:04:05Z"},
			},
		},
		{
			name: "with filters",
			params: &ghapi.QueryParams{
				Filters: map[string][]string{
					"state":    {"open"},
					"assignee": {"octocat", "hubot"},
				},
			},
			expected: url.Values{
				"state":    []string{"open"},
				"assignee": []string{"octocat,hubot"},
			},
		},
		{
			name: "with all options",
			params: &ghapi.QueryParams{
				Page:      3,
				PerPage:   25,
				Sort:      "created",
				Direction: "asc",
				Labels:    []string{"bug"},
				Since:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Filters: map[string][]string{
					"state": {"all"},
				},
			},
			expected: url.Values{
				"page":      []string{"3"},
				"per_page":  []string{"25"},
				"sort":      []string{"created"},
				"direction": []string{"asc"},
				"labels":    []string{"bug"},
				"since":     []string{"2024-01-01T00:00:00Z"},
				"state":     []string{"all"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := tt.params.ToValues()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestQueryParams_Builders(t *testing.T) {
	t.Parallel()
	t.Run("chaining methods", func(t *testing.T) {
		t.Parallel()

		since := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
		params := ghapi.NewQueryParams().
			WithPage(2).
			WithPerPage(100).
			WithSort("updated").
			WithDirection("desc").
			WithLabels("bug", "regression").
			WithSince(since).
			WithState("open").
			WithFilter("assignee", "octocat").
			WithFilter("milestone", "v1", "v2")

		values := params.ToValues()

		assert.Equal(t, "2", values.Get("page"))
		assert.Equal(t, "100", values.Get("per_page"))
		assert.Equal(t, "updated", values.Get("sort"))
		assert.Equal(t, "desc", values.Get("direction"))
		assert.Equal(t, "bug,regression", values.Get("labels"))
		assert.Equal(t, "2024-01-02T15:04:05Z", values.Get("since"))
		assert.Equal(t, "open", values.Get("state"))
		assert.Equal(t, "octocat", values.Get("assignee"))
		assert.Equal(t, "v1,v2", values.Get("milestone"))
	})

	t.Run("WithLabels appends", func(t *testing.T) {
		t.Parallel()

		params := ghapi.NewQueryParams().
			WithLabels("bug").
			WithLabels("regression", "help wanted")

		assert.Equal(t, []string{"bug", "regression", "help wanted"}, params.Labels)
	})

	t.Run("WithFilter appends", func(t *testing.T) {
		t.Parallel()

		params := ghapi.NewQueryParams().
			WithFilter("assignee", "octocat").
			WithFilter("assignee", "hubot", "defunkt")

		assert.Equal(t, []string{"octocat", "hubot", "defunkt"}, params.Filters["assignee"])
	})

	t.Run("WithState replaces", func(t *testing.T) {
		t.Parallel()

		params := ghapi.NewQueryParams().
			WithState("open").
			WithState("closed")

		assert.Equal(t, []string{"closed"}, params.Filters["state"])
	})

	t.Run("filters initialized on zero value", func(t *testing.T) {
		t.Parallel()

		var params ghapi.QueryParams

		params.WithState("open")
		params.WithFilter("creator", "octocat")

		assert.Equal(t, []string{"open"}, params.Filters["state"])
		assert.Equal(t, []string{"octocat"}, params.Filters["creator"])
	})
}

func TestNewQueryParams(t *testing.T) {
	t.Parallel()

	params := ghapi.NewQueryParams()

	assert.NotNil(t, params)
	assert.NotNil(t, params.Filters)
	assert.Equal(t, 0, params.Page)
	assert.Equal(t, 0, params.PerPage)
	assert.Empty(t, params.Sort)
	assert.Empty(t, params.Direction)
	assert.Nil(t, params.Labels)
	assert.True(t, params.Since.IsZero())
}
