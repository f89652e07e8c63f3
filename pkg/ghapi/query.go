package ghapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// QueryParams represents query parameters for GitHub list endpoints.
type QueryParams struct {
	// Page is the 1-based page number to fetch.
	Page int
	// PerPage is the page size, capped by GitHub at 100.
	PerPage int
	// Sort names the sort column (e.g. "created", "updated", "comments").
	Sort string
	// Direction orders results "asc" or "desc".
	Direction string
	// Labels restricts issue lists to items carrying all of these labels.
	Labels []string
	// Since restricts results to items updated at or after this instant.
	Since time.Time
	// Filters holds additional endpoint-specific parameters such as
	// "state", "milestone", "creator" or "assignee".
	Filters map[string][]string
}

// NewQueryParams creates a new QueryParams with initialized maps.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithPage sets the page number.
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = page

	return q
}

// WithPerPage sets the page size.
func (q *QueryParams) WithPerPage(perPage int) *QueryParams {
	q.PerPage = perPage

	return q
}

// WithSort sets the sort column.
func (q *QueryParams) WithSort(sort string) *QueryParams {
	q.Sort = sort

	return q
}

// WithDirection sets the sort direction.
func (q *QueryParams) WithDirection(direction string) *QueryParams {
	q.Direction = direction

	return q
}

// WithLabels appends label names to filter by.
func (q *QueryParams) WithLabels(labels ...string) *QueryParams {
	q.Labels = append(q.Labels, labels...)

	return q
}

// WithSince restricts results to items updated at or after the given time.
func (q *QueryParams) WithSince(since time.Time) *QueryParams {
	q.Since = since

	return q
}

// WithState sets the "state" filter ("open", "closed" or "all").
func (q *QueryParams) WithState(state string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters["state"] = []string{state}

	return q
}

// WithFilter appends values to an endpoint-specific filter.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts QueryParams to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(q.PerPage))
	}

	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}

	if q.Direction != "" {
		values.Set("direction", q.Direction)
	}

	if len(q.Labels) > 0 {
		values.Set("labels", strings.Join(q.Labels, ","))
	}

	if !q.Since.IsZero() {
		values.Set("since", q.Since.UTC().Format(time.RFC3339))
	}

	for key, vals := range q.Filters {
		if len(vals) > 0 {
			values.Set(key, strings.Join(vals, ","))
		}
	}

	return values
}
