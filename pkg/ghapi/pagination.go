package ghapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// PageFetcher fetches one page of a list endpoint. The first call passes the
// request path plus query parameters; follow-up calls pass the absolute URL
// advertised by the previous page's Link header with nil parameters, so the
// server-provided cursor stays authoritative.
type PageFetcher interface {
	FetchPage(ctx context.Context, path string, params *QueryParams) (*Page, error)
}

// PaginationOptions controls multi-page fetches.
type PaginationOptions struct {
	// PageSize overrides the per_page parameter for the first request.
	PageSize int
	// MaxPages bounds how many pages are fetched. Zero means no bound.
	MaxPages int
}

// DefaultPaginationOptions fetches the largest pages GitHub serves, bounded
// so a runaway Link chain cannot loop forever.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize: constants.LargePerPage,
		MaxPages: constants.MaxPages,
	}
}

// PageResult carries one decoded page or the error that ended the stream.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// PaginationIterator walks a paginated list endpoint item by item, fetching
// pages lazily as items are consumed.
type PaginationIterator[T any] struct {
	ctx     context.Context
	fetcher PageFetcher
	path    string
	params  *QueryParams

	items   []T
	index   int
	nextURL string
	started bool
}

// NewPaginationIterator creates an iterator over a paginated list endpoint.
func NewPaginationIterator[T any](ctx context.Context, fetcher PageFetcher, path string, params *QueryParams) *PaginationIterator[T] {
	return &PaginationIterator[T]{
		ctx:     ctx,
		fetcher: fetcher,
		path:    path,
		params:  params,
	}
}

// HasNext reports whether another item is available. Before the first fetch
// it returns true; the first Next call settles the question.
func (it *PaginationIterator[T]) HasNext() bool {
	if !it.started {
		return true
	}

	if it.index < len(it.items) {
		return true
	}

	return it.nextURL != ""
}

// Next returns the next item, fetching the next page when the current one is
// exhausted. It returns ErrNoMoreItems once the final page is consumed.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	for it.index >= len(it.items) {
		if it.started && it.nextURL == "" {
			return zero, ErrNoMoreItems
		}

		target := it.path
		if it.started {
			target = it.nextURL
		}

		if err := it.fetch(target); err != nil {
			return zero, err
		}
	}

	item := it.items[it.index]
	it.index++

	return item, nil
}

// All drains the iterator and returns every remaining item in page order.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var all []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				break
			}

			return nil, err
		}

		all = append(all, item)
	}

	return all, nil
}

// ForEach applies fn to every remaining item, stopping at the first error.
func (it *PaginationIterator[T]) ForEach(fn func(T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return nil
			}

			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return nil
}

func (it *PaginationIterator[T]) fetch(target string) error {
	params := it.params
	if it.started {
		params = nil
	}

	page, err := it.fetcher.FetchPage(it.ctx, target, params)
	if err != nil {
		return err
	}

	var items []T
	if err := json.Unmarshal(page.Body, &items); err != nil {
		return fmt.Errorf("decoding page: %w", err)
	}

	it.items = items
	it.index = 0
	it.nextURL = page.NextURL
	it.started = true

	return nil
}

// FetchAllPages eagerly follows the rel="next" chain and returns all items in
// page order. A failed page aborts the whole fetch so partial results are
// never silently returned as complete.
func FetchAllPages[T any](ctx context.Context, fetcher PageFetcher, path string, params *QueryParams, options *PaginationOptions) ([]T, error) {
	var all []T

	err := forEachPage(ctx, fetcher, path, params, options, func(body []byte, pageNum int) error {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return fmt.Errorf("decoding page %d: %w", pageNum, err)
		}

		all = append(all, items...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return all, nil
}

// StreamPages follows the rel="next" chain and delivers each decoded page on
// the returned channel. The channel is closed after the last page or after a
// result carrying a non-nil Err; consumers should stop on the first error.
func StreamPages[T any](ctx context.Context, fetcher PageFetcher, path string, params *QueryParams, options *PaginationOptions) <-chan PageResult[T] {
	resultChan := make(chan PageResult[T])

	go func() {
		defer close(resultChan)

		err := forEachPage(ctx, fetcher, path, params, options, func(body []byte, pageNum int) error {
			var items []T
			if err := json.Unmarshal(body, &items); err != nil {
				return fmt.Errorf("decoding page %d: %w", pageNum, err)
			}

			select {
			case resultChan <- PageResult[T]{Items: items}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			select {
			case resultChan <- PageResult[T]{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return resultChan
}

// forEachPage drives the Link-header walk shared by the eager helpers.
func forEachPage(ctx context.Context, fetcher PageFetcher, path string, params *QueryParams, options *PaginationOptions, visit func(body []byte, pageNum int) error) error {
	reqParams := NewQueryParams()
	if params != nil {
		*reqParams = *params
	}

	if options != nil && options.PageSize > 0 {
		reqParams.PerPage = options.PageSize
	}

	target := path
	pageNum := 0

	for target != "" {
		if options != nil && options.MaxPages > 0 && pageNum >= options.MaxPages {
			break
		}

		pageNum++

		var firstParams *QueryParams
		if pageNum == 1 {
			firstParams = reqParams
		}

		page, err := fetcher.FetchPage(ctx, target, firstParams)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", pageNum, err)
		}

		if err := visit(page.Body, pageNum); err != nil {
			return err
		}

		target = page.NextURL
	}

	return nil
}
