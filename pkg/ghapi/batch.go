package ghapi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedResourceType  = errors.New("unsupported resource type")
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
	ErrInvalidDataTypeIssue     = errors.New("invalid data type for issue operation")
	ErrInvalidDataTypeLabel     = errors.New("invalid data type for label operation")
	ErrInvalidDataTypeGist      = errors.New("invalid data type for gist operation")
	ErrTransactionFailed        = errors.New("transaction failed")
)

// IssueCreateData is the payload for a batched issue creation.
type IssueCreateData struct {
	Repo    RepositoryRef
	Request *IssueCreateRequest
}

// IssueUpdateData is the payload for a batched issue update.
type IssueUpdateData struct {
	Repo    RepositoryRef
	Number  int
	Request *IssueUpdateRequest
}

// IssueRefData identifies an issue for get operations.
type IssueRefData struct {
	Repo   RepositoryRef
	Number int
}

// LabelCreateData is the payload for a batched label creation.
type LabelCreateData struct {
	Repo    RepositoryRef
	Request *LabelCreateRequest
}

// LabelUpdateData is the payload for a batched label update.
type LabelUpdateData struct {
	Repo    RepositoryRef
	Name    string
	Request *LabelUpdateRequest
}

// LabelRefData identifies a label for get and delete operations.
type LabelRefData struct {
	Repo RepositoryRef
	Name string
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // "create", "update", "delete", "get"
	Resource string // "issue", "label", "gist"
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// handleCrudOperation is a helper that handles the common CRUD pattern.
func handleCrudOperation(
	operation BatchOperation,
	createFunc func() (interface{}, error),
	updateFunc func() (interface{}, error),
	deleteFunc func() (interface{}, error),
	getFunc func() (interface{}, error),
) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	switch operation.Type {
	case "create":
		data, err := createFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "update":
		data, err := updateFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "delete":
		data, err := deleteFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	case "get":
		data, err := getFunc()
		result.Success = err == nil
		result.Data = data
		result.Error = err
	default:
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}

	return result
}

// BatchExecutor executes independent operations concurrently with a bounded
// number of in-flight requests.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Results are returned in operation
// order regardless of completion order.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	if len(operations) == 0 {
		return nil, ErrBatchNoOperations
	}

	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			// Acquire semaphore
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			// Execute operation with timeout
			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			// Call callback if provided
			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

// executeOperation executes a single operation.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{
		ID: operation.ID,
	}

	switch operation.Resource {
	case "issue":
		result = b.executeIssueOperation(ctx, operation)
	case "label":
		result = b.executeLabelOperation(ctx, operation)
	case "gist":
		result = b.executeGistOperation(ctx, operation)
	default:
		result.Success = false
		result.Error = fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource)
	}

	return result
}

// executeIssueOperation handles issue operations. Issues cannot be deleted
// through the API; the delete form closes them instead.
func (b *BatchExecutor) executeIssueOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if data, ok := operation.Data.(*IssueCreateData); ok {
				return b.client.Issues().Create(ctx, data.Repo, data.Request)
			}

			return nil, fmt.Errorf("%w create", ErrInvalidDataTypeIssue)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*IssueUpdateData); ok {
				return b.client.Issues().Update(ctx, data.Repo, data.Number, data.Request)
			}

			return nil, fmt.Errorf("%w update", ErrInvalidDataTypeIssue)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*IssueRefData); ok {
				closed := constants.IssueStateClosed

				return b.client.Issues().Update(ctx, data.Repo, data.Number, &IssueUpdateRequest{State: &closed})
			}

			return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeIssue)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*IssueRefData); ok {
				return b.client.Issues().Get(ctx, data.Repo, data.Number)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeIssue)
		},
	)
}

// executeLabelOperation handles label operations.
func (b *BatchExecutor) executeLabelOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if data, ok := operation.Data.(*LabelCreateData); ok {
				return b.client.Labels().Create(ctx, data.Repo, data.Request)
			}

			return nil, fmt.Errorf("%w create", ErrInvalidDataTypeLabel)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*LabelUpdateData); ok {
				return b.client.Labels().Update(ctx, data.Repo, data.Name, data.Request)
			}

			return nil, fmt.Errorf("%w update", ErrInvalidDataTypeLabel)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*LabelRefData); ok {
				err := b.client.Labels().Delete(ctx, data.Repo, data.Name)
				if err != nil {
					return nil, fmt.Errorf("failed to delete label: %w", err)
				}

				return nil, nil
			}

			return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeLabel)
		},
		func() (interface{}, error) {
			if data, ok := operation.Data.(*LabelRefData); ok {
				return b.client.Labels().Get(ctx, data.Repo, data.Name)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeLabel)
		},
	)
}

// executeGistOperation handles gist operations keyed by gist ID.
func (b *BatchExecutor) executeGistOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	return handleCrudOperation(operation,
		func() (interface{}, error) {
			if req, ok := operation.Data.(*GistCreateRequest); ok {
				return b.client.Gists().Create(ctx, req)
			}

			return nil, fmt.Errorf("%w create", ErrInvalidDataTypeGist)
		},
		func() (interface{}, error) {
			return nil, fmt.Errorf("%w update", ErrInvalidDataTypeGist)
		},
		func() (interface{}, error) {
			if gistID, ok := operation.Data.(string); ok {
				err := b.client.Gists().Delete(ctx, gistID)
				if err != nil {
					return nil, fmt.Errorf("failed to delete gist: %w", err)
				}

				return nil, nil
			}

			return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeGist)
		},
		func() (interface{}, error) {
			if gistID, ok := operation.Data.(string); ok {
				return b.client.Gists().Get(ctx, gistID)
			}

			return nil, fmt.Errorf("%w get", ErrInvalidDataTypeGist)
		},
	)
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreateIssue adds an issue creation operation.
func (b *BatchBuilder) AddCreateIssue(id string, repo RepositoryRef, request *IssueCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "issue",
		Data:     &IssueCreateData{Repo: repo, Request: request},
	})

	return b
}

// AddUpdateIssue adds an issue update operation.
func (b *BatchBuilder) AddUpdateIssue(id string, repo RepositoryRef, number int, request *IssueUpdateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "update",
		Resource: "issue",
		Data:     &IssueUpdateData{Repo: repo, Number: number, Request: request},
	})

	return b
}

// AddGetIssue adds an issue get operation.
func (b *BatchBuilder) AddGetIssue(id string, repo RepositoryRef, number int) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "get",
		Resource: "issue",
		Data:     &IssueRefData{Repo: repo, Number: number},
	})

	return b
}

// AddCreateLabel adds a label creation operation.
func (b *BatchBuilder) AddCreateLabel(id string, repo RepositoryRef, request *LabelCreateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "create",
		Resource: "label",
		Data:     &LabelCreateData{Repo: repo, Request: request},
	})

	return b
}

// AddUpdateLabel adds a label update operation.
func (b *BatchBuilder) AddUpdateLabel(id string, repo RepositoryRef, name string, request *LabelUpdateRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "update",
		Resource: "label",
		Data:     &LabelUpdateData{Repo: repo, Name: name, Request: request},
	})

	return b
}

// AddDeleteLabel adds a label deletion operation.
func (b *BatchBuilder) AddDeleteLabel(id string, repo RepositoryRef, name string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "delete",
		Resource: "label",
		Data:     &LabelRefData{Repo: repo, Name: name},
	})

	return b
}

// AddDeleteGist adds a gist deletion operation.
func (b *BatchBuilder) AddDeleteGist(id, gistID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     "delete",
		Resource: "gist",
		Data:     gistID,
	})

	return b
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// BatchTransaction represents a batch that undoes its created resources when
// any operation fails.
type BatchTransaction struct {
	operations []BatchOperation
	results    []BatchResult
	executor   *BatchExecutor
	rollback   bool
}

// NewBatchTransaction creates a new batch transaction.
func NewBatchTransaction(executor *BatchExecutor) *BatchTransaction {
	return &BatchTransaction{
		executor:   executor,
		operations: make([]BatchOperation, 0),
		rollback:   true,
	}
}

// Add adds an operation to the transaction.
func (t *BatchTransaction) Add(operation BatchOperation) *BatchTransaction {
	t.operations = append(t.operations, operation)

	return t
}

// SetRollback sets whether to rollback on failure.
func (t *BatchTransaction) SetRollback(rollback bool) *BatchTransaction {
	t.rollback = rollback

	return t
}

// Execute executes the transaction.
func (t *BatchTransaction) Execute(ctx context.Context) ([]BatchResult, error) {
	results, err := t.executor.Execute(ctx, t.operations)
	t.results = results

	// Check for failures
	var failedOps []string

	for _, result := range results {
		if !result.Success {
			failedOps = append(failedOps, result.ID)
		}
	}

	// If there were failures and rollback is enabled
	if len(failedOps) > 0 && t.rollback {
		// Attempt to rollback successful operations
		t.performRollback(ctx)

		return results, fmt.Errorf("%w, %d operations failed: %v", ErrTransactionFailed, len(failedOps), failedOps)
	}

	return results, err
}

// performRollback undoes successful create operations. Updates and deletes
// cannot be undone without the original state, so they are left alone.
func (t *BatchTransaction) performRollback(ctx context.Context) {
	var rollbackOps []BatchOperation

	for i, result := range t.results {
		if !result.Success || t.operations[i].Type != "create" {
			continue
		}

		original := t.operations[i]

		switch original.Resource {
		case "issue":
			// Issues cannot be deleted; close the ones we opened.
			if issue, ok := result.Data.(*Issue); ok {
				if data, ok := original.Data.(*IssueCreateData); ok {
					rollbackOps = append(rollbackOps, BatchOperation{
						ID:       "rollback_" + original.ID,
						Type:     "delete",
						Resource: "issue",
						Data:     &IssueRefData{Repo: data.Repo, Number: issue.Number},
					})
				}
			}
		case "label":
			if label, ok := result.Data.(*Label); ok {
				if data, ok := original.Data.(*LabelCreateData); ok {
					rollbackOps = append(rollbackOps, BatchOperation{
						ID:       "rollback_" + original.ID,
						Type:     "delete",
						Resource: "label",
						Data:     &LabelRefData{Repo: data.Repo, Name: label.Name},
					})
				}
			}
		case "gist":
			if gist, ok := result.Data.(*Gist); ok {
				rollbackOps = append(rollbackOps, BatchOperation{
					ID:       "rollback_" + original.ID,
					Type:     "delete",
					Resource: "gist",
					Data:     gist.ID,
				})
			}
		}
	}

	// Execute rollback operations if any
	if len(rollbackOps) > 0 {
		_, _ = t.executor.Execute(ctx, rollbackOps)
	}
}
