package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/internal/sealedbox"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// SecretsClient implements ghapi.SecretsClient.
type SecretsClient struct {
	httpClient *internalhttp.Client
}

// NewSecretsClient creates a new Actions secrets client.
func NewSecretsClient(httpClient *internalhttp.Client) *SecretsClient {
	return &SecretsClient{
		httpClient: httpClient,
	}
}

// GetPublicKey implements ghapi.SecretsClient.GetPublicKey.
func (c *SecretsClient) GetPublicKey(ctx context.Context, repo ghapi.RepositoryRef) (*ghapi.PublicKey, error) {
	resp, err := c.httpClient.Get(ctx, repoPath(repo)+"/actions/secrets/public-key", nil)
	if err != nil {
		return nil, fmt.Errorf("getting public key: %w", err)
	}

	var key ghapi.PublicKey

	err = json.Unmarshal(resp.Body, &key)
	if err != nil {
		return nil, fmt.Errorf("parsing public key response: %w", err)
	}

	return &key, nil
}

// List implements ghapi.SecretsClient.List. The endpoint wraps each page
// in a total_count envelope, so the pages are walked by hand.
func (c *SecretsClient) List(ctx context.Context, repo ghapi.RepositoryRef, params *ghapi.QueryParams) ([]ghapi.Secret, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	path := repoPath(repo) + "/actions/secrets"

	var secrets []ghapi.Secret

	for pageNum := 1; path != ""; pageNum++ {
		resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
			Method: "GET",
			Path:   path,
			Query:  query,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNum, err)
		}

		var page ghapi.SecretListPage

		err = json.Unmarshal(resp.Body, &page)
		if err != nil {
			return nil, fmt.Errorf("decoding page %d: %w", pageNum, err)
		}

		secrets = append(secrets, page.Secrets...)

		// The next URL is absolute and already carries the query.
		path = resp.NextPageURL
		query = nil
	}

	return secrets, nil
}

// Get implements ghapi.SecretsClient.Get.
func (c *SecretsClient) Get(ctx context.Context, repo ghapi.RepositoryRef, name string) (*ghapi.Secret, error) {
	resp, err := c.httpClient.Get(ctx, secretPath(repo, name), nil)
	if err != nil {
		return nil, fmt.Errorf("getting secret: %w", err)
	}

	var secret ghapi.Secret

	err = json.Unmarshal(resp.Body, &secret)
	if err != nil {
		return nil, fmt.Errorf("parsing secret response: %w", err)
	}

	return &secret, nil
}

// CreateOrUpdate implements ghapi.SecretsClient.CreateOrUpdate. The value
// is sealed against the repository public key before it leaves the
// process, so the request body never carries plaintext.
func (c *SecretsClient) CreateOrUpdate(ctx context.Context, repo ghapi.RepositoryRef, name, value string) error {
	key, err := c.GetPublicKey(ctx, repo)
	if err != nil {
		return err
	}

	sealed, err := sealedbox.Encrypt([]byte(value), key.Key)
	if err != nil {
		return fmt.Errorf("encrypting secret: %w", err)
	}

	_, err = c.httpClient.Put(ctx, secretPath(repo, name), &ghapi.SecretPutRequest{
		EncryptedValue: sealed,
		KeyID:          key.KeyID,
	})
	if err != nil {
		return fmt.Errorf("storing secret: %w", err)
	}

	return nil
}

// Delete implements ghapi.SecretsClient.Delete.
func (c *SecretsClient) Delete(ctx context.Context, repo ghapi.RepositoryRef, name string) error {
	_, err := c.httpClient.Delete(ctx, secretPath(repo, name))
	if err != nil {
		return fmt.Errorf("deleting secret: %w", err)
	}

	return nil
}

func secretPath(repo ghapi.RepositoryRef, name string) string {
	return repoPath(repo) + "/actions/secrets/" + url.PathEscape(name)
}
