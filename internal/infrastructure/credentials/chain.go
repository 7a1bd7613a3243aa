package credentials

import (
	"context"

	"github.com/ecofinder/backend/internal/domain"
)

// ChainStore reads from several stores in order; the first store holding a name wins.
// Writes go to the first store only.
type ChainStore struct {
	stores []domain.CredentialStore
}

// NewChainStore creates a chain over stores
func NewChainStore(stores ...domain.CredentialStore) *ChainStore {
	return &ChainStore{stores: stores}
}

// Get resolves each name against the chain
func (c *ChainStore) Get(ctx context.Context, names ...string) (domain.Credentials, error) {
	creds := make(domain.Credentials, len(names))
	remaining := names

	for _, store := range c.stores {
		if len(remaining) == 0 {
			break
		}
		found, err := store.Get(ctx, remaining...)
		if err != nil {
			return nil, err
		}

		var missing []string
		for _, name := range remaining {
			if secret, ok := found.Get(name); ok {
				creds[name] = secret
			} else {
				missing = append(missing, name)
			}
		}
		remaining = missing
	}
	return creds, nil
}

// Set writes to the first store in the chain
func (c *ChainStore) Set(ctx context.Context, name, secret string) error {
	if len(c.stores) == 0 {
		return domain.ErrMissingCredential
	}
	return c.stores[0].Set(ctx, name, secret)
}
