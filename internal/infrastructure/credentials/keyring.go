package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/zalando/go-keyring"
)

// KeyringStore keeps credentials in the operating system keychain
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a store scoped to a keychain service name
func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: service}
}

// Get returns the secrets present for names. Missing entries are left out.
func (s *KeyringStore) Get(ctx context.Context, names ...string) (domain.Credentials, error) {
	creds := make(domain.Credentials, len(names))
	for _, name := range names {
		secret, err := keyring.Get(s.service, name)
		if errors.Is(err, keyring.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("keyring get %s: %w", name, err)
		}
		creds[name] = secret
	}
	return creds, nil
}

// Set stores secret under name. An empty secret removes the entry.
func (s *KeyringStore) Set(ctx context.Context, name, secret string) error {
	if name == "" {
		return domain.ErrInvalidRequest
	}

	if secret == "" {
		if err := keyring.Delete(s.service, name); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("keyring delete %s: %w", name, err)
		}
		return nil
	}

	if err := keyring.Set(s.service, name, secret); err != nil {
		return fmt.Errorf("keyring set %s: %w", name, err)
	}
	return nil
}
