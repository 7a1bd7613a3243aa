package credentials

import (
	"context"
	"sync"

	"github.com/ecofinder/backend/internal/domain"
)

// StaticStore keeps credentials in memory. The server seeds it from configuration.
type StaticStore struct {
	secrets map[string]string
	mutex   sync.RWMutex
}

// NewStaticStore creates a store seeded with secrets; empty values are ignored
func NewStaticStore(secrets map[string]string) *StaticStore {
	store := &StaticStore{secrets: make(map[string]string, len(secrets))}
	for name, secret := range secrets {
		if secret != "" {
			store.secrets[name] = secret
		}
	}
	return store
}

// Get returns the secrets present for names
func (s *StaticStore) Get(ctx context.Context, names ...string) (domain.Credentials, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	creds := make(domain.Credentials, len(names))
	for _, name := range names {
		if secret, ok := s.secrets[name]; ok {
			creds[name] = secret
		}
	}
	return creds, nil
}

// Set stores secret under name. An empty secret removes the entry.
func (s *StaticStore) Set(ctx context.Context, name, secret string) error {
	if name == "" {
		return domain.ErrInvalidRequest
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if secret == "" {
		delete(s.secrets, name)
		return nil
	}
	s.secrets[name] = secret
	return nil
}
