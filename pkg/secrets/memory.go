package secrets

import (
	"fmt"
	"sync"
)

type InMemorySecretStore struct {
	mu      sync.Mutex
	secrets map[string]string
}

func NewInMemorySecretStore() *InMemorySecretStore {
	return &InMemorySecretStore{
		secrets: make(map[string]string),
	}
}

func (i *InMemorySecretStore) Get(service, key string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	val, ok := i.secrets[service+":"+key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, service, key)
	}
	return val, nil
}

func (i *InMemorySecretStore) Set(service, key, value string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.secrets[service+":"+key] = value
	return nil
}

func (i *InMemorySecretStore) Delete(service, key string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.secrets, service+":"+key)
	return nil
}

// Len returns the number of stored secrets.
func (i *InMemorySecretStore) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.secrets)
}
