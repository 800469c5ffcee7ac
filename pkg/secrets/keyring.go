package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringSecretStore keeps secrets in the OS keyring (Secret Service,
// macOS Keychain or Windows Credential Manager).
type KeyringSecretStore struct{}

func (k *KeyringSecretStore) Get(service, key string) (string, error) {
	val, err := keyring.Get(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, service, key)
	}
	return val, err
}

func (k *KeyringSecretStore) Set(service, key, value string) error {
	return keyring.Set(service, key, value)
}

func (k *KeyringSecretStore) Delete(service, key string) error {
	err := keyring.Delete(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, service, key)
	}
	return err
}
