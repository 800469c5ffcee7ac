package secrets

import "errors"

// ErrNotFound is returned by Get when no secret is stored for service/key.
var ErrNotFound = errors.New("secret not found")

type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}
