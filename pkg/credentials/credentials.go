// Package credentials implements the get/set password operations of the
// keyring tool on top of a secrets.SecretStore.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reviewdesk/reviewkit/pkg/config"
	"github.com/reviewdesk/reviewkit/pkg/logging"
	"github.com/reviewdesk/reviewkit/pkg/secrets"
)

var logger = logging.Component("pkg/credentials")

const (
	EnvMode     = "SECURITY_MODE"
	EnvService  = "SERVICE_NAME"
	EnvUser     = "SERVICE_USER"
	EnvPassword = "SERVICE_PASSWORD"
)

// EnvKeys lists every environment variable the tool reads.
var EnvKeys = []string{EnvMode, EnvService, EnvUser, EnvPassword}

var (
	ErrInvalidModeSelection    = errors.New("SECURITY_MODE argument is missing or incorrect")
	ErrMissingEnvironmentValue = errors.New("environment variable is not set")
	ErrCredentialNotFound      = errors.New("no login data in keyring")
)

type Mode int

const (
	ModeGet Mode = iota + 1
	ModeSet
)

func (m Mode) String() string {
	switch m {
	case ModeGet:
		return "get"
	case ModeSet:
		return "set"
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "get":
		return ModeGet, nil
	case "set":
		return ModeSet, nil
	}
	if s == "" {
		return 0, ErrInvalidModeSelection
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidModeSelection, s)
}

// SelectMode takes the mode from the command line selector, written either
// as "SECURITY_MODE=<mode>" or as a bare "<mode>", falling back to the
// SECURITY_MODE variable in env.
func SelectMode(selector string, env config.Config) (Mode, error) {
	raw := strings.TrimSpace(selector)
	if v, ok := strings.CutPrefix(raw, EnvMode+"="); ok {
		raw = v
	}
	if raw == "" {
		raw = env.Get(EnvMode, "")
	}
	return ParseMode(raw)
}

// Config is everything one invocation of the tool needs. It is built once
// at startup and never read from the process environment afterwards.
type Config struct {
	Mode     Mode
	Service  string
	User     string
	Password string
}

func LoadConfig(selector string, env config.Config) (Config, error) {
	mode, err := SelectMode(selector, env)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Mode:     mode,
		Service:  env.Get(EnvService, ""),
		User:     env.Get(EnvUser, ""),
		Password: env.Get(EnvPassword, ""),
	}, nil
}

// Validate reports every variable the selected mode needs but lacks.
func (c Config) Validate() error {
	var errs []error
	require := func(name, value string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingEnvironmentValue, name))
		}
	}
	switch c.Mode {
	case ModeGet:
		require(EnvService, c.Service)
		require(EnvUser, c.User)
	case ModeSet:
		require(EnvService, c.Service)
		require(EnvUser, c.User)
		require(EnvPassword, c.Password)
	default:
		return ErrInvalidModeSelection
	}
	return errors.Join(errs...)
}

type Helper struct {
	store secrets.SecretStore
}

func NewHelper(store secrets.SecretStore) *Helper {
	return &Helper{store: store}
}

// Run dispatches on c.Mode. For ModeGet it returns the stored password.
func (h *Helper) Run(c Config) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	switch c.Mode {
	case ModeGet:
		return h.Get(c)
	case ModeSet:
		return "", h.Set(c)
	}
	return "", ErrInvalidModeSelection
}

func (h *Helper) Get(c Config) (string, error) {
	logger.Infof("GET: looking up password of %s for %s", c.User, c.Service)
	password, err := h.store.Get(c.Service, c.User)
	if errors.Is(err, secrets.ErrNotFound) || (err == nil && password == "") {
		logger.Info("Password value not found")
		return "", fmt.Errorf("%w for %s/%s", ErrCredentialNotFound, c.Service, c.User)
	}
	if err != nil {
		return "", fmt.Errorf("keyring lookup failed: %w", err)
	}
	return password, nil
}

func (h *Helper) Set(c Config) error {
	logger.Infof("SET: storing password of %s for %s", c.User, c.Service)
	if err := h.store.Set(c.Service, c.User, c.Password); err != nil {
		return fmt.Errorf("keyring update failed: %w", err)
	}
	return nil
}
