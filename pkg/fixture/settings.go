package fixture

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/reviewdesk/reviewkit/internal/support"
	"github.com/reviewdesk/reviewkit/pkg/config"
	"github.com/reviewdesk/reviewkit/pkg/store"
)

const (
	KeyDriver         = "REVIEWKIT_DB_DRIVER"
	KeyDSN            = "REVIEWKIT_DB_DSN"
	KeyTable          = "REVIEWKIT_DB_TABLE"
	KeyConnectTimeout = "REVIEWKIT_DB_CONNECT_TIMEOUT"
	KeyMocksDir       = "REVIEWKIT_MOCKS_DIR"
)

type Settings struct {
	Store    store.Settings
	MocksDir string
}

// LoadSettings reads the test database settings from an env file, with
// REVIEWKIT_* environment variables taking precedence.
func LoadSettings(path string) (Settings, error) {
	return settingsFrom(config.GetEnvConfig("REVIEWKIT_"), path)
}

func settingsFrom(env config.Config, path string) (Settings, error) {
	cfg, err := support.LoadMergedConfig(env, path)
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		Store: store.Settings{
			Driver: cfg.Get(KeyDriver, store.DriverSQLite),
			DSN:    cfg.Get(KeyDSN, ""),
			Table:  cfg.Get(KeyTable, store.DefaultTable),
		},
		MocksDir: cfg.Get(KeyMocksDir, DefaultMocksDir),
	}
	if s.Store.DSN == "" {
		return Settings{}, fmt.Errorf("fixture: %s is required", KeyDSN)
	}
	if v, ok := cfg.Lookup(KeyConnectTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Settings{}, fmt.Errorf("fixture: %s: %w", KeyConnectTimeout, err)
		}
		s.Store.ConnectTimeout = d
	}
	if path != "" && !filepath.IsAbs(s.MocksDir) {
		s.MocksDir = filepath.Join(filepath.Dir(path), s.MocksDir)
	}
	return s, nil
}

// Open connects to the configured store and returns a Manager bound to it.
// The caller owns the gateway and must Close it.
func Open(ctx context.Context, s Settings) (*Manager, *store.Gateway, error) {
	gw, err := store.Open(ctx, s.Store)
	if err != nil {
		return nil, nil, err
	}
	m, err := NewManager(gw, Options{Table: gw.Table(), Dir: s.MocksDir})
	if err != nil {
		gw.Close()
		return nil, nil, err
	}
	return m, gw, nil
}
