// Package fixture seeds the review table with mock records for a test and
// removes them again once the test completes, whatever its outcome.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/reviewdesk/reviewkit/pkg/logging"
	"github.com/reviewdesk/reviewkit/pkg/record"
	"github.com/reviewdesk/reviewkit/pkg/store"
)

var logger = logging.Component("pkg/fixture")

// DefaultMocksDir is where Record Source files live, relative to the test suite.
const DefaultMocksDir = "testdata/mocks"

var (
	ErrMalformedFixtureData = record.ErrMalformedFixtureData
	ErrStoreOperationFailed = store.ErrStoreOperationFailed

	// ErrRecordInUse is returned when an id is provisioned while a previous
	// provisioning of it has not been released.
	ErrRecordInUse = errors.New("record id already provisioned")
)

// Gateway executes a named-parameter statement against the backing store.
type Gateway interface {
	Exec(ctx context.Context, statement string, params map[string]any) error
}

type Options struct {
	Table string
	Dir   string
}

type Manager struct {
	gateway Gateway
	dir     string
	insert  string
	delete  string

	mu    sync.Mutex
	inUse map[string]struct{}
}

func NewManager(gw Gateway, opts Options) (*Manager, error) {
	if gw == nil {
		return nil, fmt.Errorf("fixture: nil gateway")
	}
	if opts.Table == "" {
		opts.Table = store.DefaultTable
	}
	if opts.Dir == "" {
		opts.Dir = DefaultMocksDir
	}
	if err := store.ValidateTable(opts.Table); err != nil {
		return nil, err
	}
	return &Manager{
		gateway: gw,
		dir:     opts.Dir,
		insert:  store.InsertStatement(opts.Table),
		delete:  store.DeleteStatement(opts.Table),
		inUse:   make(map[string]struct{}),
	}, nil
}

// Provision inserts one record per Record Source file, in order, and returns
// the inserted ids. On failure it returns the ids inserted so far together
// with the error; those rows are left in place for the caller to release.
func (m *Manager) Provision(ctx context.Context, files []string, overlay Overlay) ([]string, error) {
	if overlay == nil {
		return nil, fmt.Errorf("fixture: nil overlay")
	}
	log := logger.WithField("run", uuid.NewString())
	log.Debugf("Provisioning %d record(s)", len(files))

	ids := make([]string, 0, len(files))
	for _, file := range files {
		identity, err := record.LoadIdentity(m.resolve(file))
		if err != nil {
			log.Errorf("Aborting provisioning: %v", err)
			return ids, err
		}

		rec := overlay(identity)
		if rec.ID == "" {
			rec.ID = identity.ID
		}
		if err := m.claim(rec.ID); err != nil {
			return ids, err
		}
		if err := m.gateway.Exec(ctx, m.insert, rec.Params()); err != nil {
			m.unclaim(rec.ID)
			log.Errorf("Insert of %s failed: %v", rec.ID, err)
			return ids, fmt.Errorf("fixture: insert %s: %w", rec.ID, err)
		}
		ids = append(ids, rec.ID)
	}

	log.Infof("Provisioned %d record(s)", len(ids))
	return ids, nil
}

func (m *Manager) ProvisionScenario(ctx context.Context, sc Scenario) ([]string, error) {
	ids, err := m.Provision(ctx, sc.Files, sc.Overlay)
	if err != nil {
		return ids, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	return ids, nil
}

// Release deletes every id. A failed delete does not stop the remaining
// ones; all failures are joined into the returned error.
func (m *Manager) Release(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := m.gateway.Exec(ctx, m.delete, map[string]any{"id": id}); err != nil {
			logger.Warnf("Delete of %s failed: %v", id, err)
			errs = append(errs, fmt.Errorf("fixture: delete %s: %w", id, err))
			continue
		}
		m.unclaim(id)
	}
	if len(errs) == 0 {
		logger.Debugf("Released %d record(s)", len(ids))
	}
	return errors.Join(errs...)
}

func (m *Manager) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(m.dir, file)
}

func (m *Manager) claim(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inUse[id]; ok {
		return fmt.Errorf("%w: %s", ErrRecordInUse, id)
	}
	m.inUse[id] = struct{}{}
	return nil
}

func (m *Manager) unclaim(id string) {
	m.mu.Lock()
	delete(m.inUse, id)
	m.mu.Unlock()
}
