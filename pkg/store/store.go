// Package store executes the fixture statements against the backing
// relational store. Statements use sqlx named parameters (":id"), which are
// rebound to the placeholder style of the configured driver.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/reviewdesk/reviewkit/pkg/logging"
	"github.com/reviewdesk/reviewkit/pkg/record"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var logger = logging.Component("pkg/store")

var (
	// ErrStoreOperationFailed wraps every error reported by the database.
	ErrStoreOperationFailed = errors.New("store operation failed")
	ErrNotFound             = errors.New("record not found")
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"

	DefaultTable          = "documents"
	DefaultConnectTimeout = 30 * time.Second
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Settings struct {
	Driver         string
	DSN            string
	Table          string
	ConnectTimeout time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.Driver == "" {
		s.Driver = DriverSQLite
	}
	if s.Table == "" {
		s.Table = DefaultTable
	}
	if s.ConnectTimeout <= 0 {
		s.ConnectTimeout = DefaultConnectTimeout
	}
	return s
}

// InsertStatement is the literal insert used to seed one record.
func InsertStatement(table string) string {
	return "INSERT INTO " + table + " (" +
		"id, reviewer1, reviewer1_time, reviewer2, reviewer2_time, to_update" +
		") VALUES (" +
		":id, :reviewer1, :reviewer1_time, :reviewer2, :reviewer2_time, :to_update);"
}

// DeleteStatement is the literal delete used to remove one record.
func DeleteStatement(table string) string {
	return "DELETE FROM " + table + " WHERE id = :id;"
}

// ValidateTable rejects anything that is not a plain SQL identifier, since
// the table name is spliced into statement text.
func ValidateTable(table string) error {
	if !identifierRe.MatchString(table) {
		return fmt.Errorf("store: invalid table name %q", table)
	}
	return nil
}

// Gateway is a thin executor of named statements against one table.
type Gateway struct {
	db    *sqlx.DB
	table string
}

// Open connects to the database described by s and waits until it answers
// a ping, retrying with exponential backoff for up to s.ConnectTimeout.
func Open(ctx context.Context, s Settings) (*Gateway, error) {
	s = s.withDefaults()
	if s.DSN == "" {
		return nil, fmt.Errorf("store: empty connection string")
	}
	switch s.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", s.Driver)
	}
	if err := ValidateTable(s.Table); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(s.Driver, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", s.Driver, err)
	}
	if s.Driver == DriverSQLite {
		// A single connection serialises writers and keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
	}

	if err := waitForDB(ctx, db, s.ConnectTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect %s: %w", s.Driver, err)
	}
	logger.Debugf("Connected to %s database, table %s", s.Driver, s.Table)

	return &Gateway{db: db, table: s.Table}, nil
}

// New wraps an already opened database handle.
func New(db *sqlx.DB, table string) (*Gateway, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	return &Gateway{db: db, table: table}, nil
}

func waitForDB(ctx context.Context, db *sqlx.DB, timeout time.Duration) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.MaxElapsedTime = timeout

	var attempt int
	operation := func() error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			logger.Debugf("Database not ready, attempt %d, error: %v", attempt, err)
			return err
		}
		return nil
	}
	return backoff.Retry(operation, backoff.WithContext(expBackoff, ctx))
}

func (g *Gateway) Table() string {
	return g.table
}

func (g *Gateway) DriverName() string {
	return g.db.DriverName()
}

// Exec runs statement with named params. Failures are never retried.
func (g *Gateway) Exec(ctx context.Context, statement string, params map[string]any) error {
	if params == nil {
		params = map[string]any{}
	}
	if _, err := g.db.NamedExecContext(ctx, statement, params); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreOperationFailed, err)
	}
	return nil
}

// CreateTable creates the review table if it does not exist yet.
func (g *Gateway) CreateTable(ctx context.Context) error {
	idType, flagType := "TEXT", "BOOLEAN"
	switch g.db.DriverName() {
	case DriverSQLite:
		flagType = "INTEGER"
	case DriverMySQL:
		idType = "VARCHAR(255)"
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id %s PRIMARY KEY,
		reviewer1 TEXT,
		reviewer1_time TEXT,
		reviewer2 TEXT,
		reviewer2_time TEXT,
		to_update %s
	)`, g.table, idType, flagType)

	if _, err := g.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create table %s: %w", ErrStoreOperationFailed, g.table, err)
	}
	return nil
}

type recordRow struct {
	ID            string         `db:"id"`
	Reviewer1     sql.NullString `db:"reviewer1"`
	Reviewer1Time sql.NullString `db:"reviewer1_time"`
	Reviewer2     sql.NullString `db:"reviewer2"`
	Reviewer2Time sql.NullString `db:"reviewer2_time"`
	ToUpdate      sql.NullBool   `db:"to_update"`
}

// Get loads the record stored under id.
func (g *Gateway) Get(ctx context.Context, id string) (record.Record, error) {
	query := g.db.Rebind("SELECT id, reviewer1, reviewer1_time, reviewer2, reviewer2_time, to_update FROM " +
		g.table + " WHERE id = ?")

	var row recordRow
	if err := g.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return record.Record{}, fmt.Errorf("%w: get %s: %w", ErrStoreOperationFailed, id, err)
	}
	return row.toRecord()
}

// IDs lists every id currently stored in the table, sorted.
func (g *Gateway) IDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := g.db.SelectContext(ctx, &ids, "SELECT id FROM "+g.table+" ORDER BY id"); err != nil {
		return nil, fmt.Errorf("%w: list ids: %w", ErrStoreOperationFailed, err)
	}
	return ids, nil
}

func (g *Gateway) Close() error {
	return g.db.Close()
}

func (r recordRow) toRecord() (record.Record, error) {
	rec := record.Record{ID: r.ID}
	if r.Reviewer1.Valid {
		rec.Reviewer1 = &r.Reviewer1.String
	}
	if r.Reviewer2.Valid {
		rec.Reviewer2 = &r.Reviewer2.String
	}
	var err error
	if rec.Reviewer1Time, err = parseNullTime(r.Reviewer1Time); err != nil {
		return record.Record{}, fmt.Errorf("store: record %s reviewer1_time: %w", r.ID, err)
	}
	if rec.Reviewer2Time, err = parseNullTime(r.Reviewer2Time); err != nil {
		return record.Record{}, fmt.Errorf("store: record %s reviewer2_time: %w", r.ID, err)
	}
	if r.ToUpdate.Valid {
		rec.ToUpdate = &r.ToUpdate.Bool
	}
	return rec, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := record.ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
