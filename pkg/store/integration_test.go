package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func uniqueTable() string {
	return "documents_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// postgresDSN returns REVIEWKIT_PG_DSN when set, otherwise starts a
// throwaway Postgres 16 container.
func postgresDSN(ctx context.Context, t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("REVIEWKIT_PG_DSN"); dsn != "" {
		return dsn
	}
	if testing.Short() {
		t.Skip("skipping Postgres container in short mode")
	}

	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("reviewkit"),
		postgres.WithUsername("reviewkit"),
		postgres.WithPassword("reviewkit"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("Postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("resolve connection string: %v", err)
	}
	return dsn
}

func TestGateway_Postgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	g, err := Open(ctx, Settings{Driver: DriverPostgres, DSN: postgresDSN(ctx, t), Table: uniqueTable()})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { g.Close() })

	if err := g.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	t.Cleanup(func() { _ = g.Exec(context.Background(), "DROP TABLE IF EXISTS "+g.Table(), map[string]any{}) })

	exerciseGateway(t, g)
}

func TestGateway_MySQL(t *testing.T) {
	dsn := os.Getenv("REVIEWKIT_MYSQL_DSN")
	if dsn == "" {
		t.Skip("REVIEWKIT_MYSQL_DSN is empty; set it to a live MySQL to run this test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	g, err := Open(ctx, Settings{Driver: DriverMySQL, DSN: dsn, Table: uniqueTable()})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { g.Close() })

	if err := g.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	t.Cleanup(func() { _ = g.Exec(context.Background(), "DROP TABLE IF EXISTS "+g.Table(), map[string]any{}) })

	exerciseGateway(t, g)
}
