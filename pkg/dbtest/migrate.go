package dbtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
)

// EnvDSN names the variable holding the test database DSN.
const EnvDSN = "PG_TEST_DSN"

// Open connects to the test database, applies the migrations from dir and
// empties the given tables. The test is skipped when EnvDSN is not set.
func Open(t testing.TB, dir string, truncate ...string) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}

	ctx := context.Background()

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		t.Fatalf("sqlx.ConnectContext: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateDir(ctx, db, dir); err != nil {
		t.Fatalf("MigrateDir: %v", err)
	}

	for _, table := range truncate {
		if _, err := db.ExecContext(ctx, "TRUNCATE "+table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	return db
}

// MigrateDir executes every *.sql file of dir in lexical order, so files are
// expected to be numbered (0001_bookings.sql, 0002_...).
func MigrateDir(ctx context.Context, db *sqlx.DB, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("filepath.Glob: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no migrations in %s", dir)
	}

	slices.Sort(files)

	for _, file := range files {
		query, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.ExecContext(ctx, string(query)); err != nil {
			return fmt.Errorf("migrate %s: %w", filepath.Base(file), err)
		}
	}

	return nil
}
