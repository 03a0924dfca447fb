// Package sqlitedb opens migrated, seeded in-memory databases for tests.
package sqlitedb

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"sinfopers/internal/infrastructure/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Open returns a private in-memory database with the schema and reference
// data in place. The pool holds a single connection, so concurrent
// transactions queue up behind each other the way row locks make them.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	// named shared-cache DSN: one database per test, visible to the pool
	dsn := fmt.Sprintf("file:sinfopers_test_%d?mode=memory&cache=shared&_busy_timeout=5000", seq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), db.Config())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(context.Background(), gdb); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return gdb
}
