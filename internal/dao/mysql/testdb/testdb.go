// Package testdb opens an isolated in-memory SQLite identity directory
// for tests.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"bsu_chat_server/internal/dao/mysql"
	"bsu_chat_server/internal/dao/mysql/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns a migrated database private to t, closed on cleanup.
func Open(t testing.TB) (*gorm.DB, *repository.Repositories) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db, repository.NewRepositories(db)
}
