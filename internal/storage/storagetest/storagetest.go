// Package storagetest provides throwaway stores for tests.
package storagetest

import (
	"database/sql"
	"testing"

	"devdesk/common"
	"devdesk/config"
	"devdesk/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite returns a store over a fresh in-memory database with every
// table created.
func NewSQLite(t testing.TB) *storage.Store {
	t.Helper()

	db, err := storage.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := storage.EnsureSchema(db, common.Models()...); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	store := storage.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// NewMock returns a store backed by sqlmock so tests can script failures.
func NewMock(t testing.TB) (*storage.Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewMockFromDB(t, sqlDB), mock
}

// NewMockFromDB wraps an sqlmock connection created with custom options.
// gorm's startup ping is disabled so ping expectations stay with the test.
func NewMockFromDB(t testing.TB, sqlDB *sql.DB) *storage.Store {
	t.Helper()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("Failed to open gorm over sqlmock: %v", err)
	}

	return storage.NewStore(db)
}

// CollectRows drains rows into models using the store's scanner.
func CollectRows[T any](t testing.TB, store *storage.Store, rows *sql.Rows) []T {
	t.Helper()
	defer rows.Close()

	var out []T
	for rows.Next() {
		var item T
		if err := store.ScanRow(rows, &item); err != nil {
			t.Fatalf("Failed to scan row: %v", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Row iteration failed: %v", err)
	}
	return out
}
