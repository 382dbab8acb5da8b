// Package storage owns the relational store: connection setup, table
// creation and the handful of row operations the services need.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"devdesk/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured engine and verifies the connection.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite, "":
		dialector = sqlite.Open(SQLiteDSN(cfg.Path))
	case config.DriverMySQL:
		dialector = mysql.Open(MySQLDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Driver == config.DriverMySQL {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		// SQLite serializes writers itself; a single connection also keeps
		// ":memory:" databases shared across callers.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// SQLiteDSN appends a busy timeout unless the path already carries options.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000"
}

// MySQLDSN builds the DSN for the mysql driver. clientFoundRows makes an
// UPDATE that leaves a row unchanged still count it as affected.
func MySQLDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
}

// EnsureSchema creates every missing table. Existing tables are left alone.
func EnsureSchema(db *gorm.DB, models ...interface{}) error {
	migrator := db.Migrator()
	for _, model := range models {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}
	return nil
}

// Store is the shared accessor handed to every repository.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Insert writes record and returns the number of rows written. gorm fills
// the record's generated primary key.
func (s *Store) Insert(ctx context.Context, record interface{}) (int64, error) {
	result := s.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert row: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Query runs a SELECT and returns the open cursor. The caller closes it.
func (s *Store) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	rows, err := sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// ScanRow maps the current row of rows onto dest, a pointer to a model.
func (s *Store) ScanRow(rows *sql.Rows, dest interface{}) error {
	if err := s.db.ScanRows(rows, dest); err != nil {
		return fmt.Errorf("failed to scan row: %w", err)
	}
	return nil
}

// UpdateColumn sets a single column on the row with the given id and
// returns how many rows were affected. Zero means no such row.
func (s *Store) UpdateColumn(ctx context.Context, table string, id int64, column string, value interface{}) (int64, error) {
	result := s.db.WithContext(ctx).Table(table).Where("id = ?", id).UpdateColumn(column, value)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update %s.%s: %w", table, column, result.Error)
	}
	return result.RowsAffected, nil
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// DeleteAll removes every row of model's table.
func (s *Store) DeleteAll(ctx context.Context, model interface{}) (int64, error) {
	result := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear %T: %w", model, result.Error)
	}
	return result.RowsAffected, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}
