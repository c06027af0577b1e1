package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Execer is satisfied by *sqlx.DB, *sqlx.Tx and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Dialect covers the few statements that differ between the supported
// engines. Everything else is written in the shared subset with ? params.
type Dialect interface {
	Name() string
	Quote(identifier string) string
	SetForeignKeyChecks(ctx context.Context, exec Execer, enabled bool) error
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqliteDialect{}, nil
	case DriverMySQL:
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DriverSQLite }

func (sqliteDialect) Quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

// SQLite ignores the pragma inside a transaction; constraints stay as they
// were for the connection.
func (sqliteDialect) SetForeignKeyChecks(ctx context.Context, exec Execer, enabled bool) error {
	value := "OFF"
	if enabled {
		value = "ON"
	}
	_, err := exec.ExecContext(ctx, "PRAGMA foreign_keys = "+value)
	return err
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return DriverMySQL }

func (mysqlDialect) Quote(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}

func (mysqlDialect) SetForeignKeyChecks(ctx context.Context, exec Execer, enabled bool) error {
	value := 0
	if enabled {
		value = 1
	}
	_, err := exec.ExecContext(ctx, fmt.Sprintf("SET FOREIGN_KEY_CHECKS = %d", value))
	return err
}
