package db

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaTables = []string{
	"users", "plans", "objectives", "members", "payments", "classes",
	"class_reservations", "equipment", "notifications", "activities",
	"user_preferences", "favorites",
}

func TestRunMigrations_SQLiteIsIdempotent(t *testing.T) {
	database, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "gym.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database, DriverSQLite))
	require.NoError(t, RunMigrations(database, DriverSQLite))

	ctx := context.Background()
	for _, table := range schemaTables {
		exists, err := Exists(ctx, database, `SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}
}

func TestRunMigrations_UnsupportedDriver(t *testing.T) {
	err := RunMigrations(&sqlx.DB{}, "postgres")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect("oracle", "whatever")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestExists(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	database := sqlx.NewDb(sqlDB, "sqlmock")
	defer database.Close()

	query := `SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := Exists(context.Background(), database, query, 7)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialects(t *testing.T) {
	sqlite, err := DialectFor(DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, `"class_reservations"`, sqlite.Quote("class_reservations"))
	assert.Equal(t, `"we""ird"`, sqlite.Quote(`we"ird`))

	mysql, err := DialectFor(DriverMySQL)
	require.NoError(t, err)
	assert.Equal(t, "`favorites`", mysql.Quote("favorites"))

	_, err = DialectFor("postgres")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestMySQLForeignKeyChecks(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	database := sqlx.NewDb(sqlDB, "sqlmock")
	defer database.Close()

	mock.ExpectExec(regexp.QuoteMeta("SET FOREIGN_KEY_CHECKS = 0")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SET FOREIGN_KEY_CHECKS = 1")).WillReturnResult(sqlmock.NewResult(0, 0))

	dialect, _ := DialectFor(DriverMySQL)
	ctx := context.Background()
	require.NoError(t, dialect.SetForeignKeyChecks(ctx, database, false))
	require.NoError(t, dialect.SetForeignKeyChecks(ctx, database, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}
