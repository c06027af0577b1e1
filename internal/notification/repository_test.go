package notification

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/civil"
	"gymdesk/internal/db"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRepository(sqlx.NewDb(conn, "sqlmock")), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	memberID := int64(4)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs(int64(4), "expired", "Membership expired", "", "2024-03-01", false, "2024-03-02 08:00:00").
		WillReturnResult(sqlmock.NewResult(12, 1))

	created, err := repo.Create(context.Background(), &Notification{
		MemberID:  &memberID,
		Type:      TypeExpired,
		Title:     "Membership expired",
		RefDate:   civil.MustParseDate("2024-03-01").Ptr(),
		CreatedAt: civil.NewTimestamp(civil.MustParseDate("2024-03-02").Time().Add(8 * time.Hour)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Exists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE member_id = ? AND type = ? AND ref_date = ?`)).
		WithArgs(int64(4), "expiring", "2024-03-20").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), 4, TypeExpiring, civil.MustParseDate("2024-03-20"))
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkRead_AlreadyRead(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = 1 WHERE id = ? AND is_read = 0`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRead(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SQLiteRoundTrip(t *testing.T) {
	conn, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "gym.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(conn, db.DriverSQLite))

	_, err = conn.Exec(`INSERT INTO members (code, last_name, first_name, end_date, registration_date) VALUES ('m-1', 'Idrissi', 'Omar', '2024-03-01', '2024-01-01')`)
	require.NoError(t, err)

	repo := NewRepository(conn)
	ctx := context.Background()
	memberID := int64(1)
	end := civil.MustParseDate("2024-03-01")

	first, err := repo.Create(ctx, &Notification{
		MemberID: &memberID, Type: TypeExpired, Title: "Membership expired",
		RefDate: &end, CreatedAt: civil.NewTimestamp(end.Time()),
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &Notification{
		Type: TypeExpiring, Title: "Expiring soon", CreatedAt: civil.NewTimestamp(end.AddDays(1).Time()),
	})
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, memberID, TypeExpired, end)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.Exists(ctx, memberID, TypeExpiring, end)
	require.NoError(t, err)
	assert.False(t, exists)

	unread, err := repo.ListUnread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	assert.Equal(t, TypeExpiring, unread[0].Type)
	assert.Nil(t, unread[0].MemberID)
	assert.Nil(t, unread[0].RefDate)
	require.NotNil(t, unread[1].RefDate)
	assert.Equal(t, "2024-03-01", unread[1].RefDate.String())

	require.NoError(t, repo.MarkRead(ctx, first.ID))
	assert.ErrorIs(t, repo.MarkRead(ctx, first.ID), ErrNotificationNotFound)

	unread, err = repo.ListUnread(ctx)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}
