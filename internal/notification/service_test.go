package notification

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/civil"
	"gymdesk/internal/db"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
)

type staticMembers []member.Member

func (s staticMembers) ListActive(context.Context) ([]member.Member, error) {
	return s, nil
}

type recordingMailer struct {
	expiring []string
	expired  []string
	err      error
}

func (r *recordingMailer) SendExpiringReminder(_ context.Context, to, _ string, end civil.Date) error {
	r.expiring = append(r.expiring, to+"@"+end.String())
	return r.err
}

func (r *recordingMailer) SendExpiredNotice(_ context.Context, to, _ string, end civil.Date) error {
	r.expired = append(r.expired, to+"@"+end.String())
	return r.err
}

var fixedNow = func() time.Time { return time.Date(2024, time.March, 15, 6, 0, 0, 0, time.UTC) }

func newSQLiteRepo(t *testing.T) Repository {
	conn, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "gym.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(conn, db.DriverSQLite))
	return NewRepository(conn)
}

func withEnd(id int64, email, end string) member.Member {
	m := member.Member{ID: id, FirstName: "M", LastName: "L", Email: email, Active: true}
	if end != "" {
		m.EndDate = civil.MustParseDate(end).Ptr()
	}
	return m
}

func TestScan_RaisesOncePerMemberAndEndDate(t *testing.T) {
	repo := newSQLiteRepo(t)
	mailer := &recordingMailer{}
	members := staticMembers{
		withEnd(1, "a@example.com", "2024-03-20"),
		withEnd(2, "", "2024-03-22"),
		withEnd(3, "c@example.com", "2024-03-01"),
		withEnd(4, "d@example.com", ""),
		withEnd(5, "e@example.com", "2024-05-01"),
	}
	svc := NewService(repo, members, mailer, fixedNow, logger.Discard())
	ctx := context.Background()

	first, err := svc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Expiring: 2, Expired: 1, EmailsQueued: 2}, first)
	assert.Equal(t, []string{"a@example.com@2024-03-20"}, mailer.expiring)
	assert.Equal(t, []string{"c@example.com@2024-03-01"}, mailer.expired)

	second, err := svc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScanResult{}, second)

	unread, err := svc.ListUnread(ctx)
	require.NoError(t, err)
	assert.Len(t, unread, 3)
}

func TestScan_RenewalRaisesAgain(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := NewService(repo, staticMembers{withEnd(1, "", "2024-03-20")}, nil, fixedNow, logger.Discard()).Scan(ctx)
	require.NoError(t, err)

	result, err := NewService(repo, staticMembers{withEnd(1, "", "2024-03-21")}, nil, fixedNow, logger.Discard()).Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expiring)
}

func TestScan_MailerFailureKeepsNotification(t *testing.T) {
	repo := newSQLiteRepo(t)
	mailer := &recordingMailer{err: errors.New("redis down")}
	svc := NewService(repo, staticMembers{withEnd(1, "a@example.com", "2024-03-18")}, mailer, fixedNow, logger.Discard())

	result, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expiring)
	assert.Equal(t, 0, result.EmailsQueued)
}

func TestMarkRead(t *testing.T) {
	repo := newSQLiteRepo(t)
	svc := NewService(repo, staticMembers{withEnd(1, "", "2024-03-18")}, nil, fixedNow, logger.Discard())
	ctx := context.Background()

	_, err := svc.Scan(ctx)
	require.NoError(t, err)
	unread, err := svc.ListUnread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Contains(t, unread[0].Message, "3 days left")

	require.NoError(t, svc.MarkRead(ctx, unread[0].ID))
	assert.ErrorIs(t, svc.MarkRead(ctx, unread[0].ID), ErrNotificationNotFound)

	unread, err = svc.ListUnread(ctx)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	svc := NewService(nil, staticMembers{}, nil, fixedNow, logger.Discard())
	s := NewScheduler(svc, "not a schedule", logger.Discard())
	assert.Error(t, s.Start())
}

func TestScheduler_StartStop(t *testing.T) {
	svc := NewService(newSQLiteRepo(t), staticMembers{}, nil, fixedNow, logger.Discard())
	s := NewScheduler(svc, "0 6 * * *", logger.Discard())
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}
