package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gymdesk/internal/civil"
	"gymdesk/internal/lifecycle"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"
)

var ErrNotificationNotFound = errors.New("notification not found or already read")

type Members interface {
	ListActive(ctx context.Context) ([]member.Member, error)
}

// Mailer queues reminder emails. It may be nil, in which case no email is
// sent.
type Mailer interface {
	SendExpiringReminder(ctx context.Context, to, name string, end civil.Date) error
	SendExpiredNotice(ctx context.Context, to, name string, end civil.Date) error
}

type Service interface {
	Scan(ctx context.Context) (ScanResult, error)
	ListUnread(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type service struct {
	repo    Repository
	members Members
	mailer  Mailer
	now     func() time.Time
	log     *slog.Logger

	// scans from cron and from the API must not interleave, or both could
	// pass the Exists check for the same member.
	mu sync.Mutex
}

func NewService(repo Repository, members Members, mailer Mailer, now func() time.Time, log *slog.Logger) Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{
		repo:    repo,
		members: members,
		mailer:  mailer,
		now:     now,
		log:     log,
	}
}

// Scan raises one notification per member and end date for each of the
// expiring and expired states. Members without an end date never held a
// subscription and are left alone.
func (s *service) Scan(ctx context.Context) (ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ScanResult
	members, err := s.members.ListActive(ctx)
	if err != nil {
		return result, err
	}
	today := civil.Today(s.now())

	for _, m := range lifecycle.FindExpiringSoon(members, today) {
		created, mailed, err := s.raise(ctx, m, TypeExpiring, today)
		if err != nil {
			return result, err
		}
		if created {
			result.Expiring++
		}
		if mailed {
			result.EmailsQueued++
		}
	}

	for _, m := range lifecycle.FindExpired(members, today) {
		if m.EndDate == nil {
			continue
		}
		created, mailed, err := s.raise(ctx, m, TypeExpired, today)
		if err != nil {
			return result, err
		}
		if created {
			result.Expired++
		}
		if mailed {
			result.EmailsQueued++
		}
	}

	s.log.Info("expiry scan finished",
		"date", today.String(),
		"expiring", result.Expiring,
		"expired", result.Expired,
		"emails_queued", result.EmailsQueued,
	)
	return result, nil
}

func (s *service) raise(ctx context.Context, m member.Member, typ Type, today civil.Date) (created, mailed bool, err error) {
	end := *m.EndDate
	exists, err := s.repo.Exists(ctx, m.ID, typ, end)
	if err != nil {
		return false, false, err
	}
	if exists {
		return false, false, nil
	}

	n := &Notification{
		MemberID:  &m.ID,
		Type:      typ,
		RefDate:   end.Ptr(),
		CreatedAt: civil.NewTimestamp(s.now()),
	}
	switch typ {
	case TypeExpiring:
		n.Title = "Membership expiring"
		n.Message = fmt.Sprintf("%s's membership ends on %s (%d days left).", m.FullName(), end, today.DaysBetween(end))
	default:
		n.Title = "Membership expired"
		n.Message = fmt.Sprintf("%s's membership expired on %s.", m.FullName(), end)
	}

	if _, err := s.repo.Create(ctx, n); err != nil {
		return false, false, err
	}
	metrics.RecordNotification(string(typ))

	if s.mailer == nil || m.Email == "" {
		return true, false, nil
	}
	if typ == TypeExpiring {
		err = s.mailer.SendExpiringReminder(ctx, m.Email, m.FirstName, end)
	} else {
		err = s.mailer.SendExpiredNotice(ctx, m.Email, m.FirstName, end)
	}
	if err != nil {
		// The notification stands; a lost email is not retried by later scans.
		s.log.Warn("failed to queue reminder email", "member_id", m.ID, "error", err)
		return true, false, nil
	}
	return true, true, nil
}

func (s *service) ListUnread(ctx context.Context) ([]Notification, error) {
	return s.repo.ListUnread(ctx)
}

func (s *service) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkRead(ctx, id)
}
