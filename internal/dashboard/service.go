package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/civil"
	"gymdesk/internal/lifecycle"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"
	"gymdesk/internal/payment"
)

const historyMonths = 12

type Members interface {
	ListActive(ctx context.Context) ([]member.Member, error)
	CountRegisteredBetween(ctx context.Context, from, to civil.Date) (int, error)
}

type Revenue interface {
	RevenueForMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)
	RevenueHistory(ctx context.Context, months int) ([]payment.MonthlyRevenue, error)
}

type Stats struct {
	Date             civil.Date               `json:"date"`
	ActiveMembers    int                      `json:"active_members"`
	Subscriptions    lifecycle.Summary        `json:"subscriptions"`
	NewThisMonth     int                      `json:"new_this_month"`
	RevenueThisMonth decimal.Decimal          `json:"revenue_this_month"`
	RevenueByMonth   []payment.MonthlyRevenue `json:"revenue_by_month"`
}

type Service struct {
	members Members
	revenue Revenue
	now     func() time.Time
	log     *slog.Logger
}

func NewService(members Members, revenue Revenue, now func() time.Time, log *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		members: members,
		revenue: revenue,
		now:     now,
		log:     log,
	}
}

// Stats also refreshes the members-by-status gauges.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	today := civil.Today(s.now())

	members, err := s.members.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	summary := lifecycle.Summarize(members, today)
	metrics.SetMembersByStatus(summary.Active, summary.ExpiringSoon, summary.Expired)

	from, to := civil.MonthBounds(today.Year(), today.Month())
	registered, err := s.members.CountRegisteredBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	thisMonth, err := s.revenue.RevenueForMonth(ctx, today.Year(), today.Month())
	if err != nil {
		return nil, err
	}
	history, err := s.revenue.RevenueHistory(ctx, historyMonths)
	if err != nil {
		return nil, err
	}

	s.log.Debug("dashboard refreshed", "active", summary.Total, "expired", summary.Expired)
	return &Stats{
		Date:             today,
		ActiveMembers:    summary.Total,
		Subscriptions:    summary,
		NewThisMonth:     registered,
		RevenueThisMonth: thisMonth,
		RevenueByMonth:   history,
	}, nil
}
