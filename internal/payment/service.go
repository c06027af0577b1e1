package payment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/civil"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"
	"gymdesk/internal/plan"
)

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidPayment    = errors.New("invalid payment")
	ErrInvalidTransition = errors.New("payment is no longer valid")
)

// Members is the member lookup a payment needs.
type Members interface {
	GetByID(ctx context.Context, id int64) (*member.Member, error)
}

type PlanCatalog interface {
	Get(ctx context.Context, id int64) (*plan.Plan, error)
	ResolveName(ctx context.Context, id *int64) string
}

type Service interface {
	Record(ctx context.Context, req PaymentRequest) (*Payment, error)
	Get(ctx context.Context, id int64) (*View, error)
	ListByMember(ctx context.Context, memberID int64) ([]View, error)
	ListRecent(ctx context.Context, limit int) ([]View, error)
	Cancel(ctx context.Context, id int64) error
	Refund(ctx context.Context, id int64) error
	RevenueForMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)
	RevenueHistory(ctx context.Context, months int) ([]MonthlyRevenue, error)
}

type service struct {
	repo    Repository
	members Members
	plans   PlanCatalog
	now     func() time.Time
	log     *slog.Logger
}

func NewService(repo Repository, members Members, plans PlanCatalog, now func() time.Time, log *slog.Logger) Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{
		repo:    repo,
		members: members,
		plans:   plans,
		now:     now,
		log:     log,
	}
}

// Record stores a payment and renews the member's subscription. The window
// starts on req.StartDate when given; otherwise the day after the current
// end date while the member is still covered, else today.
func (s *service) Record(ctx context.Context, req PaymentRequest) (*Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidPayment
	}
	switch req.Method {
	case MethodCash, MethodCard, MethodTransfer, MethodCheck:
	default:
		return nil, ErrInvalidPayment
	}

	m, err := s.members.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	planID := req.PlanID
	if planID == nil {
		planID = m.PlanID
	}
	if planID == nil {
		return nil, ErrInvalidPayment
	}
	p, err := s.plans.Get(ctx, *planID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := civil.Today(now)
	start := today
	switch {
	case req.StartDate != nil:
		start = *req.StartDate
	case m.EndDate != nil && !m.EndDate.Before(today):
		start = m.EndDate.AddDays(1)
	}
	end := p.EndDate(start)

	recorded, err := s.repo.RecordWithRenewal(ctx, &Payment{
		MemberID:    m.ID,
		PlanID:      &p.ID,
		Amount:      req.Amount.Round(2),
		PaymentDate: civil.NewTimestamp(now),
		Method:      req.Method,
		Status:      StatusValid,
		Reference:   strings.TrimSpace(req.Reference),
		Notes:       req.Notes,
		StartDate:   start.Ptr(),
		EndDate:     end.Ptr(),
	})
	if err != nil {
		metrics.RecordPayment(string(req.Method), "error")
		return nil, err
	}

	metrics.RecordPayment(string(req.Method), string(StatusValid))
	s.log.Info("payment recorded",
		"payment_id", recorded.ID,
		"member_id", m.ID,
		"plan_id", p.ID,
		"amount", recorded.Amount.StringFixed(2),
		"end_date", end.String(),
	)
	return recorded, nil
}

func (s *service) Get(ctx context.Context, id int64) (*View, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.PlanName = s.plans.ResolveName(ctx, v.PlanID)
	return v, nil
}

func (s *service) ListByMember(ctx context.Context, memberID int64) ([]View, error) {
	views, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	s.resolvePlans(ctx, views)
	return views, nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]View, error) {
	views, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.resolvePlans(ctx, views)
	return views, nil
}

// Cancel and Refund only change the payment status. The member's window is
// left as it is.
func (s *service) Cancel(ctx context.Context, id int64) error {
	return s.transition(ctx, id, StatusCancelled)
}

func (s *service) Refund(ctx context.Context, id int64) error {
	return s.transition(ctx, id, StatusRefunded)
}

func (s *service) transition(ctx context.Context, id int64, to Status) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v.Status != StatusValid {
		return ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusValid, to); err != nil {
		return err
	}
	metrics.RecordPayment(string(v.Method), string(to))
	s.log.Info("payment status changed", "payment_id", id, "status", to)
	return nil
}

func (s *service) RevenueForMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	from, to := civil.MonthBounds(year, month)
	total, err := s.repo.RevenueBetween(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

// RevenueHistory returns one entry per month for the last months months,
// oldest first, ending with the current month.
func (s *service) RevenueHistory(ctx context.Context, months int) ([]MonthlyRevenue, error) {
	if months <= 0 {
		months = 12
	}
	today := civil.Today(s.now())
	current := civil.NewDate(today.Year(), today.Month(), 1)

	out := make([]MonthlyRevenue, 0, months)
	for i := months - 1; i >= 0; i-- {
		first := current.AddMonths(-i)
		total, err := s.RevenueForMonth(ctx, first.Year(), first.Month())
		if err != nil {
			return nil, err
		}
		out = append(out, MonthlyRevenue{
			Month: first.Time().Format("2006-01"),
			Total: total,
		})
	}
	return out, nil
}

func (s *service) resolvePlans(ctx context.Context, views []View) {
	names := make(map[int64]string)
	for i := range views {
		id := views[i].PlanID
		if id == nil {
			views[i].PlanName = plan.UnknownPlanName
			continue
		}
		name, ok := names[*id]
		if !ok {
			name = s.plans.ResolveName(ctx, id)
			names[*id] = name
		}
		views[i].PlanName = name
	}
}
