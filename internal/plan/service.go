package plan

import (
	"context"
	"errors"
	"strings"
	"time"

	"gymdesk/internal/civil"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrInvalidPlan  = errors.New("invalid plan")
)

type Service interface {
	Create(ctx context.Context, req PlanRequest) (*Plan, error)
	Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Plan, error)
	List(ctx context.Context, onlyActive bool) ([]Plan, error)
	ResolveName(ctx context.Context, id *int64) string
	Activities(ctx context.Context) ([]Activity, error)
	CreateActivity(ctx context.Context, req ActivityRequest) (*Activity, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo: repo,
		now:  now,
	}
}

func (s *service) Create(ctx context.Context, req PlanRequest) (*Plan, error) {
	p := &Plan{
		Active:    true,
		CreatedAt: civil.NewTimestamp(s.now()),
	}
	if err := apply(p, req); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *service) Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id int64) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, onlyActive bool) ([]Plan, error) {
	return s.repo.List(ctx, onlyActive)
}

// ResolveName never fails: a missing or deleted plan reads as "N/A".
func (s *service) ResolveName(ctx context.Context, id *int64) string {
	if id == nil {
		return UnknownPlanName
	}
	p, err := s.repo.GetByID(ctx, *id)
	if err != nil {
		return UnknownPlanName
	}
	return p.Name
}

func (s *service) Activities(ctx context.Context) ([]Activity, error) {
	return s.repo.ListActivities(ctx)
}

func (s *service) CreateActivity(ctx context.Context, req ActivityRequest) (*Activity, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidPlan
	}
	return s.repo.CreateActivity(ctx, name, strings.TrimSpace(req.Description))
}

func apply(p *Plan, req PlanRequest) error {
	if strings.TrimSpace(req.Name) == "" || req.Price.IsNegative() || req.DurationValue < 1 {
		return ErrInvalidPlan
	}
	sessions := UnlimitedSessions
	if req.SessionsPerWeek != nil {
		sessions = *req.SessionsPerWeek
	}
	if sessions == 0 || sessions < UnlimitedSessions {
		return ErrInvalidPlan
	}
	switch req.DurationUnit {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
	default:
		return ErrInvalidPlan
	}

	activities := make([]string, 0, len(req.Activities))
	for _, a := range req.Activities {
		if a = strings.TrimSpace(a); a != "" {
			activities = append(activities, a)
		}
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Price = req.Price
	p.Activities = activities
	p.Availability = req.Availability
	p.DurationValue = req.DurationValue
	p.DurationUnit = req.DurationUnit
	p.SessionsPerWeek = sessions
	p.CoachAccess = req.CoachAccess
	p.Description = req.Description
	if req.Active != nil {
		p.Active = *req.Active
	}
	return nil
}
