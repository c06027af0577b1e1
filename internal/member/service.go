package member

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/civil"
	"gymdesk/internal/lifecycle"
	"gymdesk/internal/plan"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidMember  = errors.New("invalid member")
)

// PlanCatalog is the part of the plan service members depend on.
type PlanCatalog interface {
	Get(ctx context.Context, id int64) (*plan.Plan, error)
	ResolveName(ctx context.Context, id *int64) string
}

type Service interface {
	Create(ctx context.Context, req MemberRequest) (*View, error)
	Update(ctx context.Context, id int64, req MemberRequest) (*View, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*View, error)
	List(ctx context.Context, term string) ([]View, error)
	RedList(ctx context.Context) ([]View, error)
	ExpiringSoon(ctx context.Context) ([]View, error)
	Calendar(ctx context.Context, year int, month time.Month) (*Calendar, error)
	Objectives(ctx context.Context) ([]Objective, error)
}

type service struct {
	repo  Repository
	plans PlanCatalog
	now   func() time.Time
	log   *slog.Logger
}

func NewService(repo Repository, plans PlanCatalog, now func() time.Time, log *slog.Logger) Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{
		repo:  repo,
		plans: plans,
		now:   now,
		log:   log,
	}
}

func (s *service) today() civil.Date {
	return civil.Today(s.now())
}

func (s *service) Create(ctx context.Context, req MemberRequest) (*View, error) {
	m := &Member{
		Code:             uuid.NewString(),
		Active:           true,
		RegistrationDate: s.today(),
	}
	if err := s.apply(ctx, m, req); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	s.log.Info("member registered", "member_id", created.ID, "code", created.Code)
	return s.view(ctx, *created, nil), nil
}

func (s *service) Update(ctx context.Context, id int64, req MemberRequest) (*View, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, m, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.view(ctx, *m, nil), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info("member deactivated", "member_id", id)
	return nil
}

func (s *service) Get(ctx context.Context, id int64) (*View, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *m, nil), nil
}

func (s *service) List(ctx context.Context, term string) ([]View, error) {
	var (
		members []Member
		err     error
	)
	if term = strings.TrimSpace(term); term == "" {
		members, err = s.repo.ListActive(ctx)
	} else {
		members, err = s.repo.Search(ctx, term)
	}
	if err != nil {
		return nil, err
	}
	return s.views(ctx, members), nil
}

func (s *service) RedList(ctx context.Context) ([]View, error) {
	members, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, lifecycle.FindExpired(members, s.today())), nil
}

func (s *service) ExpiringSoon(ctx context.Context) ([]View, error) {
	members, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, lifecycle.FindExpiringSoon(members, s.today())), nil
}

func (s *service) Calendar(ctx context.Context, year int, month time.Month) (*Calendar, error) {
	if month < time.January || month > time.December {
		return nil, ErrInvalidMember
	}
	members, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	idx := lifecycle.NewIndex(members)
	grid := lifecycle.MonthGrid(year, month)

	cal := &Calendar{Year: year, Month: int(month), Days: make([]CalendarDay, 0, len(grid))}
	for _, cell := range grid {
		if cell.Empty {
			cal.Days = append(cal.Days, CalendarDay{Empty: true, State: lifecycle.DayNone, Members: []CalendarMember{}})
			continue
		}
		day := CalendarDay{
			Date:    cell.Date.Ptr(),
			State:   idx.DayStatus(cell.Date, today),
			Members: []CalendarMember{},
		}
		for _, m := range idx.MembersForDay(cell.Date) {
			day.Members = append(day.Members, CalendarMember{
				ID:      m.ID,
				Name:    m.FullName(),
				EndDate: m.EndDate,
				Status:  lifecycle.ClassifyRecord(m, today),
			})
		}
		cal.Days = append(cal.Days, day)
	}
	return cal, nil
}

func (s *service) Objectives(ctx context.Context) ([]Objective, error) {
	return s.repo.ListObjectives(ctx)
}

// apply copies req onto m. A plan with a start date and no explicit end
// date gets its end computed from the plan duration.
func (s *service) apply(ctx context.Context, m *Member, req MemberRequest) error {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return ErrInvalidMember
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return ErrInvalidMember
	}

	end := req.EndDate
	if req.PlanID != nil && req.StartDate != nil && end == nil {
		p, err := s.plans.Get(ctx, *req.PlanID)
		if err != nil {
			return err
		}
		end = p.EndDate(*req.StartDate).Ptr()
	}

	m.Cin = strings.TrimSpace(req.Cin)
	m.LastName = strings.TrimSpace(req.LastName)
	m.FirstName = strings.TrimSpace(req.FirstName)
	m.Phone = strings.TrimSpace(req.Phone)
	m.Email = strings.TrimSpace(req.Email)
	m.Address = req.Address
	m.Weight = req.Weight
	m.Height = req.Height
	m.Objectives = req.Objectives
	m.HealthIssues = req.HealthIssues
	m.PlanID = req.PlanID
	m.StartDate = req.StartDate
	m.EndDate = end
	return nil
}

// views resolves each distinct plan id once per call.
func (s *service) views(ctx context.Context, members []Member) []View {
	names := make(map[int64]string)
	out := make([]View, 0, len(members))
	for _, m := range members {
		out = append(out, *s.view(ctx, m, names))
	}
	return out
}

func (s *service) view(ctx context.Context, m Member, names map[int64]string) *View {
	v := &View{Member: m, Status: lifecycle.ClassifyRecord(m, s.today())}
	if m.PlanID == nil {
		v.PlanName = plan.UnknownPlanName
		return v
	}
	if name, ok := names[*m.PlanID]; ok {
		v.PlanName = name
		return v
	}
	v.PlanName = s.plans.ResolveName(ctx, m.PlanID)
	if names != nil {
		names[*m.PlanID] = v.PlanName
	}
	return v
}
