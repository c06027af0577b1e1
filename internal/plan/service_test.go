package plan

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/civil"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Plan) (*Plan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *Plan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, onlyActive bool) ([]Plan, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Plan), args.Error(1)
}

func (m *MockRepository) ListActivities(ctx context.Context) ([]Activity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Activity), args.Error(1)
}

func (m *MockRepository) CreateActivity(ctx context.Context, name, description string) (*Activity, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Activity), args.Error(1)
}

var fixedNow = func() time.Time { return time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC) }

func validRequest() PlanRequest {
	return PlanRequest{
		Name:            "  Monthly  ",
		Price:           decimal.RequireFromString("300"),
		Activities:      []string{"Cardio", " ", "Yoga "},
		DurationValue:   1,
		DurationUnit:    UnitMonth,
		SessionsPerWeek: sessions(3),
	}
}

func sessions(n int) *int { return &n }

func TestService_Create(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, fixedNow)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Plan) bool {
		return p.Name == "Monthly" &&
			p.Active &&
			len(p.Activities) == 2 && p.Activities[1] == "Yoga" &&
			p.CreatedAt.String() == "2024-03-15 10:30:00"
	})).Return(&Plan{ID: 1, Name: "Monthly"}, nil)

	p, err := service.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_SessionsDefaultToUnlimited(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, fixedNow)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Plan) bool {
		return p.Unlimited()
	})).Return(&Plan{ID: 2}, nil)

	req := validRequest()
	req.SessionsPerWeek = nil
	_, err := service.Create(context.Background(), req)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *PlanRequest)
	}{
		{name: "blank name", modify: func(r *PlanRequest) { r.Name = "   " }},
		{name: "negative price", modify: func(r *PlanRequest) { r.Price = decimal.NewFromInt(-1) }},
		{name: "zero duration", modify: func(r *PlanRequest) { r.DurationValue = 0 }},
		{name: "unknown unit", modify: func(r *PlanRequest) { r.DurationUnit = "decade" }},
		{name: "zero sessions", modify: func(r *PlanRequest) { r.SessionsPerWeek = sessions(0) }},
		{name: "sessions below sentinel", modify: func(r *PlanRequest) { r.SessionsPerWeek = sessions(-2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := NewService(mockRepo, fixedNow)

			req := validRequest()
			tt.modify(&req)

			_, err := service.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidPlan)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Update_KeepsActiveWhenOmitted(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, fixedNow)

	existing := &Plan{ID: 2, Name: "Old", Active: false, DurationValue: 1, DurationUnit: UnitMonth}
	mockRepo.On("GetByID", mock.Anything, int64(2)).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *Plan) bool {
		return p.ID == 2 && p.Name == "Monthly" && !p.Active
	})).Return(nil)

	p, err := service.Update(context.Background(), 2, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Monthly", p.Name)
	mockRepo.AssertExpectations(t)
}

func TestService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, fixedNow)

	mockRepo.On("GetByID", mock.Anything, int64(5)).Return(nil, ErrPlanNotFound)

	_, err := service.Update(context.Background(), 5, validRequest())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestService_ResolveName(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, fixedNow)

	mockRepo.On("GetByID", mock.Anything, int64(1)).Return(&Plan{ID: 1, Name: "Monthly"}, nil)
	mockRepo.On("GetByID", mock.Anything, int64(2)).Return(nil, ErrPlanNotFound)

	one, two := int64(1), int64(2)
	assert.Equal(t, "Monthly", service.ResolveName(context.Background(), &one))
	assert.Equal(t, UnknownPlanName, service.ResolveName(context.Background(), &two))
	assert.Equal(t, UnknownPlanName, service.ResolveName(context.Background(), nil))
}

func TestService_CreateActivity(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, fixedNow)

	mockRepo.On("CreateActivity", mock.Anything, "Boxing", "").Return(&Activity{ID: 3, Name: "Boxing"}, nil)

	a, err := service.CreateActivity(context.Background(), ActivityRequest{Name: " Boxing "})
	require.NoError(t, err)
	assert.Equal(t, int64(3), a.ID)

	_, err = service.CreateActivity(context.Background(), ActivityRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestPlan_EndDate(t *testing.T) {
	start := civil.MustParseDate("2024-01-31")

	tests := []struct {
		unit  DurationUnit
		value int
		want  string
	}{
		{UnitDay, 10, "2024-02-10"},
		{UnitWeek, 2, "2024-02-14"},
		{UnitMonth, 1, "2024-02-29"},
		{UnitMonth, 3, "2024-04-30"},
		{UnitYear, 1, "2025-01-31"},
	}

	for _, tt := range tests {
		p := Plan{DurationUnit: tt.unit, DurationValue: tt.value}
		assert.Equal(t, tt.want, p.EndDate(start).String(), "%d %s", tt.value, tt.unit)
	}
}
