package plan

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req PlanRequest) (*Plan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) Get(ctx context.Context, id int64) (*Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockService) List(ctx context.Context, onlyActive bool) ([]Plan, error) {
	args := m.Called(ctx, onlyActive)
	return args.Get(0).([]Plan), args.Error(1)
}

func (m *MockService) ResolveName(ctx context.Context, id *int64) string {
	return m.Called(ctx, id).String(0)
}

func (m *MockService) Activities(ctx context.Context) ([]Activity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Activity), args.Error(1)
}

func (m *MockService) CreateActivity(ctx context.Context, req ActivityRequest) (*Activity, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Activity), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api"))
	return router
}

func TestHandler_CreatePlan(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("Create", mock.Anything, mock.MatchedBy(func(req PlanRequest) bool {
		return req.Name == "Monthly" && req.DurationUnit == UnitMonth
	})).Return(&Plan{ID: 1, Name: "Monthly"}, nil)

	body := `{"name":"Monthly","price":"300","activities":["Cardio"],"duration_value":1,"duration_unit":"month","sessions_per_week":-1}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/plans", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Monthly"`)
	svc.AssertExpectations(t)
}

func TestHandler_CreatePlan_ValidationFailed(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	body := `{"name":"Monthly","duration_value":1,"duration_unit":"fortnight","sessions_per_week":2}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/plans", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "DurationUnit must be one of")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_CreatePlan_SessionsPerWeek(t *testing.T) {
	tests := []struct {
		name     string
		sessions string
		wantCode int
		wantBody string
	}{
		{"omitted means unlimited", "", http.StatusCreated, ""},
		{"unlimited", `,"sessions_per_week":-1`, http.StatusCreated, ""},
		{"three a week", `,"sessions_per_week":3`, http.StatusCreated, ""},
		{"zero rejected", `,"sessions_per_week":0`, http.StatusBadRequest, "SessionsPerWeek must not be 0"},
		{"below sentinel rejected", `,"sessions_per_week":-2`, http.StatusBadRequest, "SessionsPerWeek must be at least -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			router := setupRouter(svc)
			svc.On("Create", mock.Anything, mock.Anything).Return(&Plan{ID: 1, Name: "Monthly"}, nil)

			body := `{"name":"Monthly","price":"300","duration_value":1,"duration_unit":"month"` + tt.sessions + `}`
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/plans", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
				svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandler_GetPlan(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		setup    func(svc *MockService)
		wantCode int
	}{
		{
			name: "found",
			path: "/api/plans/1",
			setup: func(svc *MockService) {
				svc.On("Get", mock.Anything, int64(1)).Return(&Plan{ID: 1, Name: "Monthly"}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "missing",
			path: "/api/plans/2",
			setup: func(svc *MockService) {
				svc.On("Get", mock.Anything, int64(2)).Return(nil, ErrPlanNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "bad id",
			path:     "/api/plans/x",
			setup:    func(svc *MockService) {},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)
			router := setupRouter(svc)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestHandler_ListPlans_ActiveFilter(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("List", mock.Anything, true).Return([]Plan{{ID: 1}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/plans?active=true", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_DeletePlan(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("Delete", mock.Anything, int64(3)).Return(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/plans/3", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
