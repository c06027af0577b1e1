package notification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Scan(ctx context.Context) (ScanResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(ScanResult), args.Error(1)
}

func (m *MockService) ListUnread(ctx context.Context) ([]Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockService) MarkRead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api"))
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHandler_ListUnread(t *testing.T) {
	t.Run("lists unread", func(t *testing.T) {
		svc := new(MockService)
		svc.On("ListUnread", mock.Anything).
			Return([]Notification{{ID: 2, Type: TypeExpired, Title: "Membership expired"}}, nil)

		w := serve(setupRouter(svc), http.MethodGet, "/api/notifications")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"type":"expired"`)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("ListUnread", mock.Anything).Return(nil, errors.New("no such table: notifications"))

		w := serve(setupRouter(svc), http.MethodGet, "/api/notifications")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to fetch notifications")
		assert.NotContains(t, w.Body.String(), "no such table")
	})
}

func TestHandler_Scan(t *testing.T) {
	t.Run("reports counts", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Scan", mock.Anything).Return(ScanResult{Expiring: 2, Expired: 1, EmailsQueued: 3}, nil)

		w := serve(setupRouter(svc), http.MethodPost, "/api/notifications/scan")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"expiring":2,"expired":1,"emails_queued":3}`, w.Body.String())
	})

	t.Run("scan failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Scan", mock.Anything).Return(ScanResult{}, errors.New("members unavailable"))

		w := serve(setupRouter(svc), http.MethodPost, "/api/notifications/scan")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to scan memberships")
	})
}

func TestHandler_MarkRead(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		call     bool
		wantCode int
		wantBody string
	}{
		{"marked", "/api/notifications/5/read", nil, true, http.StatusOK, "notification marked as read"},
		{"already read", "/api/notifications/5/read", ErrNotificationNotFound, true, http.StatusNotFound, ErrNotificationNotFound.Error()},
		{"update fails", "/api/notifications/5/read", errors.New("database is locked"), true, http.StatusInternalServerError, "Failed to update notification"},
		{"invalid id", "/api/notifications/five/read", nil, false, http.StatusBadRequest, "invalid id"},
		{"negative id", "/api/notifications/-1/read", nil, false, http.StatusBadRequest, "invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.call {
				svc.On("MarkRead", mock.Anything, int64(5)).Return(tt.err)
			}

			w := serve(setupRouter(svc), http.MethodPost, tt.path)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if !tt.call {
				svc.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
			}
			svc.AssertExpectations(t)
		})
	}
}
