package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/dto"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockUserServicer is a mock implementation of service.UserServicer.
type MockUserServicer struct {
	mock.Mock
}

func (m *MockUserServicer) GetUserStats(ctx context.Context, userID string, day *time.Time) (*dto.UserStatsResponse, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserStatsResponse), args.Error(1)
}

// MockUserRepository is a mock implementation of repository.UserRepository,
// used only for its Ping in the health check.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetRegistration(ctx context.Context, userID string) (*repository.RegistrationRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RegistrationRow), args.Error(1)
}

func (m *MockUserRepository) CountLogins(ctx context.Context, userID string) (uint64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockUserRepository) LastLogin(ctx context.Context, userID string, before int64) (int64, bool, error) {
	args := m.Called(ctx, userID, before)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) LatestLogin(ctx context.Context) (int64, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) SessionStats(ctx context.Context, userID string, from, to int64) (*repository.SessionStats, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SessionStats), args.Error(1)
}

func (m *MockUserRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestHandler(svc *MockUserServicer, repo *MockUserRepository) *Handler {
	return NewHandler(svc, repo, zap.NewNop())
}

func TestGetUserStats_OK(t *testing.T) {
	mockService := new(MockUserServicer)
	mockService.On("GetUserStats", mock.Anything, "u1", (*time.Time)(nil)).Return(&dto.UserStatsResponse{
		Country:      "RS",
		Name:         "Mika",
		LoginCount:   7,
		LastLogin:    3,
		SessionCount: 4,
		InGameTime:   5400,
	}, nil)

	h := newTestHandler(mockService, new(MockUserRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u1", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.UserStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RS", body.Country)
	assert.Equal(t, uint64(7), body.LoginCount)
	assert.Equal(t, int64(5400), body.InGameTime)
	mockService.AssertExpectations(t)
}

func TestGetUserStats_WithDate(t *testing.T) {
	mockService := new(MockUserServicer)
	expectedDay := time.Date(2011, time.March, 13, 0, 0, 0, 0, time.UTC)
	mockService.On("GetUserStats", mock.Anything, "u1", mock.MatchedBy(func(day *time.Time) bool {
		return day != nil && day.Equal(expectedDay)
	})).Return(&dto.UserStatsResponse{Country: "RS", Name: "Mika"}, nil)

	h := newTestHandler(mockService, new(MockUserRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u1/2011-03-13", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestGetUserStats_BadDate(t *testing.T) {
	mockService := new(MockUserServicer)
	h := newTestHandler(mockService, new(MockUserRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u1/13-03-2011", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error)
	mockService.AssertNotCalled(t, "GetUserStats")
}

func TestGetUserStats_NotFound(t *testing.T) {
	mockService := new(MockUserServicer)
	mockService.On("GetUserStats", mock.Anything, "ghost", (*time.Time)(nil)).
		Return(nil, repository.ErrNotFound)

	h := newTestHandler(mockService, new(MockUserRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body.Error)
}

func TestGetUserStats_InternalError(t *testing.T) {
	mockService := new(MockUserServicer)
	mockService.On("GetUserStats", mock.Anything, "u1", (*time.Time)(nil)).
		Return(nil, assert.AnError)

	h := newTestHandler(mockService, new(MockUserRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u1", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthCheck(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Ping", mock.Anything).Return(nil)

	h := newTestHandler(new(MockUserServicer), mockRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthCheck_Unavailable(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Ping", mock.Anything).Return(assert.AnError)

	h := newTestHandler(new(MockUserServicer), mockRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
