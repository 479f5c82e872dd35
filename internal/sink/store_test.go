package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/repository"
)

// MockDatasetRepository is a mock implementation of repository.DatasetRepository.
type MockDatasetRepository struct {
	mock.Mock
}

func (m *MockDatasetRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDatasetRepository) InsertRegistrations(ctx context.Context, rows []repository.RegistrationRow) (int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockDatasetRepository) InsertLogins(ctx context.Context, rows []repository.ActivityRow) (int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockDatasetRepository) InsertLogouts(ctx context.Context, rows []repository.ActivityRow) (int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockDatasetRepository) InsertTransactions(ctx context.Context, rows []repository.TransactionRow) (int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockDatasetRepository) InsertSessions(ctx context.Context, rows []repository.SessionRow) (int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockDatasetRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDatasetRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestStoreSink_FlushesOnClose(t *testing.T) {
	mockRepo := new(MockDatasetRepository)
	s := NewStoreSink(mockRepo, 100, zap.NewNop())

	require.NoError(t, s.WriteLogin(&domain.Login{
		Header: domain.Header{EventID: 1, EventTimestamp: 1300000100},
		User:   "u1",
	}))
	require.NoError(t, s.WriteSession(domain.Session{
		UserID:         "u1",
		StartTimestamp: 1300000100,
		EndTimestamp:   1300000200,
		Duration:       100,
	}))

	mockRepo.AssertNotCalled(t, "InsertLogins")

	mockRepo.On("InsertLogins", mock.Anything, []repository.ActivityRow{
		{UserID: "u1", Timestamp: 1300000100, EventID: 1},
	}).Return(1, nil)
	mockRepo.On("InsertSessions", mock.Anything, []repository.SessionRow{
		{UserID: "u1", StartTimestamp: 1300000100, EndTimestamp: 1300000200, Duration: 100},
	}).Return(1, nil)

	require.NoError(t, s.Close())
	mockRepo.AssertExpectations(t)
}

func TestStoreSink_FlushesFullBatches(t *testing.T) {
	mockRepo := new(MockDatasetRepository)
	s := NewStoreSink(mockRepo, 2, zap.NewNop())

	mockRepo.On("InsertLogins", mock.Anything, mock.MatchedBy(func(rows []repository.ActivityRow) bool {
		return len(rows) == 2
	})).Return(2, nil).Once()

	require.NoError(t, s.WriteLogin(&domain.Login{Header: domain.Header{EventID: 1, EventTimestamp: 1}, User: "u1"}))
	require.NoError(t, s.WriteLogin(&domain.Login{Header: domain.Header{EventID: 2, EventTimestamp: 2}, User: "u1"}))

	mockRepo.AssertExpectations(t)

	// Nothing left to flush.
	require.NoError(t, s.Close())
}

func TestStoreSink_InsertErrorPropagates(t *testing.T) {
	mockRepo := new(MockDatasetRepository)
	s := NewStoreSink(mockRepo, 1, zap.NewNop())

	mockRepo.On("InsertLogouts", mock.Anything, mock.Anything).Return(0, assert.AnError)

	err := s.WriteLogout(&domain.Logout{Header: domain.Header{EventID: 1, EventTimestamp: 1}, User: "u1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading logouts")
}
