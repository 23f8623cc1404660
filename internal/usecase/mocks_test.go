package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/burn-ops-service/internal/domain"
)

// MockRemoteOperationRepository is a mock of RemoteOperationRepository
type MockRemoteOperationRepository struct {
	mock.Mock
}

func (m *MockRemoteOperationRepository) Insert(ctx context.Context, ownerID string, rec *domain.OperationRecord) error {
	args := m.Called(ctx, ownerID, rec)
	return args.Error(0)
}

func (m *MockRemoteOperationRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.OperationRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OperationRecord), args.Error(1)
}

func (m *MockRemoteOperationRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.OperationRecord, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationRecord), args.Error(1)
}

func (m *MockRemoteOperationRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockLocalOperationRepository is a mock of LocalOperationRepository
type MockLocalOperationRepository struct {
	mock.Mock
}

func (m *MockLocalOperationRepository) InsertOperation(ctx context.Context, rec *domain.OperationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockLocalOperationRepository) QueryUnsyncedOperations(ctx context.Context) ([]*domain.OperationRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OperationRecord), args.Error(1)
}

func (m *MockLocalOperationRepository) MarkSynced(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocalOperationRepository) GetOperation(ctx context.Context, id uuid.UUID) (*domain.OperationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationRecord), args.Error(1)
}

func (m *MockLocalOperationRepository) ListAllOperations(ctx context.Context) ([]*domain.OperationRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OperationRecord), args.Error(1)
}

func (m *MockLocalOperationRepository) DeleteOperation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher is a mock of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockCompletionRepository is a mock of CompletionRepository
type MockCompletionRepository struct {
	mock.Mock
}

func (m *MockCompletionRepository) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockCompletionRepository) Complete(ctx context.Context, messages []domain.ChatMessage, opts domain.CompletionOptions) (string, error) {
	args := m.Called(ctx, messages, opts)
	return args.String(0), args.Error(1)
}

// staticIdentity - IdentityProvider с фиксированным пользователем
type staticIdentity struct {
	identity *domain.Identity
}

func (s *staticIdentity) CurrentIdentity(ctx context.Context) *domain.Identity {
	return s.identity
}

func (s *staticIdentity) SignOut(ctx context.Context) error {
	s.identity = nil
	return nil
}
