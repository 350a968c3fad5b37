package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByWhatsAppNumber(ctx context.Context, number string) (model.User, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByCardID(ctx context.Context, cardID string) (model.User, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetWorkerByCardID(ctx context.Context, cardID string) (model.User, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) LinkCard(ctx context.Context, id uuid.UUID, cardID string, role model.Role) error {
	args := m.Called(ctx, id, cardID, role)
	return args.Error(0)
}

func (m *MockUserStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAttendanceStore mocks the AttendanceStore interface
type MockAttendanceStore struct {
	mock.Mock
}

func (m *MockAttendanceStore) Create(ctx context.Context, log model.AttendanceLog) (model.AttendanceLog, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(model.AttendanceLog), args.Error(1)
}

// MockSalaryStore mocks the SalaryStore interface
type MockSalaryStore struct {
	mock.Mock
}

func (m *MockSalaryStore) Create(ctx context.Context, log model.SalaryLog) (model.SalaryLog, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(model.SalaryLog), args.Error(1)
}

func (m *MockSalaryStore) GetRecentByWorker(ctx context.Context, workerID uuid.UUID, limit int) ([]model.SalaryLog, error) {
	args := m.Called(ctx, workerID, limit)
	return args.Get(0).([]model.SalaryLog), args.Error(1)
}

// MockKycStore mocks the KycStore interface
type MockKycStore struct {
	mock.Mock
}

func (m *MockKycStore) Create(ctx context.Context, doc model.KycDocument) (model.KycDocument, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(model.KycDocument), args.Error(1)
}

func (m *MockKycStore) ListByStatus(ctx context.Context, status model.KycStatus) ([]model.KycDocument, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]model.KycDocument), args.Error(1)
}

func (m *MockKycStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.KycStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockStorage mocks the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockMediaFetcher mocks the MediaFetcher interface
type MockMediaFetcher struct {
	mock.Mock
}

func (m *MockMediaFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
