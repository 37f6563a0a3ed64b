package usecase

import (
	"context"
	"io"
	"time"

	"backend-template/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) user(args mock.Arguments) (*entity.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.user(m.Called(ctx, id))
}
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return m.user(m.Called(ctx, username))
}
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.user(m.Called(ctx, email))
}
func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return m.user(m.Called(ctx, phone))
}
func (m *MockUserRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}
func (m *MockUserRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}
func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string, at time.Time) error {
	return m.Called(ctx, id, ip, at).Error(0)
}
func (m *MockUserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockTokenRepository struct{ mock.Mock }

func (m *MockTokenRepository) Create(ctx context.Context, token *entity.UserToken) error {
	return m.Called(ctx, token).Error(0)
}
func (m *MockTokenRepository) FindActive(ctx context.Context, userID uuid.UUID, token string) (*entity.UserToken, error) {
	args := m.Called(ctx, userID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserToken), args.Error(1)
}
func (m *MockTokenRepository) Deactivate(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockTokenRepository) DeactivateAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockDeviceRepository struct{ mock.Mock }

func (m *MockDeviceRepository) device(args mock.Arguments) (*entity.Device, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Device), args.Error(1)
}

func (m *MockDeviceRepository) Create(ctx context.Context, device *entity.Device) error {
	return m.Called(ctx, device).Error(0)
}
func (m *MockDeviceRepository) FindByID(ctx context.Context, id int64) (*entity.Device, error) {
	return m.device(m.Called(ctx, id))
}
func (m *MockDeviceRepository) FindByName(ctx context.Context, name string) (*entity.Device, error) {
	return m.device(m.Called(ctx, name))
}
func (m *MockDeviceRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Device, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Device), args.Error(1)
}
func (m *MockDeviceRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockDeviceRepository) Update(ctx context.Context, device *entity.Device) error {
	return m.Called(ctx, device).Error(0)
}
func (m *MockDeviceRepository) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockStore struct{ mock.Mock }

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}
func (m *MockStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

type MockAvatarStorage struct{ mock.Mock }

func (m *MockAvatarStorage) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, userID, file, size, contentType)
	return args.String(0), args.Error(1)
}
func (m *MockAvatarStorage) AvatarURL(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}
func (m *MockAvatarStorage) DeleteAvatar(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}
