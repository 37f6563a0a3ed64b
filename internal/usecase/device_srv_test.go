package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"backend-template/internal/data/entity"
	"backend-template/internal/dto/request"
	"backend-template/pkg/apperror"
	"backend-template/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newDeviceFixture() (*MockDeviceRepository, *MockStore, DeviceService) {
	repo := new(MockDeviceRepository)
	store := new(MockStore)
	return repo, store, NewDeviceService(repo, store, zap.NewNop())
}

func TestDeviceCreate_InvalidatesCache(t *testing.T) {
	repo, store, svc := newDeviceFixture()
	ctx := context.Background()

	repo.On("FindByName", ctx, "sensor-1").Return(nil, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*entity.Device")).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.Device).ID = 7 }).
		Return(nil)
	store.On("DeleteByPrefix", ctx, cache.ResponseKeyPrefix(DeviceCachePrefix)).Return(3, nil)

	resp, err := svc.Create(ctx, &request.CreateDeviceRequest{DeviceName: "sensor-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, resp.ID)
	assert.Equal(t, "sensor-1", resp.DeviceName)
	store.AssertExpectations(t)
}

func TestDeviceCreate_DuplicateName(t *testing.T) {
	repo, store, svc := newDeviceFixture()
	ctx := context.Background()

	repo.On("FindByName", ctx, "sensor-1").Return(&entity.Device{ID: 1, DeviceName: "sensor-1"}, nil)

	_, err := svc.Create(ctx, &request.CreateDeviceRequest{DeviceName: "sensor-1"})

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, msgDeviceNameTaken, appErr.Fields["device_name"])
	store.AssertNotCalled(t, "DeleteByPrefix", mock.Anything, mock.Anything)
}

func TestDeviceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("put without name", func(t *testing.T) {
		_, _, svc := newDeviceFixture()
		_, err := svc.Update(ctx, "1", &request.UpdateDeviceRequest{DeviceID: strPtr("x")}, false)

		var appErr *apperror.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, msgRequiredField, appErr.Fields["device_name"])
	})

	t.Run("patch device id keeps name", func(t *testing.T) {
		repo, store, svc := newDeviceFixture()
		repo.On("FindByID", ctx, int64(1)).Return(&entity.Device{ID: 1, DeviceName: "sensor-1"}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(d *entity.Device) bool {
			return d.DeviceName == "sensor-1" && d.DeviceID != nil && *d.DeviceID == "abc"
		})).Return(nil)
		store.On("DeleteByPrefix", ctx, mock.Anything).Return(0, errors.New("redis down"))

		resp, err := svc.Update(ctx, "1", &request.UpdateDeviceRequest{DeviceID: strPtr("abc")}, true)
		require.NoError(t, err)
		assert.Equal(t, "abc", *resp.DeviceID)
		repo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
	})

	t.Run("rename to taken name", func(t *testing.T) {
		repo, _, svc := newDeviceFixture()
		repo.On("FindByID", ctx, int64(1)).Return(&entity.Device{ID: 1, DeviceName: "sensor-1"}, nil)
		repo.On("FindByName", ctx, "sensor-2").Return(&entity.Device{ID: 2, DeviceName: "sensor-2"}, nil)

		_, err := svc.Update(ctx, "1", &request.UpdateDeviceRequest{DeviceName: strPtr("sensor-2")}, true)
		requireAppError(t, err, http.StatusBadRequest, apperror.MsgValidation)
	})
}

func TestDeviceGetAndDelete_NotFound(t *testing.T) {
	repo, _, svc := newDeviceFixture()
	ctx := context.Background()

	_, err := svc.Get(ctx, "abc")
	requireAppError(t, err, http.StatusNotFound, apperror.MsgNotFound)

	repo.On("FindByID", ctx, int64(99)).Return(nil, nil)
	err = svc.Delete(ctx, "99")
	requireAppError(t, err, http.StatusNotFound, apperror.MsgNotFound)
}

func TestDeviceService_WorksWithoutCache(t *testing.T) {
	repo := new(MockDeviceRepository)
	svc := NewDeviceService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(1)).Return(&entity.Device{ID: 1}, nil)
	repo.On("SoftDelete", ctx, int64(1)).Return(nil)

	require.NoError(t, svc.Delete(ctx, "1"))
}

func TestDeviceService_LogsCacheFailureWithServiceName(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := new(MockDeviceRepository)
	store := new(MockStore)
	svc := NewDeviceService(repo, store, zap.New(core))
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(1)).Return(&entity.Device{ID: 1}, nil)
	repo.On("SoftDelete", ctx, int64(1)).Return(nil)
	store.On("DeleteByPrefix", ctx, cache.ResponseKeyPrefix(DeviceCachePrefix)).Return(0, errors.New("redis down"))

	require.NoError(t, svc.Delete(ctx, "1"))

	entries := logs.FilterMessage("Failed to invalidate device cache").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "device", entries[0].ContextMap()["service"])
}
