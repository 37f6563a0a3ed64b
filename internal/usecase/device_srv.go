package usecase

import (
	"context"
	"strconv"

	"backend-template/internal/data/entity"
	"backend-template/internal/data/repository"
	"backend-template/internal/dto/request"
	"backend-template/internal/dto/response"
	"backend-template/pkg/apperror"
	"backend-template/pkg/cache"
	"backend-template/pkg/utils"

	"go.uber.org/zap"
)

const msgDeviceNameTaken = "具有 device name 的 device 已存在。"

type DeviceService interface {
	List(ctx context.Context, page request.PageRequest) ([]response.DeviceResponse, int64, error)
	Get(ctx context.Context, id string) (response.DeviceResponse, error)
	Create(ctx context.Context, req *request.CreateDeviceRequest) (response.DeviceResponse, error)
	Update(ctx context.Context, id string, req *request.UpdateDeviceRequest, partial bool) (response.DeviceResponse, error)
	Delete(ctx context.Context, id string) error
}

type deviceService struct {
	repo  repository.DeviceRepository
	cache cache.Store
	log   *zap.Logger
}

func NewDeviceService(repo repository.DeviceRepository, store cache.Store, log *zap.Logger) DeviceService {
	return &deviceService{
		repo:  repo,
		cache: store,
		log:   log.With(zap.String("service", "device")),
	}
}

func (s *deviceService) List(ctx context.Context, page request.PageRequest) ([]response.DeviceResponse, int64, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	devices, err := s.repo.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}

	results := make([]response.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		results = append(results, response.DeviceToResponse(d))
	}

	s.log.Debug("Listed devices", zap.Int("count", len(results)), zap.Int64("total", total))
	return results, total, nil
}

func (s *deviceService) Get(ctx context.Context, id string) (response.DeviceResponse, error) {
	device, err := s.find(ctx, id)
	if err != nil {
		return response.DeviceResponse{}, err
	}
	return response.DeviceToResponse(device), nil
}

func (s *deviceService) Create(ctx context.Context, req *request.CreateDeviceRequest) (response.DeviceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return response.DeviceResponse{}, apperror.Validation("", errs)
	}

	if err := s.checkName(ctx, 0, req.DeviceName); err != nil {
		return response.DeviceResponse{}, err
	}

	device := &entity.Device{
		Base:       entity.NewBase(now()),
		DeviceID:   req.DeviceID,
		DeviceName: req.DeviceName,
	}

	if err := s.repo.Create(ctx, device); err != nil {
		return response.DeviceResponse{}, err
	}

	s.invalidate(ctx)
	s.log.Info("Device created", zap.Int64("id", device.ID), zap.String("device_name", device.DeviceName))

	return response.DeviceToResponse(device), nil
}

// Update requires device_name unless partial.
func (s *deviceService) Update(ctx context.Context, id string, req *request.UpdateDeviceRequest, partial bool) (response.DeviceResponse, error) {
	errs := utils.ValidateStruct(req)
	if !partial && req.DeviceName == nil {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["device_name"] = msgRequiredField
	}
	if len(errs) > 0 {
		return response.DeviceResponse{}, apperror.Validation("", errs)
	}

	device, err := s.find(ctx, id)
	if err != nil {
		return response.DeviceResponse{}, err
	}

	if req.DeviceName != nil && *req.DeviceName != device.DeviceName {
		if err := s.checkName(ctx, device.ID, *req.DeviceName); err != nil {
			return response.DeviceResponse{}, err
		}
		device.DeviceName = *req.DeviceName
	}
	if req.DeviceID != nil {
		device.DeviceID = req.DeviceID
	}

	device.Touch(now())
	if err := s.repo.Update(ctx, device); err != nil {
		return response.DeviceResponse{}, err
	}

	s.invalidate(ctx)
	return response.DeviceToResponse(device), nil
}

func (s *deviceService) Delete(ctx context.Context, id string) error {
	device, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, device.ID); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.log.Info("Device deleted", zap.Int64("id", device.ID))
	return nil
}

func (s *deviceService) find(ctx context.Context, id string) (*entity.Device, error) {
	deviceID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, apperror.NotFound("")
	}

	device, err := s.repo.FindByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, apperror.NotFound("")
	}
	return device, nil
}

func (s *deviceService) checkName(ctx context.Context, self int64, name string) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.Validation("", map[string]string{"device_name": msgDeviceNameTaken})
	}
	return nil
}

// invalidate drops the cached device lists. Failures only cost staleness
// until the entries expire.
func (s *deviceService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	n, err := s.cache.DeleteByPrefix(ctx, cache.ResponseKeyPrefix(DeviceCachePrefix))
	if err != nil {
		s.log.Warn("Failed to invalidate device cache", zap.Error(err))
		return
	}
	s.log.Debug("Invalidated device cache", zap.Int("keys", n))
}
