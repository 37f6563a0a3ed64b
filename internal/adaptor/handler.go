package adaptor

import (
	"backend-template/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	User   *UserHandler
	Device *DeviceHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		User:   NewUserHandler(service.User, service.Auth, log),
		Device: NewDeviceHandler(service.Device, log),
	}
}
