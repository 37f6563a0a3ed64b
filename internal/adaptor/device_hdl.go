package adaptor

import (
	"backend-template/internal/dto/request"
	"backend-template/internal/dto/response"
	"backend-template/internal/usecase"

	"go.uber.org/zap"
)

// DeviceHandler is the plain device viewset.
type DeviceHandler struct {
	*ViewSet[request.CreateDeviceRequest, request.UpdateDeviceRequest, response.DeviceResponse]
}

func NewDeviceHandler(service usecase.DeviceService, log *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		ViewSet: NewViewSet[request.CreateDeviceRequest, request.UpdateDeviceRequest, response.DeviceResponse](
			service, log.With(zap.String("handler", "device")),
		),
	}
}
