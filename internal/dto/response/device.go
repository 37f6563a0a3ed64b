package response

import "backend-template/internal/data/entity"

type DeviceResponse struct {
	ID         int64   `json:"id"`
	DeviceID   *string `json:"device_id"`
	DeviceName string  `json:"device_name"`
}

func DeviceToResponse(device *entity.Device) DeviceResponse {
	return DeviceResponse{
		ID:         device.ID,
		DeviceID:   device.DeviceID,
		DeviceName: device.DeviceName,
	}
}
