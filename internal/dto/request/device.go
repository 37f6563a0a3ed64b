package request

type CreateDeviceRequest struct {
	DeviceID   *string `json:"device_id,omitempty" validate:"omitempty,max=500"`
	DeviceName string  `json:"device_name" validate:"required,max=500"`
}

type UpdateDeviceRequest struct {
	DeviceID   *string `json:"device_id,omitempty" validate:"omitempty,max=500"`
	DeviceName *string `json:"device_name,omitempty" validate:"omitempty,min=1,max=500"`
}
