package entity

type Device struct {
	ID int64 `db:"id"`
	Base
	DeviceID   *string `db:"device_id"`
	DeviceName string  `db:"device_name"`
}
