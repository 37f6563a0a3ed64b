package repository

import (
	"context"
	"errors"
	"fmt"

	"backend-template/internal/data/entity"
	"backend-template/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DeviceRepository interface {
	Create(ctx context.Context, device *entity.Device) error
	FindByID(ctx context.Context, id int64) (*entity.Device, error)
	FindByName(ctx context.Context, name string) (*entity.Device, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Device, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, device *entity.Device) error
	SoftDelete(ctx context.Context, id int64) error
}

const deviceColumns = `id, device_id, device_name, created_at, updated_at, is_deleted, deleted_at`

type deviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDeviceRepository(db database.PgxIface, log *zap.Logger) DeviceRepository {
	return &deviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "device")),
	}
}

func scanDevice(row pgx.Row) (*entity.Device, error) {
	var d entity.Device
	if err := row.Scan(&d.ID, &d.DeviceID, &d.DeviceName, &d.CreatedAt, &d.UpdatedAt, &d.IsDeleted, &d.DeletedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts the device and fills in its generated ID.
func (dr *deviceRepository) Create(ctx context.Context, device *entity.Device) error {
	query := `
		INSERT INTO devices (device_id, device_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := dr.db.QueryRow(ctx, query,
		device.DeviceID,
		device.DeviceName,
		device.CreatedAt,
		device.UpdatedAt,
	).Scan(&device.ID)
	if err != nil {
		dr.log.Error("Failed to create device",
			zap.Error(err),
			zap.String("device_name", device.DeviceName),
		)
		return fmt.Errorf("create device %s: %w", device.DeviceName, err)
	}

	return nil
}

func (dr *deviceRepository) FindByID(ctx context.Context, id int64) (*entity.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1 AND NOT is_deleted`

	device, err := scanDevice(dr.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		dr.log.Error("Failed to find device by ID", zap.Error(err), zap.Int64("device_id", id))
		return nil, fmt.Errorf("find device %d: %w", id, err)
	}

	return device, nil
}

// FindByName also sees soft-deleted rows because device_name stays unique.
func (dr *deviceRepository) FindByName(ctx context.Context, name string) (*entity.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_name = $1`

	device, err := scanDevice(dr.db.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		dr.log.Error("Failed to find device by name", zap.Error(err), zap.String("device_name", name))
		return nil, fmt.Errorf("find device %s: %w", name, err)
	}

	return device, nil
}

func (dr *deviceRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Device, error) {
	query := `SELECT ` + deviceColumns + `
		FROM devices
		WHERE NOT is_deleted
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := dr.db.Query(ctx, query, limit, offset)
	if err != nil {
		dr.log.Error("Failed to get all devices",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("get all devices: %w", err)
	}
	defer rows.Close()

	devices := make([]*entity.Device, 0, limit)
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}

	return devices, nil
}

func (dr *deviceRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := dr.db.QueryRow(ctx, `SELECT COUNT(*) FROM devices WHERE NOT is_deleted`).Scan(&count); err != nil {
		dr.log.Error("Failed to count devices", zap.Error(err))
		return 0, fmt.Errorf("count devices: %w", err)
	}
	return count, nil
}

func (dr *deviceRepository) Update(ctx context.Context, device *entity.Device) error {
	query := `
		UPDATE devices
		SET device_id = $2, device_name = $3, updated_at = $4
		WHERE id = $1 AND NOT is_deleted
	`

	tag, err := dr.db.Exec(ctx, query, device.ID, device.DeviceID, device.DeviceName, device.UpdatedAt)
	if err != nil {
		dr.log.Error("Failed to update device", zap.Error(err), zap.Int64("device_id", device.ID))
		return fmt.Errorf("update device %d: %w", device.ID, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update device %d: %w", device.ID, pgx.ErrNoRows)
	}

	return nil
}

func (dr *deviceRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE devices
		SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
	`

	tag, err := dr.db.Exec(ctx, query, id)
	if err != nil {
		dr.log.Error("Failed to delete device", zap.Error(err), zap.Int64("device_id", id))
		return fmt.Errorf("delete device %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete device %d: %w", id, pgx.ErrNoRows)
	}

	return nil
}
