package repository

import (
	"backend-template/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User   UserRepository
	Token  TokenRepository
	Device DeviceRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:   NewUserRepository(db, log),
		Token:  NewTokenRepository(db, log),
		Device: NewDeviceRepository(db, log),
	}
}
