package usecase

import (
	"time"

	"backend-template/internal/data/repository"
	"backend-template/pkg/cache"
	"backend-template/pkg/metrics"
	"backend-template/pkg/storage"
	"backend-template/pkg/utils"

	"go.uber.org/zap"
)

// DeviceCachePrefix names the cached device list responses.
const DeviceCachePrefix = "devices"

// Deps are the optional collaborators of the services. Nil fields disable
// the matching feature.
type Deps struct {
	Metrics *metrics.Manager
	Cache   cache.Store
	Storage storage.AvatarStorage
}

type Service struct {
	Auth   AuthService
	User   UserService
	Device DeviceService
}

func NewService(repo *repository.Repository, config *utils.Config, deps Deps, log *zap.Logger) *Service {
	tokens := utils.NewTokenManager(config.JWT.Secret)

	return &Service{
		Auth:   NewAuthService(repo, tokens, config.JWT, deps.Metrics, log),
		User:   NewUserService(repo, deps.Storage, deps.Metrics, log),
		Device: NewDeviceService(repo.Device, deps.Cache, log),
	}
}

var now = time.Now
