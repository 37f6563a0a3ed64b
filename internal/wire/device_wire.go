package wire

import (
	"backend-template/internal/adaptor"
	"backend-template/internal/usecase"
	"backend-template/pkg/middleware"
	"backend-template/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireDevice mounts /api/demo/devices. Reads are public and cached, writes
// need authentication and clear the cache.
func wireDevice(
	r chi.Router,
	h *adaptor.DeviceHandler,
	config *utils.Config,
	deps Deps,
	log *zap.Logger,
) {
	r.Route("/api/demo/devices", func(r chi.Router) {
		r.Use(middleware.APILog(log, "devices"))

		r.Group(func(r chi.Router) {
			if deps.Cache != nil {
				r.Use(middleware.CacheResponse(deps.Cache, usecase.DeviceCachePrefix, config.Cache.TTL, log))
			}
			h.ReadRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			h.WriteRoutes(r)
		})
	})
}
