package wire

import (
	"context"
	"net/http"
	"time"

	"backend-template/internal/adaptor"
	"backend-template/internal/data/entity"
	"backend-template/internal/data/repository"
	"backend-template/internal/usecase"
	"backend-template/pkg/apperror"
	"backend-template/pkg/cache"
	"backend-template/pkg/database"
	"backend-template/pkg/metrics"
	"backend-template/pkg/middleware"
	"backend-template/pkg/storage"
	"backend-template/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps are the infrastructure clients built in main. Nil Cache, Limiter or
// Storage switch the matching feature off.
type Deps struct {
	DB      database.PgxIface
	Metrics *metrics.Manager
	Cache   cache.Store
	Limiter cache.Limiter
	Storage storage.AvatarStorage
}

type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and the router.
func Wiring(repo *repository.Repository, config *utils.Config, deps Deps, logger *zap.Logger) *App {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewManager(metricsNamespace)
	}

	service := usecase.NewService(repo, config, usecase.Deps{
		Metrics: deps.Metrics,
		Cache:   deps.Cache,
		Storage: deps.Storage,
	}, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, service.Auth, config, deps, logger),
	}
}

const metricsNamespace = "backend"

func setupRouter(
	handler *adaptor.Handler,
	auth usecase.AuthService,
	config *utils.Config,
	deps Deps,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestLog(logger))
	r.Use(middleware.ResponseTime(logger, config.App.SlowRequest))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Device"},
		ExposedHeaders:   []string{"X-Response-Time", "X-Cache", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Authenticate[entity.User](auth, logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, apperror.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseError(w, http.StatusMethodNotAllowed, "", "", nil)
	})

	wireUser(r, handler.User, config, deps, logger)
	wireDevice(r, handler.Device, config, deps, logger)

	r.Get("/health", healthCheck(deps.DB))
	r.Handle("/metrics", deps.Metrics.Handler())

	return r
}

func healthCheck(db database.PgxIface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				utils.ResponseError(w, http.StatusServiceUnavailable, "数据库不可用", "", nil)
				return
			}
			status["database"] = "ok"
		}

		utils.ResponseSuccess(w, "", status)
	}
}
