package wire

import (
	"backend-template/internal/adaptor"
	"backend-template/pkg/middleware"
	"backend-template/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser mounts /api/users. Registration, login and refresh are public,
// everything else needs a valid access token.
func wireUser(
	r chi.Router,
	h *adaptor.UserHandler,
	config *utils.Config,
	deps Deps,
	log *zap.Logger,
) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.APILog(log, "users"))

		r.With(middleware.RequireBodyParams("username", "password", "email")).Post("/", h.Create)

		login := r.With(middleware.RequireBodyParams("username", "password"))
		if deps.Limiter != nil {
			login = r.With(
				middleware.RateLimit(deps.Limiter, "login", config.RateLimit.LoginLimit, config.RateLimit.Period, log),
				middleware.RequireBodyParams("username", "password"),
			)
		}
		login.Post("/login", h.Login)

		r.With(middleware.RequireBodyParams("refresh_token")).Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/logout", h.Logout)
			r.Get("/profile", h.Profile)
			r.Patch("/profile", h.UpdateProfile)
			r.With(middleware.RequireBodyParams("old_password", "new_password")).Post("/change_password", h.ChangePassword)
			r.Post("/avatar", h.UploadAvatar)

			r.Get("/", h.List)
			r.Get("/{id}", h.Retrieve)
			r.Put("/{id}", h.Update)
			r.Patch("/{id}", h.PartialUpdate)
			r.Delete("/{id}", h.Destroy)
		})
	})
}
