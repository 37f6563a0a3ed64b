package middleware

import (
	"context"
	"net/http"
	"strings"

	"backend-template/pkg/apperror"
	"backend-template/pkg/utils"

	"go.uber.org/zap"
)

// TokenAuthenticator resolves a bearer token to its user.
type TokenAuthenticator[U any] interface {
	Authenticate(ctx context.Context, token string) (*U, error)
}

// Authenticate attaches the user of a valid bearer token to the request.
// Requests without credentials, or with a non-bearer scheme, pass through
// anonymously. A bearer token that fails validation is rejected with 401.
func Authenticate[U any](auth TokenAuthenticator[U], logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 {
				apperror.Write(w, logger, apperror.Unauthorized("Invalid token"), "authenticate")
				return
			}

			if !strings.EqualFold(parts[0], "bearer") {
				next.ServeHTTP(w, r)
				return
			}

			token := parts[1]
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				apperror.Write(w, logger, err, "authenticate")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !utils.IsAuthenticated(r.Context()) {
			e := apperror.NotAuthenticated()
			w.Header().Set("WWW-Authenticate", "Bearer")
			utils.ResponseError(w, e.Status, e.Message, e.Code, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
