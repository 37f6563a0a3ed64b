package middleware

import (
	"encoding/json"
	"net/http"

	"backend-template/pkg/apperror"
	"backend-template/pkg/utils"
)

// RequireBodyParams rejects JSON bodies lacking any of params.
func RequireBodyParams(params ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := map[string]json.RawMessage{}
			if isJSON(r) {
				if raw, truncated, _ := readBody(r); !truncated {
					_ = json.Unmarshal(raw, &body)
				}
			}

			var missing []string
			for _, p := range params {
				if _, ok := body[p]; !ok {
					missing = append(missing, p)
				}
			}

			if len(missing) > 0 {
				e := apperror.MissingParams(missing)
				utils.ResponseError(w, e.Status, e.Message, e.Code, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
