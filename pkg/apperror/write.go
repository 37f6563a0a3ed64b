package apperror

import (
	"net/http"

	"backend-template/pkg/utils"

	"go.uber.org/zap"
)

// Write renders err as an error envelope. Expected errors are logged at warn,
// everything else at error level with the operation name.
func Write(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr, known := Translate(err)

	if known {
		log.Warn(operation+" failed",
			zap.Error(err),
			zap.Int("status", appErr.Status),
			zap.String("code", appErr.Code),
		)
	} else {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation),
		)
	}

	if appErr.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	var fields any
	if len(appErr.Fields) > 0 {
		fields = appErr.Fields
	}

	code := appErr.Code
	if !known {
		code = ""
	}

	utils.ResponseError(w, appErr.Status, appErr.Message, code, fields)
}
