package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantKnown  bool
	}{
		{"business", Business("原密码错误"), http.StatusBadRequest, "原密码错误", true},
		{"wrapped business", fmt.Errorf("login: %w", Unauthorized("用户名或密码错误")), http.StatusUnauthorized, "用户名或密码错误", true},
		{"not found sentinel", fmt.Errorf("find: %w", ErrNotFound), http.StatusNotFound, MsgNotFound, true},
		{"no rows", pgx.ErrNoRows, http.StatusNotFound, MsgNotFound, true},
		{"permission", ErrPermissionDenied, http.StatusForbidden, MsgPermission, true},
		{"unique violation", fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"}), http.StatusBadRequest, MsgIntegrity, true},
		{"fk violation", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest, MsgIntegrity, true},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, http.StatusInternalServerError, MsgInternal, false},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, MsgInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := Translate(tt.err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.wantKnown, known)
		})
	}
}

func TestRateLimitedAndMissingParams(t *testing.T) {
	rl := RateLimited(60)
	assert.Equal(t, "请求过于频繁，请60秒后再试", rl.Message)
	assert.Equal(t, CodeRateLimit, rl.Code)

	mp := MissingParams([]string{"username", "password"})
	assert.Equal(t, "缺少必需参数: username, password", mp.Message)
	assert.Equal(t, http.StatusBadRequest, mp.Status)
}

func TestWrite_UnknownErrorIsLoggedAndHidden(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rr := httptest.NewRecorder()

	Write(rr, zap.New(core), errors.New("db exploded"), "list users")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, MsgInternal, body["message"])
	assert.Nil(t, body["data"])
	assert.NotContains(t, body, "code")

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Failed to list users", entries[0].Message)
}

func TestWrite_ValidationFields(t *testing.T) {
	rr := httptest.NewRecorder()

	Write(rr, zap.NewNop(), Validation("", map[string]string{"username": "该字段是必填项。"}), "register")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, MsgValidation, body["message"])
	assert.Equal(t, map[string]any{"username": "该字段是必填项。"}, body["errors"])
	assert.Equal(t, CodeValidation, body["code"])
}

func TestWrite_UnauthorizedSetsChallenge(t *testing.T) {
	rr := httptest.NewRecorder()

	Write(rr, zap.NewNop(), Unauthorized("Token has expired"), "authenticate")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}
