// Package apperror defines business errors and translates every error a
// handler can see into the response envelope.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	MsgNotFound   = "资源不存在"
	MsgPermission = "权限不足"
	MsgIntegrity  = "数据完整性错误"
	MsgInternal   = "服务器内部错误"
	MsgValidation = "数据验证失败"
	MsgBusiness   = "业务处理失败"
	MsgNotAuthed  = "身份认证信息未提供。"
)

const (
	CodeBusiness         = "business_error"
	CodeNotFound         = "not_found"
	CodeValidation       = "validation_error"
	CodePermission       = "permission_denied"
	CodeRateLimit        = "rate_limit"
	CodeMissingParameter = "missing_parameter"
	CodeNotAuthenticated = "not_authenticated"
	CodeAuthFailed       = "authentication_failed"
	CodeIntegrity        = "integrity_error"
	CodeInternal         = "internal_error"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// Error is a business error carrying its own status, code and message.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Business is the generic 400 business failure.
func Business(message string) *Error {
	if message == "" {
		message = MsgBusiness
	}
	return New(http.StatusBadRequest, CodeBusiness, message)
}

func NotFound(message string) *Error {
	if message == "" {
		message = MsgNotFound
	}
	return New(http.StatusNotFound, CodeNotFound, message)
}

// Validation carries per-field messages when fields is non-empty.
func Validation(message string, fields map[string]string) *Error {
	if message == "" {
		message = MsgValidation
	}
	e := New(http.StatusBadRequest, CodeValidation, message)
	e.Fields = fields
	return e
}

func PermissionDenied(message string) *Error {
	if message == "" {
		message = MsgPermission
	}
	return New(http.StatusForbidden, CodePermission, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, CodeAuthFailed, message)
}

func NotAuthenticated() *Error {
	return New(http.StatusUnauthorized, CodeNotAuthenticated, MsgNotAuthed)
}

func RateLimited(periodSeconds int) *Error {
	return New(http.StatusBadRequest, CodeRateLimit, fmt.Sprintf("请求过于频繁，请%d秒后再试", periodSeconds))
}

// MissingParams reports required body parameters that were absent.
func MissingParams(params []string) *Error {
	return New(http.StatusBadRequest, CodeMissingParameter, "缺少必需参数: "+strings.Join(params, ", "))
}

// Translate maps err onto an envelope error. The boolean is false for
// unanticipated errors, which callers log at error level.
func Translate(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
		return NotFound(""), true
	}

	if errors.Is(err, ErrPermissionDenied) {
		return PermissionDenied(""), true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return New(http.StatusBadRequest, CodeIntegrity, MsgIntegrity), true
	}

	return New(http.StatusInternalServerError, CodeInternal, MsgInternal), false
}
