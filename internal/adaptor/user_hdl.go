package adaptor

import (
	"net/http"
	"strings"

	"backend-template/internal/data/entity"
	"backend-template/internal/dto/request"
	"backend-template/internal/dto/response"
	"backend-template/internal/usecase"
	"backend-template/pkg/apperror"
	"backend-template/pkg/storage"
	"backend-template/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgLoginSuccess    = "登录成功"
	msgLogoutSuccess   = "登出成功"
	msgPasswordChanged = "密码修改成功"
	msgRefreshed       = "刷新成功"
	msgAvatarUploaded  = "头像上传成功"

	maxDeviceLength = 200
)

// UserHandler serves the user viewset plus the account actions.
type UserHandler struct {
	*ViewSet[request.RegisterRequest, request.UpdateUserRequest, response.UserResponse]
	service usecase.UserService
	auth    usecase.AuthService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, auth usecase.AuthService, log *zap.Logger) *UserHandler {
	log = log.With(zap.String("handler", "user"))
	return &UserHandler{
		ViewSet: NewViewSet[request.RegisterRequest, request.UpdateUserRequest, response.UserResponse](service, log),
		service: service,
		auth:    auth,
		log:     log,
	}
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	resp, err := h.auth.Login(r.Context(), &req, loginMeta(r))
	if err != nil {
		apperror.Write(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, msgLoginSuccess, resp)
}

// Logout handles POST /api/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if ok {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			apperror.Write(w, h.log, err, "logout")
			return
		}
	}

	utils.ResponseSuccess(w, msgLogoutSuccess, nil)
}

// Refresh handles POST /api/users/refresh
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	resp, err := h.auth.Refresh(r.Context(), &req, loginMeta(r))
	if err != nil {
		apperror.Write(w, h.log, err, "refresh token")
		return
	}

	utils.ResponseSuccess(w, msgRefreshed, resp)
}

// Profile handles GET /api/users/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext[entity.User](r.Context())
	if !ok {
		apperror.Write(w, h.log, apperror.NotAuthenticated(), "profile")
		return
	}

	resp, err := h.service.Profile(r.Context(), user)
	if err != nil {
		apperror.Write(w, h.log, err, "profile")
		return
	}

	utils.ResponseSuccess(w, "", resp)
}

// UpdateProfile handles PATCH /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext[entity.User](r.Context())
	if !ok {
		apperror.Write(w, h.log, apperror.NotAuthenticated(), "update profile")
		return
	}

	var req request.UpdateUserRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), user, &req)
	if err != nil {
		apperror.Write(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, msgUpdated, resp)
}

// ChangePassword handles POST /api/users/change_password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext[entity.User](r.Context())
	if !ok {
		apperror.Write(w, h.log, apperror.NotAuthenticated(), "change password")
		return
	}

	var req request.ChangePasswordRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	resp, err := h.auth.ChangePassword(r.Context(), user, &req, loginMeta(r))
	if err != nil {
		apperror.Write(w, h.log, err, "change password")
		return
	}

	utils.ResponseSuccess(w, msgPasswordChanged, resp)
}

// UploadAvatar handles POST /api/users/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext[entity.User](r.Context())
	if !ok {
		apperror.Write(w, h.log, apperror.NotAuthenticated(), "upload avatar")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxAvatarSize+1<<20)
	if err := r.ParseMultipartForm(storage.MaxAvatarSize); err != nil {
		apperror.Write(w, h.log, apperror.Validation("", map[string]string{"avatar": storage.ErrFileTooBig.Error()}), "upload avatar")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		apperror.Write(w, h.log, apperror.MissingParams([]string{"avatar"}), "upload avatar")
		return
	}
	defer file.Close()

	resp, err := h.service.UploadAvatar(r.Context(), user, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		apperror.Write(w, h.log, err, "upload avatar")
		return
	}

	utils.ResponseSuccess(w, msgAvatarUploaded, resp)
}

func loginMeta(r *http.Request) request.LoginMeta {
	device := strings.ToValidUTF8(r.Header.Get("X-Device"), "")
	if runes := []rune(device); len(runes) > maxDeviceLength {
		device = string(runes[:maxDeviceLength])
	}
	return request.LoginMeta{
		IP:        utils.ClientIP(r),
		UserAgent: r.UserAgent(),
		Device:    device,
	}
}
