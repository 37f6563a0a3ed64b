package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"backend-template/internal/data/entity"
	"backend-template/internal/data/repository"
	"backend-template/internal/dto/request"
	"backend-template/internal/dto/response"
	"backend-template/pkg/apperror"
	"backend-template/pkg/metrics"
	"backend-template/pkg/storage"
	"backend-template/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgUsernameTaken      = "已存在一位使用该名字的用户。"
	msgEmailTaken         = "具有 email 的 user 已存在。"
	msgPhoneTaken         = "具有 phone 的 user 已存在。"
	msgRequiredField      = "该字段是必填项。"
	msgStorageUnavailable = "头像存储未启用"
)

type UserService interface {
	List(ctx context.Context, page request.PageRequest) ([]response.UserResponse, int64, error)
	Get(ctx context.Context, id string) (response.UserResponse, error)
	Create(ctx context.Context, req *request.RegisterRequest) (response.UserResponse, error)
	Update(ctx context.Context, id string, req *request.UpdateUserRequest, partial bool) (response.UserResponse, error)
	Delete(ctx context.Context, id string) error

	Profile(ctx context.Context, user *entity.User) (response.UserResponse, error)
	UpdateProfile(ctx context.Context, user *entity.User, req *request.UpdateUserRequest) (response.UserResponse, error)
	UploadAvatar(ctx context.Context, user *entity.User, file io.Reader, size int64, contentType string) (*response.AvatarResponse, error)
}

type userService struct {
	repo    *repository.Repository
	storage storage.AvatarStorage
	metrics *metrics.Manager
	log     *zap.Logger
}

func NewUserService(repo *repository.Repository, avatars storage.AvatarStorage, m *metrics.Manager, log *zap.Logger) UserService {
	return &userService{
		repo:    repo,
		storage: avatars,
		metrics: m,
		log:     log.With(zap.String("service", "user")),
	}
}

func (s *userService) List(ctx context.Context, page request.PageRequest) ([]response.UserResponse, int64, error) {
	total, err := s.repo.User.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	users, err := s.repo.User.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}

	results := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		results = append(results, response.UserToResponse(u))
	}

	return results, total, nil
}

func (s *userService) Get(ctx context.Context, id string) (response.UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return response.UserResponse{}, err
	}
	return response.UserToResponse(user), nil
}

// Create registers a new account.
func (s *userService) Create(ctx context.Context, req *request.RegisterRequest) (response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return response.UserResponse{}, apperror.Validation("", errs)
	}

	fields, err := s.checkUnique(ctx, uuid.Nil, &req.Username, &req.Email, req.Phone)
	if err != nil {
		return response.UserResponse{}, err
	}
	if len(fields) > 0 {
		return response.UserResponse{}, apperror.Validation("", fields)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return response.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	email := req.Email
	user := &entity.User{
		ID:           uuid.New(),
		Base:         entity.NewBase(now()),
		Username:     req.Username,
		Email:        &email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Gender:       entity.GenderOther,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return response.UserResponse{}, err
	}

	s.metrics.ObserveRegistration()
	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return response.UserToResponse(user), nil
}

// Update changes a user. Only the user itself or staff may do so. A full
// update (PUT) must carry username and email.
func (s *userService) Update(ctx context.Context, id string, req *request.UpdateUserRequest, partial bool) (response.UserResponse, error) {
	actor, ok := utils.GetUserFromContext[entity.User](ctx)
	if !ok {
		return response.UserResponse{}, apperror.NotAuthenticated()
	}

	target, err := s.find(ctx, id)
	if err != nil {
		return response.UserResponse{}, err
	}

	if !actor.CanManage(target.ID) {
		return response.UserResponse{}, apperror.PermissionDenied("")
	}

	return s.apply(ctx, target, req, partial)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	actor, ok := utils.GetUserFromContext[entity.User](ctx)
	if !ok {
		return apperror.NotAuthenticated()
	}

	target, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanManage(target.ID) {
		return apperror.PermissionDenied("")
	}

	if err := s.repo.User.SoftDelete(ctx, target.ID); err != nil {
		return err
	}

	n, err := s.repo.Token.DeactivateAllForUser(ctx, target.ID)
	if err != nil {
		return err
	}
	s.metrics.ObserveRevoked(int(n))

	s.log.Info("User deleted",
		zap.String("user_id", target.ID.String()),
		zap.String("by", actor.ID.String()),
	)
	return nil
}

func (s *userService) Profile(ctx context.Context, user *entity.User) (response.UserResponse, error) {
	fresh, err := s.repo.User.FindByID(ctx, user.ID)
	if err != nil {
		return response.UserResponse{}, err
	}
	if fresh == nil {
		return response.UserResponse{}, apperror.NotFound("")
	}
	return response.UserToResponse(fresh), nil
}

func (s *userService) UpdateProfile(ctx context.Context, user *entity.User, req *request.UpdateUserRequest) (response.UserResponse, error) {
	fresh, err := s.repo.User.FindByID(ctx, user.ID)
	if err != nil {
		return response.UserResponse{}, err
	}
	if fresh == nil {
		return response.UserResponse{}, apperror.NotFound("")
	}
	return s.apply(ctx, fresh, req, true)
}

// UploadAvatar stores the image and replaces the previous avatar.
func (s *userService) UploadAvatar(ctx context.Context, user *entity.User, file io.Reader, size int64, contentType string) (*response.AvatarResponse, error) {
	if s.storage == nil {
		return nil, apperror.Business(msgStorageUnavailable)
	}

	key, err := s.storage.UploadAvatar(ctx, user.ID, file, size, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooBig) || errors.Is(err, storage.ErrInvalidFileType) {
			return nil, apperror.Validation("", map[string]string{"avatar": err.Error()})
		}
		return nil, err
	}

	target, err := s.repo.User.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperror.NotFound("")
	}

	previous := target.Avatar
	target.Avatar = &key
	target.Touch(now())
	if err := s.repo.User.Update(ctx, target); err != nil {
		return nil, err
	}

	if previous != nil {
		if err := s.storage.DeleteAvatar(ctx, *previous); err != nil {
			s.log.Warn("Failed to delete previous avatar", zap.Error(err), zap.String("key", *previous))
		}
	}

	link, err := s.storage.AvatarURL(ctx, key)
	if err != nil {
		s.log.Warn("Failed to presign avatar URL", zap.Error(err), zap.String("key", key))
	}

	return &response.AvatarResponse{Avatar: key, URL: link}, nil
}

func (s *userService) find(ctx context.Context, id string) (*entity.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("")
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("")
	}
	return user, nil
}

func (s *userService) apply(ctx context.Context, user *entity.User, req *request.UpdateUserRequest, partial bool) (response.UserResponse, error) {
	errs := utils.ValidateStruct(req)
	if !partial {
		if errs == nil {
			errs = map[string]string{}
		}
		if req.Username == nil {
			errs["username"] = msgRequiredField
		}
		if req.Email == nil {
			errs["email"] = msgRequiredField
		}
	}
	if len(errs) > 0 {
		return response.UserResponse{}, apperror.Validation("", errs)
	}

	fields, err := s.checkUnique(ctx, user.ID, changed(req.Username, &user.Username), changed(req.Email, user.Email), changed(req.Phone, user.Phone))
	if err != nil {
		return response.UserResponse{}, err
	}
	if len(fields) > 0 {
		return response.UserResponse{}, apperror.Validation("", fields)
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Gender != nil {
		user.Gender = entity.Gender(*req.Gender)
	}
	if req.Birthday != nil {
		birthday, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return response.UserResponse{}, apperror.Validation("", map[string]string{"birthday": "日期格式错误，请使用 2006-01-02 格式。"})
		}
		user.Birthday = &birthday
	}
	if req.Introduction != nil {
		user.Introduction = req.Introduction
	}

	user.Touch(now())
	if err := s.repo.User.Update(ctx, user); err != nil {
		return response.UserResponse{}, err
	}

	return response.UserToResponse(user), nil
}

// checkUnique reports which of the given values already belong to a user
// other than self. Nil values are skipped.
func (s *userService) checkUnique(ctx context.Context, self uuid.UUID, username, email, phone *string) (map[string]string, error) {
	fields := map[string]string{}

	checks := []struct {
		field string
		value *string
		find  func(context.Context, string) (*entity.User, error)
		msg   string
	}{
		{"username", username, s.repo.User.FindByUsername, msgUsernameTaken},
		{"email", email, s.repo.User.FindByEmail, msgEmailTaken},
		{"phone", phone, s.repo.User.FindByPhone, msgPhoneTaken},
	}

	for _, c := range checks {
		if c.value == nil || *c.value == "" {
			continue
		}
		existing, err := c.find(ctx, *c.value)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != self {
			fields[c.field] = c.msg
		}
	}

	return fields, nil
}

// changed returns next when it differs from current, nil otherwise.
func changed(next, current *string) *string {
	if next == nil {
		return nil
	}
	if current != nil && *current == *next {
		return nil
	}
	return next
}
