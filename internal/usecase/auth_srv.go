package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-template/internal/data/entity"
	"backend-template/internal/data/repository"
	"backend-template/internal/dto/request"
	"backend-template/internal/dto/response"
	"backend-template/pkg/apperror"
	"backend-template/pkg/metrics"
	"backend-template/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgBadCredentials   = "用户名或密码错误"
	msgAccountDisabled  = "账户已被禁用"
	msgWrongOldPassword = "原密码错误"

	msgInvalidToken = "Invalid token"
	msgUserNotFound = "User not found"
	msgTokenRevoked = "Token expired or invalid"
	msgTokenExpired = "Token has expired"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest, meta request.LoginMeta) (*response.LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, req *request.RefreshRequest, meta request.LoginMeta) (*response.TokenResponse, error)
	ChangePassword(ctx context.Context, user *entity.User, req *request.ChangePasswordRequest, meta request.LoginMeta) (*response.TokenResponse, error)
}

type authService struct {
	repo    *repository.Repository
	tokens  *utils.TokenManager
	jwt     utils.JWTConfig
	metrics *metrics.Manager
	log     *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens *utils.TokenManager,
	jwt utils.JWTConfig,
	m *metrics.Manager,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:    repo,
		tokens:  tokens,
		jwt:     jwt,
		metrics: m,
		log:     log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta request.LoginMeta) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperror.Validation("", errs)
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.metrics.ObserveLogin(false)
		s.log.Warn("Login failed", zap.String("username", req.Username), zap.String("ip", meta.IP))
		return nil, apperror.Unauthorized(msgBadCredentials)
	}

	if !user.IsActive {
		s.metrics.ObserveLogin(false)
		return nil, apperror.PermissionDenied(msgAccountDisabled)
	}

	access, expires, err := s.issueToken(ctx, user, entity.TokenTypeAccess, s.jwt.AccessTTL, meta)
	if err != nil {
		return nil, err
	}

	refresh, refreshExpires, err := s.issueToken(ctx, user, entity.TokenTypeRefresh, s.jwt.RefreshTTL, meta)
	if err != nil {
		return nil, err
	}

	loginAt := now()
	if err := s.repo.User.UpdateLastLogin(ctx, user.ID, meta.IP, loginAt); err != nil {
		s.log.Warn("Failed to record last login", zap.Error(err), zap.String("user_id", user.ID.String()))
	} else {
		user.LastLogin = &loginAt
		if meta.IP != "" {
			user.LastLoginIP = &meta.IP
		}
	}

	s.metrics.ObserveLogin(true)
	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", meta.IP),
	)

	return &response.LoginResponse{
		UserResponse:   response.UserToResponse(user),
		Token:          access,
		Expires:        response.DateTime(expires),
		RefreshToken:   refresh,
		RefreshExpires: response.DateTime(refreshExpires),
	}, nil
}

// Authenticate resolves an access token to its active user.
func (s *authService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	user, err := s.verify(ctx, token, entity.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	n, err := s.repo.Token.Deactivate(ctx, token)
	if err != nil {
		return err
	}

	s.metrics.ObserveRevoked(int(n))
	return nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest, meta request.LoginMeta) (*response.TokenResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.Validation("", errs)
	}

	user, err := s.verify(ctx, req.RefreshToken, entity.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	token, expires, err := s.issueToken(ctx, user, entity.TokenTypeAccess, s.jwt.AccessTTL, meta)
	if err != nil {
		return nil, err
	}

	resp := response.NewTokenResponse(token, expires)
	return &resp, nil
}

// ChangePassword revokes every token of the user and hands back a new access token.
func (s *authService) ChangePassword(ctx context.Context, user *entity.User, req *request.ChangePasswordRequest, meta request.LoginMeta) (*response.TokenResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.Validation("", errs)
	}

	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return nil, apperror.Business(msgWrongOldPassword)
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	n, err := s.repo.Token.DeactivateAllForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRevoked(int(n))

	token, expires, err := s.issueToken(ctx, user, entity.TokenTypeAccess, s.jwt.AccessTTL, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("Password changed",
		zap.String("user_id", user.ID.String()),
		zap.Int64("revoked_tokens", n),
	)

	resp := response.NewTokenResponse(token, expires)
	return &resp, nil
}

// verify checks signature, type, owner and the stored token row.
func (s *authService) verify(ctx context.Context, token string, tokenType entity.TokenType) (*entity.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, apperror.Unauthorized(msgTokenExpired)
		}
		return nil, apperror.Unauthorized(msgInvalidToken)
	}

	if claims.TokenType != string(tokenType) {
		return nil, apperror.Unauthorized(msgInvalidToken)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperror.Unauthorized(msgInvalidToken)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.Unauthorized(msgUserNotFound)
	}

	row, err := s.repo.Token.FindActive(ctx, user.ID, token)
	if err != nil {
		return nil, err
	}
	if row == nil || row.TokenType != tokenType || !row.Usable(now()) {
		return nil, apperror.Unauthorized(msgTokenRevoked)
	}

	return user, nil
}

// issueToken signs a token and stores it, deactivating the user's previous
// token of the same type.
func (s *authService) issueToken(ctx context.Context, user *entity.User, tokenType entity.TokenType, ttl time.Duration, meta request.LoginMeta) (string, time.Time, error) {
	signed, expires, err := s.tokens.Issue(user.ID, user.Username, string(tokenType), ttl)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	token := &entity.UserToken{
		ID:        uuid.New(),
		Base:      entity.NewBase(now()),
		UserID:    user.ID,
		Token:     signed,
		TokenType: tokenType,
		Expires:   expires,
		Device:    optional(meta.Device),
		IPAddress: optional(meta.IP),
		UserAgent: optional(meta.UserAgent),
	}

	if err := s.repo.Token.Create(ctx, token); err != nil {
		return "", time.Time{}, err
	}

	return signed, expires, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
