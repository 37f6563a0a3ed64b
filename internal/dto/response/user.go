package response

import (
	"time"

	"backend-template/internal/data/entity"
)

type UserResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	Gender       string    `json:"gender"`
	Birthday     *string   `json:"birthday"`
	Introduction *string   `json:"introduction"`
	Avatar       *string   `json:"avatar"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	LastLogin    *DateTime `json:"last_login"`
	CreatedAt    DateTime  `json:"created_at"`
	UpdatedAt    DateTime  `json:"updated_at"`
}

// LoginResponse is the user plus the freshly issued token pair.
type LoginResponse struct {
	UserResponse
	Token          string   `json:"token"`
	Expires        DateTime `json:"expires"`
	RefreshToken   string   `json:"refresh_token"`
	RefreshExpires DateTime `json:"refresh_expires"`
}

type TokenResponse struct {
	Token   string   `json:"token"`
	Expires DateTime `json:"expires"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
	URL    string `json:"url"`
}

func UserToResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:           user.ID.String(),
		Username:     user.Username,
		Email:        user.Email,
		Phone:        user.Phone,
		Gender:       string(user.Gender),
		Introduction: user.Introduction,
		Avatar:       user.Avatar,
		IsActive:     user.IsActive,
		IsStaff:      user.IsStaff,
		LastLogin:    timePtr(user.LastLogin),
		CreatedAt:    DateTime(user.CreatedAt),
		UpdatedAt:    DateTime(user.UpdatedAt),
	}

	if user.Birthday != nil {
		birthday := user.Birthday.Format("2006-01-02")
		resp.Birthday = &birthday
	}

	return resp
}

func NewTokenResponse(token string, expires time.Time) TokenResponse {
	return TokenResponse{Token: token, Expires: DateTime(expires)}
}
