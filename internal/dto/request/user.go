package request

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=150"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,len=11,numeric"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UpdateUserRequest serves PUT and PATCH. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Username     *string `json:"username,omitempty" validate:"omitempty,min=3,max=150"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,len=11,numeric"`
	Gender       *string `json:"gender,omitempty" validate:"omitempty,oneof=M F O"`
	Birthday     *string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Introduction *string `json:"introduction,omitempty" validate:"omitempty,max=500"`
}

// LoginMeta describes the client a token is issued to.
type LoginMeta struct {
	IP        string
	UserAgent string
	Device    string
}
