package entity

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

type User struct {
	ID uuid.UUID `db:"id"`
	Base
	Username     string     `db:"username"`
	Email        *string    `db:"email"`
	Phone        *string    `db:"phone"`
	PasswordHash string     `db:"password"`
	Gender       Gender     `db:"gender"`
	Birthday     *time.Time `db:"birthday"`
	Introduction *string    `db:"introduction"`
	Avatar       *string    `db:"avatar"`
	LastLoginIP  *string    `db:"last_login_ip"`
	LastLogin    *time.Time `db:"last_login"`
	IsActive     bool       `db:"is_active"`
	IsStaff      bool       `db:"is_staff"`
}

// CanManage reports whether u may modify or delete the user with id target.
func (u *User) CanManage(target uuid.UUID) bool {
	return u.IsStaff || u.ID == target
}
