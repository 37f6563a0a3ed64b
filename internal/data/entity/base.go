package entity

import (
	"time"
)

// Base holds the bookkeeping columns shared by every table.
type Base struct {
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	IsDeleted bool       `db:"is_deleted"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// NewBase stamps both timestamps with now.
func NewBase(now time.Time) Base {
	return Base{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now
}

// SoftDelete flags the record instead of removing the row.
func (b *Base) SoftDelete(now time.Time) {
	b.IsDeleted = true
	b.DeletedAt = &now
	b.UpdatedAt = now
}
