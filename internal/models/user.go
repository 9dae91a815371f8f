package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleEditor  Role = "editor"
	RoleGeneral Role = "general"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleGeneral:
		return true
	}
	return false
}

// Elevated reports whether the role may act on content it does not own.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleEditor
}

// User is created on first Google login and refreshed on every later one.
type User struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	AvatarURL *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Role      Role      `gorm:"type:enum('admin','editor','general');default:'general'" json:"role"`
	GoogleID  string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanModify reports whether u may change content owned by ownerID.
func (u *User) CanModify(ownerID uuid.UUID) bool {
	return u.ID == ownerID || u.Role.Elevated()
}
