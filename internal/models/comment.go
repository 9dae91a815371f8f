package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	BlogID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"blog_id"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Blog      *Blog     `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
}
