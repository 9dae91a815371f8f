package models

import (
	"time"

	"github.com/google/uuid"
)

type BlogStatus string

const (
	StatusDraft     BlogStatus = "draft"
	StatusPublished BlogStatus = "published"
	StatusArchived  BlogStatus = "archived"
)

func (s BlogStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type Blog struct {
	ID            uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title         string     `gorm:"size:500;not null" json:"title"`
	Content       string     `gorm:"type:longtext;not null" json:"content"`
	Excerpt       string     `gorm:"type:text" json:"excerpt"`
	AuthorID      uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Status        BlogStatus `gorm:"type:enum('draft','published','archived');default:'draft'" json:"status"`
	LikesCount    int        `gorm:"default:0" json:"likes_count"`
	CommentsCount int        `gorm:"default:0" json:"comments_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Author        *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// transitions lists every allowed status change; the value says whether a
// general-role owner may make it. Editors and admins may make all of them.
var transitions = map[BlogStatus]map[BlogStatus]bool{
	StatusDraft:     {StatusPublished: false, StatusArchived: true},
	StatusPublished: {StatusDraft: false, StatusArchived: true},
	StatusArchived:  {StatusDraft: true, StatusPublished: false},
}

// CanTransition reports whether actor may move b to the target status.
// Staying in the same status is always allowed for anyone who may edit b.
func (b *Blog) CanTransition(actor *User, to BlogStatus) bool {
	if !actor.CanModify(b.AuthorID) || !to.Valid() {
		return false
	}
	if b.Status == to {
		return true
	}
	ownerAllowed, ok := transitions[b.Status][to]
	if !ok {
		return false
	}
	if actor.Role.Elevated() {
		return true
	}
	return ownerAllowed && actor.ID == b.AuthorID
}

// VisibleTo reports whether viewer may read b. Viewer may be nil.
func (b *Blog) VisibleTo(viewer *User) bool {
	if b.Status == StatusPublished {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.CanModify(b.AuthorID)
}
