package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reply to a post. Same soft-delete shape as Post; deletion is
// the only moderation action modeled for comments.
type Comment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	IsDeleted   bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	DeletedByID *uuid.UUID `gorm:"type:uuid" json:"deleted_by_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Author      User       `gorm:"foreignKey:AuthorID" json:"-"`
}
