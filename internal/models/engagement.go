package models

import (
	"time"

	"github.com/google/uuid"
)

// Like is a per-(post,user) membership row; presence means liked.
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Save is a per-(post,user) bookmark row; presence means saved.
type Save struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saves_post_user" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saves_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
