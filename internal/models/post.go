package models

import (
	"time"

	"github.com/google/uuid"
)

// Moderation status values stored on Post.ModerationStatus.
const (
	ModerationOK       = "ok"
	ModerationNeedsFix = "needs_fix"
	ModerationHidden   = "hidden"
)

// Post is an app-testing request published by a tester or developer.
// Deletion is always soft so that reports, likes and comments keep a target.
type Post struct {
	ID               uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"author_id"`
	Title            string      `gorm:"size:200;not null" json:"title"`
	Body             string      `gorm:"type:text;not null" json:"body"`
	PlayStoreURL     string      `gorm:"size:500" json:"play_store_url,omitempty"`
	TestingURL       string      `gorm:"size:500" json:"testing_url,omitempty"`
	ModerationStatus string      `gorm:"size:20;not null;default:'ok';index" json:"moderation_status"`
	IsDeleted        bool        `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt        *time.Time  `json:"deleted_at,omitempty"`
	DeletedByID      *uuid.UUID  `gorm:"type:uuid" json:"deleted_by_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	Author           User        `gorm:"foreignKey:AuthorID" json:"-"`
	Tags             []Tag       `gorm:"many2many:post_tags" json:"tags"`
	Images           []PostImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
}

// PostImage stores the URL of an already-uploaded screenshot. Blob storage
// itself lives outside this service.
type PostImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostImage) TableName() string {
	return "post_images"
}
