package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag labels posts. Slug is globally unique; a tag referenced by at least one
// post cannot be deleted.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:48;not null" json:"name"`
	Slug      string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
