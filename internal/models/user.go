package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values stored on User.Role.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User is the community profile record. Created on first sign-in, never
// hard-deleted (account deletion uses GORM soft delete).
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	DisplayName  string         `gorm:"size:100" json:"display_name"`
	AvatarURL    string         `gorm:"size:500" json:"avatar_url,omitempty"`
	Role         string         `gorm:"size:20;default:'user'" json:"role"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	VerifiedAt   *time.Time     `json:"verified_at,omitempty"`
	VerifiedByID *uuid.UUID     `gorm:"type:uuid" json:"verified_by_id,omitempty"`
	GoogleUserID *string        `gorm:"size:255;index" json:"-"`
	AuthProvider string         `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsStaff reports whether the role grants access to the moderation surface.
func (u *User) IsStaff() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
