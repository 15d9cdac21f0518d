package models

import "gorm.io/gorm"

// NotDeleted filters out soft-deleted posts/comments.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = false")
}

// PubliclyVisible additionally excludes posts hidden by moderation.
func PubliclyVisible(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = false AND moderation_status <> ?", ModerationHidden)
}
