package models

import (
	"time"

	"github.com/google/uuid"
)

// Verification request statuses.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// VerificationRequest is a user's application for the verified-tester badge.
// At most one pending request per user; no new request once approved.
type VerificationRequest struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	DeveloperURL *string    `gorm:"size:500" json:"developer_url,omitempty"`
	ProofMessage string     `gorm:"type:text;not null" json:"proof_message"`
	Status       string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ReviewerID   *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewNote   *string    `gorm:"size:1000" json:"review_note,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
}
