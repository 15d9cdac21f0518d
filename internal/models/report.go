package models

import (
	"time"

	"github.com/google/uuid"
)

// Report target types.
const (
	ReportTargetPost    = "post"
	ReportTargetComment = "comment"
	ReportTargetUser    = "user"
)

// Report statuses.
const (
	ReportOpen      = "open"
	ReportReviewing = "reviewing"
	ReportResolved  = "resolved"
	ReportRejected  = "rejected"
)

// ReportReasons is the closed set accepted on report creation.
var ReportReasons = []string{
	"spam", "scam", "abuse", "inappropriate",
	"broken_link", "impersonation", "other",
}

// Report is an abuse report against a post, comment or user. Exactly one of
// PostID/CommentID/TargetUserID is set, matching TargetType. ResolvedByID and
// ResolutionNote are non-null only while Status is resolved or rejected.
type Report struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	TargetType     string     `gorm:"size:20;not null" json:"target_type"`
	PostID         *uuid.UUID `gorm:"type:uuid;index" json:"post_id,omitempty"`
	CommentID      *uuid.UUID `gorm:"type:uuid;index" json:"comment_id,omitempty"`
	TargetUserID   *uuid.UUID `gorm:"type:uuid;index" json:"target_user_id,omitempty"`
	Reason         string     `gorm:"size:50;not null" json:"reason"`
	Message        string     `gorm:"size:2000" json:"message,omitempty"`
	Status         string     `gorm:"size:20;not null;default:'open';index" json:"status"`
	ResolvedByID   *uuid.UUID `gorm:"type:uuid" json:"resolved_by_id,omitempty"`
	ResolutionNote *string    `gorm:"size:1000" json:"resolution_note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Reporter       User       `gorm:"foreignKey:ReporterID" json:"-"`
}
