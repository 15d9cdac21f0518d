package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	TargetType   string     `json:"target_type"`
	Reason       string     `json:"reason"`
	Message      string     `json:"message,omitempty"`
	PostID       *uuid.UUID `json:"post_id,omitempty"`
	CommentID    *uuid.UUID `json:"comment_id,omitempty"`
	TargetUserID *uuid.UUID `json:"target_user_id,omitempty"`
}

type UpdateReportRequest struct {
	Status         string `json:"status"`
	ResolutionNote string `json:"resolution_note,omitempty"`
}
