package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
)

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestValidateCreateReport(t *testing.T) {
	reporter := uuid.New()
	post := uuid.New()
	comment := uuid.New()
	other := uuid.New()

	tests := []struct {
		name    string
		req     dto.CreateReportRequest
		wantErr error
		wantOK  bool
	}{
		{
			name:   "valid post report",
			req:    dto.CreateReportRequest{TargetType: models.ReportTargetPost, Reason: "spam", PostID: ptr(post)},
			wantOK: true,
		},
		{
			name:   "valid comment report",
			req:    dto.CreateReportRequest{TargetType: models.ReportTargetComment, Reason: "abuse", CommentID: ptr(comment)},
			wantOK: true,
		},
		{
			name:   "valid user report",
			req:    dto.CreateReportRequest{TargetType: models.ReportTargetUser, Reason: "impersonation", TargetUserID: ptr(other)},
			wantOK: true,
		},
		{
			name:    "self report",
			req:     dto.CreateReportRequest{TargetType: models.ReportTargetUser, Reason: "spam", TargetUserID: ptr(reporter)},
			wantErr: ErrSelfReport,
		},
		{
			name: "no target set",
			req:  dto.CreateReportRequest{TargetType: models.ReportTargetPost, Reason: "spam"},
		},
		{
			name: "two targets set",
			req:  dto.CreateReportRequest{TargetType: models.ReportTargetPost, Reason: "spam", PostID: ptr(post), CommentID: ptr(comment)},
		},
		{
			name: "target id does not match type",
			req:  dto.CreateReportRequest{TargetType: models.ReportTargetPost, Reason: "spam", CommentID: ptr(comment)},
		},
		{
			name: "unknown target type",
			req:  dto.CreateReportRequest{TargetType: "profile", Reason: "spam", PostID: ptr(post)},
		},
		{
			name: "unknown reason",
			req:  dto.CreateReportRequest{TargetType: models.ReportTargetPost, Reason: "ugly", PostID: ptr(post)},
		},
		{
			name: "message too long",
			req: dto.CreateReportRequest{
				TargetType: models.ReportTargetPost, Reason: "spam", PostID: ptr(post),
				Message: strings.Repeat("x", maxReportMessageLen+1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCreateReport(reporter, &tt.req)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransitionUpdates_TerminalSetsResolver(t *testing.T) {
	resolver := uuid.New()

	for _, status := range []string{models.ReportResolved, models.ReportRejected} {
		updates, err := transitionUpdates(status, resolver, "  duplicate of R2  ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updates["status"] != status {
			t.Errorf("status = %v, want %v", updates["status"], status)
		}
		if updates["resolved_by_id"] != resolver {
			t.Errorf("resolved_by_id = %v, want %v", updates["resolved_by_id"], resolver)
		}
		if updates["resolution_note"] != "duplicate of R2" {
			t.Errorf("resolution_note = %v, want trimmed note", updates["resolution_note"])
		}
	}
}

func TestTransitionUpdates_TerminalEmptyNoteIsNull(t *testing.T) {
	updates, err := transitionUpdates(models.ReportResolved, uuid.New(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updates["resolution_note"] != nil {
		t.Errorf("resolution_note = %v, want nil", updates["resolution_note"])
	}
}

func TestTransitionUpdates_NonTerminalClearsResolver(t *testing.T) {
	for _, status := range []string{models.ReportOpen, models.ReportReviewing} {
		updates, err := transitionUpdates(status, uuid.New(), "leftover note")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updates["resolved_by_id"] != nil {
			t.Errorf("resolved_by_id = %v, want nil for %s", updates["resolved_by_id"], status)
		}
		if updates["resolution_note"] != nil {
			t.Errorf("resolution_note = %v, want nil for %s", updates["resolution_note"], status)
		}
	}
}

func TestTransitionUpdates_InvalidStatus(t *testing.T) {
	for _, status := range []string{"", "pending", "closed", "RESOLVED"} {
		if _, err := transitionUpdates(status, uuid.New(), ""); !errors.Is(err, ErrInvalidReportStatus) {
			t.Errorf("transitionUpdates(%q) error = %v, want ErrInvalidReportStatus", status, err)
		}
	}
}
