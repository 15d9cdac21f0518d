package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
)

func TestModerationUpdates(t *testing.T) {
	actor := uuid.New()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		action  string
		want    map[string]interface{}
		wantErr error
	}{
		{
			action: "mark_ok",
			want:   map[string]interface{}{"moderation_status": models.ModerationOK},
		},
		{
			action: "mark_needs_fix",
			want:   map[string]interface{}{"moderation_status": models.ModerationNeedsFix},
		},
		{
			action: "hide",
			want:   map[string]interface{}{"moderation_status": models.ModerationHidden},
		},
		{
			action: "soft_delete",
			want: map[string]interface{}{
				"is_deleted":    true,
				"deleted_at":    now,
				"deleted_by_id": actor,
			},
		},
		{
			action: "restore",
			want: map[string]interface{}{
				"is_deleted":    false,
				"deleted_at":    nil,
				"deleted_by_id": nil,
			},
		},
		{action: "", wantErr: ErrMissingAction},
		{action: "nuke", wantErr: ErrInvalidAction},
		{action: "MARK_OK", wantErr: ErrInvalidAction},
	}

	for _, tt := range tests {
		name := tt.action
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			got, err := moderationUpdates(tt.action, actor, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("updates = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("updates[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestValidatePostFields(t *testing.T) {
	valid := dto.CreatePostRequest{
		Title:        "My beta build",
		Body:         "Looking for 12 testers before the production track.",
		PlayStoreURL: "https://play.google.com/store/apps/details?id=com.example",
		TestingURL:   "https://play.google.com/apps/testing/com.example",
	}

	tests := []struct {
		name   string
		mutate func(r *dto.CreatePostRequest)
		wantOK bool
	}{
		{"valid", func(r *dto.CreatePostRequest) {}, true},
		{"no links is fine", func(r *dto.CreatePostRequest) { r.PlayStoreURL = ""; r.TestingURL = "" }, true},
		{"empty title", func(r *dto.CreatePostRequest) { r.Title = "   " }, false},
		{"title too long", func(r *dto.CreatePostRequest) { r.Title = strings.Repeat("a", 201) }, false},
		{"empty body", func(r *dto.CreatePostRequest) { r.Body = "" }, false},
		{"ftp link", func(r *dto.CreatePostRequest) { r.PlayStoreURL = "ftp://example.com/apk" }, false},
		{"schemeless link", func(r *dto.CreatePostRequest) { r.TestingURL = "play.google.com/testing" }, false},
		{"javascript link", func(r *dto.CreatePostRequest) { r.TestingURL = "javascript:alert(1)" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := validatePostFields(&req)
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFeedSortOrders(t *testing.T) {
	for _, sort := range []string{"newest", "most_liked", "most_saved", "most_commented"} {
		if _, ok := feedSortOrders[sort]; !ok {
			t.Errorf("missing sort order %q", sort)
		}
	}
	if _, ok := feedSortOrders["oldest"]; ok {
		t.Error("unexpected sort order \"oldest\"")
	}
}
