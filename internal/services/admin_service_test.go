package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestUserUpdates_RoleChangeRequiresAdmin(t *testing.T) {
	caller := uuid.New()
	req := dto.UpdateUserRequest{Role: strptr(models.RoleModerator)}

	if _, err := userUpdates(caller, models.RoleModerator, &req, time.Now()); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("moderator role change: error = %v, want ErrAdminOnly", err)
	}
	if _, err := userUpdates(caller, models.RoleUser, &req, time.Now()); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("user role change: error = %v, want ErrAdminOnly", err)
	}

	updates, err := userUpdates(caller, models.RoleAdmin, &req, time.Now())
	if err != nil {
		t.Fatalf("admin role change: unexpected error: %v", err)
	}
	if updates["role"] != models.RoleModerator {
		t.Errorf("role = %v, want %v", updates["role"], models.RoleModerator)
	}
}

func TestUserUpdates_InvalidRole(t *testing.T) {
	for _, role := range []string{"superadmin", "", "Admin"} {
		req := dto.UpdateUserRequest{Role: strptr(role)}
		if _, err := userUpdates(uuid.New(), models.RoleAdmin, &req, time.Now()); !errors.Is(err, ErrInvalidRole) {
			t.Errorf("role %q: error = %v, want ErrInvalidRole", role, err)
		}
	}
}

func TestUserUpdates_VerifyStampsMetadata(t *testing.T) {
	caller := uuid.New()
	now := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

	updates, err := userUpdates(caller, models.RoleModerator, &dto.UpdateUserRequest{IsVerified: boolptr(true)}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updates["is_verified"] != true {
		t.Errorf("is_verified = %v, want true", updates["is_verified"])
	}
	if updates["verified_at"] != now {
		t.Errorf("verified_at = %v, want %v", updates["verified_at"], now)
	}
	if updates["verified_by_id"] != caller {
		t.Errorf("verified_by_id = %v, want caller", updates["verified_by_id"])
	}
}

func TestUserUpdates_UnverifyClearsMetadata(t *testing.T) {
	updates, err := userUpdates(uuid.New(), models.RoleModerator, &dto.UpdateUserRequest{IsVerified: boolptr(false)}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updates["is_verified"] != false {
		t.Errorf("is_verified = %v, want false", updates["is_verified"])
	}
	if updates["verified_at"] != nil || updates["verified_by_id"] != nil {
		t.Errorf("verification metadata not cleared: %v", updates)
	}
}

func TestUserUpdates_EmptyRequest(t *testing.T) {
	if _, err := userUpdates(uuid.New(), models.RoleAdmin, &dto.UpdateUserRequest{}, time.Now()); err == nil {
		t.Error("expected error for empty request, got nil")
	}
}
