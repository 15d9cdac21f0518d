package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAdminOnly   = errors.New("role changes require admin access")
	ErrInvalidRole = errors.New("invalid role")
)

var userRoles = map[string]bool{
	models.RoleUser:      true,
	models.RoleModerator: true,
	models.RoleAdmin:     true,
}

// AdminService covers the user-management side of the moderation dashboard.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) ListUsers(search, role string, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email ILIKE ? OR display_name ILIKE ?", like, like)
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *AdminService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies role and verification changes. The caller passed the
// staff gate already, but role changes are re-checked against the caller's
// own resolved role: a moderator changing roles is still forbidden.
func (s *AdminService) UpdateUser(callerID uuid.UUID, callerRole string, userID uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	updates, err := userUpdates(callerID, callerRole, req, time.Now())
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// userUpdates maps an admin user-update request onto column updates,
// enforcing the strict-admin rule for role changes.
func userUpdates(callerID uuid.UUID, callerRole string, req *dto.UpdateUserRequest, now time.Time) (map[string]interface{}, error) {
	if req.Role == nil && req.IsVerified == nil {
		return nil, errors.New("nothing to update")
	}

	updates := map[string]interface{}{}
	if req.Role != nil {
		if callerRole != models.RoleAdmin {
			return nil, ErrAdminOnly
		}
		if !userRoles[*req.Role] {
			return nil, ErrInvalidRole
		}
		updates["role"] = *req.Role
	}
	if req.IsVerified != nil {
		updates["is_verified"] = *req.IsVerified
		if *req.IsVerified {
			updates["verified_at"] = now
			updates["verified_by_id"] = callerID
		} else {
			updates["verified_at"] = nil
			updates["verified_by_id"] = nil
		}
	}
	return updates, nil
}
