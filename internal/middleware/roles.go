package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/config"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
	"github.com/playtesters/community-backend/internal/session"
	"gorm.io/gorm"
)

// RoleLookup resolves a user's current role. The lookup runs on every request
// so a role change takes effect without re-issuing tokens.
type RoleLookup interface {
	RoleByID(id uuid.UUID) (string, error)
}

// GormRoleLookup reads the role off the users table.
type GormRoleLookup struct {
	DB *gorm.DB
}

func (l GormRoleLookup) RoleByID(id uuid.UUID) (string, error) {
	var user models.User
	if err := l.DB.Select("role").First(&user, "id = ?", id).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

// StaffRequired gates the moderation surface. It checks:
// 1. Config-based admin token/emails
// 2. DB-based user Role field (moderator or admin)
// The resolved role is stored in locals for strict-admin checks downstream.
func StaffRequired(lookup RoleLookup, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			c.Locals("role", models.RoleAdmin)
			return c.Next()
		}

		userID, err := session.UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, session.Email(c)) {
			c.Locals("role", models.RoleAdmin)
			return c.Next()
		}

		role, err := lookup.RoleByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if role != models.RoleModerator && role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Moderator access required",
			})
		}

		c.Locals("role", role)
		return c.Next()
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
