package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/config"
	"github.com/playtesters/community-backend/internal/models"
	"github.com/playtesters/community-backend/internal/session"
)

type mockRoleLookup struct {
	roleByID func(id uuid.UUID) (string, error)
}

func (m mockRoleLookup) RoleByID(id uuid.UUID) (string, error) {
	return m.roleByID(id)
}

// staffApp builds an app where the JWT middleware is replaced by a stub that
// injects claims for the given user, so the gate itself is under test.
func staffApp(lookup RoleLookup, cfg *config.Config, userID uuid.UUID, email string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != uuid.Nil {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub":   userID.String(),
				"email": email,
			})
			c.Locals("user", token)
		}
		return c.Next()
	})
	app.Get("/admin", StaffRequired(lookup, cfg), func(c *fiber.Ctx) error {
		return c.SendString(session.Role(c))
	})
	return app
}

func TestStaffRequired_NoToken(t *testing.T) {
	lookup := mockRoleLookup{roleByID: func(uuid.UUID) (string, error) {
		t.Fatal("lookup should not run without a session")
		return "", nil
	}}
	app := staffApp(lookup, &config.Config{}, uuid.Nil, "")

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestStaffRequired_RegularUserForbidden(t *testing.T) {
	lookup := mockRoleLookup{roleByID: func(uuid.UUID) (string, error) {
		return models.RoleUser, nil
	}}
	app := staffApp(lookup, &config.Config{}, uuid.New(), "user@example.com")

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestStaffRequired_StaffRolesPass(t *testing.T) {
	for _, role := range []string{models.RoleModerator, models.RoleAdmin} {
		lookup := mockRoleLookup{roleByID: func(uuid.UUID) (string, error) {
			return role, nil
		}}
		app := staffApp(lookup, &config.Config{}, uuid.New(), "staff@example.com")

		resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("role %s: status = %d, want 200", role, resp.StatusCode)
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != role {
			t.Errorf("resolved role = %q, want %q", body, role)
		}
	}
}

func TestStaffRequired_LookupFailure(t *testing.T) {
	lookup := mockRoleLookup{roleByID: func(uuid.UUID) (string, error) {
		return "", errors.New("record not found")
	}}
	app := staffApp(lookup, &config.Config{}, uuid.New(), "ghost@example.com")

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestStaffRequired_AdminEmailList(t *testing.T) {
	lookup := mockRoleLookup{roleByID: func(uuid.UUID) (string, error) {
		t.Fatal("lookup should not run for listed admin emails")
		return "", nil
	}}
	cfg := &config.Config{AdminEmails: "root@example.com, ops@example.com"}
	app := staffApp(lookup, cfg, uuid.New(), "ops@example.com")

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != models.RoleAdmin {
		t.Errorf("resolved role = %q, want admin", body)
	}
}

func TestStaffRequired_AdminTokenBypass(t *testing.T) {
	lookup := mockRoleLookup{roleByID: func(uuid.UUID) (string, error) {
		t.Fatal("lookup should not run for the admin token")
		return "", nil
	}}
	cfg := &config.Config{AdminToken: "s3cret"}
	app := staffApp(lookup, cfg, uuid.Nil, "")

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("X-Admin-Token", "s3cret")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestStaffRequired_WrongAdminToken(t *testing.T) {
	lookup := mockRoleLookup{roleByID: func(uuid.UUID) (string, error) {
		return models.RoleUser, nil
	}}
	cfg := &config.Config{AdminToken: "s3cret"}
	app := staffApp(lookup, cfg, uuid.Nil, "")

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("X-Admin-Token", "wrong")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestParseCSV(t *testing.T) {
	got := parseCSV(" a@b.c ,, d@e.f ")
	if len(got) != 2 || got[0] != "a@b.c" || got[1] != "d@e.f" {
		t.Errorf("parseCSV = %v", got)
	}
	if parseCSV("") != nil {
		t.Error("parseCSV(\"\") should be nil")
	}
}
