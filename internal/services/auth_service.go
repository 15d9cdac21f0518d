package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/config"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db         *gorm.DB
	cfg        *config.Config
	googleJWKS *GoogleJWKSClient
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:         db,
		cfg:        cfg,
		googleJWKS: NewGoogleJWKSClient(),
	}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = strings.Split(req.Email, "@")[0]
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Password:     string(hash),
		DisplayName:  displayName,
		Role:         models.RoleUser,
		AuthProvider: "email",
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// DeleteAccount soft-deletes the profile and revokes its tokens. Posts,
// comments and reports stay behind so moderation history keeps its targets.
func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if user.AuthProvider != "google" {
		if password == "" {
			return errors.New("password is required")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return purgeAccount(
			func() error {
				return tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
			},
			func() error {
				return tx.Delete(&user).Error
			},
		)
	})
}

// purgeAccount revokes refresh tokens before removing the profile. A failed
// revocation aborts the transaction so no deleted account keeps live tokens.
func purgeAccount(revokeTokens, removeProfile func() error) error {
	if err := revokeTokens(); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return removeProfile()
}

func (s *AuthService) GoogleSignIn(req *dto.GoogleSignInRequest) (*dto.AuthResponse, error) {
	if req.IDToken == "" {
		return nil, errors.New("id token is required")
	}

	claims, err := s.googleJWKS.VerifyToken(req.IDToken, s.cfg.GoogleClientID)
	if err != nil {
		slog.Error("google token verification failed", "error", err)
		return nil, fmt.Errorf("failed to verify Google identity token: %w", err)
	}

	googleUserID := claims.Sub
	email := claims.Email
	if email == "" {
		return nil, errors.New("google token carries no email")
	}

	var user models.User
	err = s.db.Where("google_user_id = ? OR email = ?", googleUserID, email).First(&user).Error

	if err != nil {
		displayName := req.DisplayName
		if displayName == "" {
			displayName = claims.Name
		}
		if displayName == "" {
			displayName = strings.Split(email, "@")[0]
		}

		user = models.User{
			ID:           uuid.New(),
			Email:        email,
			Password:     "",
			DisplayName:  displayName,
			AvatarURL:    claims.Picture,
			Role:         models.RoleUser,
			GoogleUserID: &googleUserID,
			AuthProvider: "google",
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create Google user: %w", err)
		}
	} else if user.GoogleUserID == nil {
		s.db.Model(&user).Updates(map[string]interface{}{
			"google_user_id": googleUserID,
			"auth_provider":  "google",
		})
		user.GoogleUserID = &googleUserID
		user.AuthProvider = "google"
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			IsVerified:  user.IsVerified,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
