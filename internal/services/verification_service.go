package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProofTooShort       = errors.New("proof message must be at least 20 characters")
	ErrVerificationPending = errors.New("a verification request is already pending")
	ErrAlreadyVerified     = errors.New("verification already approved")
	ErrRequestNotFound     = errors.New("verification request not found")
	ErrAlreadyReviewed     = errors.New("verification request already reviewed")
)

const minProofLen = 20

type VerificationService struct {
	db *gorm.DB
}

func NewVerificationService(db *gorm.DB) *VerificationService {
	return &VerificationService{db: db}
}

func (s *VerificationService) Submit(userID uuid.UUID, req *dto.SubmitVerificationRequest) (*models.VerificationRequest, error) {
	proof := strings.TrimSpace(req.ProofMessage)
	if len(proof) < minProofLen {
		return nil, ErrProofTooShort
	}

	var latest models.VerificationRequest
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").First(&latest).Error
	if err == nil {
		switch latest.Status {
		case models.VerificationPending:
			return nil, ErrVerificationPending
		case models.VerificationApproved:
			return nil, ErrAlreadyVerified
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	request := models.VerificationRequest{
		ID:           uuid.New(),
		UserID:       userID,
		DeveloperURL: normalizeDeveloperURL(req.DeveloperURL),
		ProofMessage: proof,
		Status:       models.VerificationPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create verification request: %w", err)
	}
	return &request, nil
}

// Mine returns the caller's latest verification request.
func (s *VerificationService) Mine(userID uuid.UUID) (*models.VerificationRequest, error) {
	var latest models.VerificationRequest
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &latest, nil
}

func (s *VerificationService) List(status string, limit, offset int) ([]models.VerificationRequest, int64, error) {
	var requests []models.VerificationRequest
	var total int64

	query := s.db.Model(&models.VerificationRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Review finalizes a pending request. Approval also flips the requester's
// verified flag and stamps who approved it, in one transaction.
func (s *VerificationService) Review(requestID, reviewerID uuid.UUID, req *dto.ReviewVerificationRequest) (*models.VerificationRequest, error) {
	if req.Status != models.VerificationApproved && req.Status != models.VerificationRejected {
		return nil, fmt.Errorf("invalid status: %q", req.Status)
	}

	var request models.VerificationRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request.Status != models.VerificationPending {
		return nil, ErrAlreadyReviewed
	}

	var note *string
	if trimmed := strings.TrimSpace(req.ReviewNote); trimmed != "" {
		note = &trimmed
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request).Updates(map[string]interface{}{
			"status":      req.Status,
			"reviewer_id": reviewerID,
			"review_note": note,
		}).Error; err != nil {
			return err
		}
		if req.Status == models.VerificationApproved {
			now := time.Now()
			return tx.Model(&models.User{}).Where("id = ?", request.UserID).Updates(map[string]interface{}{
				"is_verified":    true,
				"verified_at":    now,
				"verified_by_id": reviewerID,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to review verification request: %w", err)
	}

	request.Status = req.Status
	request.ReviewerID = &reviewerID
	request.ReviewNote = note
	return &request, nil
}

// normalizeDeveloperURL keeps the URL only when it parses as http or https.
func normalizeDeveloperURL(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil
	}
	return &raw
}
