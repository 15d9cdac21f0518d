package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrSelfReport          = errors.New("you cannot report yourself")
	ErrInvalidReportStatus = errors.New("invalid report status")
)

const maxReportMessageLen = 2000

var reportStatuses = map[string]bool{
	models.ReportOpen:      true,
	models.ReportReviewing: true,
	models.ReportResolved:  true,
	models.ReportRejected:  true,
}

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

func (s *ReportService) Create(reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if err := validateCreateReport(reporterID, req); err != nil {
		return nil, err
	}

	report := models.Report{
		ID:           uuid.New(),
		ReporterID:   reporterID,
		TargetType:   req.TargetType,
		PostID:       req.PostID,
		CommentID:    req.CommentID,
		TargetUserID: req.TargetUserID,
		Reason:       req.Reason,
		Message:      strings.TrimSpace(req.Message),
		Status:       models.ReportOpen,
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ReportService) List(status, targetType string, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ReportService) Get(reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// Transition moves a report to nextStatus. Resolver id and note are persisted
// only on the terminal states and nulled on any other transition.
func (s *ReportService) Transition(reportID, resolverID uuid.UUID, req *dto.UpdateReportRequest) error {
	updates, err := transitionUpdates(req.Status, resolverID, req.ResolutionNote)
	if err != nil {
		return err
	}

	result := s.db.Model(&models.Report{}).Where("id = ?", reportID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

func validateCreateReport(reporterID uuid.UUID, req *dto.CreateReportRequest) error {
	if len(req.Message) > maxReportMessageLen {
		return fmt.Errorf("message must be at most %d characters", maxReportMessageLen)
	}

	reasonOK := false
	for _, r := range models.ReportReasons {
		if r == req.Reason {
			reasonOK = true
			break
		}
	}
	if !reasonOK {
		return fmt.Errorf("invalid reason: %q", req.Reason)
	}

	set := 0
	for _, id := range []*uuid.UUID{req.PostID, req.CommentID, req.TargetUserID} {
		if id != nil {
			set++
		}
	}
	if set != 1 {
		return errors.New("exactly one target id must be set")
	}

	switch req.TargetType {
	case models.ReportTargetPost:
		if req.PostID == nil {
			return errors.New("post_id is required for target_type post")
		}
	case models.ReportTargetComment:
		if req.CommentID == nil {
			return errors.New("comment_id is required for target_type comment")
		}
	case models.ReportTargetUser:
		if req.TargetUserID == nil {
			return errors.New("target_user_id is required for target_type user")
		}
		if *req.TargetUserID == reporterID {
			return ErrSelfReport
		}
	default:
		return fmt.Errorf("invalid target_type: %q", req.TargetType)
	}
	return nil
}

func transitionUpdates(nextStatus string, resolverID uuid.UUID, note string) (map[string]interface{}, error) {
	if !reportStatuses[nextStatus] {
		return nil, ErrInvalidReportStatus
	}

	updates := map[string]interface{}{"status": nextStatus}
	if nextStatus == models.ReportResolved || nextStatus == models.ReportRejected {
		updates["resolved_by_id"] = resolverID
		trimmed := strings.TrimSpace(note)
		if trimmed != "" {
			updates["resolution_note"] = trimmed
		} else {
			updates["resolution_note"] = nil
		}
	} else {
		updates["resolved_by_id"] = nil
		updates["resolution_note"] = nil
	}
	return updates, nil
}
