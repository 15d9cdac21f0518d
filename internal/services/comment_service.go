package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

const maxCommentLen = 2000

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) List(postID uuid.UUID, limit, offset int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	query := s.db.Model(&models.Comment{}).
		Scopes(models.NotDeleted).
		Where("post_id = ?", postID)
	query.Count(&total)

	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *CommentService) Create(authorID, postID uuid.UUID, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if err := validateCommentContent(req.Content); err != nil {
		return nil, err
	}

	var post models.Post
	if err := s.db.Scopes(models.PubliclyVisible).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

func (s *CommentService) Update(actorID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*models.Comment, error) {
	if err := validateCommentContent(req.Content); err != nil {
		return nil, err
	}

	comment, err := s.ownedComment(actorID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(comment).Update("content", req.Content).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) SoftDelete(actorID, commentID uuid.UUID) error {
	comment, err := s.ownedComment(actorID, commentID)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.Model(comment).Updates(map[string]interface{}{
		"is_deleted":    true,
		"deleted_at":    now,
		"deleted_by_id": actorID,
	}).Error
}

// ModeratorDelete soft-deletes any comment on behalf of a moderator.
func (s *CommentService) ModeratorDelete(actorID, commentID uuid.UUID) error {
	var comment models.Comment
	if err := s.db.Scopes(models.NotDeleted).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	now := time.Now()
	return s.db.Model(&comment).Updates(map[string]interface{}{
		"is_deleted":    true,
		"deleted_at":    now,
		"deleted_by_id": actorID,
	}).Error
}

func (s *CommentService) ownedComment(actorID, commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Scopes(models.NotDeleted).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.AuthorID != actorID {
		return nil, ErrNotOwner
	}
	return &comment, nil
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content is required")
	}
	if len(content) > maxCommentLen {
		return fmt.Errorf("content must be at most %d characters", maxCommentLen)
	}
	return nil
}
