package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/models"
	"gorm.io/gorm"
)

// EngagementService implements like/save toggles. Counts are recomputed from
// membership rows on every call instead of being cached on the post.
type EngagementService struct {
	db *gorm.DB
}

func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{db: db}
}

// membershipOps abstracts one membership table (likes or saves) so the toggle
// runs identically for both.
type membershipOps struct {
	find   func(userID, postID uuid.UUID) (bool, error)
	add    func(userID, postID uuid.UUID) error
	remove func(userID, postID uuid.UUID) error
	count  func(postID uuid.UUID) (int64, error)
}

// toggleMembership flips the caller's membership and returns the new state
// plus the fresh count. Flipping twice lands back on the starting state.
func toggleMembership(ops membershipOps, userID, postID uuid.UUID) (bool, int64, error) {
	exists, err := ops.find(userID, postID)
	if err != nil {
		return false, 0, err
	}

	if exists {
		if err := ops.remove(userID, postID); err != nil {
			return false, 0, err
		}
		count, err := ops.count(postID)
		return false, count, err
	}

	if err := ops.add(userID, postID); err != nil {
		return false, 0, err
	}
	count, err := ops.count(postID)
	return true, count, err
}

// ToggleLike flips the caller's like on a post.
func (s *EngagementService) ToggleLike(userID, postID uuid.UUID) (bool, int64, error) {
	if err := s.visiblePost(postID); err != nil {
		return false, 0, err
	}
	return toggleMembership(s.likeOps(), userID, postID)
}

// ToggleSave flips the caller's bookmark on a post.
func (s *EngagementService) ToggleSave(userID, postID uuid.UUID) (bool, int64, error) {
	if err := s.visiblePost(postID); err != nil {
		return false, 0, err
	}
	return toggleMembership(s.saveOps(), userID, postID)
}

func (s *EngagementService) likeOps() membershipOps {
	return membershipOps{
		find: func(userID, postID uuid.UUID) (bool, error) {
			var like models.Like
			err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return err == nil, err
		},
		add: func(userID, postID uuid.UUID) error {
			like := models.Like{ID: uuid.New(), PostID: postID, UserID: userID}
			if err := s.db.Create(&like).Error; err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			return nil
		},
		remove: func(userID, postID uuid.UUID) error {
			err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
			if err != nil {
				return fmt.Errorf("failed to remove like: %w", err)
			}
			return nil
		},
		count: s.likeCount,
	}
}

func (s *EngagementService) saveOps() membershipOps {
	return membershipOps{
		find: func(userID, postID uuid.UUID) (bool, error) {
			var save models.Save
			err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&save).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return err == nil, err
		},
		add: func(userID, postID uuid.UUID) error {
			save := models.Save{ID: uuid.New(), PostID: postID, UserID: userID}
			if err := s.db.Create(&save).Error; err != nil {
				return fmt.Errorf("failed to create save: %w", err)
			}
			return nil
		},
		remove: func(userID, postID uuid.UUID) error {
			err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Save{}).Error
			if err != nil {
				return fmt.Errorf("failed to remove save: %w", err)
			}
			return nil
		},
		count: s.saveCount,
	}
}

// SavedPosts lists the caller's bookmarked posts, newest bookmark first.
func (s *EngagementService) SavedPosts(userID uuid.UUID, limit, offset int) ([]models.Post, int64, error) {
	var total int64
	s.db.Model(&models.Save{}).Where("user_id = ?", userID).Count(&total)

	var posts []models.Post
	err := s.db.Preload("Tags").Preload("Images").
		Joins("JOIN saves ON saves.post_id = posts.id").
		Where("saves.user_id = ?", userID).
		Scopes(models.NotDeleted).
		Order("saves.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *EngagementService) visiblePost(postID uuid.UUID) error {
	var post models.Post
	if err := s.db.Scopes(models.PubliclyVisible).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

func (s *EngagementService) likeCount(postID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (s *EngagementService) saveCount(postID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Save{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
