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
	ErrPostNotFound  = errors.New("post not found")
	ErrNotOwner      = errors.New("you do not own this resource")
	ErrInvalidAction = errors.New("invalid moderation action")
	ErrMissingAction = errors.New("action is required")
)

// Feed sort keys.
var feedSortOrders = map[string]string{
	"newest":         "p.created_at DESC",
	"most_liked":     "like_count DESC, p.created_at DESC",
	"most_saved":     "save_count DESC, p.created_at DESC",
	"most_commented": "comment_count DESC, p.created_at DESC",
}

type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// FeedPost is a post plus recomputed engagement counts. Counts are never
// cached on the row, so a read is always consistent.
type FeedPost struct {
	models.Post
	LikeCount    int64 `json:"like_count"`
	SaveCount    int64 `json:"save_count"`
	CommentCount int64 `json:"comment_count"`
}

func (s *PostService) Create(authorID uuid.UUID, req *dto.CreatePostRequest) (*models.Post, error) {
	if err := validatePostFields(req); err != nil {
		return nil, err
	}

	post := models.Post{
		ID:               uuid.New(),
		AuthorID:         authorID,
		Title:            strings.TrimSpace(req.Title),
		Body:             req.Body,
		PlayStoreURL:     req.PlayStoreURL,
		TestingURL:       req.TestingURL,
		ModerationStatus: models.ModerationOK,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := s.replaceAssociations(tx, &post, req.Tags, req.Images); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &post, nil
}

func (s *PostService) Update(actorID, postID uuid.UUID, req *dto.UpdatePostRequest) (*models.Post, error) {
	if err := validatePostFields(req); err != nil {
		return nil, err
	}

	var post models.Post
	if err := s.db.Scopes(models.NotDeleted).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, ErrNotOwner
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&post).Updates(map[string]interface{}{
			"title":          strings.TrimSpace(req.Title),
			"body":           req.Body,
			"play_store_url": req.PlayStoreURL,
			"testing_url":    req.TestingURL,
		}).Error; err != nil {
			return err
		}
		return s.replaceAssociations(tx, &post, req.Tags, req.Images)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return &post, nil
}

// SoftDelete marks the post deleted on behalf of its author.
func (s *PostService) SoftDelete(actorID, postID uuid.UUID) error {
	var post models.Post
	if err := s.db.Scopes(models.NotDeleted).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.AuthorID != actorID {
		return ErrNotOwner
	}

	now := time.Now()
	return s.db.Model(&post).Updates(map[string]interface{}{
		"is_deleted":    true,
		"deleted_at":    now,
		"deleted_by_id": actorID,
	}).Error
}

func (s *PostService) Feed(q *dto.FeedQuery) ([]FeedPost, int64, error) {
	where := "p.is_deleted = false AND p.moderation_status <> 'hidden'"
	args := []interface{}{}

	if q.Search != "" {
		where += " AND (p.title ILIKE ? OR p.body ILIKE ?)"
		like := "%" + q.Search + "%"
		args = append(args, like, like)
	}
	if q.TagSlug != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = p.id AND t.slug = ?)`
		args = append(args, q.TagSlug)
	}
	if q.Verified {
		where += ` AND EXISTS (
			SELECT 1 FROM users u WHERE u.id = p.author_id AND u.is_verified = true)`
	}

	var total int64
	countSQL := "SELECT COUNT(*) FROM posts p WHERE " + where
	if err := s.db.Raw(countSQL, args...).Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count feed: %w", err)
	}

	order, ok := feedSortOrders[q.Sort]
	if !ok {
		order = feedSortOrders["newest"]
	}

	type feedRow struct {
		ID           uuid.UUID
		LikeCount    int64
		SaveCount    int64
		CommentCount int64
	}

	rowsSQL := `
		SELECT p.id,
			(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
			(SELECT COUNT(*) FROM saves sv WHERE sv.post_id = p.id) AS save_count,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND c.is_deleted = false) AS comment_count
		FROM posts p
		WHERE ` + where + `
		ORDER BY ` + order + `
		OFFSET ? LIMIT ?`
	args = append(args, (q.Page-1)*q.Limit, q.Limit)

	var rows []feedRow
	if err := s.db.Raw(rowsSQL, args...).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query feed: %w", err)
	}
	if len(rows) == 0 {
		return []FeedPost{}, total, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	var posts []models.Post
	if err := s.db.Preload("Tags").Preload("Images").Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	byID := make(map[uuid.UUID]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	feed := make([]FeedPost, 0, len(rows))
	for _, r := range rows {
		p, ok := byID[r.ID]
		if !ok {
			continue
		}
		feed = append(feed, FeedPost{
			Post:         p,
			LikeCount:    r.LikeCount,
			SaveCount:    r.SaveCount,
			CommentCount: r.CommentCount,
		})
	}
	return feed, total, nil
}

// Get returns a publicly visible post with recomputed counts.
func (s *PostService) Get(postID uuid.UUID) (*FeedPost, error) {
	var post models.Post
	err := s.db.Scopes(models.PubliclyVisible).
		Preload("Tags").Preload("Images").
		First(&post, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.withCounts(&post)
}

// AdminGet returns any post, soft-deleted and hidden included.
func (s *PostService) AdminGet(postID uuid.UUID) (*FeedPost, error) {
	var post models.Post
	err := s.db.Preload("Tags").Preload("Images").First(&post, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.withCounts(&post)
}

// AdminList returns posts for the moderation dashboard, optionally filtered
// by moderation status, with soft-deleted rows included.
func (s *PostService) AdminList(status string, limit, offset int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := s.db.Model(&models.Post{})
	if status != "" {
		query = query.Where("moderation_status = ?", status)
	}
	query.Count(&total)

	err := query.Preload("Tags").Preload("Images").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Moderate applies a moderation action. Concurrent actions on the same post
// are last-write-wins; there is no version token.
func (s *PostService) Moderate(postID, actorID uuid.UUID, action string) error {
	updates, err := moderationUpdates(action, actorID, time.Now())
	if err != nil {
		return err
	}

	result := s.db.Model(&models.Post{}).Where("id = ?", postID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// moderationUpdates maps an action tag onto the column updates it implies.
func moderationUpdates(action string, actorID uuid.UUID, now time.Time) (map[string]interface{}, error) {
	switch action {
	case "":
		return nil, ErrMissingAction
	case "mark_ok":
		return map[string]interface{}{"moderation_status": models.ModerationOK}, nil
	case "mark_needs_fix":
		return map[string]interface{}{"moderation_status": models.ModerationNeedsFix}, nil
	case "hide":
		return map[string]interface{}{"moderation_status": models.ModerationHidden}, nil
	case "soft_delete":
		return map[string]interface{}{
			"is_deleted":    true,
			"deleted_at":    now,
			"deleted_by_id": actorID,
		}, nil
	case "restore":
		return map[string]interface{}{
			"is_deleted":    false,
			"deleted_at":    nil,
			"deleted_by_id": nil,
		}, nil
	default:
		return nil, ErrInvalidAction
	}
}

func (s *PostService) withCounts(post *models.Post) (*FeedPost, error) {
	fp := FeedPost{Post: *post}
	s.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&fp.LikeCount)
	s.db.Model(&models.Save{}).Where("post_id = ?", post.ID).Count(&fp.SaveCount)
	s.db.Model(&models.Comment{}).Where("post_id = ? AND is_deleted = false", post.ID).Count(&fp.CommentCount)
	return &fp, nil
}

// replaceAssociations swaps the post's tag and image sets inside the caller's
// transaction. Tags are resolved by slug, created on first use.
func (s *PostService) replaceAssociations(tx *gorm.DB, post *models.Post, tagNames, imageURLs []string) error {
	tags := make([]models.Tag, 0, len(tagNames))
	seen := make(map[string]bool, len(tagNames))
	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		var tag models.Tag
		if err := tx.Where("slug = ?", slug).First(&tag).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			tag = models.Tag{ID: uuid.New(), Name: name, Slug: slug}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
		}
		tags = append(tags, tag)
	}
	if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
		return err
	}

	if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostImage{}).Error; err != nil {
		return err
	}
	for i, u := range imageURLs {
		img := models.PostImage{
			ID:       uuid.New(),
			PostID:   post.ID,
			URL:      u,
			Position: i,
		}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
	}
	post.Tags = tags
	return nil
}

func validatePostFields(req *dto.CreatePostRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.New("title is required")
	}
	if len(req.Title) > 200 {
		return errors.New("title must be at most 200 characters")
	}
	if strings.TrimSpace(req.Body) == "" {
		return errors.New("body is required")
	}
	for _, link := range []string{req.PlayStoreURL, req.TestingURL} {
		if link == "" {
			continue
		}
		parsed, err := url.Parse(link)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("invalid link: %s", link)
		}
	}
	return nil
}
