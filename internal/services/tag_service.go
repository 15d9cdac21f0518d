package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound     = errors.New("tag not found")
	ErrSlugTaken       = errors.New("slug already in use")
	ErrEmptySlug       = errors.New("tag name produces an empty slug")
	ErrNothingToUpdate = errors.New("nothing to update")
	ErrTagInUse        = errors.New("tag is referenced by posts")
)

const (
	maxTagNameLen = 48
	maxSlugLen    = 64
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// Slugify derives a URL slug: lowercase, runs of non-alphanumerics collapsed
// to a single hyphen, trimmed, capped at 64 chars. Idempotent.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}

// TagWithCount is a tag plus the number of posts referencing it.
type TagWithCount struct {
	models.Tag
	PostCount int64 `json:"post_count"`
}

func (s *TagService) List() ([]TagWithCount, error) {
	var tags []TagWithCount
	err := s.db.Raw(`
		SELECT t.*, (SELECT COUNT(*) FROM post_tags pt WHERE pt.tag_id = t.id) AS post_count
		FROM tags t
		ORDER BY t.name ASC
	`).Scan(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *TagService) Create(req *dto.CreateTagRequest) (*models.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	if len(name) > maxTagNameLen {
		return nil, fmt.Errorf("name must be at most %d characters", maxTagNameLen)
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = name
	}
	slug = Slugify(slug)
	if slug == "" {
		return nil, ErrEmptySlug
	}

	var existing models.Tag
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrSlugTaken
	}

	tag := models.Tag{
		ID:   uuid.New(),
		Name: name,
		Slug: slug,
	}
	if err := s.db.Create(&tag).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &tag, nil
}

func (s *TagService) Update(tagID uuid.UUID, req *dto.UpdateTagRequest) (*models.Tag, error) {
	if req.Name == nil && req.Slug == nil {
		return nil, ErrNothingToUpdate
	}

	var tag models.Tag
	if err := s.db.First(&tag, "id = ?", tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.New("name cannot be empty")
		}
		if len(name) > maxTagNameLen {
			return nil, fmt.Errorf("name must be at most %d characters", maxTagNameLen)
		}
		updates["name"] = name
	}
	if req.Slug != nil {
		slug := Slugify(*req.Slug)
		if slug == "" {
			return nil, ErrEmptySlug
		}
		if slug != tag.Slug {
			var existing models.Tag
			if err := s.db.Where("slug = ? AND id <> ?", slug, tagID).First(&existing).Error; err == nil {
				return nil, ErrSlugTaken
			}
		}
		updates["slug"] = slug
	}

	if err := s.db.Model(&tag).Updates(updates).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}
	return &tag, nil
}

// isDuplicateKey spots a unique-constraint violation that raced past the
// pre-insert slug check.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Delete removes a tag unless any post still references it. The referencing
// count rides on the returned error so the handler can surface it.
func (s *TagService) Delete(tagID uuid.UUID) error {
	var tag models.Tag
	if err := s.db.First(&tag, "id = ?", tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	var refs int64
	if err := s.db.Table("post_tags").Where("tag_id = ?", tagID).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to count tag references: %w", err)
	}
	if err := tagReferenceConflict(refs); err != nil {
		return err
	}

	return s.db.Delete(&tag).Error
}

// tagReferenceConflict blocks deletion while posts still reference the tag,
// with the reference count in the error for the dashboard.
func tagReferenceConflict(refs int64) error {
	if refs == 0 {
		return nil
	}
	return fmt.Errorf("tag is used by %d post(s), remove it from them first: %w", refs, ErrTagInUse)
}
