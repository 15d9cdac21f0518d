package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/dto"
	"github.com/playtesters/community-backend/internal/services"
	"github.com/playtesters/community-backend/internal/session"
)

type PostHandler struct {
	postService       *services.PostService
	engagementService *services.EngagementService
}

func NewPostHandler(postService *services.PostService, engagementService *services.EngagementService) *PostHandler {
	return &PostHandler{postService: postService, engagementService: engagementService}
}

func (h *PostHandler) Feed(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := &dto.FeedQuery{
		Page:     page,
		Limit:    limit,
		Search:   c.Query("q", ""),
		TagSlug:  c.Query("tag", ""),
		Verified: c.Query("verified", "") == "true",
		Sort:     c.Query("sort", "newest"),
	}

	posts, total, err := h.postService.Feed(query)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch posts",
		})
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post ID",
		})
	}

	post, err := h.postService.Get(postID)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch post",
		})
	}

	return c.JSON(post)
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	post, err := h.postService.Create(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post ID",
		})
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	post, err := h.postService.Update(userID, postID, &req)
	if err != nil {
		return postError(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post ID",
		})
	}

	if err := h.postService.SoftDelete(userID, postID); err != nil {
		return postError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post ID",
		})
	}

	liked, count, err := h.engagementService.ToggleLike(userID, postID)
	if err != nil {
		return postError(c, err)
	}

	return c.JSON(fiber.Map{"liked": liked, "like_count": count})
}

func (h *PostHandler) ToggleSave(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post ID",
		})
	}

	saved, count, err := h.engagementService.ToggleSave(userID, postID)
	if err != nil {
		return postError(c, err)
	}

	return c.JSON(fiber.Map{"saved": saved, "save_count": count})
}

func (h *PostHandler) Saved(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	posts, total, err := h.engagementService.SavedPosts(userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch saved posts",
		})
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// postError maps post-service sentinel errors to HTTP statuses.
func postError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
}
