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

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post ID",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 200 {
		limit = 200
	}

	comments, total, err := h.commentService.List(postID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch comments",
		})
	}

	return c.JSON(fiber.Map{
		"comments": comments,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
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

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	comment, err := h.commentService.Create(userID, postID, &req)
	if err != nil {
		return commentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comment ID",
		})
	}

	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	comment, err := h.commentService.Update(userID, commentID, &req)
	if err != nil {
		return commentError(c, err)
	}

	return c.JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comment ID",
		})
	}

	if err := h.commentService.SoftDelete(userID, commentID); err != nil {
		return commentError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}

// AdminDelete soft-deletes any comment on behalf of a moderator or admin.
func (h *CommentHandler) AdminDelete(c *fiber.Ctx) error {
	actorID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comment ID",
		})
	}

	if err := h.commentService.ModeratorDelete(actorID, commentID); err != nil {
		return commentError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}

func commentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCommentNotFound), errors.Is(err, services.ErrPostNotFound):
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
