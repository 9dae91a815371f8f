package handlers

import (
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	blogID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid blog ID")
	}

	resp, err := h.commentService.List(c.UserContext(), identity.User(c), blogID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	blogID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid blog ID")
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.commentService.Create(c.UserContext(), identity.User(c), blogID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid comment ID")
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.commentService.Update(c.UserContext(), identity.User(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid comment ID")
	}

	if err := h.commentService.Delete(c.UserContext(), identity.User(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Comment deleted"})
}
