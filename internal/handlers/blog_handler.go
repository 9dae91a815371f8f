package handlers

import (
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BlogHandler struct {
	blogService *services.BlogService
}

func NewBlogHandler(blogService *services.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

func (h *BlogHandler) List(c *fiber.Ctx) error {
	var q dto.BlogListQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	resp, err := h.blogService.List(c.UserContext(), identity.User(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *BlogHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid blog ID")
	}

	blog, err := h.blogService.Get(c.UserContext(), identity.User(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blog)
}

func (h *BlogHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBlogRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	blog, err := h.blogService.Create(c.UserContext(), identity.User(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

func (h *BlogHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid blog ID")
	}

	var req dto.UpdateBlogRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	blog, err := h.blogService.Update(c.UserContext(), identity.User(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blog)
}

func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid blog ID")
	}

	if err := h.blogService.Delete(c.UserContext(), identity.User(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Blog deleted"})
}

func (h *BlogHandler) Like(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid blog ID")
	}

	resp, err := h.blogService.Like(c.UserContext(), identity.User(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
