package handlers

import (
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	userService *services.UserService
	blogService *services.BlogService
}

func NewAdminHandler(userService *services.UserService, blogService *services.BlogService) *AdminHandler {
	return &AdminHandler{userService: userService, blogService: blogService}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	resp, err := h.userService.List(c.UserContext(), c.QueryInt("limit", services.DefaultPageSize), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateRole(c.UserContext(), identity.User(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.userService.Delete(c.UserContext(), identity.User(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted"})
}

// RecountComments repairs comments_count drift on every blog.
func (h *AdminHandler) RecountComments(c *fiber.Ctx) error {
	resp, err := h.blogService.RecountComments(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
