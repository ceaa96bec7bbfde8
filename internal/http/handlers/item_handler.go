package handlers

import (
	"math"

	"github.com/gofiber/fiber/v2"

	applog "ministore/internal/log"
	"ministore/internal/services"
)

type ItemHandler struct {
	Items *services.ItemService
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	items, total, err := h.Items.List(page, limit, c.Query("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
		"pagination": fiber.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	item, err := h.Items.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, item)
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var req services.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	item, err := h.Items.Create(req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "item.create", map[string]any{"item_id": item.ID, "item_code": item.ItemCode})
	return created(c, item)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var req services.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	item, err := h.Items.Update(c.Params("id"), req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "item.update", map[string]any{"item_id": item.ID})
	return ok(c, item)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Items.Delete(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "item.delete", map[string]any{"item_id": id})
	return c.JSON(fiber.Map{"success": true, "message": "Item deleted successfully"})
}

func (h *ItemHandler) ListCategories(c *fiber.Ctx) error {
	cats, err := h.Items.ListCategories()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cats)
}

func (h *ItemHandler) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	cat, err := h.Items.CreateCategory(req.Name)
	if err != nil {
		return fail(c, err)
	}
	return created(c, cat)
}
